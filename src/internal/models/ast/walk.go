package ast

// Walk visits n and its descendants in source order. Returning false from
// visit skips the children of that node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// NodeAt returns the deepest node covering offset in the host tree. Markup
// specifiers are not entered: their content is reached through EmbeddedNodeAt.
func NodeAt(root *Node, offset int) *Node {
	if root == nil || !root.Contains(offset) {
		return nil
	}
	return deepest(root, offset, false)
}

// EmbeddedNodeAt returns the deepest node covering offset inside one of the
// given markup specifiers, or nil when offset lies outside all of them.
func EmbeddedNodeAt(specifiers []*Node, offset int) *Node {
	for _, s := range specifiers {
		if s == nil || !s.Contains(offset) {
			continue
		}
		for _, c := range s.Children {
			if c.Contains(offset) {
				return deepest(c, offset, true)
			}
		}
	}
	return nil
}

func deepest(n *Node, offset int, embedded bool) *Node {
	for {
		next := (*Node)(nil)
		for _, c := range n.Children {
			if c.Kind == KindMarkupSpecifier && !embedded {
				continue
			}
			if c.Contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// Identifiers collects the identifier nodes under n, embedded regions included
func Identifiers(n *Node) []*Node {
	var out []*Node
	Walk(n, func(c *Node) bool {
		if c.Kind == KindIdentifier {
			out = append(out, c)
		}
		return true
	})
	return out
}
