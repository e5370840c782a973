package codeaction

import "strings"

// layout answers formatting questions about the text a fix is computed from
type layout struct {
	text string
	nl   string
	unit string
}

func newLayout(text string) layout {
	nl := "\n"
	if strings.Contains(text, "\r\n") {
		nl = "\r\n"
	}
	return layout{text: text, nl: nl, unit: indentUnit(text)}
}

// indentUnit is a tab when any line is tab indented, otherwise the smallest
// run of leading spaces, defaulting to four
func indentUnit(text string) string {
	smallest := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "\t") {
			return "\t"
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if n == 0 || n == len(line) {
			continue
		}
		if smallest == 0 || n < smallest {
			smallest = n
		}
	}
	if smallest < 2 || smallest > 8 {
		smallest = 4
	}
	return strings.Repeat(" ", smallest)
}

func (l layout) lineStart(offset int) int {
	return strings.LastIndexByte(l.text[:offset], '\n') + 1
}

// lineEnd is the offset of the terminator of the line holding offset
func (l layout) lineEnd(offset int) int {
	i := strings.IndexByte(l.text[offset:], '\n')
	if i < 0 {
		return len(l.text)
	}
	end := offset + i
	if end > 0 && l.text[end-1] == '\r' {
		end--
	}
	return end
}

// lineBreakEnd is the offset just past the terminator of the line holding offset
func (l layout) lineBreakEnd(offset int) int {
	i := strings.IndexByte(l.text[offset:], '\n')
	if i < 0 {
		return len(l.text)
	}
	return offset + i + 1
}

func (l layout) indentAt(offset int) string {
	start := l.lineStart(offset)
	end := start
	for end < len(l.text) && (l.text[end] == ' ' || l.text[end] == '\t') {
		end++
	}
	return l.text[start:end]
}

func (l layout) blankBefore(offset int) bool {
	return strings.TrimSpace(l.text[l.lineStart(offset):offset]) == ""
}

// braceOnNewLine reports whether the '{' at brace sits on a later line than from
func (l layout) braceOnNewLine(from, brace int) bool {
	return from < brace && strings.Contains(l.text[from:brace], "\n")
}

// line is one generated source line, depth levels deeper than its anchor
type line struct {
	depth int
	text  string
}

func (l layout) render(base string, lines []line) string {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(l.nl)
		if ln.text == "" {
			continue
		}
		b.WriteString(base)
		b.WriteString(strings.Repeat(l.unit, ln.depth))
		b.WriteString(ln.text)
	}
	return b.String()
}

// block emits a header followed by braces in the requested style
func block(header string, newLineBrace bool, body ...line) []line {
	var out []line
	if newLineBrace {
		out = append(out, line{text: header}, line{text: "{"})
	} else {
		out = append(out, line{text: header + " {"})
	}
	for _, b := range body {
		out = append(out, line{depth: b.depth + 1, text: b.text})
	}
	return append(out, line{text: "}"})
}
