package workspace

// Snapshot files describe a compiled project. Definitions are referenced by
// id; id 0 means none. JSON and msgpack encodings share the json tags.

type SnapshotRecord struct {
	Definitions []DefinitionRecord `json:"definitions"`
	Units       []UnitRecord       `json:"units"`
	Includes    []IncludeRecord    `json:"includes,omitempty"`
}

type DefinitionRecord struct {
	ID         int           `json:"id"`
	Kind       string        `json:"kind"`
	Name       string        `json:"name"`
	Package    string        `json:"package,omitempty"`
	Access     string        `json:"access,omitempty"`
	Static     bool          `json:"static,omitempty"`
	Path       string        `json:"path,omitempty"`
	NameStart  int           `json:"nameStart,omitempty"`
	NameEnd    int           `json:"nameEnd,omitempty"`
	Parent     int           `json:"parent,omitempty"`
	Type       string        `json:"type,omitempty"`
	TypeDef    int           `json:"typeDef,omitempty"`
	ReturnType string        `json:"returnType,omitempty"`
	Params     []ParamRecord `json:"params,omitempty"`
	Base       int           `json:"base,omitempty"`
	Interfaces []int         `json:"interfaces,omitempty"`
	Events     []EventRecord `json:"events,omitempty"`
}

type ParamRecord struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Rest     bool   `json:"rest,omitempty"`
}

type EventRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// UnitRecord is one compilation unit. Source units without text are read
// from disk.
type UnitRecord struct {
	Path        string      `json:"path"`
	Kind        string      `json:"kind"`
	Text        *string     `json:"text,omitempty"`
	Definitions []int       `json:"definitions,omitempty"`
	ScopeError  string      `json:"scopeError,omitempty"`
	AST         *NodeRecord `json:"ast,omitempty"`
	Markup      *TagRecord  `json:"markup,omitempty"`
}

type NodeRecord struct {
	Kind     string        `json:"kind"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Name     string        `json:"name,omitempty"`
	Value    string        `json:"value,omitempty"`
	Literal  string        `json:"literal,omitempty"`
	Type     string        `json:"type,omitempty"`
	Def      int           `json:"def,omitempty"`
	Children []*NodeRecord `json:"children,omitempty"`
}

type TagRecord struct {
	Prefix       string            `json:"prefix,omitempty"`
	Name         string            `json:"name"`
	URI          string            `json:"uri,omitempty"`
	Start        int               `json:"start"`
	End          int               `json:"end"`
	PrefixStart  int               `json:"prefixStart,omitempty"`
	PrefixEnd    int               `json:"prefixEnd,omitempty"`
	NameStart    int               `json:"nameStart"`
	NameEnd      int               `json:"nameEnd"`
	StartTagEnd  int               `json:"startTagEnd"`
	ContentStart int               `json:"contentStart,omitempty"`
	ContentEnd   int               `json:"contentEnd,omitempty"`
	Def          int               `json:"def,omitempty"`
	Attributes   []AttributeRecord `json:"attributes,omitempty"`
	Children     []*TagRecord      `json:"children,omitempty"`
}

type AttributeRecord struct {
	Name       string `json:"name"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	NameStart  int    `json:"nameStart"`
	NameEnd    int    `json:"nameEnd"`
	ValueStart int    `json:"valueStart"`
	ValueEnd   int    `json:"valueEnd"`
	Value      string `json:"value"`
	Def        int    `json:"def,omitempty"`
}

type IncludeRecord struct {
	Path   string      `json:"path"`
	Parent string      `json:"parent"`
	Cues   []CueRecord `json:"cues"`
}

type CueRecord struct {
	Local      int `json:"local"`
	Adjustment int `json:"adjustment"`
}
