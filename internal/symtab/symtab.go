package symtab

// Location identifies the source position of a symbol.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// FieldInfo describes a single field of a struct type.
type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Tag      string `json:"tag,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Embedded bool   `json:"embedded,omitempty"`
	Exported bool   `json:"exported"`
}

// FuncInfo describes a method in a type's method set.
type FuncInfo struct {
	Name       string   `json:"name"`
	Package    string   `json:"package"`
	Receiver   string   `json:"receiver,omitempty"`
	Signature  string   `json:"signature"`
	Doc        string   `json:"doc,omitempty"`
	IsPromoted bool     `json:"is_promoted,omitempty"`
	Location   Location `json:"location"`
}

// TypeKind classifies a named type.
type TypeKind string

const (
	TypeKindStruct    TypeKind = "struct"
	TypeKindInterface TypeKind = "interface"
	TypeKindAlias     TypeKind = "alias"
	TypeKindOther     TypeKind = "other"
)

// Directive holds the member lists a type declares with //describe:fields
// and //describe:methods comment directives.
type Directive struct {
	HasFields bool `json:"has_fields"`
	// AllFields is set by a bare //describe:fields, meaning every field in order.
	AllFields  bool     `json:"all_fields,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	HasMethods bool     `json:"has_methods"`
	Methods    []string `json:"methods,omitempty"`
	Location   Location `json:"location"`
}

// TypeInfo describes a named type and its description directives.
type TypeInfo struct {
	Name      string      `json:"name"`
	Package   string      `json:"package"`
	Kind      TypeKind    `json:"kind"`
	Generic   bool        `json:"generic,omitempty"`
	Fields    []FieldInfo `json:"fields,omitempty"`  // struct fields, embedded ones included
	Methods   []FuncInfo  `json:"methods,omitempty"` // method set of the pointer type
	Doc       string      `json:"doc,omitempty"`
	Directive *Directive  `json:"directive,omitempty"`
	Problems  []string    `json:"problems,omitempty"`
	Location  Location    `json:"location"`
}

// Described reports whether the type carries a description directive.
func (t *TypeInfo) Described() bool {
	return t.Directive != nil
}

// FieldNames returns the names of the referenceable fields in declaration order.
func (t *TypeInfo) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "_" {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

// MethodNames returns the names of the type's methods.
func (t *TypeInfo) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for _, m := range t.Methods {
		names = append(names, m.Name)
	}
	return names
}

// DeclaredFields returns the field list the directive declares, expanding a
// bare directive to every field.
func (t *TypeInfo) DeclaredFields() []string {
	if t.Directive == nil || !t.Directive.HasFields {
		return nil
	}
	if t.Directive.AllFields {
		return t.FieldNames()
	}
	return t.Directive.Fields
}

// PackageInfo holds the indexed types of a single Go package.
type PackageInfo struct {
	ImportPath string     `json:"import_path"`
	Name       string     `json:"name"`
	Dir        string     `json:"dir"`
	Files      []string   `json:"files"`
	Types      []TypeInfo `json:"types"`
}

// Problems returns the problems of every type in the package.
func (p *PackageInfo) Problems() []string {
	var out []string
	for _, t := range p.Types {
		out = append(out, t.Problems...)
	}
	return out
}

// TypeRef is a lightweight reference returned by cross-package type search.
type TypeRef struct {
	Name      string   `json:"name"`
	Package   string   `json:"package"`
	Kind      TypeKind `json:"kind"`
	Described bool     `json:"described"`
	Problems  int      `json:"problems,omitempty"`
	Location  Location `json:"location"`
}
