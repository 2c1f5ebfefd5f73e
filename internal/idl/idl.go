// Package idl defines the syntax tree produced by the WebIDL parser.
package idl

import "strings"

// Node is implemented by every syntax node.
type Node interface {
	NodeBase() *Base
}

// Base carries the source position of a node.
type Base struct {
	Start  int `json:"start"` // byte offset
	End    int `json:"end"`   // byte offset, exclusive
	Line   int `json:"line"`  // 1-based
	Column int `json:"column"`
}

// NodeBase returns the position information of the node.
func (b *Base) NodeBase() *Base {
	return b
}

// File is the root node of a parsed WebIDL document.
type File struct {
	Base
	Definitions []Definition `json:"definitions,omitempty"`
}

// Definition is a top-level construct: interface, dictionary, enum, etc.
type Definition interface {
	Node
	Kind() string
	definition()
}

// Member is a construct nested inside an interface, mixin, dictionary or namespace.
type Member interface {
	Node
	Kind() string
	member()
}

// Type is a type reference. All shapes share the nullable flag.
type Type interface {
	Node
	IsNullable() bool
}

// Interface is `[partial|callback] interface Name : Inherits { ... };`.
type Interface struct {
	Base
	Name        string        `json:"name"`
	Inherits    string        `json:"inherits,omitempty"`
	Partial     bool          `json:"partial,omitempty"`
	Callback    bool          `json:"callback,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []Member      `json:"members,omitempty"`
}

func (*Interface) definition() {}

// Kind reports "interface" or "callback interface".
func (n *Interface) Kind() string {
	if n.Callback {
		return "callback interface"
	}
	return "interface"
}

// Mixin is `interface mixin Name { ... };`.
type Mixin struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []Member      `json:"members,omitempty"`
}

func (*Mixin) definition()  {}
func (*Mixin) Kind() string { return "interface mixin" }

// Dictionary is `dictionary Name : Inherits { ... };`.
type Dictionary struct {
	Base
	Name        string        `json:"name"`
	Inherits    string        `json:"inherits,omitempty"`
	Partial     bool          `json:"partial,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []Member      `json:"members,omitempty"`
}

func (*Dictionary) definition()  {}
func (*Dictionary) Kind() string { return "dictionary" }

// Namespace is `namespace Name { ... };`.
type Namespace struct {
	Base
	Name        string        `json:"name"`
	Partial     bool          `json:"partial,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Members     []Member      `json:"members,omitempty"`
}

func (*Namespace) definition()  {}
func (*Namespace) Kind() string { return "namespace" }

// Enum is `enum Name { "a", "b" };`. Values are unquoted.
type Enum struct {
	Base
	Name        string        `json:"name"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Values      []string      `json:"values,omitempty"`
}

func (*Enum) definition()  {}
func (*Enum) Kind() string { return "enum" }

// Callback is `callback Name = Return (params);`.
type Callback struct {
	Base
	Name        string        `json:"name"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Return      Type          `json:"return"`
	Parameters  []*Parameter  `json:"parameters,omitempty"`
}

func (*Callback) definition()  {}
func (*Callback) Kind() string { return "callback" }

// Typedef is `typedef Type Name;`.
type Typedef struct {
	Base
	Name        string        `json:"name"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Type        Type          `json:"type"`
}

func (*Typedef) definition()  {}
func (*Typedef) Kind() string { return "typedef" }

// Includes is `Name includes Source;`.
type Includes struct {
	Base
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (*Includes) definition()  {}
func (*Includes) Kind() string { return "includes" }

// Implementation is the legacy `Name implements Source;` statement.
type Implementation struct {
	Base
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (*Implementation) definition()  {}
func (*Implementation) Kind() string { return "implements" }

// Attribute is `[static|inherit|stringifier] [readonly] attribute Type Name;`.
type Attribute struct {
	Base
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Readonly    bool          `json:"readonly,omitempty"`
	Static      bool          `json:"static,omitempty"`
	Inherit     bool          `json:"inherit,omitempty"`
	Stringifier bool          `json:"stringifier,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Attribute) member()      {}
func (*Attribute) Kind() string { return "attribute" }

// Operation is a regular or special operation. Name is empty for unnamed specials.
type Operation struct {
	Base
	Name        string        `json:"name,omitempty"`
	Return      Type          `json:"return"`
	Parameters  []*Parameter  `json:"parameters,omitempty"`
	Static      bool          `json:"static,omitempty"`
	Special     string        `json:"special,omitempty"` // getter, setter, deleter, stringifier
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Operation) member()      {}
func (*Operation) Kind() string { return "operation" }

// Constructor is `constructor(params);`.
type Constructor struct {
	Base
	Parameters  []*Parameter  `json:"parameters,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Constructor) member()      {}
func (*Constructor) Kind() string { return "constructor" }

// Field is a dictionary member.
type Field struct {
	Base
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Required    bool          `json:"required,omitempty"`
	Default     *Literal      `json:"default,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Field) member()      {}
func (*Field) Kind() string { return "field" }

// Const is `const Type Name = Value;`.
type Const struct {
	Base
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Value       *Literal      `json:"value"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Const) member()      {}
func (*Const) Kind() string { return "const" }

// Iterable is `[async] iterable<V>` or `[async] iterable<K, V>`.
type Iterable struct {
	Base
	Async       bool          `json:"async,omitempty"`
	Types       []Type        `json:"types"`
	Parameters  []*Parameter  `json:"parameters,omitempty"` // async iterable arguments
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Iterable) member()      {}
func (*Iterable) Kind() string { return "iterable" }

// Maplike is `[readonly] maplike<K, V>;`.
type Maplike struct {
	Base
	Readonly    bool          `json:"readonly,omitempty"`
	Key         Type          `json:"key"`
	Value       Type          `json:"value"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Maplike) member()      {}
func (*Maplike) Kind() string { return "maplike" }

// Setlike is `[readonly] setlike<T>;`.
type Setlike struct {
	Base
	Readonly    bool          `json:"readonly,omitempty"`
	Elem        Type          `json:"elem"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (*Setlike) member()      {}
func (*Setlike) Kind() string { return "setlike" }

// CustomOp is a bare keyword member: `stringifier;`, `serializer;`, `jsonifier;`.
type CustomOp struct {
	Base
	Name string `json:"name"`
}

func (*CustomOp) member() {}

// Kind reports the keyword, e.g. "serializer".
func (n *CustomOp) Kind() string { return n.Name }

// TypeName is a named type such as `long`, `DOMString` or `Node`.
type TypeName struct {
	Base
	Name        string        `json:"name"`
	Nullable    bool          `json:"nullable,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

// IsNullable reports whether the type was suffixed with `?`.
func (t *TypeName) IsNullable() bool { return t.Nullable }

// GenericType is a parametrized type such as `sequence<T>` or `record<K, V>`.
type GenericType struct {
	Base
	Name        string        `json:"name"`
	Args        []Type        `json:"args"`
	Nullable    bool          `json:"nullable,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (t *GenericType) IsNullable() bool { return t.Nullable }

// UnionType is `(A or B or C)`.
type UnionType struct {
	Base
	Types       []Type        `json:"types"`
	Nullable    bool          `json:"nullable,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

func (t *UnionType) IsNullable() bool { return t.Nullable }

// Parameter is an operation, constructor or callback argument.
type Parameter struct {
	Base
	Name        string        `json:"name"`
	Type        Type          `json:"type"`
	Optional    bool          `json:"optional,omitempty"`
	Variadic    bool          `json:"variadic,omitempty"`
	Default     *Literal      `json:"default,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

// Annotation is an extended attribute.
//
//	[A]          Name
//	[A=B]        Name, Value
//	[A="s"]      Name, Value (quoted)
//	[A=(a,b)]    Name, Values
//	[A(x y)]     Name, Parameters
//	[A=B(x y)]   Name, Value, Parameters
type Annotation struct {
	Base
	Name       string       `json:"name"`
	Value      string       `json:"value,omitempty"`
	Values     []string     `json:"values,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty"`
	HasParams  bool         `json:"has_params,omitempty"`
}

// StringValue returns Value with surrounding double quotes removed.
func (a *Annotation) StringValue() string {
	v := a.Value
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}

// FindAnnotation returns the first annotation with the given name, or nil.
func FindAnnotation(list []*Annotation, name string) *Annotation {
	for _, a := range list {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Literal is a constant or default value, kept as written.
type Literal struct {
	Base
	Value string `json:"value"`
}
