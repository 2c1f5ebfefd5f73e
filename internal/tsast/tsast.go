// Package tsast defines the TypeScript declaration tree emitted by the
// converter and rendered by the printer.
package tsast

// Statement is a top-level or module-level declaration.
type Statement interface {
	statement()
}

// Member is an element of an interface or class body.
type Member interface {
	member()
}

// Type is a type expression.
type Type interface {
	typeNode()
}

// InterfaceDecl is `interface Name extends A, B { ... }`.
type InterfaceDecl struct {
	Name    string
	Extends []Type
	Members []Member
}

// ClassDecl is `class Name extends A { ... }`.
type ClassDecl struct {
	Name    string
	Extends []Type
	Members []Member
}

// TypeAlias is `type Name = Type;`.
type TypeAlias struct {
	Name string
	Type Type
}

// FunctionDecl is `[declare] function Name<T>(params): Return;`.
type FunctionDecl struct {
	Declare    bool
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	Return     Type
}

// VarDecl is `[declare] var Name: Type;` or `const Name: Type;`.
type VarDecl struct {
	Declare bool
	Const   bool
	Name    string
	Type    Type
}

// ModuleDecl is `[declare] module Name { ... }`.
type ModuleDecl struct {
	Declare bool
	Name    string
	Body    []Statement
}

// ExportDefault is `export default Name;`.
type ExportDefault struct {
	Name string
}

func (*InterfaceDecl) statement() {}
func (*ClassDecl) statement()     {}
func (*TypeAlias) statement()     {}
func (*FunctionDecl) statement()  {}
func (*VarDecl) statement()       {}
func (*ModuleDecl) statement()    {}
func (*ExportDefault) statement() {}

// Property is a property signature, or a property declaration when
// Declaration is set.
type Property struct {
	Name        string
	Readonly    bool
	Optional    bool
	Type        Type
	Declaration bool
}

// Method is a method signature, or a body-less method declaration when
// Declaration is set. A nil Return omits the return annotation.
type Method struct {
	Name        string
	Static      bool
	Optional    bool
	TypeParams  []*TypeParam
	Params      []*Param
	Return      Type
	Declaration bool
}

// ConstructSignature is `new (params);`.
type ConstructSignature struct {
	Params []*Param
	Return Type
}

// IndexSignature is `[key: K]: V;`.
type IndexSignature struct {
	Readonly bool
	Key      *Param
	Type     Type
}

func (*Property) member()           {}
func (*Method) member()             {}
func (*ConstructSignature) member() {}
func (*IndexSignature) member()     {}

// Param is a function or method parameter.
type Param struct {
	Name     string
	Optional bool
	Rest     bool
	Type     Type
}

// TypeParam is `Name extends Constraint`.
type TypeParam struct {
	Name       string
	Constraint Type
}

// Keyword is a built-in type keyword.
type Keyword string

const (
	Any     Keyword = "any"
	Unknown Keyword = "unknown"
	Number  Keyword = "number"
	String  Keyword = "string"
	Boolean Keyword = "boolean"
	Void    Keyword = "void"
	Null    Keyword = "null"
)

// TypeRef is a reference to a named type with optional type arguments.
type TypeRef struct {
	Name string
	Args []Type
}

// UnionType is `A | B`.
type UnionType struct {
	Types []Type
}

// IntersectionType is `A & B`.
type IntersectionType struct {
	Types []Type
}

// StringLiteral is a string literal type such as `"bar"`.
type StringLiteral struct {
	Value string
}

// FunctionType is `(params) => Return`.
type FunctionType struct {
	Params []*Param
	Return Type
}

// ConstructorType is `new (params) => Return`.
type ConstructorType struct {
	Params []*Param
	Return Type
}

// TupleType is `[A, B]`.
type TupleType struct {
	Elems []Type
}

// ArrayType is `T[]`.
type ArrayType struct {
	Elem Type
}

// TypeQuery is `typeof Name`.
type TypeQuery struct {
	Name string
}

func (Keyword) typeNode()           {}
func (*TypeRef) typeNode()          {}
func (*UnionType) typeNode()        {}
func (*IntersectionType) typeNode() {}
func (*StringLiteral) typeNode()    {}
func (*FunctionType) typeNode()     {}
func (*ConstructorType) typeNode()  {}
func (*TupleType) typeNode()        {}
func (*ArrayType) typeNode()        {}
func (*TypeQuery) typeNode()        {}

// Ref returns a TypeRef to name with the given arguments.
func Ref(name string, args ...Type) *TypeRef {
	return &TypeRef{Name: name, Args: args}
}

// Nullable returns `t | null`.
func Nullable(t Type) *UnionType {
	return &UnionType{Types: []Type{t, Null}}
}
