// Package printer renders tsast declarations as TypeScript source text.
package printer

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// Options controls printing behaviour.
type Options struct {
	IndentWidth int // spaces per level (default 4)
}

// Print renders statements one after another, separated by newlines and
// without a trailing newline.
func Print(stmts []tsast.Statement, opts Options) string {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 4
	}

	var buf bytes.Buffer
	w := &writer{buf: &buf, width: opts.IndentWidth}
	for _, s := range stmts {
		w.writeStatement(0, s)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintType renders a single type expression.
func PrintType(t tsast.Type) string {
	return typeString(t)
}

type writer struct {
	buf   *bytes.Buffer
	width int
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

func (w *writer) indent(level int) {
	for i := 0; i < level*w.width; i++ {
		w.buf.WriteByte(' ')
	}
}

func (w *writer) line(level int, s string) {
	w.indent(level)
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) writeStatement(level int, s tsast.Statement) {
	switch n := s.(type) {
	case *tsast.InterfaceDecl:
		w.writeBody(level, "interface "+n.Name+extendsClause(n.Extends), n.Members)
	case *tsast.ClassDecl:
		w.writeBody(level, "class "+n.Name+extendsClause(n.Extends), n.Members)
	case *tsast.TypeAlias:
		w.line(level, "type "+n.Name+" = "+typeString(n.Type)+";")
	case *tsast.FunctionDecl:
		w.line(level, declare(n.Declare)+"function "+n.Name+typeParams(n.TypeParams)+
			"("+params(n.Params)+")"+annotation(n.Return)+";")
	case *tsast.VarDecl:
		kw := "var "
		if n.Const {
			kw = "const "
		}
		w.line(level, declare(n.Declare)+kw+n.Name+annotation(n.Type)+";")
	case *tsast.ModuleDecl:
		w.line(level, declare(n.Declare)+"module "+n.Name+" {")
		for _, child := range n.Body {
			w.writeStatement(level+1, child)
		}
		w.line(level, "}")
	case *tsast.ExportDefault:
		w.line(level, "export default "+n.Name+";")
	}
}

func (w *writer) writeBody(level int, header string, members []tsast.Member) {
	w.line(level, header+" {")
	for _, m := range members {
		w.line(level+1, memberString(m))
	}
	w.line(level, "}")
}

func memberString(m tsast.Member) string {
	switch n := m.(type) {
	case *tsast.Property:
		s := ""
		if n.Readonly {
			s = "readonly "
		}
		s += n.Name
		if n.Optional {
			s += "?"
		}
		return s + annotation(n.Type) + ";"
	case *tsast.Method:
		s := ""
		if n.Static {
			s = "static "
		}
		s += n.Name
		if n.Optional {
			s += "?"
		}
		return s + typeParams(n.TypeParams) + "(" + params(n.Params) + ")" + annotation(n.Return) + ";"
	case *tsast.ConstructSignature:
		return "new (" + params(n.Params) + ")" + annotation(n.Return) + ";"
	case *tsast.IndexSignature:
		s := ""
		if n.Readonly {
			s = "readonly "
		}
		return s + "[" + param(n.Key) + "]" + annotation(n.Type) + ";"
	}
	return ""
}

func declare(ok bool) string {
	if ok {
		return "declare "
	}
	return ""
}

func annotation(t tsast.Type) string {
	if t == nil {
		return ""
	}
	return ": " + typeString(t)
}

func extendsClause(types []tsast.Type) string {
	if len(types) == 0 {
		return ""
	}
	return " extends " + typeList(types, ", ")
}

func typeParams(list []*tsast.TypeParam) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, len(list))
	for i, tp := range list {
		parts[i] = tp.Name
		if tp.Constraint != nil {
			parts[i] += " extends " + typeString(tp.Constraint)
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func params(list []*tsast.Param) string {
	parts := make([]string, len(list))
	for i, p := range list {
		parts[i] = param(p)
	}
	return strings.Join(parts, ", ")
}

func param(p *tsast.Param) string {
	s := p.Name
	if p.Rest {
		s = "..." + s
	}
	if p.Optional {
		s += "?"
	}
	return s + annotation(p.Type)
}

func typeList(types []tsast.Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, sep)
}

// typeString renders t. Union, intersection and function types are
// parenthesized where their operators would otherwise bind wrongly.
func typeString(t tsast.Type) string {
	switch n := t.(type) {
	case tsast.Keyword:
		return string(n)
	case *tsast.TypeRef:
		if len(n.Args) == 0 {
			return n.Name
		}
		return n.Name + "<" + typeList(n.Args, ", ") + ">"
	case *tsast.UnionType:
		parts := make([]string, len(n.Types))
		for i, child := range n.Types {
			parts[i] = operand(child, false)
		}
		return strings.Join(parts, " | ")
	case *tsast.IntersectionType:
		parts := make([]string, len(n.Types))
		for i, child := range n.Types {
			parts[i] = operand(child, true)
		}
		return strings.Join(parts, " & ")
	case *tsast.StringLiteral:
		return strconv.Quote(n.Value)
	case *tsast.FunctionType:
		return "(" + params(n.Params) + ") => " + typeString(n.Return)
	case *tsast.ConstructorType:
		return "new (" + params(n.Params) + ") => " + typeString(n.Return)
	case *tsast.TupleType:
		return "[" + typeList(n.Elems, ", ") + "]"
	case *tsast.ArrayType:
		return operand(n.Elem, true) + "[]"
	case *tsast.TypeQuery:
		return "typeof " + n.Name
	}
	return "unknown"
}

// operand renders t as an operand of a union, intersection or array type.
func operand(t tsast.Type, tight bool) string {
	switch n := t.(type) {
	case *tsast.FunctionType, *tsast.ConstructorType:
		return "(" + typeString(t) + ")"
	case *tsast.UnionType:
		if tight && len(n.Types) > 1 {
			return "(" + typeString(t) + ")"
		}
	case *tsast.IntersectionType:
		if tight && len(n.Types) > 1 {
			return "(" + typeString(t) + ")"
		}
	}
	return typeString(t)
}
