package convert

import (
	"fmt"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// container is the common view of the interface-like definitions.
type container struct {
	name        string
	inherits    string
	annotations []*idl.Annotation
	source      []idl.Member
}

// collectionBases are the bases that let a member-less declaration collapse
// into a type alias.
var collectionBases = map[string]bool{
	"Map":         true,
	"ReadonlyMap": true,
	"Set":         true,
	"ReadonlySet": true,
}

func (l *lowerer) lowerDefinition(def idl.Definition) []tsast.Statement {
	switch n := def.(type) {
	case *idl.Interface:
		if n.Callback {
			break
		}
		return l.lowerContainer(container{n.Name, n.Inherits, n.Annotations, n.Members})
	case *idl.Mixin:
		return l.lowerContainer(container{n.Name, "", n.Annotations, n.Members})
	case *idl.Dictionary:
		return l.lowerContainer(container{n.Name, n.Inherits, n.Annotations, n.Members})
	case *idl.Namespace:
		return l.lowerContainer(container{n.Name, "", n.Annotations, n.Members})
	case *idl.Includes:
		return []tsast.Statement{&tsast.InterfaceDecl{
			Name:    n.Name,
			Extends: []tsast.Type{tsast.Ref(n.Source)},
		}}
	case *idl.Enum:
		return l.lowerEnum(n)
	case *idl.Callback:
		return []tsast.Statement{&tsast.TypeAlias{
			Name: n.Name,
			Type: &tsast.FunctionType{Params: l.lowerParams(n.Parameters, false), Return: l.lowerType(n.Return)},
		}}
	case *idl.Typedef:
		return []tsast.Statement{&tsast.TypeAlias{Name: n.Name, Type: l.lowerType(n.Type)}}
	}

	l.unsupported(RuleUnsupportedDefinition, fmt.Sprintf("IDL definition %q", def.Kind()), def)
	return nil
}

// lowerContainer emits an interface (plain) or class (Emscripten) for an
// interface-like definition, followed by a global variable for every
// [Exposed=Window].
func (l *lowerer) lowerContainer(c container) []tsast.Statement {
	out := []tsast.Statement{l.lowerBody(c)}

	for _, a := range c.annotations {
		if a.Name == "Exposed" && a.Value == "Window" {
			out = append(out, &tsast.VarDecl{Declare: true, Name: c.name, Type: tsast.Ref(c.name)})
		}
	}
	return out
}

func (l *lowerer) lowerBody(c container) tsast.Statement {
	var bases []tsast.Type
	if c.inherits != "" {
		bases = append(bases, tsast.Ref(c.inherits))
	}

	jsImplementation := false
	if l.opts.Emscripten {
		if a := idl.FindAnnotation(c.annotations, "JSImplementation"); a != nil {
			jsImplementation = true
			if base := a.StringValue(); base != "" && len(bases) == 0 {
				bases = append(bases, tsast.Ref(base))
			}
		}
	}

	b := &body{container: c, jsImplementation: jsImplementation, bases: bases}
	for _, m := range c.source {
		l.lowerMember(b, m)
	}

	if len(b.bases) == 1 && len(b.members) == 0 {
		if ref, ok := b.bases[0].(*tsast.TypeRef); ok && collectionBases[ref.Name] {
			return &tsast.TypeAlias{Name: c.name, Type: ref}
		}
	}

	if l.opts.Emscripten {
		return &tsast.ClassDecl{Name: c.name, Extends: b.bases, Members: b.members}
	}
	return &tsast.InterfaceDecl{Name: c.name, Extends: b.bases, Members: b.members}
}
