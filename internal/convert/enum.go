package convert

import (
	"fmt"
	"strings"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// lowerEnum emits a string-literal union in plain mode. Emscripten exposes
// enum members directly on the module, so there each member becomes a
// numeric constant, the enum a union of their types, and every member gets
// an accessor function.
func (l *lowerer) lowerEnum(n *idl.Enum) []tsast.Statement {
	if !l.opts.Emscripten {
		values := make([]tsast.Type, len(n.Values))
		for i, v := range n.Values {
			values[i] = &tsast.StringLiteral{Value: v}
		}
		return []tsast.Statement{&tsast.TypeAlias{Name: n.Name, Type: &tsast.UnionType{Types: values}}}
	}

	members := make([]string, len(n.Values))
	for i, v := range n.Values {
		members[i] = stripNamespace(v)
	}

	var out []tsast.Statement
	for _, member := range members {
		if l.enumMembers[member] {
			l.addDiagnostic(RuleDuplicateEnumMember, fmt.Sprintf(
				"duplicate enum member name %q in enum %q: omitting the duplicate constant, "+
					"Emscripten exposes enum members as Module.%s, not Module.%s.%s",
				member, n.Name, member, n.Name, member), n)
			continue
		}
		l.enumMembers[member] = true
		out = append(out, &tsast.VarDecl{Const: true, Name: member, Type: tsast.Number})
	}

	union := &tsast.UnionType{}
	for _, member := range members {
		union.Types = append(union.Types, &tsast.TypeQuery{Name: member})
	}
	out = append(out, &tsast.TypeAlias{Name: n.Name, Type: union})

	for _, member := range members {
		out = append(out, &tsast.FunctionDecl{
			Name:   "_emscripten_enum_" + n.Name + "_" + member,
			Return: tsast.Ref(n.Name),
		})
	}
	return out
}

// stripNamespace removes a C++ `Namespace::` qualifier from an enum value.
func stripNamespace(value string) string {
	if i := strings.LastIndex(value, "::"); i >= 0 {
		return value[i+2:]
	}
	return value
}
