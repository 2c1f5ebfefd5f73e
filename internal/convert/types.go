package convert

import (
	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

var (
	bufferSourceTypes = []string{
		"ArrayBuffer", "ArrayBufferView", "DataView",
		"Int8Array", "Uint8Array", "Uint8ClampedArray",
		"Int16Array", "Uint16Array", "Int32Array", "Uint32Array",
		"Float32Array", "Float64Array",
	}
	integerTypes = []string{
		"byte", "octet", "short", "unsigned short",
		"long", "unsigned long", "long long", "unsigned long long",
	}
	floatTypes  = []string{"float", "unrestricted float", "double", "unrestricted double"}
	stringTypes = []string{"ByteString", "DOMString", "USVString", "CSSOMString"}
	sameTypes   = []string{"any", "boolean", "Date", "Function", "Promise", "void"}
)

// baseTypes maps IDL type names to TypeScript type names.
var baseTypes = func() map[string]string {
	m := map[string]string{
		"object":       "any",
		"sequence":     "Array",
		"record":       "Record",
		"FrozenArray":  "ReadonlyArray",
		"EventHandler": "EventHandler",
		"VoidPtr":      "unknown",
	}
	for _, group := range [][]string{bufferSourceTypes, sameTypes} {
		for _, name := range group {
			m[name] = name
		}
	}
	for _, group := range [][]string{integerTypes, floatTypes} {
		for _, name := range group {
			m[name] = "number"
		}
	}
	for _, name := range stringTypes {
		m[name] = "string"
	}
	return m
}()

// MapTypeName returns the TypeScript name for an IDL type name. Names
// without a mapping, such as user-defined interfaces, pass through.
func MapTypeName(name string) string {
	if mapped, ok := baseTypes[name]; ok {
		return mapped
	}
	return name
}

// lowerType converts a type reference. Nullability is applied once, on
// the resolved shape; unions carry it in their branches and are not wrapped.
func (l *lowerer) lowerType(t idl.Type) tsast.Type {
	switch n := t.(type) {
	case *idl.TypeName:
		switch name := MapTypeName(n.Name); name {
		case "number":
			return nullable(tsast.Number, n)
		case "string":
			return nullable(tsast.String, n)
		case "void":
			return tsast.Void
		default:
			return nullable(tsast.Ref(name), n)
		}

	case *idl.GenericType:
		args := make([]tsast.Type, len(n.Args))
		for i, arg := range n.Args {
			args[i] = l.lowerType(arg)
		}
		return nullable(tsast.Ref(MapTypeName(n.Name), args...), n)

	case *idl.UnionType:
		types := make([]tsast.Type, len(n.Types))
		for i, branch := range n.Types {
			types[i] = l.lowerType(branch)
		}
		return &tsast.UnionType{Types: types}
	}

	l.unsupported(RuleUnsupportedType, "IDL type", t)
	return tsast.Unknown
}

// nullable wraps t as `t | null` when src is nullable.
func nullable(t tsast.Type, src idl.Type) tsast.Type {
	if src.IsNullable() {
		return tsast.Nullable(t)
	}
	return t
}
