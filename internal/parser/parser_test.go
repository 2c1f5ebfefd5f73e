package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
)

func mustParse(t *testing.T, src string) *idl.File {
	t.Helper()
	file, err := ParseString(src, Options{})
	require.NoError(t, err)
	return file
}

func TestParseEmptyDocument(t *testing.T) {
	file := mustParse(t, "  // nothing here\n")
	require.NotNil(t, file)
	require.Empty(t, file.Definitions)
}

func TestParseInterface(t *testing.T) {
	file := mustParse(t, `
[Exposed=Window, JSImplementation="Base"]
interface Foo : Bar {
    const unsigned short ONE = 1;
    readonly attribute unsigned long long size;
    static void reset(optional boolean hard = false);
    getter DOMString (unsigned long index);
    constructor(long x, DOMString... rest);
};`)
	require.Len(t, file.Definitions, 1)

	iface, ok := file.Definitions[0].(*idl.Interface)
	require.True(t, ok)
	assert.Equal(t, "Foo", iface.Name)
	assert.Equal(t, "Bar", iface.Inherits)
	assert.Equal(t, 2, iface.Line)
	require.Len(t, iface.Annotations, 2)
	assert.Equal(t, "Window", iface.Annotations[0].Value)
	assert.Equal(t, "Base", iface.Annotations[1].StringValue())
	require.Len(t, iface.Members, 5)

	c := iface.Members[0].(*idl.Const)
	assert.Equal(t, "ONE", c.Name)
	assert.Equal(t, "unsigned short", c.Type.(*idl.TypeName).Name)
	assert.Equal(t, "1", c.Value.Value)

	attr := iface.Members[1].(*idl.Attribute)
	assert.True(t, attr.Readonly)
	assert.Equal(t, "unsigned long long", attr.Type.(*idl.TypeName).Name)
	assert.Equal(t, 5, attr.Line)

	op := iface.Members[2].(*idl.Operation)
	assert.True(t, op.Static)
	assert.Equal(t, "reset", op.Name)
	require.Len(t, op.Parameters, 1)
	assert.True(t, op.Parameters[0].Optional)
	assert.Equal(t, "false", op.Parameters[0].Default.Value)

	getter := iface.Members[3].(*idl.Operation)
	assert.Equal(t, "getter", getter.Special)
	assert.Empty(t, getter.Name)

	ctor := iface.Members[4].(*idl.Constructor)
	require.Len(t, ctor.Parameters, 2)
	assert.True(t, ctor.Parameters[1].Variadic)
}

func TestParseDefinitionKinds(t *testing.T) {
	file := mustParse(t, `
interface mixin M { attribute long x; };
partial interface P {};
callback interface CI { void handle(); };
callback Cb = void (DOMString s);
dictionary D : Base { required long a; DOMString b = "x"; sequence<long> c = []; };
namespace N { long f(); };
enum E { "a", "b", };
typedef (long or DOMString)? T;
A includes M;
A implements B;
`)
	var kinds []string
	for _, def := range file.Definitions {
		kinds = append(kinds, def.Kind())
	}
	assert.Equal(t, []string{
		"interface mixin", "interface", "callback interface", "callback",
		"dictionary", "namespace", "enum", "typedef", "includes", "implements",
	}, kinds)

	assert.True(t, file.Definitions[1].(*idl.Interface).Partial)

	dict := file.Definitions[4].(*idl.Dictionary)
	require.Len(t, dict.Members, 3)
	assert.True(t, dict.Members[0].(*idl.Field).Required)
	assert.Equal(t, `"x"`, dict.Members[1].(*idl.Field).Default.Value)
	assert.Equal(t, "[]", dict.Members[2].(*idl.Field).Default.Value)

	enum := file.Definitions[6].(*idl.Enum)
	assert.Equal(t, []string{"a", "b"}, enum.Values)

	union := file.Definitions[7].(*idl.Typedef).Type.(*idl.UnionType)
	assert.True(t, union.Nullable)
	require.Len(t, union.Types, 2)

	impl := file.Definitions[9].(*idl.Implementation)
	assert.Equal(t, "A", impl.Name)
	assert.Equal(t, "B", impl.Source)
}

func TestParseSpecialMembers(t *testing.T) {
	file := mustParse(t, `
interface Foo {
    iterable<long, DOMString>;
    async iterable<long>(optional long start);
    readonly maplike<DOMString, long>;
    setlike<long>;
    stringifier;
    stringifier attribute DOMString href;
    serializer;
    inherit attribute long inherited;
    record<DOMString, sequence<long>?> nested();
};`)
	members := file.Definitions[0].(*idl.Interface).Members
	require.Len(t, members, 9)

	it := members[0].(*idl.Iterable)
	assert.False(t, it.Async)
	assert.Len(t, it.Types, 2)

	async := members[1].(*idl.Iterable)
	assert.True(t, async.Async)
	assert.Len(t, async.Parameters, 1)

	assert.True(t, members[2].(*idl.Maplike).Readonly)
	assert.Equal(t, "long", members[3].(*idl.Setlike).Elem.(*idl.TypeName).Name)
	assert.Equal(t, "stringifier", members[4].Kind())
	assert.True(t, members[5].(*idl.Attribute).Stringifier)
	assert.Equal(t, "serializer", members[6].Kind())
	assert.True(t, members[7].(*idl.Attribute).Inherit)

	rec := members[8].(*idl.Operation).Return.(*idl.GenericType)
	assert.Equal(t, "record", rec.Name)
	seq := rec.Args[1].(*idl.GenericType)
	assert.Equal(t, "sequence", seq.Name)
	assert.True(t, seq.Nullable)
}

func TestParseLegacyCaller(t *testing.T) {
	file := mustParse(t, `
interface HTMLAllCollection {
    legacycaller any (any... args);
    legacycaller Element? item(DOMString name);
};`)
	members := file.Definitions[0].(*idl.Interface).Members
	require.Len(t, members, 2)

	unnamed := members[0].(*idl.Operation)
	assert.Equal(t, "legacycaller", unnamed.Special)
	assert.Equal(t, "", unnamed.Name)
	assert.Equal(t, "any", unnamed.Return.(*idl.TypeName).Name)
	assert.True(t, unnamed.Parameters[0].Variadic)

	named := members[1].(*idl.Operation)
	assert.Equal(t, "legacycaller", named.Special)
	assert.Equal(t, "item", named.Name)
	assert.True(t, named.Return.IsNullable())
}

func TestParseEscapedIdentifiers(t *testing.T) {
	file := mustParse(t, `
dictionary _Options : _Base {
    required long _required;
    _unsigned count;
};`)
	dict := file.Definitions[0].(*idl.Dictionary)
	assert.Equal(t, "Options", dict.Name)
	assert.Equal(t, "Base", dict.Inherits)

	first := dict.Members[0].(*idl.Field)
	assert.Equal(t, "required", first.Name)
	assert.True(t, first.Required)

	// an escaped name never starts a multi-word primitive
	second := dict.Members[1].(*idl.Field)
	assert.Equal(t, "unsigned", second.Type.(*idl.TypeName).Name)
	assert.Equal(t, "count", second.Name)
}

func TestParseAnnotationShapes(t *testing.T) {
	file := mustParse(t, `[NoInterfaceObject, Exposed=(Window,Worker), Prefix="ns::", NamedConstructor=Img(long w), Ctor(long a)] interface Foo {};`)
	ann := file.Definitions[0].(*idl.Interface).Annotations
	require.Len(t, ann, 5)
	assert.Equal(t, "NoInterfaceObject", ann[0].Name)
	assert.Equal(t, []string{"Window", "Worker"}, ann[1].Values)
	assert.Equal(t, "ns::", ann[2].StringValue())
	assert.Equal(t, "Img", ann[3].Value)
	assert.True(t, ann[3].HasParams)
	assert.Len(t, ann[4].Parameters, 1)
	assert.NotNil(t, idl.FindAnnotation(ann, "Prefix"))
	assert.Nil(t, idl.FindAnnotation(ann, "Missing"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		column  int
		message string
	}{
		{"root level", "foo bar;", 1, 1, "unexpected token at root level"},
		{"missing semicolon", "interface Foo {\n  attribute long x\n};", 3, 1, "expected ';'"},
		{"unterminated", "interface Foo {", 1, 16, "unexpected end of input"},
		{"bad literal", "interface Foo { const long X = -3x; };", 1, 32, "bad number syntax"},
		{"bad partial", "partial enum E {};", 1, 9, "expected interface, dictionary or namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input, Options{})
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.column, perr.Column)
			assert.Contains(t, perr.Message, tt.message)
			assert.True(t, strings.HasPrefix(err.Error(), "syntax error at line"))
		})
	}
}

func TestParsePreprocess(t *testing.T) {
	called := false
	file, err := ParseString("interface Foo {};", Options{Preprocess: func(src string) string {
		called = true
		return strings.Replace(src, "Foo", "Bar", 1)
	}})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "Bar", file.Definitions[0].(*idl.Interface).Name)
}

func TestParseReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Parse(iotest.ErrReader(boom), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "reading input")
}

func TestDump(t *testing.T) {
	file := mustParse(t, "enum Color { \"red\" };")
	out := DumpString(file.Definitions[0])
	assert.Contains(t, out, "idl.Enum")
	assert.Contains(t, out, `"red"`)
}
