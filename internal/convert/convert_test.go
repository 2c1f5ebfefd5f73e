package convert

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/parser"
)

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

// emscriptenOutput returns the module shell around body, indented one level.
func emscriptenOutput(module string, body ...string) string {
	out := []string{
		"declare function " + module + "<T>(target?: T): Promise<T & typeof " + module + ">;",
		"declare module " + module + " {",
		"    function destroy(obj: any): void;",
		"    function _malloc(size: number): number;",
		"    function _free(ptr: number): void;",
		"    function wrapPointer<C extends new (...args: any) => any>(ptr: number, Class: C): InstanceType<C>;",
		"    function getPointer(obj: unknown): number;",
		"    function castObject<C extends new (...args: any) => any>(object: unknown, Class: C): InstanceType<C>;",
		"    function compare(object1: unknown, object2: unknown): boolean;",
		"    const HEAP8: Int8Array;",
		"    const HEAP16: Int16Array;",
		"    const HEAP32: Int32Array;",
		"    const HEAPU8: Uint8Array;",
		"    const HEAPU16: Uint16Array;",
		"    const HEAPU32: Uint32Array;",
		"    const HEAPF32: Float32Array;",
		"    const HEAPF64: Float64Array;",
	}
	for _, l := range body {
		out = append(out, "    "+l)
	}
	return lines(append(out, "}")...)
}

func convert(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := Convert(src, opts)
	require.NoError(t, err)
	return res
}

var emscripten = Options{Emscripten: true}

func TestConvertPlain(t *testing.T) {
	tests := []struct {
		name string
		idl  string
		want string
	}{
		{
			"operations",
			lines("interface Foo {", "    void bar();", "};"),
			lines("interface Foo {", "    bar(): void;", "}"),
		},
		{
			"static operations",
			lines("interface Foo {", "    static void bar();", "};"),
			lines("interface Foo {", "    static bar(): void;", "}"),
		},
		{
			"namespaces",
			lines("namespace Foo {", "    void bar();", "};"),
			lines("interface Foo {", "    bar(): void;", "}"),
		},
		{
			"maplike",
			lines("interface Foo {", "    maplike<unsigned long, DOMString>;", "};"),
			"type Foo = Map<number, string>;",
		},
		{
			"readonly setlike",
			lines("interface Foo {", "    readonly setlike<unsigned long>;", "};"),
			"type Foo = ReadonlySet<number>;",
		},
		{
			"setlike with members",
			lines("interface Foo {", "    setlike<long>;", "    readonly attribute long extra;", "};"),
			lines("interface Foo extends Set<number> {", "    readonly extra: number;", "}"),
		},
		{
			"nullable",
			lines("interface Foo {", "    attribute long? bar;", "    attribute DOMString? baz;", "};"),
			lines("interface Foo {", "    bar: number | null;", "    baz: string | null;", "}"),
		},
		{
			"enums",
			lines("enum Foo {", `    "bar",`, `    "baz"`, "};"),
			`type Foo = "bar" | "baz";`,
		},
		{
			"dictionary",
			lines("dictionary Opts : Base {", "    required long a;", `    DOMString b = "x";`, "};"),
			lines("interface Opts extends Base {", "    a: number;", "    b?: string;", "}"),
		},
		{
			"constants and constructors",
			lines("interface Foo {", "    const unsigned short ONE = 1;", "    constructor(long x, optional DOMString y);", "};"),
			lines("interface Foo {", "    readonly ONE: number;", "    new (x: number, y?: string);", "}"),
		},
		{
			"operation named like the interface",
			lines("interface Foo {", "    void Foo(long x);", "};"),
			lines("interface Foo {", "    new (x: number);", "}"),
		},
		{
			"variadic",
			lines("interface Console {", "    void log(any... data);", "};"),
			lines("interface Console {", "    log(...data: any[]): void;", "}"),
		},
		{
			"callback",
			"callback Cb = void (DOMString s, optional long n);",
			"type Cb = (s: string, n?: number) => void;",
		},
		{
			"typedef union",
			"typedef (long or DOMString?) T;",
			"type T = number | string | null;",
		},
		{
			"generics",
			lines("interface Foo {",
				"    attribute sequence<long>? list;",
				"    attribute record<DOMString, object> map;",
				"    attribute FrozenArray<DOMString> names;",
				"    Promise<VoidPtr> run();",
				"};"),
			lines("interface Foo {",
				"    list: Array<number> | null;",
				"    map: Record<string, any>;",
				"    names: ReadonlyArray<string>;",
				"    run(): Promise<unknown>;",
				"}"),
		},
		{
			"exposed",
			"[Exposed=Window] interface Foo : EventTarget {};",
			lines("interface Foo extends EventTarget {", "}", "declare var Foo: Foo;"),
		},
		{
			"includes",
			lines("interface mixin Bar { attribute long x; };", "Foo includes Bar;"),
			lines("interface Bar {", "    x: number;", "}", "interface Foo extends Bar {", "}"),
		},
		{
			"stringifiers",
			lines("interface A {", "    stringifier;", "    stringifier attribute DOMString href;", "};"),
			lines("interface A {", "    toString(): string;", "    href: string;", "    toString(): string;", "}"),
		},
		{
			"indexed getter",
			lines("interface List {", "    getter Node? (unsigned long index);", "};"),
			lines("interface List {", "    [index: number]: Node | null;", "}"),
		},
		{
			"options ignored without emscripten",
			"interface Foo {};",
			lines("interface Foo {", "}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, tt.idl, Options{Module: "Ignored", DefaultExport: true})
			assert.Equal(t, tt.want, res.Output)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestConvertIterable(t *testing.T) {
	t.Run("value iterator", func(t *testing.T) {
		res := convert(t, lines(
			"interface List {",
			"    getter DOMString (unsigned long index);",
			"    iterable<DOMString>;",
			"};"), Options{})
		assert.Equal(t, lines(
			"interface List {",
			"    [index: number]: string;",
			"    [Symbol.iterator](): IterableIterator<string>;",
			"    entries(): IterableIterator<[number, string]>;",
			"    keys(): IterableIterator<number>;",
			"    values(): IterableIterator<string>;",
			"    forEach(callbackfn: (value: string, index: number, array: string[]) => void, thisArg?: any): void;",
			"}"), res.Output)
	})

	t.Run("pair iterator", func(t *testing.T) {
		res := convert(t, "interface Headers { async iterable<DOMString, long>; };", Options{})
		assert.Equal(t, lines(
			"interface Headers {",
			"    [Symbol.asyncIterator](): AsyncIterableIterator<[string, number]>;",
			"    entries(): AsyncIterableIterator<[string, number]>;",
			"    keys(): AsyncIterableIterator<string>;",
			"    values(): AsyncIterableIterator<number>;",
			"    forEach(callbackfn: (value: number, key: string, iterable: Headers) => void, thisArg?: any): void;",
			"}"), res.Output)
	})

	t.Run("missing key", func(t *testing.T) {
		res := convert(t, "interface Bag { iterable<long>; };", Options{})
		assert.Equal(t, lines("interface Bag {", "}"), res.Output)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, RuleIterableMissingKey, res.Diagnostics[0].Rule)
	})
}

func TestConvertEmscripten(t *testing.T) {
	tests := []struct {
		name string
		idl  string
		want []string
	}{
		{
			"enums",
			lines("enum Foo {", `    "bar",`, `    "baz"`, "};"),
			[]string{
				"const bar: number;",
				"const baz: number;",
				"type Foo = typeof bar | typeof baz;",
				"function _emscripten_enum_Foo_bar(): Foo;",
				"function _emscripten_enum_Foo_baz(): Foo;",
			},
		},
		{
			"enums declared in namespaces",
			lines("enum Foo {", `    "namespace::bar",`, `    "outer::inner::baz"`, "};"),
			[]string{
				"const bar: number;",
				"const baz: number;",
				"type Foo = typeof bar | typeof baz;",
				"function _emscripten_enum_Foo_bar(): Foo;",
				"function _emscripten_enum_Foo_baz(): Foo;",
			},
		},
		{
			"non array attributes",
			lines("interface Foo {", "    attribute float position;", "};"),
			[]string{
				"class Foo {",
				"    get_position(): number;",
				"    set_position(position: number): void;",
				"    position: number;",
				"}",
			},
		},
		{
			"array attributes",
			lines("interface Foo {", "    attribute float[] position;", "};"),
			[]string{
				"class Foo {",
				"    get_position(index: number): number;",
				"    set_position(index: number, position: number): void;",
				"    position: number;",
				"}",
			},
		},
		{
			"implements",
			lines("interface Foo {", "    void bar();", "};", "interface Baz {", "};", "Baz implements Foo;"),
			[]string{
				"class Foo {",
				"    bar(): void;",
				"}",
				"class Baz extends Foo {",
				"}",
			},
		},
		{
			"constructors",
			lines("interface Foo {", "    void Foo(long x);", "    [Value] static Foo make();", "};"),
			[]string{
				"class Foo {",
				"    constructor(x: number);",
				"    make(): Foo;",
				"}",
			},
		},
		{
			"jsimplementation",
			lines(
				`[JSImplementation="ShapeFilter"]`,
				"interface ShapeFilterJS {",
				"  void ShapeFilterJS();",
				"  [Const] boolean ShouldCollide([Const] Shape inShape2, [Const, Ref] SubShapeID? inSubShapeIDOfShape2, optional long flags);",
				"};"),
			[]string{
				"class ShapeFilterJS extends ShapeFilter {",
				"    constructor();",
				"    ShouldCollide(inShape2: number, inSubShapeIDOfShape2: number | null, flags: number): boolean;",
				"}",
			},
		},
		{
			"jsimplementation yields to implements",
			lines(`[JSImplementation="Fallback"]`, "interface Foo {", "};", "Foo implements Bar;"),
			[]string{"class Foo extends Bar {", "}"},
		},
		{
			"includes stays an interface",
			"Foo includes Bar;",
			[]string{"interface Foo extends Bar {", "}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, tt.idl, emscripten)
			assert.Equal(t, emscriptenOutput("Module", tt.want...), res.Output)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestConvertEmscriptenDuplicateEnumMembers(t *testing.T) {
	res := convert(t, lines(
		"enum Foo {", `    "namespace::bar",`, `    "namespace::baz"`, "};",
		"enum Bar {", `    "namespace::bar",`, `    "namespace::baz"`, "};",
	), emscripten)

	assert.Equal(t, emscriptenOutput("Module",
		"const bar: number;",
		"const baz: number;",
		"type Foo = typeof bar | typeof baz;",
		"function _emscripten_enum_Foo_bar(): Foo;",
		"function _emscripten_enum_Foo_baz(): Foo;",
		"type Bar = typeof bar | typeof baz;",
		"function _emscripten_enum_Bar_bar(): Bar;",
		"function _emscripten_enum_Bar_baz(): Bar;",
	), res.Output)

	require.Len(t, res.Diagnostics, 2)
	for _, d := range res.Diagnostics {
		assert.Equal(t, RuleDuplicateEnumMember, d.Rule)
		assert.Equal(t, SeverityWarning, d.Severity)
		assert.Equal(t, 5, d.Line)
	}
}

func TestConvertEmscriptenEnumStateIsPerCall(t *testing.T) {
	src := `enum Foo { "bar" };`
	first := convert(t, src, emscripten)
	second := convert(t, src, emscripten)
	assert.Contains(t, second.Output, "const bar: number;")
	assert.Empty(t, first.Diagnostics)
	assert.Empty(t, second.Diagnostics)
}

func TestConvertEmscriptenModuleOptions(t *testing.T) {
	res := convert(t, "interface Foo {};", Options{Emscripten: true, Module: "Ammo", DefaultExport: true})
	assert.Equal(t, "export default Ammo;\n"+emscriptenOutput("Ammo", "class Foo {", "}"), res.Output)
}

func TestConvertStaticDivergence(t *testing.T) {
	src := lines("interface Foo {", "    static void bar();", "};")

	plain := convert(t, src, Options{})
	assert.Contains(t, plain.Output, "static bar(): void;")

	ems := convert(t, src, emscripten)
	assert.Contains(t, ems.Output, "    bar(): void;")
	assert.NotContains(t, ems.Output, "static")
}

func TestConvertCommentedImplementsIsIgnored(t *testing.T) {
	base := lines("interface Foo {", "};", "interface Bar {", "};")

	want := convert(t, base, emscripten).Output
	for _, src := range []string{
		base + "\n/* Foo implements Bar; */",
		base + "\n// Foo implements Bar;",
	} {
		assert.Equal(t, want, convert(t, src, emscripten).Output)
	}
}

func TestConvertUnsupported(t *testing.T) {
	res := convert(t, lines(
		"callback interface Listener { void handle(); };",
		"interface Foo {",
		"    serializer;",
		"    setter void (unsigned long index, long value);",
		"    attribute long ok;",
		"};",
		"A implements B;",
	), Options{})

	assert.Equal(t, lines("interface Foo {", "    ok: number;", "}"), res.Output)
	require.Len(t, res.Diagnostics, 4)

	assert.Equal(t, RuleUnsupportedDefinition, res.Diagnostics[0].Rule)
	assert.Equal(t, 1, res.Diagnostics[0].Line)
	assert.Contains(t, res.Diagnostics[0].Message, `"callback interface"`)
	assert.Contains(t, res.Diagnostics[0].Node, "idl.Interface")
	assert.Contains(t, res.Diagnostics[0].Message, issueTracker)

	assert.Equal(t, RuleUnsupportedMember, res.Diagnostics[1].Rule)
	assert.Equal(t, 3, res.Diagnostics[1].Line)
	assert.Equal(t, RuleUnsupportedMember, res.Diagnostics[2].Rule)
	assert.Equal(t, RuleUnsupportedDefinition, res.Diagnostics[3].Rule)
	assert.Contains(t, res.Diagnostics[3].String(), "7:1: warning:")
}

func TestConvertUnsupportedLegacyCaller(t *testing.T) {
	for _, mode := range []Options{{}, emscripten} {
		res := convert(t, lines(
			"interface HTMLAllCollection {",
			"    legacycaller any (any... args);",
			"    legacycaller Element? item(DOMString name);",
			"    readonly attribute unsigned long length;",
			"};",
		), mode)

		assert.NotContains(t, res.Output, "legacycaller")
		assert.NotContains(t, res.Output, "item(")
		assert.Contains(t, res.Output, "length: number;")
		require.Len(t, res.Diagnostics, 2)
		for i, d := range res.Diagnostics {
			assert.Equal(t, RuleUnsupportedMember, d.Rule)
			assert.Equal(t, i+2, d.Line)
			assert.Contains(t, d.Message, "legacycaller operation")
		}
	}
}

func TestConvertStrictRaisesSeverity(t *testing.T) {
	src := "interface Bag { iterable<long>; };"

	res := convert(t, src, Options{})
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)

	res = convert(t, src, Options{Strict: true})
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, RuleIterableMissingKey, res.Diagnostics[0].Rule)
	assert.Contains(t, res.Diagnostics[0].String(), "1:17: error:")
	assert.Equal(t, lines("interface Bag {", "}"), res.Output)
}

func TestConvertEscapedIdentifiers(t *testing.T) {
	res := convert(t, lines(
		"dictionary _Options {",
		"    required long _required;",
		"    _Node target;",
		"};",
	), Options{})

	assert.Equal(t, lines(
		"interface Options {",
		"    required: number;",
		"    target?: Node;",
		"}",
	), res.Output)
}

type opaqueType struct {
	idl.Base
}

func (*opaqueType) IsNullable() bool { return true }

func TestLowerUnsupportedType(t *testing.T) {
	stmts, diags := Lower([]idl.Definition{&idl.Typedef{Name: "X", Type: &opaqueType{}}}, Options{})
	require.Len(t, stmts, 1)
	require.Len(t, diags, 1)
	assert.Equal(t, RuleUnsupportedType, diags[0].Rule)
}

func TestLowerDoesNotModifyInput(t *testing.T) {
	file, err := parser.ParseString(lines(
		`[JSImplementation="Base"] interface Foo {`,
		"    attribute FrozenArray<float> v;",
		"    iterable<long, long>;",
		"};",
		`enum E { "a::b" };`,
	), parser.Options{})
	require.NoError(t, err)

	before := parser.DumpString(file)
	Lower(file.Definitions, emscripten)
	Lower(file.Definitions, Options{})
	assert.Equal(t, before, parser.DumpString(file))
}

func TestConvertDeterministic(t *testing.T) {
	src := lines(
		"enum E { \"a\", \"b\" };",
		"interface Foo { attribute long x; iterable<long, DOMString>; };",
		"dictionary D { long y; };",
	)
	for _, opts := range []Options{{}, emscripten} {
		a := convert(t, src, opts)
		b := convert(t, src, opts)
		assert.Equal(t, a.Output, b.Output)
	}
}

func TestConvertParseError(t *testing.T) {
	_, err := Convert("interface {", Options{})
	require.Error(t, err)

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Line)
}

func TestMapTypeName(t *testing.T) {
	for _, name := range []string{"Node", "EventTarget", "Float32Array", "boolean", "Promise", "any", "Date"} {
		assert.Equal(t, name, MapTypeName(name), "pass-through for %s", name)
	}

	mapped := map[string]string{
		"unsigned long long": "number",
		"unrestricted float": "number",
		"octet":              "number",
		"USVString":          "string",
		"CSSOMString":        "string",
		"object":             "any",
		"sequence":           "Array",
		"record":             "Record",
		"FrozenArray":        "ReadonlyArray",
		"VoidPtr":            "unknown",
	}
	for in, want := range mapped {
		assert.Equal(t, want, MapTypeName(in), "mapping of %s", in)
	}
}

func TestNullableAppliedOnce(t *testing.T) {
	res := convert(t, lines(
		"interface Foo {",
		"    attribute unsigned long? a;",
		"    attribute ByteString? b;",
		"    attribute Node? c;",
		"    undefined? d();",
		"};",
	), Options{})

	assert.NotContains(t, res.Output, "| null | null")
	assert.Contains(t, res.Output, "a: number | null;")
	assert.Contains(t, res.Output, "b: string | null;")
	assert.Contains(t, res.Output, "c: Node | null;")
}
