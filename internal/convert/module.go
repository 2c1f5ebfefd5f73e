package convert

import (
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// heapViews are the typed-array views of the Emscripten heap.
var heapViews = []struct{ name, view string }{
	{"HEAP8", "Int8Array"},
	{"HEAP16", "Int16Array"},
	{"HEAP32", "Int32Array"},
	{"HEAPU8", "Uint8Array"},
	{"HEAPU16", "Uint16Array"},
	{"HEAPU32", "Uint32Array"},
	{"HEAPF32", "Float32Array"},
	{"HEAPF64", "Float64Array"},
}

// EmscriptenModule wraps body in the declarations of an Emscripten module
// named name: the factory function and a module block holding the runtime
// helpers, the heap views and body.
func EmscriptenModule(name string, body []tsast.Statement, defaultExport bool) []tsast.Statement {
	var out []tsast.Statement
	if defaultExport {
		out = append(out, &tsast.ExportDefault{Name: name})
	}

	// declare function Module<T>(target?: T): Promise<T & typeof Module>;
	out = append(out, &tsast.FunctionDecl{
		Declare:    true,
		Name:       name,
		TypeParams: []*tsast.TypeParam{{Name: "T"}},
		Params:     []*tsast.Param{{Name: "target", Optional: true, Type: tsast.Ref("T")}},
		Return: tsast.Ref("Promise", &tsast.IntersectionType{Types: []tsast.Type{
			tsast.Ref("T"), &tsast.TypeQuery{Name: name},
		}}),
	})

	stmts := runtimeHelpers()
	for _, h := range heapViews {
		stmts = append(stmts, &tsast.VarDecl{Const: true, Name: h.name, Type: tsast.Ref(h.view)})
	}
	stmts = append(stmts, body...)

	return append(out, &tsast.ModuleDecl{Declare: true, Name: name, Body: stmts})
}

func runtimeHelpers() []tsast.Statement {
	// C extends new (...args: any) => any
	classParam := []*tsast.TypeParam{{
		Name: "C",
		Constraint: &tsast.ConstructorType{
			Params: []*tsast.Param{{Name: "args", Rest: true, Type: tsast.Any}},
			Return: tsast.Any,
		},
	}}
	instance := tsast.Ref("InstanceType", tsast.Ref("C"))
	fn := func(name string, tps []*tsast.TypeParam, ret tsast.Type, params ...*tsast.Param) tsast.Statement {
		return &tsast.FunctionDecl{Name: name, TypeParams: tps, Params: params, Return: ret}
	}
	p := func(name string, t tsast.Type) *tsast.Param {
		return &tsast.Param{Name: name, Type: t}
	}

	return []tsast.Statement{
		fn("destroy", nil, tsast.Void, p("obj", tsast.Any)),
		fn("_malloc", nil, tsast.Number, p("size", tsast.Number)),
		fn("_free", nil, tsast.Void, p("ptr", tsast.Number)),
		fn("wrapPointer", classParam, instance, p("ptr", tsast.Number), p("Class", tsast.Ref("C"))),
		fn("getPointer", nil, tsast.Number, p("obj", tsast.Unknown)),
		fn("castObject", classParam, instance, p("object", tsast.Unknown), p("Class", tsast.Ref("C"))),
		fn("compare", nil, tsast.Boolean, p("object1", tsast.Unknown), p("object2", tsast.Unknown)),
	}
}
