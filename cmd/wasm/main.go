//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/emlang-project/webidl-dts-gen/internal/convert"
)

// options reads {emscripten, module, defaultExport, strict} from a JS object.
func options(v js.Value) convert.Options {
	var opts convert.Options
	if v.Type() != js.TypeObject {
		return opts
	}
	if e := v.Get("emscripten"); e.Type() == js.TypeBoolean {
		opts.Emscripten = e.Bool()
	}
	if m := v.Get("module"); m.Type() == js.TypeString {
		opts.Module = m.String()
	}
	if d := v.Get("defaultExport"); d.Type() == js.TypeBoolean {
		opts.DefaultExport = d.Bool()
	}
	if s := v.Get("strict"); s.Type() == js.TypeBoolean {
		opts.Strict = s.Bool()
	}
	return opts
}

func convertIDL(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "missing source argument"}
	}

	src := args[0].String()

	var opts convert.Options
	if len(args) >= 2 {
		opts = options(args[1])
	}

	res, err := convert.Convert(src, opts)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	var diagnostics []interface{}
	for _, d := range res.Diagnostics {
		diagnostics = append(diagnostics, map[string]interface{}{
			"rule":     d.Rule,
			"message":  d.Message,
			"node":     d.Node,
			"line":     d.Line,
			"column":   d.Column,
			"severity": d.Severity.String(),
		})
	}

	return map[string]interface{}{"dts": res.Output, "diagnostics": diagnostics}
}

func main() {
	js.Global().Set("webidlDtsConvert", js.FuncOf(convertIDL))

	// Signal ready
	if cb := js.Global().Get("onWebidlDtsReady"); cb.Truthy() {
		cb.Invoke()
	}

	select {}
}
