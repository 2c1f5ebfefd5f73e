package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/emlang-project/webidl-dts-gen/internal/config"
	"github.com/emlang-project/webidl-dts-gen/internal/convert"
	"github.com/emlang-project/webidl-dts-gen/internal/fetch"
	"github.com/emlang-project/webidl-dts-gen/internal/fixes"
	"github.com/emlang-project/webidl-dts-gen/internal/parser"
	"github.com/emlang-project/webidl-dts-gen/internal/report"
	"github.com/emlang-project/webidl-dts-gen/internal/serve"
	"github.com/spf13/pflag"
)

const version = "1.0.0"

func main() {
	args, configPath := extractConfigFlag(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	// Commands that don't need config
	switch args[0] {
	case "init":
		cmdInit()
		return
	case "version":
		fmt.Printf("webidl-dts-gen version %s\n", version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch args[0] {
	case "parse":
		cmdParse(args[1:], cfg)
	case "repl":
		cmdRepl(args[1:], cfg)
	default:
		cmdConvert(args, cfg)
	}
}

func extractConfigFlag(args []string) (remaining []string, configPath string) {
	for i := 0; i < len(args); i++ {
		if (args[i] == "-c" || args[i] == "--config") && i+1 < len(args) {
			configPath = args[i+1]
			i++
		} else {
			remaining = append(remaining, args[i])
		}
	}
	return
}

func printUsage() {
	fmt.Println("webidl-dts-gen - Generate TypeScript declarations from WebIDL")
	fmt.Println()
	fmt.Println("Usage: webidl-dts-gen [-c <config>] -i <input> -o <output> [options]")
	fmt.Println("       webidl-dts-gen [-c <config>] <command> [arguments]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -c, --config <file>    Path to config file (default: .webidl-dts.yaml, or WEBIDL_DTS_CONFIG env)")
	fmt.Println("  -i, --in <input>       IDL file, HTML page or URL to read (use - for stdin)")
	fmt.Println("  -o, --out <file>       Declaration file to write (use - for stdout)")
	fmt.Println("  -e, --emscripten       Emit an Emscripten module")
	fmt.Println("  -n, --name <name>      Emscripten module name (default: Module)")
	fmt.Println("  -d, --default-export   Add a default export of the module")
	fmt.Println("      --strict           Report unsupported constructs as errors and exit 1")
	fmt.Println("  -q, --quiet            Do not print warnings")
	fmt.Println("  -v, --verbose          Print the IDL node behind each diagnostic")
	fmt.Println("      --timeout <d>      Timeout for remote inputs (default: 30s)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  parse <input>          Parse an IDL source and dump its syntax tree (-e applies Emscripten fixups)")
	fmt.Println("  repl [file]            Start the browser playground with live conversion")
	fmt.Println("                         --address, --port: server options")
	fmt.Println("  init                   Create a .webidl-dts.yaml config file with defaults")
	fmt.Println("  version                Print version information")
	fmt.Println("  help                   Show this help message")
}

func cmdInit() {
	if err := config.Init(config.FileName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", config.FileName)
}

// optionFlags registers the conversion flags shared by the default command and repl.
type optionFlags struct {
	flags         *pflag.FlagSet
	emscripten    *bool
	name          *string
	defaultExport *bool
	strict        *bool
}

func addOptionFlags(flags *pflag.FlagSet) *optionFlags {
	return &optionFlags{
		flags:         flags,
		emscripten:    flags.BoolP("emscripten", "e", false, "emit an Emscripten module"),
		name:          flags.StringP("name", "n", convert.DefaultModule, "Emscripten module name"),
		defaultExport: flags.BoolP("default-export", "d", false, "add a default export of the module"),
		strict:        flags.Bool("strict", false, "report unsupported constructs as errors"),
	}
}

// options resolves conversion options. Priority: flag > config > default.
func (o *optionFlags) options(cfg *config.Config) convert.Options {
	opts := convert.Options{
		Emscripten:    cfg.Emscripten,
		Module:        cfg.Module,
		DefaultExport: cfg.DefaultExport,
		Strict:        cfg.Strict,
	}
	if o.flags.Changed("emscripten") {
		opts.Emscripten = *o.emscripten
	}
	if o.flags.Changed("name") {
		opts.Module = *o.name
	}
	if o.flags.Changed("default-export") {
		opts.DefaultExport = *o.defaultExport
	}
	if o.flags.Changed("strict") {
		opts.Strict = *o.strict
	}
	if opts.Module == "" {
		opts.Module = convert.DefaultModule
	}
	return opts
}

func loadInput(input string, timeout time.Duration) string {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := fetch.Load(ctx, input, fetch.Options{Timeout: timeout})
	if err != nil {
		report.New(os.Stderr, input).Error(err)
		os.Exit(1)
	}
	return src
}

func cmdConvert(args []string, cfg *config.Config) {
	flags := pflag.NewFlagSet("webidl-dts-gen", pflag.ExitOnError)
	inFlag := flags.StringP("in", "i", "", "IDL file, HTML page or URL to read (- for stdin)")
	outFlag := flags.StringP("out", "o", "", "declaration file to write (- for stdout)")
	quietFlag := flags.BoolP("quiet", "q", false, "do not print warnings")
	verboseFlag := flags.BoolP("verbose", "v", false, "print the IDL node behind each diagnostic")
	timeoutFlag := flags.Duration("timeout", 0, "timeout for remote inputs")
	optFlags := addOptionFlags(flags)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webidl-dts-gen -i <input> -o <output> [-e] [-n name] [-d]")
		flags.PrintDefaults()
	}
	flags.Parse(args)

	if *inFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: missing required flag -i/--in")
		flags.Usage()
		os.Exit(1)
	}
	if *outFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: missing required flag -o/--out")
		flags.Usage()
		os.Exit(1)
	}

	timeout := cfg.FetchTimeout()
	if flags.Changed("timeout") {
		timeout = *timeoutFlag
	}

	src := loadInput(*inFlag, timeout)

	rep := report.New(os.Stderr, *inFlag)
	rep.Quiet = *quietFlag
	rep.Verbose = *verboseFlag

	res, err := convert.Convert(src, optFlags.options(cfg))
	if err != nil {
		rep.Error(err)
		os.Exit(1)
	}
	errorCount, warningCount := rep.Diagnostics(res.Diagnostics)

	if *outFlag == "-" {
		fmt.Println(res.Output)
	} else {
		if err := os.WriteFile(*outFlag, []byte(res.Output), 0644); err != nil {
			rep.Error(fmt.Errorf("writing %s: %w", *outFlag, err))
			os.Exit(1)
		}
		rep.Summary(*outFlag, errorCount, warningCount)
	}

	if errorCount > 0 {
		os.Exit(1)
	}
}

func cmdParse(args []string, cfg *config.Config) {
	flags := pflag.NewFlagSet("parse", pflag.ExitOnError)
	emscriptenFlag := flags.BoolP("emscripten", "e", false, "apply Emscripten fixups before parsing")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webidl-dts-gen parse [-e] <input>")
		flags.PrintDefaults()
	}
	flags.Parse(args)

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(1)
	}

	input := flags.Arg(0)
	src := loadInput(input, cfg.FetchTimeout())

	emscripten := cfg.Emscripten
	if flags.Changed("emscripten") {
		emscripten = *emscriptenFlag
	}
	var opts parser.Options
	if emscripten {
		opts.Preprocess = fixes.Emscripten
	}

	file, err := parser.ParseString(src, opts)
	if err != nil {
		report.New(os.Stderr, input).Error(err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %s successfully (%d definition(s))\n", input, len(file.Definitions))
	fmt.Println("----------------------------------------")
	parser.Dump(os.Stdout, file)
}

func cmdRepl(args []string, cfg *config.Config) {
	flags := pflag.NewFlagSet("repl", pflag.ExitOnError)
	portFlag := flags.Int("port", 0, "port for the playground server")
	addressFlag := flags.String("address", "", "listen address for the playground server")
	optFlags := addOptionFlags(flags)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webidl-dts-gen repl [--address 127.0.0.1] [--port 8276] [-e] [-n name] [-d] [file]")
		flags.PrintDefaults()
	}
	flags.Parse(args)

	var filePath string
	if flags.NArg() > 0 {
		filePath = flags.Arg(0)
	}

	// Priority: flag > config > default
	addr := "127.0.0.1"
	if cfg.Repl.Address != "" {
		addr = cfg.Repl.Address
	}
	if flags.Changed("address") {
		addr = *addressFlag
	}

	port := 8276
	if cfg.Repl.Port != 0 {
		port = cfg.Repl.Port
	}
	if flags.Changed("port") {
		port = *portFlag
	}

	if err := serve.StartRepl(filePath, addr, port, optFlags.options(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
