package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/xirelogy/golox"
)

const helpMessage = `golox runs scripts, or starts a REPL when no file is given.

Usage:
  golox [flags] [file]

`

// Exit codes follow the BSD sysexits convention.
const (
	exitUsage   = 64
	exitData    = 65
	exitRuntime = 70
	exitIO      = 74
)

var (
	configPath = flag.String("config", "", "load settings from a .toml or .yaml file")
	trace      = flag.Bool("trace", false, "log every executed instruction (needs -v 2)")
	printCode  = flag.Bool("print-code", false, "print a bytecode listing of each chunk to stderr")
	verbosity  = flag.Int("v", 0, "log verbosity")
	colorMode  = flag.String("color", "", "diagnostics color: auto, always or never")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpMessage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitUsage)
	}
	commonlog.Configure(cfg.Verbosity, nil)

	args := flag.Args()
	switch len(args) {
	case 0:
		repl(cfg)
	case 1:
		os.Exit(runFile(cfg, args[0]))
	default:
		flag.Usage()
		os.Exit(exitUsage)
	}
}

// loadConfig reads the optional config file, then lets explicitly set flags
// override it.
func loadConfig() (golox.Config, error) {
	cfg := golox.DefaultConfig()
	if *configPath != "" {
		loaded, err := golox.LoadConfig(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			cfg.Trace = *trace
		case "print-code":
			cfg.PrintCode = *printCode
		case "v":
			cfg.Verbosity = *verbosity
		case "color":
			cfg.Color = *colorMode
		}
	})
	return cfg, cfg.Validate()
}

func runFile(cfg golox.Config, path string) int {
	vm := golox.NewVM(cfg)
	defer vm.Close()

	res, _ := vm.InterpretFile(path)
	switch res {
	case golox.ResultCompileError:
		return exitData
	case golox.ResultRuntimeError:
		return exitRuntime
	case golox.ResultIOError:
		return exitIO
	default:
		return 0
	}
}

func repl(cfg golox.Config) {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitIO)
	}
	defer rl.Close()

	vm := golox.NewVM(cfg, golox.WithStdout(rl.Stdout()), golox.WithStderr(rl.Stderr()))
	defer vm.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			break
		}
		// diagnostics are already on stderr; the REPL keeps going
		vm.Interpret(line)
	}
}
