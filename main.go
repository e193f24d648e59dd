package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/urcl-vm/urcl-vm/config"
	"github.com/urcl-vm/urcl-vm/diag"
	"github.com/urcl-vm/urcl-vm/interp"
	"github.com/urcl-vm/urcl-vm/loader"
	"github.com/urcl-vm/urcl-vm/profiler"
)

// Version is overridden at build time with -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

func main() {
	var (
		showVersion     = flag.Bool("version", false, "Show version information")
		showHelp        = flag.Bool("help", false, "Show help information")
		maxInstructions = flag.Uint64("max-instructions", 0, "Maximum instruction count before halt (0: use config default)")
		bitsOverride    = flag.Uint("bits", 0, "Override the program's @bits word width (0: use the program's own setting)")
		enableTrace     = flag.Bool("trace", false, "Write an execution trace to the configured trace file")
		visualize       = flag.Bool("visualize", false, "Launch the live terminal register/memory viewer")
		configPath      = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("urcl-vm %s\n", Version)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	srcPath := flag.Arg(0)
	srcBytes, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	src := string(srcBytes)

	_, it, errList := loader.Load(src, srcPath, os.Stdout, os.Stdin, *bitsOverride)
	if errList != nil {
		if cfg.Display.ColorOutput {
			diag.Render(os.Stderr, src, errList)
		} else {
			diag.RenderPlain(os.Stderr, src, errList)
		}
		os.Exit(1)
	}

	var traceFile *os.File
	if *enableTrace || cfg.Trace.Enabled {
		traceFile, err = os.Create(cfg.Trace.OutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening trace file: %v\n", err)
			os.Exit(1)
		}
		defer traceFile.Close()
	}

	limit := *maxInstructions
	if limit == 0 {
		limit = cfg.Execution.MaxInstructions
	}

	status, runErr := run(it, limit, traceFile, *visualize)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", runErr.Error())
		os.Exit(1)
	}
	if status != interp.Halted {
		fmt.Fprintf(os.Stderr, "Program did not halt after %d instructions\n", it.InstructionCount())
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// run steps it to completion, optionally writing a per-instruction trace
// line and/or driving a live profiler.Viewer alongside the step loop.
func run(it *interp.Interpreter, maxInstructions uint64, trace *os.File, visualize bool) (interp.Status, error) {
	if !visualize {
		return stepLoop(it, maxInstructions, trace)
	}

	v := profiler.New(it)
	result := make(chan stepResult, 1)
	go func() {
		status, err := stepLoop(it, maxInstructions, trace)
		result <- stepResult{status, err}
		v.Stop()
	}()

	if err := v.Run(); err != nil {
		return interp.Errored, err
	}
	r := <-result
	return r.status, r.err
}

type stepResult struct {
	status interp.Status
	err    error
}

func stepLoop(it *interp.Interpreter, maxInstructions uint64, trace *os.File) (interp.Status, error) {
	for {
		status, stepErr := it.Step()
		if trace != nil {
			fmt.Fprintf(trace, "[%s] instruction %d\n", time.Now().Format(time.RFC3339Nano), it.InstructionCount())
		}
		if stepErr != nil {
			return interp.Errored, stepErr
		}
		if status != interp.Running {
			return status, nil
		}
		if maxInstructions > 0 && it.InstructionCount() >= maxInstructions {
			return interp.Running, nil
		}
	}
}

func printHelp() {
	fmt.Printf(`urcl-vm %s

Usage: urcl-vm [options] <source-file>

Options:
  -help                 Show this help message
  -version              Show version information
  -max-instructions N   Maximum instruction count before halt (0: use config)
  -bits N               Override the program's word width
  -trace                Write an execution trace to the configured trace file
  -visualize            Launch the live terminal register/memory viewer
  -config FILE          Path to a TOML config file
`, Version)
}
