// Command isagen generates the C++ instruction classes of an AVR simulator
// from a YAML instruction table.
//
//	isagen INPUT OUTPUT
//
// Settings are read from ISAGEN_LOG_LEVEL, ISAGEN_REPORT and
// ISAGEN_REGISTER_CLASSES.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/isagen/api"
	"github.com/sarchlab/isagen/config"
	"github.com/sarchlab/isagen/isa"
)

const usage = "usage: isagen INPUT OUTPUT"

var errUsage = errors.New(usage)

func main() {
	input, output, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "isagen: %v\n", err)
		atexit.Exit(1)
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	if err := run(input, output, cfg, logger, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "isagen: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// parseArgs accepts exactly two positional arguments, the input table and
// the output file. Flags are not supported.
func parseArgs(args []string) (input, output string, err error) {
	if len(args) != 2 {
		return "", "", errUsage
	}

	for _, arg := range args {
		if arg == "" || (len(arg) > 1 && arg[0] == '-') {
			return "", "", errUsage
		}
	}

	return args[0], args[1], nil
}

// run generates output from input. The classes go to a temporary file next
// to output, which replaces output only when generation succeeded.
func run(
	input, output string,
	cfg config.Config,
	logger *slog.Logger,
	reportOut io.Writer,
) error {
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	renamed := false
	track(tmpName)
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmpName)
		}
		untrack(tmpName)
	}()

	generator := api.NewBuilder().
		WithTarget(cfg.Target()).
		WithLogger(logger).
		WithInputName(filepath.Base(input)).
		Build()

	report, err := generator.Run(isa.FileLoader{Path: input}, tmp)
	if report != nil && cfg.Report {
		report.WriteReport(reportOut)
	}
	if err != nil {
		return err
	}

	if err := tmp.Chmod(0o644); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, output); err != nil {
		return err
	}
	renamed = true

	logger.Info("output written", "path", output)

	return nil
}

// Temporary files still open when atexit.Exit runs are removed by a single
// handler.
var (
	pendingMu   sync.Mutex
	pending     = make(map[string]struct{})
	cleanupOnce sync.Once
)

func track(name string) {
	cleanupOnce.Do(func() { atexit.Register(removePending) })

	pendingMu.Lock()
	defer pendingMu.Unlock()
	pending[name] = struct{}{}
}

func untrack(name string) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	delete(pending, name)
}

func removePending() {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	for name := range pending {
		os.Remove(name)
	}
}
