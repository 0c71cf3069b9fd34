// Package api defines the entry point that turns an instruction table into
// generated C++ source.
package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/isagen/config"
	"github.com/sarchlab/isagen/emit"
	"github.com/sarchlab/isagen/isa"
	"github.com/sarchlab/isagen/verify"
)

// Generator runs a whole generation.
type Generator interface {
	// Run loads the table, builds and verifies every class, then writes the
	// result to w. Nothing is written to w when any step fails. The report
	// is returned whenever verification ran.
	Run(loader isa.Loader, w io.Writer) (*verify.Report, error)
}

type generatorImpl struct {
	emitter   *emit.Emitter
	logger    *slog.Logger
	inputName string
}

func (g *generatorImpl) Run(loader isa.Loader, w io.Writer) (*verify.Report, error) {
	table, err := loader.Load()
	if err != nil {
		g.logger.Error("loading instructions failed",
			"input", g.inputName, "error", err)
		return nil, err
	}

	g.logger.Info("instructions loaded",
		"input", g.inputName, "count", table.Len())
	g.dumpTable(table)

	classes, err := g.emitter.Generate(table)
	if err != nil {
		g.logger.Error("generation failed", "error", err)
		return nil, err
	}

	for _, c := range classes {
		config.Trace(g.logger, "class generated",
			"instruction", c.Name,
			"class", c.ClassName,
			"slots", c.SlotCount(),
			"form", c.SymbolicForm)
	}

	report := verify.GenerateReport(g.inputName, classes)
	if err := report.Err(); err != nil {
		g.logger.Error("verification failed", "issues", len(report.Issues))
		return report, err
	}

	if err := g.emitter.Write(w, classes); err != nil {
		return report, err
	}

	g.logger.Info("classes written",
		"target", g.emitter.Target().Name, "count", len(classes))

	return report, nil
}

func (g *generatorImpl) dumpTable(table *isa.Table) {
	if !g.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	g.logger.Debug("instruction table", "table", spew.Sdump(table))
}
