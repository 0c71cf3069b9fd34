package api

import (
	"log/slog"

	"github.com/sarchlab/isagen/emit"
)

// GeneratorBuilder creates a new instance of Generator.
type GeneratorBuilder struct {
	target    emit.Target
	logger    *slog.Logger
	inputName string
}

// NewBuilder returns a builder for the AVR target that logs nothing.
func NewBuilder() GeneratorBuilder {
	return GeneratorBuilder{
		target:    emit.AVR,
		logger:    slog.New(slog.DiscardHandler),
		inputName: "instructions.yaml",
	}
}

// WithTarget sets the target runtime.
func (b GeneratorBuilder) WithTarget(target emit.Target) GeneratorBuilder {
	b.target = target
	return b
}

// WithLogger sets the logger.
func (b GeneratorBuilder) WithLogger(logger *slog.Logger) GeneratorBuilder {
	b.logger = logger
	return b
}

// WithInputName sets the input name used in the banner and the report.
func (b GeneratorBuilder) WithInputName(name string) GeneratorBuilder {
	b.inputName = name
	return b
}

// Build creates a generator.
func (b GeneratorBuilder) Build() Generator {
	return &generatorImpl{
		emitter: emit.NewBuilder().
			WithTarget(b.target).
			WithSource(b.inputName).
			Build(),
		logger:    b.logger,
		inputName: b.inputName,
	}
}
