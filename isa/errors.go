package isa

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInputFile means the input is not the expected mapping.
	ErrMalformedInputFile = errors.New("malformed input file")

	// ErrMissingField means an instruction record lacks a required field.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidOperandAccessMode means an operand mode token has neither a
	// read nor a write marker, or carries an unknown marker.
	ErrInvalidOperandAccessMode = errors.New("invalid operand access mode")

	// ErrInvalidRegisterClass means a register class tag is not usable on the
	// selected target.
	ErrInvalidRegisterClass = errors.New("invalid register class")
)

// InstructionError reports a failure that belongs to one instruction.
type InstructionError struct {
	Instruction string
	Field       string
	Err         error
}

// NewInstructionError wraps err with the instruction and field it belongs to.
func NewInstructionError(instruction, field string, err error) *InstructionError {
	return &InstructionError{
		Instruction: instruction,
		Field:       field,
		Err:         err,
	}
}

func (e *InstructionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("instruction %q: %v", e.Instruction, e.Err)
	}
	return fmt.Sprintf("instruction %q, field %q: %v", e.Instruction, e.Field, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}
