// Package verify checks generated instruction classes before they are
// written out.
//
// Two complementary stages run over every class:
//
// 1. Static lint (lint.go): structural checks on the class
//   - slot list, prologue and operand list have the same length
//   - every operand is bound exactly once, in declared order
//   - stores appear only for written operands, in declared order
//   - locals are unique, class names do not collide
//   - symbolic and resolved forms agree on the operand count
//
// 2. Functional simulator (funcsim.go): a small interpreter for the access
// plan of a class
//   - runs the prologue, a Go closure standing in for the opaque body, and
//     the epilogue against an in-memory register file
//   - checks read-modify-write identity, zero binding of write-only
//     operands, and that read-only registers are never stored
//
// # Access plan
//
// An emit.Class carries its plan next to the rendered text:
//
//	emit.Class
//	  ├── Operands  (Ident, Mode, RegisterClass per operand)
//	  ├── Prologue  (Load or Zero, one per operand)
//	  ├── Body      (opaque)
//	  └── Epilogue  (Store, one per written operand)
//
// The simulator executes the plan, never the body text.
package verify

import "errors"

// ErrLint is returned when generated classes violate their contract.
var ErrLint = errors.New("generated classes failed verification")

// IssueType classifies lint issues.
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // shape of the class (counts, names, order)
	IssueAccess IssueType = "ACCESS" // behavior of the access plan
)

// Issue represents a single lint issue.
type Issue struct {
	Type        IssueType
	Instruction string
	Operand     int // operand index or -1
	Message     string
}
