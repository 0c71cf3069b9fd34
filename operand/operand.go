// Package operand resolves raw operand entries into positional descriptors.
package operand

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sarchlab/isagen/isa"
)

// AccessMode tells whether an operand is read, written, or both.
type AccessMode uint8

// Access mode bits.
const (
	Read AccessMode = 1 << iota
	Write
)

// IsRead reports whether the operand is read before the body runs.
func (m AccessMode) IsRead() bool {
	return m&Read != 0
}

// IsWrite reports whether the operand is written back after the body runs.
func (m AccessMode) IsWrite() bool {
	return m&Write != 0
}

func (m AccessMode) String() string {
	switch m {
	case Read:
		return "r"
	case Write:
		return "w"
	case Read | Write:
		return "rw"
	default:
		return "-"
	}
}

// ParseMode classifies a mode token by the markers it contains: 'r' makes
// the operand read, 'w' makes it written. Other characters are ignored and
// markers are case sensitive. A token without any marker is rejected.
func ParseMode(token string) (AccessMode, error) {
	var m AccessMode

	if strings.Contains(token, "r") {
		m |= Read
	}
	if strings.Contains(token, "w") {
		m |= Write
	}

	if m == 0 {
		return 0, fmt.Errorf("%w: %q has neither a read nor a write marker",
			isa.ErrInvalidOperandAccessMode, token)
	}

	return m, nil
}

// Descriptor is a classified operand.
type Descriptor struct {
	Index         int
	Ident         string
	Mode          AccessMode
	RegisterClass string
}

// Local is the name of the local variable bound to the operand. Semantic
// bodies refer to operands by this name.
func (d Descriptor) Local() string {
	return "r" + d.Ident
}

// Symbol is the placeholder used in the symbolic disassembly form.
func (d Descriptor) Symbol() string {
	return fmt.Sprintf("S%d", d.Index+1)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s:%s:%s", d.Ident, d.Mode, d.RegisterClass)
}

// Ident returns the identifier of the operand at index i. Identifiers are
// bijective base-26 letters: A..Z, then AA, AB, and so on, so there is no
// upper bound on the operand count.
func Ident(i int) string {
	if i < 0 {
		panic(fmt.Sprintf("negative operand index %d", i))
	}

	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}
	slices.Reverse(buf)

	return string(buf)
}

// Resolve classifies every operand in order.
func Resolve(specs []isa.OperandSpec) ([]Descriptor, error) {
	descs := make([]Descriptor, 0, len(specs))

	for i, spec := range specs {
		mode, err := ParseMode(spec.Mode)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}

		descs = append(descs, Descriptor{
			Index:         i,
			Ident:         Ident(i),
			Mode:          mode,
			RegisterClass: spec.RegisterClass,
		})
	}

	return descs, nil
}
