// Package script encodes, decodes, recognizes and builds the scripts that
// lock and unlock transaction outputs.
package script

import (
	"fmt"

	"github.com/earthbucks/ebxnode/errors"
)

var opcodeValues = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}

	return m
}()

// String returns the strict name of op, without the OP_ prefix.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}

	return fmt.Sprintf("0x%02x", uint8(op))
}

// IsDefined reports whether op has a name in the opcode table.
func (op Opcode) IsDefined() bool {
	_, ok := opcodeNames[op]
	return ok
}

// IsPushData reports whether op carries an explicit payload.
func (op Opcode) IsPushData() bool {
	return op == OP_PUSHDATA1 || op == OP_PUSHDATA2 || op == OP_PUSHDATA4
}

// OpcodeFromName looks up an opcode by its strict name, e.g. "DUP".
func OpcodeFromName(name string) (Opcode, error) {
	op, ok := opcodeValues[name]
	if !ok {
		return 0, errors.NewInvalidArgumentError("unknown opcode name %q", name)
	}

	return op, nil
}

// SmallIntOpcode returns the opcode pushing n, for n in [0, 16].
func SmallIntOpcode(n int) (Opcode, error) {
	switch {
	case n == 0:
		return OP_0, nil
	case n >= 1 && n <= 16:
		return OP_1 + Opcode(n-1), nil
	default:
		return 0, errors.NewInvalidArgumentError("%d is not a small integer", n)
	}
}

// SmallIntValue is the inverse of SmallIntOpcode.
func SmallIntValue(op Opcode) (int, bool) {
	switch {
	case op == OP_0:
		return 0, true
	case op >= OP_1 && op <= OP_16:
		return int(op-OP_1) + 1, true
	default:
		return 0, false
	}
}
