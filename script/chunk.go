package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util"
)

// Chunk is one script element. Data is only set for PUSHDATA opcodes.
type Chunk struct {
	Opcode Opcode
	Data   []byte
}

// NewOpChunk returns a chunk without payload.
func NewOpChunk(op Opcode) Chunk {
	return Chunk{Opcode: op}
}

// NewDataChunk pushes data with the smallest PUSHDATA opcode that fits.
func NewDataChunk(data []byte) Chunk {
	var op Opcode

	switch {
	case len(data) <= 0xff:
		op = OP_PUSHDATA1
	case len(data) <= 0xffff:
		op = OP_PUSHDATA2
	default:
		op = OP_PUSHDATA4
	}

	return Chunk{Opcode: op, Data: append([]byte(nil), data...)}
}

// HasData reports whether the chunk carries a payload.
func (c Chunk) HasData() bool {
	return c.Opcode.IsPushData()
}

// Equal compares opcode and payload.
func (c Chunk) Equal(other Chunk) bool {
	return c.Opcode == other.Opcode && bytes.Equal(c.Data, other.Data)
}

// Bytes returns the wire encoding of the chunk.
func (c Chunk) Bytes() []byte {
	return c.appendBytes(nil)
}

func (c Chunk) appendBytes(dst []byte) []byte {
	dst = append(dst, byte(c.Opcode))

	switch c.Opcode {
	case OP_PUSHDATA1:
		dst = append(dst, byte(len(c.Data)))
	case OP_PUSHDATA2:
		dst = binary.BigEndian.AppendUint16(dst, uint16(len(c.Data)))
	case OP_PUSHDATA4:
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(c.Data)))
	default:
		return dst
	}

	return append(dst, c.Data...)
}

// StrictString renders the chunk as a name, or 0x<hex> for pushes.
func (c Chunk) StrictString() (string, error) {
	if c.HasData() {
		return "0x" + hex.EncodeToString(c.Data), nil
	}

	if !c.Opcode.IsDefined() {
		return "", errors.NewInvalidArgumentError("opcode 0x%02x has no name", uint8(c.Opcode))
	}

	return c.Opcode.String(), nil
}

// ChunkFromStrictString parses one token of the strict string form.
func ChunkFromStrictString(s string) (Chunk, error) {
	if strings.HasPrefix(s, "0x") {
		data, err := hex.DecodeString(s[2:])
		if err != nil {
			return Chunk{}, errors.NewInvalidArgumentError("invalid hex push %q", s, err)
		}

		return NewDataChunk(data), nil
	}

	op, err := OpcodeFromName(s)
	if err != nil {
		return Chunk{}, err
	}

	if op.IsPushData() {
		return Chunk{}, errors.NewInvalidArgumentError("%s must be written as 0x<hex>", s)
	}

	return NewOpChunk(op), nil
}

// readChunk decodes one chunk. Pushes that would fit a smaller PUSHDATA
// opcode are rejected as non-minimal.
func readChunk(r *util.Reader) (Chunk, error) {
	b, err := r.ReadU8()
	if err != nil {
		return Chunk{}, err
	}

	op := Opcode(b)

	var length int

	switch op {
	case OP_PUSHDATA1:
		n, err := r.ReadU8()
		if err != nil {
			return Chunk{}, err
		}

		length = int(n)
	case OP_PUSHDATA2:
		n, err := r.ReadU16BE()
		if err != nil {
			return Chunk{}, err
		}

		if n <= 0xff {
			return Chunk{}, errors.NewInvalidArgumentError("non-minimal PUSHDATA2 of %d bytes", n)
		}

		length = int(n)
	case OP_PUSHDATA4:
		n, err := r.ReadU32BE()
		if err != nil {
			return Chunk{}, err
		}

		if n <= 0xffff {
			return Chunk{}, errors.NewInvalidArgumentError("non-minimal PUSHDATA4 of %d bytes", n)
		}

		if uint64(n) > uint64(r.Remaining()) {
			return Chunk{}, errors.NewInvalidArgumentError("not enough bytes for PUSHDATA4 of %d bytes", n)
		}

		length = int(n)
	default:
		return NewOpChunk(op), nil
	}

	data, err := r.ReadBytes(length)
	if err != nil {
		return Chunk{}, err
	}

	return Chunk{Opcode: op, Data: append([]byte(nil), data...)}, nil
}
