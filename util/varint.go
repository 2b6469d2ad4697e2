package util

import (
	"encoding/binary"

	"github.com/earthbucks/ebxnode/errors"
)

// VarintSize returns the number of bytes needed to encode x as a VarInt:
// 1, 3, 5 or 9.
func VarintSize(x uint64) uint64 {
	if x < 0xfd {
		return 1
	}

	if x <= 0xffff {
		return 3
	}

	if x <= 0xffffffff {
		return 5
	}

	return 9
}

// AppendVarint appends the minimal big-endian VarInt encoding of x to dst.
func AppendVarint(dst []byte, x uint64) []byte {
	switch {
	case x < 0xfd:
		return append(dst, byte(x))
	case x <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, 0xfd), uint16(x))
	case x <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, 0xfe), uint32(x))
	default:
		return binary.BigEndian.AppendUint64(append(dst, 0xff), x)
	}
}

// DecodeVarint parses a VarInt from the start of b and returns the value and
// the number of bytes consumed. Non-minimal encodings are rejected.
func DecodeVarint(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, errors.NewInvalidArgumentError("varint: not enough bytes")
	}

	var (
		value    uint64
		size     int
		minValue uint64
	)

	switch b[0] {
	case 0xfd:
		size, minValue = 3, 0xfd
		if len(b) >= size {
			value = uint64(binary.BigEndian.Uint16(b[1:3]))
		}
	case 0xfe:
		size, minValue = 5, 0x10000
		if len(b) >= size {
			value = uint64(binary.BigEndian.Uint32(b[1:5]))
		}
	case 0xff:
		size, minValue = 9, 0x100000000
		if len(b) >= size {
			value = binary.BigEndian.Uint64(b[1:9])
		}
	default:
		return uint64(b[0]), 1, nil
	}

	if len(b) < size {
		return 0, 0, errors.NewInvalidArgumentError("varint: not enough bytes, need %d have %d", size, len(b))
	}

	if value < minValue {
		return 0, 0, errors.NewInvalidArgumentError("varint: non-minimal encoding of %d", value)
	}

	return value, size, nil
}
