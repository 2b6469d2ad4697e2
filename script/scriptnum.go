package script

import (
	"math/big"

	"github.com/earthbucks/ebxnode/errors"
)

// NumBytes encodes n as a minimal big-endian two's complement integer.
// Zero encodes to an empty slice.
func NumBytes(n int64) []byte {
	if n == 0 {
		return []byte{}
	}

	v := big.NewInt(n)

	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}

		return b
	}

	// two's complement of a negative value over the smallest width that keeps the sign bit
	width := (new(big.Int).Not(v).BitLen() / 8) + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
	b := new(big.Int).Add(mod, v).Bytes()

	for len(b) < width {
		b = append([]byte{0xff}, b...)
	}

	return b
}

// NumFromBytes decodes a minimal big-endian two's complement integer.
func NumFromBytes(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}

	if len(b) > 8 {
		return 0, errors.NewInvalidArgumentError("script number of %d bytes overflows int64", len(b))
	}

	if len(b) > 1 {
		if (b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xff && b[1]&0x80 != 0) {
			return 0, errors.NewInvalidArgumentError("non-minimal script number %x", b)
		}
	}

	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}

	for _, c := range b {
		v = v<<8 | int64(c)
	}

	return v, nil
}
