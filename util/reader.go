package util

import (
	"encoding/binary"

	"github.com/earthbucks/ebxnode/errors"
)

// Reader consumes big-endian fields from a byte slice. Every read fails with
// ERR_INVALID_ARGUMENT instead of reading past the end.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadBytes returns the next n bytes. The result aliases the underlying slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, errors.NewInvalidArgumentError("not enough bytes: need %d have %d", n, r.Remaining())
	}

	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) ReadU16BE() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) ReadU32BE() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) ReadU64BE() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) ReadVarint() (uint64, error) {
	value, n, err := DecodeVarint(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}

	r.pos += n

	return value, nil
}

// ReadVarBytes reads a VarInt length followed by that many bytes.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}

	if n > uint64(r.Remaining()) {
		return nil, errors.NewInvalidArgumentError("not enough bytes: need %d have %d", n, r.Remaining())
	}

	return r.ReadBytes(int(n))
}
