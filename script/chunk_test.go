package script

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataChunkPicksSmallestPush(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		op     Opcode
		header string
	}{
		{"empty", 0, OP_PUSHDATA1, "4c00"},
		{"two bytes", 2, OP_PUSHDATA1, "4c02"},
		{"255 bytes", 255, OP_PUSHDATA1, "4cff"},
		{"256 bytes", 256, OP_PUSHDATA2, "4d0100"},
		{"65536 bytes", 65536, OP_PUSHDATA4, "4e00010000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDataChunk(bytes.Repeat([]byte{0xab}, tt.size))
			assert.Equal(t, tt.op, c.Opcode)

			b := c.Bytes()
			assert.Equal(t, tt.header, hex.EncodeToString(b[:len(b)-tt.size]))

			decoded, err := readChunk(util.NewReader(b))
			require.NoError(t, err)
			assert.True(t, c.Equal(decoded))
		})
	}
}

func TestReadChunkRejects(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"truncated pushdata1 payload", "4c05aabb"},
		{"missing pushdata1 length", "4c"},
		{"truncated pushdata2 length", "4d01"},
		{"non-minimal pushdata2", "4d0002aabb"},
		{"non-minimal pushdata4", "4e00000002aabb"},
		{"truncated pushdata4 payload", "4e00010000aa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := hex.DecodeString(tt.hex)
			require.NoError(t, err)

			_, err = readChunk(util.NewReader(b))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
		})
	}
}

func TestChunkStrictString(t *testing.T) {
	c, err := ChunkFromStrictString("0xffff")
	require.NoError(t, err)
	assert.Equal(t, OP_PUSHDATA1, c.Opcode)
	assert.Equal(t, []byte{0xff, 0xff}, c.Data)

	s, err := c.StrictString()
	require.NoError(t, err)
	assert.Equal(t, "0xffff", s)

	c, err = ChunkFromStrictString("CHECKLOCKRELVERIFY")
	require.NoError(t, err)
	assert.Equal(t, OP_CHECKLOCKRELVERIFY, c.Opcode)

	_, err = ChunkFromStrictString("OP_DUP")
	require.Error(t, err)

	_, err = ChunkFromStrictString("0xzz")
	require.Error(t, err)

	_, err = ChunkFromStrictString("PUSHDATA1")
	require.Error(t, err)

	_, err = NewOpChunk(Opcode(0xfe)).StrictString()
	require.Error(t, err)
}

func TestOpcodeLookup(t *testing.T) {
	for op, name := range opcodeNames {
		got, err := OpcodeFromName(name)
		require.NoError(t, err)
		assert.Equal(t, op, got, name)
	}

	assert.Equal(t, Opcode(0xb1), OP_DOUBLEBLAKE3)
	assert.Equal(t, "DOUBLEBLAKE3", OP_DOUBLEBLAKE3.String())
	assert.Equal(t, "0xfe", Opcode(0xfe).String())

	for n := 0; n <= 16; n++ {
		op, err := SmallIntOpcode(n)
		require.NoError(t, err)

		v, ok := SmallIntValue(op)
		require.True(t, ok)
		assert.Equal(t, n, v)
	}

	_, err := SmallIntOpcode(17)
	require.Error(t, err)
}

func TestScriptNum(t *testing.T) {
	tests := []struct {
		n   int64
		hex string
	}{
		{0, ""},
		{1, "01"},
		{127, "7f"},
		{128, "0080"},
		{255, "00ff"},
		{4, "04"},
		{8640, "21c0"},
		{12960, "32a0"},
		{-1, "ff"},
		{-128, "80"},
		{-129, "ff7f"},
	}

	for _, tt := range tests {
		b := NumBytes(tt.n)
		assert.Equal(t, tt.hex, hex.EncodeToString(b), "encode %d", tt.n)

		n, err := NumFromBytes(b)
		require.NoError(t, err)
		assert.Equal(t, tt.n, n)
	}

	_, err := NumFromBytes([]byte{0x00, 0x01})
	require.Error(t, err)

	_, err = NumFromBytes([]byte{0xff, 0x80})
	require.Error(t, err)
}
