package script

import (
	"strings"

	"github.com/earthbucks/ebxnode/util"
)

// Script is an ordered list of chunks.
type Script struct {
	Chunks []Chunk
}

func New(chunks ...Chunk) *Script {
	return &Script{Chunks: chunks}
}

// NewFromBytes decodes a complete script. Truncated or non-minimal pushes are errors.
func NewFromBytes(b []byte) (*Script, error) {
	r := util.NewReader(b)
	s := &Script{}

	for !r.EOF() {
		chunk, err := readChunk(r)
		if err != nil {
			return nil, err
		}

		s.Chunks = append(s.Chunks, chunk)
	}

	return s, nil
}

// NewFromStrictString parses whitespace separated chunk tokens, e.g. "DUP 0xffff".
func NewFromStrictString(str string) (*Script, error) {
	s := &Script{}

	for _, token := range strings.Fields(str) {
		chunk, err := ChunkFromStrictString(token)
		if err != nil {
			return nil, err
		}

		s.Chunks = append(s.Chunks, chunk)
	}

	return s, nil
}

func (s *Script) Bytes() []byte {
	if s == nil {
		return []byte{}
	}

	var b []byte
	for _, c := range s.Chunks {
		b = c.appendBytes(b)
	}

	if b == nil {
		return []byte{}
	}

	return b
}

func (s *Script) StrictString() (string, error) {
	parts := make([]string, 0, len(s.Chunks))

	for _, c := range s.Chunks {
		part, err := c.StrictString()
		if err != nil {
			return "", err
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, " "), nil
}

// String is StrictString without the error, for logging.
func (s *Script) String() string {
	str, err := s.StrictString()
	if err != nil {
		return "<unprintable script>"
	}

	return str
}

func (s *Script) Equal(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}

	if len(s.Chunks) != len(other.Chunks) {
		return false
	}

	for i := range s.Chunks {
		if !s.Chunks[i].Equal(other.Chunks[i]) {
			return false
		}
	}

	return true
}

func (s *Script) Clone() *Script {
	chunks := make([]Chunk, len(s.Chunks))
	for i, c := range s.Chunks {
		chunks[i] = Chunk{Opcode: c.Opcode, Data: append([]byte(nil), c.Data...)}
	}

	return &Script{Chunks: chunks}
}

// IsPushOnly reports whether every opcode is at or below OP_16.
func (s *Script) IsPushOnly() bool {
	for _, c := range s.Chunks {
		if c.Opcode > OP_16 {
			return false
		}
	}

	return true
}

// IsCoinbaseInput only requires a push-only script.
func (s *Script) IsCoinbaseInput() bool {
	return s.IsPushOnly()
}

func (s *Script) IsStandardInput() bool {
	if !s.IsPushOnly() {
		return false
	}

	kind := ClassifyInput(s).Kind

	return kind == InputUnexpired || kind == InputExpiredPkhx
}

func (s *Script) IsStandardOutput() bool {
	kind := ClassifyOutput(s).Kind
	return kind == OutputPkhx90d || kind == OutputPkhx1h
}
