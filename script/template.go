package script

import (
	"bytes"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

const (
	// PkhSize is the width of a public key hash.
	PkhSize = 32
	// PubKeySize is the width of a compressed secp256k1 public key.
	PubKeySize = 33
	// SignatureSize is the width of an encoded transaction signature.
	SignatureSize = 65
)

// OutputKind identifies a locking script template.
type OutputKind uint8

const (
	OutputNonStandard OutputKind = iota
	OutputPkh
	OutputPkhx90d
	OutputPkhx1h
	OutputPkhxr90d60d
	OutputPkhxr1h40m
	OutputMultiSig
)

var outputKindNames = [...]string{"nonstandard", "pkh", "pkhx_90d", "pkhx_1h", "pkhxr_90d_60d", "pkhxr_1h_40m", "multisig"}

func (k OutputKind) String() string {
	if int(k) < len(outputKindNames) {
		return outputKindNames[k]
	}

	return "unknown"
}

// IsPkhx reports whether k is one of the expiring templates without recovery.
func (k OutputKind) IsPkhx() bool {
	return k == OutputPkhx90d || k == OutputPkhx1h
}

// IsPkhxr reports whether k is one of the expiring templates with recovery.
func (k OutputKind) IsPkhxr() bool {
	return k == OutputPkhxr90d60d || k == OutputPkhxr1h40m
}

// InputKind identifies an unlocking script shape.
type InputKind uint8

const (
	InputNonStandard InputKind = iota
	InputPkh
	InputUnexpired
	InputExpiredPkhx
	InputExpiredPkhxr
	InputRecovery
)

var inputKindNames = [...]string{"nonstandard", "pkh", "unexpired", "expired_pkhx", "expired_pkhxr", "recovery"}

func (k InputKind) String() string {
	if int(k) < len(inputKindNames) {
		return inputKindNames[k]
	}

	return "unknown"
}

// OutputTemplate is the result of classifying a locking script.
type OutputTemplate struct {
	Kind        OutputKind
	Pkh         chainhash.Hash
	RecoveryPkh chainhash.Hash
	// multisig only
	Required int
	PubKeys  [][]byte
}

// InputTemplate is the result of classifying an unlocking script.
type InputTemplate struct {
	Kind      InputKind
	Signature []byte
	PubKey    []byte
}

type slot uint8

const (
	slotNone slot = iota
	slotPkh
	slotRecoveryPkh
	slotSignature
	slotPubKey
)

// element matches one chunk. A zero size means a bare opcode, otherwise a
// PUSHDATA1 of exactly size bytes. Non-nil value pins the pushed bytes.
type element struct {
	op    Opcode
	size  int
	value []byte
	slot  slot
}

func op(o Opcode) element { return element{op: o} }

func push(size int, s slot) element { return element{op: OP_PUSHDATA1, size: size, slot: s} }

// lock pushes a relative lock constant. Values up to 16 use the small integer opcode.
func lock(blocks uint32) element {
	if blocks <= 16 {
		o, _ := SmallIntOpcode(int(blocks))
		return op(o)
	}

	v := NumBytes(int64(blocks))

	return element{op: OP_PUSHDATA1, size: len(v), value: v}
}

func (e element) matches(c Chunk) bool {
	if c.Opcode != e.op {
		return false
	}

	if e.size == 0 {
		return true
	}

	if len(c.Data) != e.size {
		return false
	}

	return e.value == nil || bytes.Equal(c.Data, e.value)
}

type pattern []element

func (p pattern) match(chunks []Chunk) bool {
	if len(chunks) != len(p) {
		return false
	}

	for i, e := range p {
		if !e.matches(chunks[i]) {
			return false
		}
	}

	return true
}

type fill map[slot][]byte

func (p pattern) build(values fill) *Script {
	chunks := make([]Chunk, len(p))

	for i, e := range p {
		switch {
		case e.size == 0:
			chunks[i] = NewOpChunk(e.op)
		case e.value != nil:
			chunks[i] = NewDataChunk(e.value)
		default:
			chunks[i] = NewDataChunk(values[e.slot])
		}
	}

	return &Script{Chunks: chunks}
}

func pkhEqualVerify(s slot) []element {
	return []element{op(OP_DUP), op(OP_DOUBLEBLAKE3), push(PkhSize, s), op(OP_EQUALVERIFY), op(OP_CHECKSIG)}
}

func pkhxPattern(expiry uint32) pattern {
	p := pattern{op(OP_IF)}
	p = append(p, pkhEqualVerify(slotPkh)...)
	p = append(p, op(OP_ELSE), lock(expiry), op(OP_CHECKLOCKRELVERIFY), op(OP_DROP), op(OP_1), op(OP_ENDIF))

	return p
}

func pkhxrPattern(expiry, recovery uint32) pattern {
	p := pattern{op(OP_IF)}
	p = append(p, pkhEqualVerify(slotPkh)...)
	p = append(p, op(OP_ELSE), op(OP_IF), lock(recovery), op(OP_CHECKLOCKRELVERIFY), op(OP_DROP))
	p = append(p, pkhEqualVerify(slotRecoveryPkh)...)
	p = append(p, op(OP_ELSE), lock(expiry), op(OP_CHECKLOCKRELVERIFY), op(OP_DROP), op(OP_1), op(OP_ENDIF), op(OP_ENDIF))

	return p
}

var (
	pkhOutputPattern         = pattern(pkhEqualVerify(slotPkh))
	pkhx90dOutputPattern     = pkhxPattern(Pkhx90dLockRel)
	pkhx1hOutputPattern      = pkhxPattern(Pkhx1hLockRel)
	pkhxr90d60dOutputPattern = pkhxrPattern(Pkhxr90d60dExpiryLockRel, Pkhxr90d60dRecoveryLockRel)
	pkhxr1h40mOutputPattern  = pkhxrPattern(Pkhxr1h40mExpiryLockRel, Pkhxr1h40mRecoveryLockRel)

	sigPub = []element{push(SignatureSize, slotSignature), push(PubKeySize, slotPubKey)}

	pkhInputPattern          = pattern(sigPub)
	unexpiredInputPattern    = append(pattern(sigPub), op(OP_1))
	recoveryInputPattern     = append(pattern(sigPub), op(OP_1), op(OP_0))
	expiredPkhxInputPattern  = pattern{op(OP_0)}
	expiredPkhxrInputPattern = pattern{op(OP_0), op(OP_0)}
)

var outputPatterns = []struct {
	kind    OutputKind
	pattern pattern
}{
	{OutputPkh, pkhOutputPattern},
	{OutputPkhx90d, pkhx90dOutputPattern},
	{OutputPkhx1h, pkhx1hOutputPattern},
	{OutputPkhxr90d60d, pkhxr90d60dOutputPattern},
	{OutputPkhxr1h40m, pkhxr1h40mOutputPattern},
}

var inputPatterns = []struct {
	kind    InputKind
	pattern pattern
}{
	{InputPkh, pkhInputPattern},
	{InputUnexpired, unexpiredInputPattern},
	{InputRecovery, recoveryInputPattern},
	{InputExpiredPkhx, expiredPkhxInputPattern},
	{InputExpiredPkhxr, expiredPkhxrInputPattern},
}

// ClassifyOutput recognizes the template of a locking script in a single pass
// and extracts its key hashes.
func ClassifyOutput(s *Script) OutputTemplate {
	if s == nil {
		return OutputTemplate{}
	}

	for _, candidate := range outputPatterns {
		if !candidate.pattern.match(s.Chunks) {
			continue
		}

		t := OutputTemplate{Kind: candidate.kind}

		for i, e := range candidate.pattern {
			switch e.slot {
			case slotPkh:
				copy(t.Pkh[:], s.Chunks[i].Data)
			case slotRecoveryPkh:
				copy(t.RecoveryPkh[:], s.Chunks[i].Data)
			}
		}

		return t
	}

	if m, keys, ok := matchMultiSigOutput(s.Chunks); ok {
		return OutputTemplate{Kind: OutputMultiSig, Required: m, PubKeys: keys}
	}

	return OutputTemplate{}
}

// ClassifyInput recognizes the shape of an unlocking script. The unexpired
// pkhx and pkhxr inputs are indistinguishable and both map to InputUnexpired.
func ClassifyInput(s *Script) InputTemplate {
	if s == nil {
		return InputTemplate{}
	}

	for _, candidate := range inputPatterns {
		if !candidate.pattern.match(s.Chunks) {
			continue
		}

		t := InputTemplate{Kind: candidate.kind}

		for i, e := range candidate.pattern {
			switch e.slot {
			case slotSignature:
				t.Signature = s.Chunks[i].Data
			case slotPubKey:
				t.PubKey = s.Chunks[i].Data
			}
		}

		return t
	}

	return InputTemplate{}
}

func matchMultiSigOutput(chunks []Chunk) (int, [][]byte, bool) {
	if len(chunks) < 4 || chunks[len(chunks)-1].Opcode != OP_CHECKMULTISIG {
		return 0, nil, false
	}

	m, ok := SmallIntValue(chunks[0].Opcode)
	if !ok {
		return 0, nil, false
	}

	n, ok := SmallIntValue(chunks[len(chunks)-2].Opcode)
	if !ok || m < 1 || m > n || n != len(chunks)-3 {
		return 0, nil, false
	}

	keys := make([][]byte, 0, n)
	keyElement := push(PubKeySize, slotPubKey)

	for _, c := range chunks[1 : 1+n] {
		if !keyElement.matches(c) {
			return 0, nil, false
		}

		keys = append(keys, c.Data)
	}

	return m, keys, true
}

// MultiSigSignatures returns the signatures of a multisig unlocking script
// when it holds exactly m signature pushes.
func MultiSigSignatures(s *Script, m int) ([][]byte, bool) {
	if s == nil || len(s.Chunks) != m {
		return nil, false
	}

	sigElement := push(SignatureSize, slotSignature)
	sigs := make([][]byte, 0, m)

	for _, c := range s.Chunks {
		if !sigElement.matches(c) {
			return nil, false
		}

		sigs = append(sigs, c.Data)
	}

	return sigs, true
}

func (s *Script) IsPkhOutput() bool { return ClassifyOutput(s).Kind == OutputPkh }

func (s *Script) IsPkhx90dOutput() bool { return ClassifyOutput(s).Kind == OutputPkhx90d }

func (s *Script) IsPkhx1hOutput() bool { return ClassifyOutput(s).Kind == OutputPkhx1h }

func (s *Script) IsPkhxr90d60dOutput() bool { return ClassifyOutput(s).Kind == OutputPkhxr90d60d }

func (s *Script) IsPkhxr1h40mOutput() bool { return ClassifyOutput(s).Kind == OutputPkhxr1h40m }

func (s *Script) IsMultiSigOutput() bool { return ClassifyOutput(s).Kind == OutputMultiSig }

func (s *Script) IsPkhInput() bool { return ClassifyInput(s).Kind == InputPkh }

// IsUnexpiredPkhxInput also matches unexpired pkhxr inputs.
func (s *Script) IsUnexpiredPkhxInput() bool { return ClassifyInput(s).Kind == InputUnexpired }

func (s *Script) IsUnexpiredPkhxrInput() bool { return ClassifyInput(s).Kind == InputUnexpired }

func (s *Script) IsExpiredPkhxInput() bool { return ClassifyInput(s).Kind == InputExpiredPkhx }

func (s *Script) IsExpiredPkhxrInput() bool { return ClassifyInput(s).Kind == InputExpiredPkhxr }

func (s *Script) IsRecoveryPkhxrInput() bool { return ClassifyInput(s).Kind == InputRecovery }
