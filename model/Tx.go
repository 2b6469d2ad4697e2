package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/earthbucks/ebxnode/errors"
	"github.com/earthbucks/ebxnode/util"
	"github.com/earthbucks/ebxnode/util/hashing"
)

// TxVersion is the only transaction version currently accepted for coinbases.
const TxVersion = 1

type Tx struct {
	Version uint8
	Inputs  []*TxInput
	Outputs []*TxOutput
	LockAbs uint32
}

func NewTx(version uint8, inputs []*TxInput, outputs []*TxOutput, lockAbs uint32) *Tx {
	return &Tx{Version: version, Inputs: inputs, Outputs: outputs, LockAbs: lockAbs}
}

// NewTxFromBytes decodes a transaction and rejects trailing bytes.
func NewTxFromBytes(b []byte) (*Tx, error) {
	r := util.NewReader(b)

	tx, err := ReadTx(r)
	if err != nil {
		return nil, err
	}

	if !r.EOF() {
		return nil, errors.NewInvalidArgumentError("%d trailing bytes after tx", r.Remaining())
	}

	return tx, nil
}

// ReadTx decodes one transaction from r, leaving any following bytes unread.
func ReadTx(r *util.Reader) (*Tx, error) {
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	nIn, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}

	// every input takes at least 41 bytes
	if nIn > uint64(r.Remaining()/41) {
		return nil, errors.NewInvalidArgumentError("tx claims %d inputs with %d bytes left", nIn, r.Remaining())
	}

	tx := &Tx{Version: version, Inputs: make([]*TxInput, 0, nIn)}

	for i := uint64(0); i < nIn; i++ {
		in, err := readTxInput(r)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("input %d", i, err)
		}

		tx.Inputs = append(tx.Inputs, in)
	}

	nOut, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}

	// every output takes at least 9 bytes
	if nOut > uint64(r.Remaining()/9) {
		return nil, errors.NewInvalidArgumentError("tx claims %d outputs with %d bytes left", nOut, r.Remaining())
	}

	tx.Outputs = make([]*TxOutput, 0, nOut)

	for i := uint64(0); i < nOut; i++ {
		out, err := readTxOutput(r)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("output %d", i, err)
		}

		tx.Outputs = append(tx.Outputs, out)
	}

	if tx.LockAbs, err = r.ReadU32BE(); err != nil {
		return nil, err
	}

	return tx, nil
}

func (tx *Tx) Bytes() []byte {
	return tx.appendBytes(nil)
}

func (tx *Tx) appendBytes(dst []byte) []byte {
	dst = append(dst, tx.Version)
	dst = util.AppendVarint(dst, uint64(len(tx.Inputs)))

	for _, in := range tx.Inputs {
		dst = in.appendBytes(dst)
	}

	dst = util.AppendVarint(dst, uint64(len(tx.Outputs)))

	for _, out := range tx.Outputs {
		dst = out.appendBytes(dst)
	}

	return binary.BigEndian.AppendUint32(dst, tx.LockAbs)
}

// ID is the double hash of the encoded transaction. It is recomputed on
// every call, so callers validating in a loop should keep the result.
func (tx *Tx) ID() chainhash.Hash {
	return hashing.DoubleHash(tx.Bytes())
}

// IsCoinbase reports whether tx has exactly one input spending the null outpoint.
func (tx *Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].IsNull()
}

// TotalOutputValue sums output values, failing on uint64 overflow.
func (tx *Tx) TotalOutputValue() (uint64, error) {
	var total uint64

	for i, out := range tx.Outputs {
		next := total + out.Value
		if next < total {
			return 0, errors.NewTxInvalidError("output value overflow at output %d", i)
		}

		total = next
	}

	return total, nil
}

func (tx *Tx) hashPrevouts() chainhash.Hash {
	b := make([]byte, 0, len(tx.Inputs)*(chainhash.HashSize+4))
	for _, in := range tx.Inputs {
		b = in.appendOutpoint(b)
	}

	return hashing.DoubleHash(b)
}

func (tx *Tx) hashLockRel() chainhash.Hash {
	b := make([]byte, 0, len(tx.Inputs)*4)
	for _, in := range tx.Inputs {
		b = binary.BigEndian.AppendUint32(b, in.LockRel)
	}

	return hashing.DoubleHash(b)
}

func (tx *Tx) hashOutputs() chainhash.Hash {
	var b []byte
	for _, out := range tx.Outputs {
		b = out.appendBytes(b)
	}

	return hashing.DoubleHash(b)
}

// SigHashPreimage returns the bytes committed to by a signature on input nIn.
func (tx *Tx) SigHashPreimage(nIn int, prevScript []byte, prevValue uint64, hashType uint8) ([]byte, error) {
	if nIn < 0 || nIn >= len(tx.Inputs) {
		return nil, errors.NewInvalidArgumentError("input %d out of range, tx has %d inputs", nIn, len(tx.Inputs))
	}

	if hashType != SigHashAll {
		return nil, errors.NewInvalidArgumentError("unsupported sighash type 0x%02x", hashType)
	}

	in := tx.Inputs[nIn]
	prevouts := tx.hashPrevouts()
	lockRels := tx.hashLockRel()
	outputs := tx.hashOutputs()

	b := make([]byte, 0, 1+3*chainhash.HashSize+chainhash.HashSize+4+9+len(prevScript)+8+4+4+1)
	b = append(b, tx.Version)
	b = append(b, prevouts[:]...)
	b = append(b, lockRels[:]...)
	b = in.appendOutpoint(b)
	b = util.AppendVarint(b, uint64(len(prevScript)))
	b = append(b, prevScript...)
	b = binary.BigEndian.AppendUint64(b, prevValue)
	b = binary.BigEndian.AppendUint32(b, in.LockRel)
	b = append(b, outputs[:]...)
	b = binary.BigEndian.AppendUint32(b, tx.LockAbs)
	b = append(b, hashType)

	return b, nil
}

// SigHash is the digest signed for input nIn spending prevScript worth prevValue.
func (tx *Tx) SigHash(nIn int, prevScript []byte, prevValue uint64, hashType uint8) (chainhash.Hash, error) {
	preimage, err := tx.SigHashPreimage(nIn, prevScript, prevValue, hashType)
	if err != nil {
		return chainhash.Hash{}, err
	}

	return hashing.DoubleHash(preimage), nil
}
