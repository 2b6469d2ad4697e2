package blockvalidation

import (
	"github.com/looplab/fsm"
)

// States of a single block validation pass.
const (
	StatePending         = "PENDING"
	StateHeaderChecked   = "HEADER_CHECKED"
	StateMerkleChecked   = "MERKLE_CHECKED"
	StateCoinbaseChecked = "COINBASE_CHECKED"
	StateTxsChecked      = "TXS_CHECKED"
	StateValid           = "VALID"
	StateInvalid         = "INVALID"
)

const (
	EventCheckHeader   = "CHECK_HEADER"
	EventCheckMerkle   = "CHECK_MERKLE"
	EventCheckCoinbase = "CHECK_COINBASE"
	EventCheckTxs      = "CHECK_TXS"
	EventAccept        = "ACCEPT"
	EventReject        = "REJECT"
)

// newValidationFSM creates the state machine of one validation pass:
//
//	PENDING -> HEADER_CHECKED -> MERKLE_CHECKED -> COINBASE_CHECKED -> TXS_CHECKED -> VALID
//
// with REJECT leading from any non terminal state to INVALID.
func newValidationFSM() *fsm.FSM {
	return fsm.NewFSM(
		StatePending,
		fsm.Events{
			{Name: EventCheckHeader, Src: []string{StatePending}, Dst: StateHeaderChecked},
			{Name: EventCheckMerkle, Src: []string{StateHeaderChecked}, Dst: StateMerkleChecked},
			{Name: EventCheckCoinbase, Src: []string{StateMerkleChecked}, Dst: StateCoinbaseChecked},
			{Name: EventCheckTxs, Src: []string{StateCoinbaseChecked}, Dst: StateTxsChecked},
			{Name: EventAccept, Src: []string{StateTxsChecked}, Dst: StateValid},
			{
				Name: EventReject,
				Src: []string{
					StatePending,
					StateHeaderChecked,
					StateMerkleChecked,
					StateCoinbaseChecked,
					StateTxsChecked,
				},
				Dst: StateInvalid,
			},
		},
		fsm.Callbacks{},
	)
}
