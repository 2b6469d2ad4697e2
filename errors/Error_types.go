package errors

var (
	ErrUnknown                 = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument         = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound                = New(ERR_NOT_FOUND, "not found")
	ErrProcessing              = New(ERR_PROCESSING, "error processing")
	ErrConfiguration           = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled         = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError                   = New(ERR_ERROR, "generic error")
	ErrInvariantViolation      = New(ERR_INVARIANT_VIOLATION, "invariant violation")
	ErrBlockInvalid            = New(ERR_BLOCK_INVALID, "block invalid")
	ErrBlockHeaderInvalid      = New(ERR_BLOCK_HEADER_INVALID, "block header invalid")
	ErrBlockMerkleRoot         = New(ERR_BLOCK_MERKLE_ROOT, "block merkle root mismatch")
	ErrBlockCoinbaseInvalid    = New(ERR_BLOCK_COINBASE_INVALID, "block coinbase invalid")
	ErrTxNotFound              = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid               = New(ERR_TX_INVALID, "tx invalid")
	ErrTxInvalidDoubleSpend    = New(ERR_TX_INVALID_DOUBLE_SPEND, "tx invalid double spend")
	ErrTxAlreadyExists         = New(ERR_TX_ALREADY_EXISTS, "tx already exists")
	ErrTxInvalidScript         = New(ERR_TX_INVALID_SCRIPT, "tx invalid script")
	ErrTxInvalidSignature      = New(ERR_TX_INVALID_SIGNATURE, "tx invalid signature")
	ErrLockTime                = New(ERR_LOCKTIME, "bad lock time")
	ErrStorageError            = New(ERR_STORAGE_ERROR, "storage error")
	ErrStorageUnavailable      = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}

// NewInvariantViolationError signals corrupted state or a bug. Callers must
// abort the current validation pass instead of treating it as a rejection.
func NewInvariantViolationError(message string, params ...interface{}) error {
	return New(ERR_INVARIANT_VIOLATION, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
func NewBlockHeaderInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_HEADER_INVALID, message, params...)
}
func NewBlockMerkleRootError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_MERKLE_ROOT, message, params...)
}
func NewBlockCoinbaseInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_COINBASE_INVALID, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewTxInvalidDoubleSpendError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID_DOUBLE_SPEND, message, params...)
}
func NewTxAlreadyExistsError(message string, params ...interface{}) error {
	return New(ERR_TX_ALREADY_EXISTS, message, params...)
}
func NewTxInvalidScriptError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID_SCRIPT, message, params...)
}
func NewTxInvalidSignatureError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID_SIGNATURE, message, params...)
}
func NewLockTimeError(message string, params ...interface{}) error {
	return New(ERR_LOCKTIME, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}

// IsInvariantViolation reports whether err carries ERR_INVARIANT_VIOLATION anywhere in its chain.
func IsInvariantViolation(err error) bool {
	return err != nil && Is(err, ErrInvariantViolation)
}

// IsRejection reports whether err is an ordinary consensus rejection of a
// block or transaction, as opposed to an invariant violation or a store failure.
func IsRejection(err error) bool {
	if err == nil || IsInvariantViolation(err) {
		return false
	}

	var tErr *Error
	if !As(err, &tErr) {
		return false
	}

	switch tErr.Code() {
	case ERR_BLOCK_INVALID, ERR_BLOCK_HEADER_INVALID, ERR_BLOCK_MERKLE_ROOT, ERR_BLOCK_COINBASE_INVALID,
		ERR_TX_INVALID, ERR_TX_INVALID_DOUBLE_SPEND, ERR_TX_INVALID_SCRIPT, ERR_TX_INVALID_SIGNATURE, ERR_LOCKTIME:
		return true
	default:
		return false
	}
}
