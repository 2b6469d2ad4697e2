package validator

// TxValidatorOptions overrides settings of a single TxValidator.
type TxValidatorOptions struct {
	interpreter         TxScriptInterpreter
	parallelSigChecks   *bool
	sigCheckConcurrency int
}

// TxValidatorOption is a function that sets some option on the TxValidatorOptions struct
type TxValidatorOption func(*TxValidatorOptions)

func NewTxValidatorOptions(opts ...TxValidatorOption) *TxValidatorOptions {
	options := &TxValidatorOptions{}
	for _, o := range opts {
		o(options)
	}

	return options
}

// WithInterpreter replaces the interpreter selected by validator_scriptInterpreter.
func WithInterpreter(interpreter TxScriptInterpreter) TxValidatorOption {
	return func(o *TxValidatorOptions) {
		o.interpreter = interpreter
	}
}

func WithParallelSigChecks(parallel bool) TxValidatorOption {
	return func(o *TxValidatorOptions) {
		o.parallelSigChecks = &parallel
	}
}

func WithSigCheckConcurrency(n int) TxValidatorOption {
	return func(o *TxValidatorOptions) {
		o.sigCheckConcurrency = n
	}
}
