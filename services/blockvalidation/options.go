package blockvalidation

import (
	"github.com/earthbucks/ebxnode/services/validator"
)

type Options struct {
	coinbaseAmount  func(height uint32) uint64
	domainValidator func(domain string) bool
	txValidator     validator.Interface
}

type Option func(*Options)

// WithCoinbaseAmount replaces the reward schedule of the configured network.
func WithCoinbaseAmount(fn func(height uint32) uint64) Option {
	return func(o *Options) {
		o.coinbaseAmount = fn
	}
}

// WithDomainValidator replaces the syntax check applied to the coinbase domain.
func WithDomainValidator(fn func(domain string) bool) Option {
	return func(o *Options) {
		o.domainValidator = fn
	}
}

func WithTxValidator(txValidator validator.Interface) Option {
	return func(o *Options) {
		o.txValidator = txValidator
	}
}
