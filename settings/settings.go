// Package settings loads the node configuration from the gocore config
// (settings.conf, settings_local.conf and environment overrides).
package settings

import (
	"runtime"

	"github.com/earthbucks/ebxnode/chaincfg"
)

type Settings struct {
	ClientName      string
	LogLevel        string
	ChainCfgParams  *chaincfg.Params
	Validator       ValidatorSettings
	BlockValidation BlockValidationSettings
	UtxoStore       UtxoStoreSettings
	Tracing         TracingSettings
}

type ValidatorSettings struct {
	// ScriptInterpreter selects the signature checker by name.
	ScriptInterpreter string
	// ParallelSigChecks verifies the signatures of one transaction concurrently.
	ParallelSigChecks bool
	// SigCheckConcurrency bounds the parallel signature checks, 0 means GOMAXPROCS.
	SigCheckConcurrency int
	VerboseDebug        bool
}

type BlockValidationSettings struct {
	// Verbose logs every transaction as it is applied to the staged set.
	Verbose bool
}

type UtxoStoreSettings struct {
	BadgerDir string
}

type TracingSettings struct {
	Enabled      bool
	CollectorURL string
	SampleRate   float64
}

func NewSettings() *Settings {
	params, err := chaincfg.GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	sigCheckConcurrency := getInt("validator_sigCheckConcurrency", 0)
	if sigCheckConcurrency <= 0 {
		sigCheckConcurrency = runtime.GOMAXPROCS(0)
	}

	return &Settings{
		ClientName:     getString("clientName", "ebxnode"),
		LogLevel:       getString("logLevel", "INFO"),
		ChainCfgParams: params,
		Validator: ValidatorSettings{
			ScriptInterpreter:   getString("validator_scriptInterpreter", "secp256k1"),
			ParallelSigChecks:   getBool("validator_parallelSigChecks", true),
			SigCheckConcurrency: sigCheckConcurrency,
			VerboseDebug:        getBool("validator_verbose_debug", false),
		},
		BlockValidation: BlockValidationSettings{
			Verbose: getBool("blockvalidation_verbose", false),
		},
		UtxoStore: UtxoStoreSettings{
			BadgerDir: getString("utxostore_badgerDir", "data/utxos"),
		},
		Tracing: TracingSettings{
			Enabled:      getBool("tracing_enabled", false),
			CollectorURL: getString("tracing_collectorURL", "localhost:4318"),
			SampleRate:   getFloat64("tracing_sampleRate", 0.01),
		},
	}
}
