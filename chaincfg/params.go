// Package chaincfg holds the consensus parameters of each supported network.
package chaincfg

import (
	"strings"

	"github.com/earthbucks/ebxnode/errors"
)

// Params defines an ebx network by its consensus constants.
type Params struct {
	// Name identifies the network, it is also the value of the "network" setting.
	Name string

	// CoinbaseVersion is the only version a coinbase transaction may carry.
	CoinbaseVersion uint8

	// InitialBlockReward is the coinbase amount before the first halving, in satoshis.
	InitialBlockReward uint64

	// HalvingInterval is the number of blocks between reward halvings.
	HalvingInterval uint32
}

const satoshisPerCoin = 100_000_000

var MainNetParams = Params{
	Name:               "mainnet",
	CoinbaseVersion:    1,
	InitialBlockReward: 100 * satoshisPerCoin,
	HalvingInterval:    210_000,
}

var TestNetParams = Params{
	Name:               "testnet",
	CoinbaseVersion:    1,
	InitialBlockReward: 100 * satoshisPerCoin,
	HalvingInterval:    210_000,
}

// RegressionNetParams halves quickly so reward schedule edges are reachable in tests.
var RegressionNetParams = Params{
	Name:               "regtest",
	CoinbaseVersion:    1,
	InitialBlockReward: 100 * satoshisPerCoin,
	HalvingInterval:    150,
}

// CoinbaseAmount returns the scheduled block reward at height.
func (p *Params) CoinbaseAmount(height uint32) uint64 {
	if p.HalvingInterval == 0 {
		return p.InitialBlockReward
	}

	halvings := height / p.HalvingInterval
	if halvings >= 64 {
		return 0
	}

	return p.InitialBlockReward >> halvings
}

// GetChainParams looks up a network by name.
func GetChainParams(network string) (*Params, error) {
	switch strings.ToLower(network) {
	case "mainnet", "":
		return &MainNetParams, nil
	case "testnet":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}
}
