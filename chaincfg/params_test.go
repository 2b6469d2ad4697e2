package chaincfg

import (
	"testing"

	"github.com/earthbucks/ebxnode/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinbaseAmount(t *testing.T) {
	tests := []struct {
		height uint32
		expect uint64
	}{
		{0, 100_0000_0000},
		{209_999, 100_0000_0000},
		{210_000, 50_0000_0000},
		{420_000, 25_0000_0000},
		{210_000 * 33, 0x2540be400 >> 33},
		{210_000 * 63, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, MainNetParams.CoinbaseAmount(tt.height), "height %d", tt.height)
	}
}

func TestCoinbaseAmountRegtest(t *testing.T) {
	assert.Equal(t, uint64(50_0000_0000), RegressionNetParams.CoinbaseAmount(150))
	assert.Equal(t, uint64(0), RegressionNetParams.CoinbaseAmount(150*64))
}

func TestGetChainParams(t *testing.T) {
	params, err := GetChainParams("mainnet")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", params.Name)

	params, err = GetChainParams("REGTEST")
	require.NoError(t, err)
	assert.Equal(t, uint32(150), params.HalvingInterval)

	_, err = GetChainParams("moonnet")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}
