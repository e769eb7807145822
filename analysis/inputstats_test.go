package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockstats/blockstatsd/model"
)

func TestBuildInputStatsP2aDust(t *testing.T) {
	block := &model.Block{Height: 1000, TxData: []model.Tx{
		{Txid: "coinbase"},
		{Txid: "spender", In: []model.TxIn{{PrevTxid: "elsewhere", Prevout: model.Prevout{Value: 100, Height: 990}}}},
	}}
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{Type: InputCoinbase}}},
		{InputInfos: []InputInfo{{Type: InputP2A}}},
	}

	stats := buildInputStats(block, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.InputsP2a)
	assert.Equal(t, int32(1), stats.InputsP2aDust)
}

// A same-block spend has age 0, which is <= every confirmation threshold
// (stats.rs:737-753), so it counts as InputsSpendInSameBlock AND all four
// cumulative age buckets, not instead of them.
func TestBuildInputStatsSameBlockSpendFallsThroughAgeBuckets(t *testing.T) {
	block := &model.Block{Height: 1000, TxData: []model.Tx{
		{Txid: "coinbase"},
		{Txid: "producer"},
		{Txid: "consumer", In: []model.TxIn{{PrevTxid: "producer", Prevout: model.Prevout{Value: 5000, Height: 0}}}},
	}}
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{Type: InputCoinbase}}},
		{InputInfos: []InputInfo{}},
		{InputInfos: []InputInfo{{Type: InputP2PKH}}},
	}

	stats := buildInputStats(block, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.InputsSpendInSameBlock)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev1Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev6Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev144Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev2016Blocks)
}

func TestBuildInputStatsConfirmationAgeBuckets(t *testing.T) {
	block := &model.Block{Height: 1000, TxData: []model.Tx{
		{Txid: "coinbase"},
		{Txid: "spender", In: []model.TxIn{{PrevTxid: "old", Prevout: model.Prevout{Value: 5000, Height: 999}}}},
	}}
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{Type: InputCoinbase}}},
		{InputInfos: []InputInfo{{Type: InputP2PKH}}},
	}

	stats := buildInputStats(block, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.InputsSpendingPrev1Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev6Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev144Blocks)
	assert.Equal(t, int32(1), stats.InputsSpendingPrev2016Blocks)
}

func TestBuildInputStatsMultisigSubBuckets(t *testing.T) {
	block := &model.Block{Height: 1, TxData: []model.Tx{
		{Txid: "coinbase"},
		{Txid: "tx1", In: []model.TxIn{{PrevTxid: "x", Prevout: model.Prevout{Height: 0}}}},
	}}
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{Type: InputCoinbase}}},
		{InputInfos: []InputInfo{{Type: InputP2SH, IsSpendingMultisig: true}}},
	}

	stats := buildInputStats(block, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.InputsSpendingMultisig)
	assert.Equal(t, int32(1), stats.InputsSpendingP2shMultisig)
}
