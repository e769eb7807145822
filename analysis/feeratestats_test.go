package analysis

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"

	"github.com/blockstats/blockstatsd/model"
)

func feeP(v int64) *int64 { return &v }

func TestBuildFeerateStatsSkipsCoinbaseAndZeroFee(t *testing.T) {
	fee1 := feeP(1000)
	fee0 := feeP(0)
	block := &model.Block{
		TxData: []model.Tx{
			{Txid: "coinbase", VSize: 200}, // coinbase: Fee nil
			{Txid: "zerofee", Fee: fee0, VSize: 100},
			{Txid: "paid", Fee: fee1, VSize: 200},
		},
	}
	wireTxs := []*wire.MsgTx{wire.NewMsgTx(1), wire.NewMsgTx(1), wire.NewMsgTx(1)}

	stats := buildFeerateStats(block, wireTxs, "2024-01-01")
	assert.Equal(t, int32(1), stats.ZeroFeeTx)
	assert.Equal(t, int64(1000), stats.FeeSum)
	assert.Equal(t, int64(1000), stats.FeeMax)
}

func TestClassifyFeerateBandBoundaries(t *testing.T) {
	cases := []struct {
		rate float64
		get  func(*model.FeerateStats) int32
	}{
		{0.5, func(s *model.FeerateStats) int32 { return s.Below1SatVbyte }},
		{1.5, func(s *model.FeerateStats) int32 { return s.Feerate1To2SatVbyte }},
		{999, func(s *model.FeerateStats) int32 { return s.Feerate500To1000SatVbyte }},
		{1500, func(s *model.FeerateStats) int32 { return s.Feerate1000PlusSatVbyte }},
	}
	for _, c := range cases {
		stats := &model.FeerateStats{}
		classifyFeerateBand(stats, c.rate)
		assert.Equal(t, int32(1), c.get(stats), "rate %v", c.rate)
	}
}

func TestApplySeriesStatsComputesPercentiles(t *testing.T) {
	stats := &model.FeerateStats{}
	fees := []float64{100, 200, 300, 400, 500}
	sizes := []float64{10, 20, 30, 40, 50}
	feerates := []float64{1, 2, 3, 4, 5}

	applySeriesStats(stats, fees, sizes, feerates)
	assert.Equal(t, int64(100), stats.FeeMin)
	assert.Equal(t, int64(500), stats.FeeMax)
	assert.Equal(t, int64(1500), stats.FeeSum)
	assert.InDelta(t, 300, stats.FeeAvg, 0.001)
	assert.Equal(t, int64(300), stats.Fee50thPercentile)
}

func TestApplySeriesStatsEmptySeriesIsNoop(t *testing.T) {
	stats := &model.FeerateStats{}
	applySeriesStats(stats, nil, nil, nil)
	assert.Equal(t, model.FeerateStats{}, *stats)
}
