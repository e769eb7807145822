package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockstats/blockstatsd/model"
)

func TestBuildScriptStatsPubkeysByLocationAndForm(t *testing.T) {
	txInfos := []*TxInfo{
		{
			InputInfos:  []InputInfo{{PubkeyStats: []PubkeyStat{{Compressed: true}}}},
			OutputInfos: []OutputInfo{{PubkeyStats: []PubkeyStat{{Compressed: false}}}},
		},
	}

	stats := buildScriptStats(&model.Block{Height: 1}, txInfos, "2024-01-01")
	assert.Equal(t, int32(2), stats.Pubkeys)
	assert.Equal(t, int32(1), stats.PubkeysCompressed)
	assert.Equal(t, int32(1), stats.PubkeysUncompressed)
	assert.Equal(t, int32(1), stats.PubkeysCompressedInputs)
	assert.Equal(t, int32(1), stats.PubkeysUncompressedOutputs)
}

func TestBuildScriptStatsSchnorrSignature(t *testing.T) {
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{SignatureInfo: []SignatureInfo{{Kind: SignatureSchnorr, SigHash: 0x00}}}}},
	}

	stats := buildScriptStats(&model.Block{Height: 1}, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.SigsSchnorr)
	assert.Equal(t, int32(0), stats.SigsEcdsa)
	assert.Equal(t, int32(0), stats.SigsSighashes)
	assert.Equal(t, int32(0), stats.SigsSighashAll)
}

func TestBuildScriptStatsEcdsaLengthAndLowHighBuckets(t *testing.T) {
	txInfos := []*TxInfo{
		{InputInfos: []InputInfo{{SignatureInfo: []SignatureInfo{
			{Kind: SignatureEcdsa, Length: 72, SigHash: 0x01, DERStrict: true, LowR: true, LowS: false},
		}}}},
	}

	stats := buildScriptStats(&model.Block{Height: 1}, txInfos, "2024-01-01")
	assert.Equal(t, int32(1), stats.SigsEcdsa)
	assert.Equal(t, int32(1), stats.SigsEcdsaStrictDer)
	assert.Equal(t, int32(1), stats.SigsEcdsaLength72Byte)
	assert.Equal(t, int32(1), stats.SigsEcdsaLowR)
	assert.Equal(t, int32(1), stats.SigsEcdsaHighS)
	assert.Equal(t, int32(1), stats.SigsEcdsaLowRHighS)
}

func TestAddSighashBucketCoversAllSixFlags(t *testing.T) {
	stats := &model.ScriptStats{}
	for _, sh := range []byte{0x01, 0x02, 0x03, 0x81, 0x82, 0x83} {
		addSighashBucket(stats, sh)
	}
	assert.Equal(t, int32(1), stats.SigsSighashAll)
	assert.Equal(t, int32(1), stats.SigsSighashNone)
	assert.Equal(t, int32(1), stats.SigsSighashSingle)
	assert.Equal(t, int32(1), stats.SigsSighashAllAcp)
	assert.Equal(t, int32(1), stats.SigsSighashNoneAcp)
	assert.Equal(t, int32(1), stats.SigsSighashSingleAcp)
}

func TestAddSighashBucketIgnoresByteZero(t *testing.T) {
	stats := &model.ScriptStats{}
	addSighashBucket(stats, 0x00)
	assert.Equal(t, model.ScriptStats{}, *stats)
}
