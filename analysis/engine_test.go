package analysis

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockstats/blockstatsd/model"
)

func serializeTx(t *testing.T, tx *wire.MsgTx) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

func p2pkhScript(pubkeyHash [20]byte) []byte {
	s := []byte{txscript.OP_DUP, txscript.OP_HASH160, 0x14}
	s = append(s, pubkeyHash[:]...)
	s = append(s, txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG)
	return s
}

func buildCoinbaseWireTx() *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte{0x03, 0x01, 0x02, 0x03},
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(wire.NewTxOut(625000000, p2pkhScript([20]byte{})))
	return tx
}

func buildSpendingWireTx(prevHash chainhash.Hash) *wire.MsgTx {
	pk := make([]byte, 33)
	pk[0] = 0x02

	sig := make([]byte, 70)
	sig[0] = 0x30
	sig[1] = 67
	sig[2] = 0x02
	sig[3] = 32
	sig[37] = 0x02
	sig[38] = 30
	sig[69] = 0x01

	var sigScript []byte
	sigScript = append(sigScript, byte(len(sig)))
	sigScript = append(sigScript, sig...)
	sigScript = append(sigScript, byte(len(pk)))
	sigScript = append(sigScript, pk...)

	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: prevHash, Index: 0},
		SignatureScript:  sigScript,
		Sequence:         0xffffffff,
	})
	tx.AddTxOut(wire.NewTxOut(600000000, p2pkhScript([20]byte{1})))
	return tx
}

// toModelTx converts a wire tx into the model.Tx shape the engine consumes,
// mirroring what node.Client.BlockAtHeight would have produced.
func toModelTx(t *testing.T, tx *wire.MsgTx, isCoinbase bool, fee *int64) model.Tx {
	raw := serializeTx(t, tx)
	mt := model.Tx{
		Txid:     tx.TxHash().String(),
		Raw:      raw,
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Size:     uint32(tx.SerializeSize()),
		VSize:    uint32(tx.SerializeSize()),
		Fee:      fee,
	}
	for _, in := range tx.TxIn {
		if isCoinbase {
			mt.In = append(mt.In, model.TxIn{Coinbase: true, Sequence: in.Sequence})
			continue
		}
		mt.In = append(mt.In, model.TxIn{
			PrevTxid: in.PreviousOutPoint.Hash.String(),
			PrevVout: in.PreviousOutPoint.Index,
			Sequence: in.Sequence,
		})
	}
	for _, out := range tx.TxOut {
		mt.Out = append(mt.Out, model.TxOut{Value: out.Value})
	}
	return mt
}

func TestEngineAnalyzeSimpleBlock(t *testing.T) {
	coinbase := buildCoinbaseWireTx()
	coinbaseHash := coinbase.TxHash()
	spending := buildSpendingWireTx(coinbaseHash)

	fee := int64(25000000)
	block := &model.Block{
		Height: 800000,
		Time:   1700000000,
		Bits:   0x1d00ffff,
		TxData: []model.Tx{
			toModelTx(t, coinbase, true, nil),
			toModelTx(t, spending, false, &fee),
		},
	}

	engine := NewEngine(nil)
	bundle, err := engine.Analyze(block)
	require.NoError(t, err)

	assert.Equal(t, int64(800000), bundle.Block.Height)
	assert.Equal(t, int32(2), bundle.Block.Transactions)
	assert.Equal(t, "2023-11-14", bundle.Block.Date)
	assert.Equal(t, int32(1), bundle.Tx.TxBip69Compliant)
	assert.Equal(t, int32(1), bundle.Tx.Tx1Input1Output)
	assert.Equal(t, int32(1), bundle.Input.InputsP2pkh)
	// the spending tx consumes the coinbase output created earlier in this
	// same block, so it counts as spending a newly-created UTXO.
	assert.Equal(t, int32(1), bundle.Tx.TxSpendingNewlyCreatedUtxos)
}

func TestEngineAnalyzeDetectsNewlyCreatedUtxoSpend(t *testing.T) {
	coinbase := buildCoinbaseWireTx()
	coinbaseHash := coinbase.TxHash()
	firstSpend := buildSpendingWireTx(coinbaseHash)
	firstSpendHash := firstSpend.TxHash()
	secondSpend := buildSpendingWireTx(firstSpendHash)

	fee := int64(1000)
	block := &model.Block{
		Height: 800001,
		Time:   1700000000,
		Bits:   0x1d00ffff,
		TxData: []model.Tx{
			toModelTx(t, coinbase, true, nil),
			toModelTx(t, firstSpend, false, &fee),
			toModelTx(t, secondSpend, false, &fee),
		},
	}

	engine := NewEngine(nil)
	bundle, err := engine.Analyze(block)
	require.NoError(t, err)
	// both firstSpend (spends the coinbase output) and secondSpend (spends
	// firstSpend's output) consume a UTXO created earlier in this block.
	assert.Equal(t, int32(2), bundle.Tx.TxSpendingNewlyCreatedUtxos)
}

func TestEngineAnalyzeRejectsEmptyBlock(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.Analyze(&model.Block{Height: 1})
	assert.Error(t, err)
}
