package analysis

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/blockstats/blockstatsd/model"
)

func buildBlockStats(block *model.Block, wireTxs []*wire.MsgTx, txInfos []*TxInfo, date string, poolID int32) model.BlockStats {
	coinbase := wireTxs[0]

	var coinbaseOutputAmount int64
	for _, out := range coinbase.TxOut {
		coinbaseOutputAmount += out.Value
	}
	coinbaseWeight := int64(3*coinbase.SerializeSizeStripped() + coinbase.SerializeSize())

	coinbaseLocktimeSet := coinbase.LockTime != 0
	enablesAbsoluteLockTime := false
	for _, in := range coinbase.TxIn {
		if in.Sequence != wire.MaxTxInSequenceNum {
			enablesAbsoluteLockTime = true
		}
	}
	coinbaseLocktimeSetBip54 := coinbaseLocktimeSet &&
		uint64(coinbase.LockTime) == block.Height-1 &&
		enablesAbsoluteLockTime

	var payments, segwitSpendingTx, taprootSpendingTx, signalingRbf int32
	var inputs, outputs int32
	var vsize int64
	for i, info := range txInfos {
		inputs += int32(len(info.InputInfos))
		outputs += int32(len(info.OutputInfos))
		vsize += int64(block.TxData[i].VSize)
		if i == 0 {
			continue
		}
		txPayments := int32(info.Payments())
		payments += txPayments
		if info.IsSpendingSegwit() {
			segwitSpendingTx += txPayments
		}
		if info.IsSpendingTaproot() {
			taprootSpendingTx += txPayments
		}
		if info.IsSignalingExplicitRBF() {
			signalingRbf += txPayments
		}
	}

	return model.BlockStats{
		StatsVersion: model.STATSVersion,
		Height:       int64(block.Height),
		Date:         date,

		Version: block.Version,
		Nonce:   int32(block.Nonce),
		Bits:    int32(block.Bits),

		Difficulty: difficulty(block.Bits),
		Log2Work:   log2Work(block.Bits),

		Size:         block.Size,
		StrippedSize: block.StrippedSize,
		VSize:        vsize,
		Weight:       block.Weight,
		Empty:        len(block.TxData) == 1,

		CoinbaseOutputAmount:     coinbaseOutputAmount,
		CoinbaseWeight:           coinbaseWeight,
		CoinbaseLocktimeSet:      coinbaseLocktimeSet,
		CoinbaseLocktimeSetBip54: coinbaseLocktimeSetBip54,

		Transactions: int32(len(block.TxData)),
		Payments:     payments,

		PaymentsSegwitSpendingTx:     segwitSpendingTx,
		PaymentsTaprootSpendingTx:    taprootSpendingTx,
		PaymentsSignalingExplicitRbf: signalingRbf,

		Inputs:  inputs,
		Outputs: outputs,

		PoolID: poolID,
	}
}
