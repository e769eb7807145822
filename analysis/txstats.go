package analysis

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/blockstats/blockstatsd/model"
)

const lockTimeThreshold = 500000000 // below this, LockTime is a block height; at/above, a unix timestamp

func buildTxStats(block *model.Block, wireTxs []*wire.MsgTx, txInfos []*TxInfo, date string, spendingEphemeralDust []bool) model.TxStats {
	stats := model.TxStats{Height: int64(block.Height), Date: date}

	earlierTxids := make(map[string]bool, len(block.TxData))
	earlierTxids[block.TxData[0].Txid] = true

	for i := 0; i < len(block.TxData); i++ {
		wireTx := wireTxs[i]
		switch wireTx.Version {
		case 1:
			stats.TxVersion1++
		case 2:
			stats.TxVersion2++
		case 3:
			stats.TxVersion3++
		default:
			stats.TxVersionUnknown++
		}

		if i > 0 {
			tx := block.TxData[i]
			info := txInfos[i]

			stats.TxOutputAmount += info.OutputValueSum()

			if info.IsSpendingSegwit() {
				stats.TxSpendingSegwit++
			}
			if info.IsOnlySpendingSegwit() {
				stats.TxSpendingOnlySegwit++
			}
			if info.IsOnlySpendingLegacy() {
				stats.TxSpendingOnlyLegacy++
			}
			if info.IsOnlySpendingTaproot() {
				stats.TxSpendingOnlyTaproot++
			}
			if info.IsSpendingSegwitAndLegacy() {
				stats.TxSpendingSegwitAndLegacy++
			}
			if info.IsSpendingNestedSegwit() {
				stats.TxSpendingNestedSegwit++
			}
			if info.IsSpendingNativeSegwit() {
				stats.TxSpendingNativeSegwit++
			}
			if info.IsSpendingTaproot() {
				stats.TxSpendingTaproot++
			}
			if info.IsBip69Compliant() {
				stats.TxBip69Compliant++
			}
			if info.IsSignalingExplicitRBF() {
				stats.TxSignalingExplicitRbf++
			}

			nIn, nOut := len(wireTx.TxIn), len(wireTx.TxOut)
			if nIn == 1 {
				stats.Tx1Input++
			}
			if nOut == 1 {
				stats.Tx1Output++
			}
			if nIn == 1 && nOut == 1 {
				stats.Tx1Input1Output++
			}
			if nIn == 1 && nOut == 2 {
				stats.Tx1Input2Output++
			}

			for _, in := range tx.In {
				if earlierTxids[in.PrevTxid] {
					stats.TxSpendingNewlyCreatedUtxos++
					break
				}
			}

			if spendingEphemeralDust[i] {
				stats.TxSpendingEphemeralDust++
			}

			classifyTimelock(&stats, wireTx, int64(block.Height))
		}

		earlierTxids[block.TxData[i].Txid] = true
	}

	return stats
}

func classifyTimelock(stats *model.TxStats, tx *wire.MsgTx, height int64) {
	if tx.LockTime == 0 {
		return
	}

	if tx.LockTime < lockTimeThreshold {
		stats.TxTimelockHeight++
		if int64(tx.LockTime) > height {
			stats.TxTimelockTooHigh++
		}
	} else {
		stats.TxTimelockTimestamp++
	}

	allFinal := true
	for _, in := range tx.TxIn {
		if in.Sequence != wire.MaxTxInSequenceNum {
			allFinal = false
			break
		}
	}
	if allFinal {
		stats.TxTimelockNotEnforced++
	}
}
