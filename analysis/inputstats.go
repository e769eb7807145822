package analysis

import "github.com/blockstats/blockstatsd/model"

func buildInputStats(block *model.Block, txInfos []*TxInfo, date string) model.InputStats {
	stats := model.InputStats{Height: int64(block.Height), Date: date}

	earlierTxids := make(map[string]bool, len(block.TxData))

	for txIdx, tx := range block.TxData {
		info := txInfos[txIdx]

		for i, inInfo := range info.InputInfos {
			switch inInfo.Type {
			case InputCoinbase:
				stats.InputsCoinbase++
			case InputCoinbaseWitness:
				stats.InputsWitnessCoinbase++
			case InputP2PK:
				stats.InputsP2pk++
			case InputP2PKH:
				stats.InputsP2pkh++
			case InputNestedP2WPKH:
				stats.InputsNestedP2wpkh++
			case InputP2WPKH:
				stats.InputsP2wpkh++
			case InputP2MS:
				stats.InputsP2ms++
			case InputP2SH:
				stats.InputsP2sh++
			case InputNestedP2WSH:
				stats.InputsNestedP2wsh++
			case InputP2WSH:
				stats.InputsP2wsh++
			case InputP2TRKeypath:
				stats.InputsP2trKeypath++
			case InputP2TRScriptpath:
				stats.InputsP2trScriptpath++
			case InputP2A:
				stats.InputsP2a++
			default:
				stats.InputsUnknown++
			}

			if inInfo.IsSpendingLegacy {
				stats.InputsSpendingLegacy++
			}
			if inInfo.IsSpendingSegwit {
				stats.InputsSpendingSegwit++
			}
			if inInfo.IsSpendingTaproot {
				stats.InputsSpendingTaproot++
			}
			if inInfo.IsSpendingNestedSegwit {
				stats.InputsSpendingNestedSegwit++
			}
			if inInfo.IsSpendingNativeSegwit {
				stats.InputsSpendingNativeSegwit++
			}
			if inInfo.IsSpendingMultisig {
				stats.InputsSpendingMultisig++
				switch inInfo.Type {
				case InputP2MS:
					stats.InputsSpendingP2msMultisig++
				case InputP2SH:
					stats.InputsSpendingP2shMultisig++
				case InputNestedP2WSH:
					stats.InputsSpendingNestedP2wshMultisig++
				case InputP2WSH:
					stats.InputsSpendingP2wshMultisig++
				}
			}

			if txIdx == 0 {
				continue
			}
			in := tx.In[i]

			if inInfo.Type == InputP2A && in.Prevout.Value < P2ADustThreshold {
				stats.InputsP2aDust++
			}

			var confirmations int64
			if earlierTxids[in.PrevTxid] {
				stats.InputsSpendInSameBlock++
				confirmations = 0
			} else {
				confirmations = int64(block.Height) - in.Prevout.Height
			}

			if confirmations <= 1 {
				stats.InputsSpendingPrev1Blocks++
			}
			if confirmations <= 6 {
				stats.InputsSpendingPrev6Blocks++
			}
			if confirmations <= 144 {
				stats.InputsSpendingPrev144Blocks++
			}
			if confirmations <= 2016 {
				stats.InputsSpendingPrev2016Blocks++
			}
		}

		earlierTxids[tx.Txid] = true
	}

	return stats
}
