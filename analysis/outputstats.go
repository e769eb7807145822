package analysis

import "github.com/blockstats/blockstatsd/model"

func buildOutputStats(block *model.Block, txInfos []*TxInfo, date string) model.OutputStats {
	stats := model.OutputStats{Height: int64(block.Height), Date: date}

	for txIdx, info := range txInfos {
		isCoinbase := txIdx == 0
		for _, out := range info.OutputInfos {
			addOutputTypeCount(&stats, out)
			if isCoinbase {
				addCoinbaseOutputCount(&stats, out)
			}
			if out.Type == OutputOpReturn {
				addOpReturnFlavorCount(&stats, out, isCoinbase)
			}
		}
	}

	return stats
}

func addOutputTypeCount(stats *model.OutputStats, out OutputInfo) {
	switch out.Type {
	case OutputP2PK:
		stats.OutputsP2pk++
		stats.OutputsP2pkAmount += out.Value
	case OutputP2PKH:
		stats.OutputsP2pkh++
		stats.OutputsP2pkhAmount += out.Value
	case OutputP2WPKH:
		stats.OutputsP2wpkh++
		stats.OutputsP2wpkhAmount += out.Value
	case OutputP2MS:
		stats.OutputsP2ms++
		stats.OutputsP2msAmount += out.Value
	case OutputP2SH:
		stats.OutputsP2sh++
		stats.OutputsP2shAmount += out.Value
	case OutputP2WSH:
		stats.OutputsP2wsh++
		stats.OutputsP2wshAmount += out.Value
	case OutputP2TR:
		stats.OutputsP2tr++
		stats.OutputsP2trAmount += out.Value
	case OutputP2A:
		stats.OutputsP2a++
		stats.OutputsP2aAmount += out.Value
		if out.Value < P2ADustThreshold {
			stats.OutputsP2aDust++
		}
	case OutputOpReturn:
		stats.OutputsOpreturn++
		stats.OutputsOpreturnAmount += out.Value
		stats.OutputsOpreturnBytes += out.DataSize
	default:
		stats.OutputsUnknown++
		stats.OutputsUnknownAmount += out.Value
	}
}

func addCoinbaseOutputCount(stats *model.OutputStats, out OutputInfo) {
	stats.OutputsCoinbase++
	switch out.Type {
	case OutputP2PK:
		stats.OutputsCoinbaseP2pk++
	case OutputP2PKH:
		stats.OutputsCoinbaseP2pkh++
	case OutputP2WPKH:
		stats.OutputsCoinbaseP2wpkh++
	case OutputP2MS:
		stats.OutputsCoinbaseP2ms++
	case OutputP2SH:
		stats.OutputsCoinbaseP2sh++
	case OutputP2WSH:
		stats.OutputsCoinbaseP2wsh++
	case OutputP2TR:
		stats.OutputsCoinbaseP2tr++
	case OutputOpReturn:
		stats.OutputsCoinbaseOpreturn++
	default:
		stats.OutputsCoinbaseUnknown++
	}
}

func addOpReturnFlavorCount(stats *model.OutputStats, out OutputInfo, isCoinbase bool) {
	switch out.Flavor {
	case FlavorRunestone:
		stats.OutputsOpreturnRunestone++
	case FlavorOmni:
		stats.OutputsOpreturnOmnilayer++
	case FlavorStacksBlockCommit:
		stats.OutputsOpreturnStacksBlockCommit++
	case FlavorBip47PaymentCode:
		stats.OutputsOpreturnBip47PaymentCode++
	case FlavorRSKBlock:
		if isCoinbase {
			stats.OutputsOpreturnCoinbaseRsk++
		}
	case FlavorCoreDao:
		if isCoinbase {
			stats.OutputsOpreturnCoinbaseCoredao++
		}
	case FlavorExSat:
		if isCoinbase {
			stats.OutputsOpreturnCoinbaseExsat++
		}
	case FlavorHathorNetwork:
		if isCoinbase {
			stats.OutputsOpreturnCoinbaseHathor++
		}
	case FlavorWitnessCommitment:
		if isCoinbase {
			stats.OutputsOpreturnCoinbaseWitnessCommitment++
		}
	}
}
