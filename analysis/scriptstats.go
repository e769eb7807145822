package analysis

import "github.com/blockstats/blockstatsd/model"

func buildScriptStats(block *model.Block, txInfos []*TxInfo, date string) model.ScriptStats {
	stats := model.ScriptStats{Height: int64(block.Height), Date: date}

	for _, info := range txInfos {
		for _, in := range info.InputInfos {
			for _, pk := range in.PubkeyStats {
				addPubkey(&stats, pk, true)
			}
			for _, sig := range in.SignatureInfo {
				addSignature(&stats, sig)
			}
		}
		for _, out := range info.OutputInfos {
			for _, pk := range out.PubkeyStats {
				addPubkey(&stats, pk, false)
			}
		}
	}

	return stats
}

func addPubkey(stats *model.ScriptStats, pk PubkeyStat, isInput bool) {
	stats.Pubkeys++
	if pk.Compressed {
		stats.PubkeysCompressed++
	} else {
		stats.PubkeysUncompressed++
	}
	if isInput {
		if pk.Compressed {
			stats.PubkeysCompressedInputs++
		} else {
			stats.PubkeysUncompressedInputs++
		}
	} else {
		if pk.Compressed {
			stats.PubkeysCompressedOutputs++
		} else {
			stats.PubkeysUncompressedOutputs++
		}
	}
}

func addSignature(stats *model.ScriptStats, sig SignatureInfo) {
	if sig.Kind == SignatureSchnorr {
		stats.SigsSchnorr++
		return
	}

	stats.SigsSighashes++
	addSighashBucket(stats, sig.SigHash)

	stats.SigsEcdsa++
	if sig.DERStrict {
		stats.SigsEcdsaStrictDer++
	} else {
		stats.SigsEcdsaNotStrictDer++
	}

	switch {
	case sig.Length < 70:
		stats.SigsEcdsaLengthLess70Byte++
	case sig.Length == 70:
		stats.SigsEcdsaLength70Byte++
	case sig.Length == 71:
		stats.SigsEcdsaLength71Byte++
	case sig.Length == 72:
		stats.SigsEcdsaLength72Byte++
	case sig.Length == 73:
		stats.SigsEcdsaLength73Byte++
	case sig.Length == 74:
		stats.SigsEcdsaLength74Byte++
	default:
		stats.SigsEcdsaLength75ByteOrMore++
	}

	if sig.LowR {
		stats.SigsEcdsaLowR++
	} else {
		stats.SigsEcdsaHighR++
	}
	if sig.LowS {
		stats.SigsEcdsaLowS++
	} else {
		stats.SigsEcdsaHighS++
	}
	switch {
	case !sig.LowR && !sig.LowS:
		stats.SigsEcdsaHighRs++
	case sig.LowR && sig.LowS:
		stats.SigsEcdsaLowRs++
	case sig.LowR && !sig.LowS:
		stats.SigsEcdsaLowRHighS++
	case !sig.LowR && sig.LowS:
		stats.SigsEcdsaHighRLowS++
	}
}

func addSighashBucket(stats *model.ScriptStats, sigHash byte) {
	switch sigHash {
	case 0x01:
		stats.SigsSighashAll++
	case 0x02:
		stats.SigsSighashNone++
	case 0x03:
		stats.SigsSighashSingle++
	case 0x81:
		stats.SigsSighashAllAcp++
	case 0x82:
		stats.SigsSighashNoneAcp++
	case 0x83:
		stats.SigsSighashSingleAcp++
	}
}
