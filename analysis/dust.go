package analysis

// P2ADustThreshold is the satoshi value below which a pay-to-anchor output
// is counted as dust (spec §4.2.4). It applies independently of whether the
// output ever participates in an ephemeral-dust producer/consumer pair.
const P2ADustThreshold = 240

// OutPointRef identifies an output by its owning transaction and index.
type OutPointRef struct {
	Txid string
	Vout uint32
}

// DustTx is the minimal per-transaction view ResolveEphemeralDust needs: the
// engine builds one per non-coinbase transaction in block order.
type DustTx struct {
	Txid          string
	Version       int32
	Fee           *int64
	VSize         uint32
	Outputs       []OutputInfo
	PrevOutpoints []OutPointRef
}

// ResolveEphemeralDust implements the ephemeral-dust spend pattern of
// spec §4.2.2: a version-3, zero-fee transaction with exactly one
// sub-threshold P2A output and vsize <= 10000 stages that output as
// available; a later version-3, non-zero-fee transaction in the same block
// with vsize <= 1000 that spends exactly one available dust output consumes
// it, single-take. The returned slice is index-aligned with txs and marks
// which transactions are the consuming (spending) side of such a pair.
func ResolveEphemeralDust(txs []DustTx) []bool {
	available := make(map[OutPointRef]bool)
	result := make([]bool, len(txs))

	for i, tx := range txs {
		if tx.Version == 3 && tx.Fee != nil && *tx.Fee != 0 && tx.VSize <= 1000 {
			var match *OutPointRef
			matches := 0
			for _, op := range tx.PrevOutpoints {
				if available[op] {
					matches++
					ref := op
					match = &ref
				}
			}
			if matches == 1 {
				delete(available, *match)
				result[i] = true
			}
		}

		if tx.Version == 3 && tx.Fee != nil && *tx.Fee == 0 && tx.VSize <= 10000 {
			dustIdx := -1
			count := 0
			for idx, o := range tx.Outputs {
				if o.Type == OutputP2A && o.Value < P2ADustThreshold {
					count++
					dustIdx = idx
				}
			}
			if count == 1 {
				available[OutPointRef{Txid: tx.Txid, Vout: uint32(dustIdx)}] = true
			}
		}
	}

	return result
}
