package analysis

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/blockstats/blockstatsd/model"
)

func buildFeerateStats(block *model.Block, wireTxs []*wire.MsgTx, date string) model.FeerateStats {
	stats := model.FeerateStats{Height: int64(block.Height), Date: date}

	var fees, sizes, feerates []float64

	for i := 1; i < len(block.TxData); i++ {
		tx := block.TxData[i]
		if tx.Fee == nil {
			continue
		}

		fee := float64(*tx.Fee)
		size := float64(tx.VSize)
		fees = append(fees, fee)
		sizes = append(sizes, size)

		if *tx.Fee == 0 {
			// Deliberately excluded from Below1SatVbyte even though 0 < 1: a
			// zero-fee tx isn't paying a sub-1-sat/vbyte rate, it's paying
			// nothing (see DESIGN.md's open-question log for the tradeoff
			// against stats.rs, which buckets it under the <1 band).
			stats.ZeroFeeTx++
			feerates = append(feerates, 0)
			continue
		}

		feerate := fee / size
		feerates = append(feerates, feerate)
		classifyFeerateBand(&stats, feerate)
	}

	applySeriesStats(&stats, fees, sizes, feerates)
	return stats
}

func classifyFeerateBand(stats *model.FeerateStats, feerate float64) {
	switch {
	case feerate < 1:
		stats.Below1SatVbyte++
	case feerate < 2:
		stats.Feerate1To2SatVbyte++
	case feerate < 5:
		stats.Feerate2To5SatVbyte++
	case feerate < 10:
		stats.Feerate5To10SatVbyte++
	case feerate < 25:
		stats.Feerate10To25SatVbyte++
	case feerate < 50:
		stats.Feerate25To50SatVbyte++
	case feerate < 100:
		stats.Feerate50To100SatVbyte++
	case feerate < 250:
		stats.Feerate100To250SatVbyte++
	case feerate < 500:
		stats.Feerate250To500SatVbyte++
	case feerate < 1000:
		stats.Feerate500To1000SatVbyte++
	default:
		stats.Feerate1000PlusSatVbyte++
	}
}

var percentilePoints = []float64{5, 10, 25, 35, 50, 65, 75, 90, 95}

func applySeriesStats(stats *model.FeerateStats, fees, sizes, feerates []float64) {
	if len(fees) == 0 {
		return
	}

	feeSorted := sortedCopy(fees)
	sizeSorted := sortedCopy(sizes)
	feerateSorted := sortedCopy(feerates)

	var feeSum, sizeSum, feerateSum float64
	for i := range fees {
		feeSum += fees[i]
		sizeSum += sizes[i]
		feerateSum += feerates[i]
	}
	n := float64(len(fees))

	stats.FeeMin = int64(feeSorted[0])
	stats.FeeMax = int64(feeSorted[len(feeSorted)-1])
	stats.FeeSum = int64(feeSum)
	stats.FeeAvg = float32(f64NanAs0(feeSum / n))

	stats.SizeMin = int32(sizeSorted[0])
	stats.SizeMax = int32(sizeSorted[len(sizeSorted)-1])
	stats.SizeSum = int64(sizeSum)
	stats.SizeAvg = float32(f64NanAs0(sizeSum / n))

	stats.FeerateMin = float32(feerateSorted[0])
	stats.FeerateMax = float32(feerateSorted[len(feerateSorted)-1])
	stats.FeerateAvg = float32(f64NanAs0(feerateSum / n))

	feePercentiles := []*int64{
		&stats.Fee5thPercentile, &stats.Fee10thPercentile, &stats.Fee25thPercentile,
		&stats.Fee35thPercentile, &stats.Fee50thPercentile, &stats.Fee65thPercentile,
		&stats.Fee75thPercentile, &stats.Fee90thPercentile, &stats.Fee95thPercentile,
	}
	sizePercentiles := []*int32{
		&stats.Size5thPercentile, &stats.Size10thPercentile, &stats.Size25thPercentile,
		&stats.Size35thPercentile, &stats.Size50thPercentile, &stats.Size65thPercentile,
		&stats.Size75thPercentile, &stats.Size90thPercentile, &stats.Size95thPercentile,
	}
	feeratePercentiles := []*float32{
		&stats.Feerate5thPercentile, &stats.Feerate10thPercentile, &stats.Feerate25thPercentile,
		&stats.Feerate35thPercentile, &stats.Feerate50thPercentile, &stats.Feerate65thPercentile,
		&stats.Feerate75thPercentile, &stats.Feerate90thPercentile, &stats.Feerate95thPercentile,
	}

	for i, p := range percentilePoints {
		*feePercentiles[i] = int64(percentile(feeSorted, p))
		*sizePercentiles[i] = int32(percentile(sizeSorted, p))
		*feeratePercentiles[i] = float32(percentile(feerateSorted, p))
	}
}
