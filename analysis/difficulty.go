package analysis

import (
	"math"
	"math/big"
)

// maxTargetBits is the genesis/difficulty-1 compact target (0x1d00ffff),
// the denominator difficulty is expressed relative to.
const maxTargetBits uint32 = 0x1d00ffff

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// compactToBig expands a block header's compact "bits" target encoding into
// a full 256-bit integer, per Bitcoin's nBits format.
func compactToBig(bits uint32) *big.Int {
	exponent := bits >> 24
	mantissa := bits & 0x007fffff

	target := new(big.Int)
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target.SetUint64(uint64(mantissa))
	} else {
		target.SetUint64(uint64(mantissa))
		target.Lsh(target, uint(8*(exponent-3)))
	}

	if bits&0x00800000 != 0 {
		return big.NewInt(0)
	}
	return target
}

// difficulty returns floor(difficulty_1_target / target), the conventional
// "difficulty" number, as BlockStats stores it at integer precision
// (spec §4.2.1).
func difficulty(bits uint32) int64 {
	target := compactToBig(bits)
	if target.Sign() <= 0 {
		return 0
	}
	maxTarget := compactToBig(maxTargetBits)
	ratio := new(big.Float).Quo(new(big.Float).SetInt(maxTarget), new(big.Float).SetInt(target))
	f, _ := ratio.Float64()
	return int64(math.Floor(f))
}

// log2Work returns log2(2^256 / (target+1)), the amount of proof-of-work a
// single block at this target represents. This is a per-block quantity, not
// the chain's cumulative work.
func log2Work(bits uint32) float32 {
	target := compactToBig(bits)
	if target.Sign() <= 0 {
		return 0
	}
	denom := new(big.Int).Add(target, big.NewInt(1))
	work := new(big.Int).Div(twoTo256, denom)
	return float32(log2BigInt(work))
}

func log2BigInt(n *big.Int) float64 {
	if n.Sign() <= 0 {
		return 0
	}
	bitLen := n.BitLen()
	shift := bitLen - 64
	mantissa := n
	if shift > 0 {
		mantissa = new(big.Int).Rsh(n, uint(shift))
	} else {
		shift = 0
	}
	return math.Log2(float64(mantissa.Uint64())) + float64(shift)
}
