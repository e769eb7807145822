package analysis

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// halfOrder is secp256k1's group order divided by two, the BIP-62 boundary
// used to classify a signature's S value as low or high.
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// lowRBoundary is 2^255: an R value below it encodes in 32 bytes with no
// leading zero padding, the conventional definition of "low R".
var lowRBoundary = new(big.Int).Lsh(big.NewInt(1), 255)

// parseEcdsaSignature decodes a DER-encoded ECDSA signature with trailing
// sighash byte, as found in legacy sigScripts and witness stack items. It
// reports ok=false for anything that doesn't look like a signature at all
// (too short, wrong leading tag) rather than failing strictness checks,
// which are instead recorded on the returned SignatureInfo.
func parseEcdsaSignature(b []byte) (SignatureInfo, bool) {
	if len(b) < 9 || b[0] != 0x30 {
		return SignatureInfo{}, false
	}

	sigHash := b[len(b)-1]
	der := b[:len(b)-1]

	strict, r, s := parseDerStrict(der)
	if r == nil {
		return SignatureInfo{}, false
	}

	info := SignatureInfo{
		Kind:      SignatureEcdsa,
		DERStrict: strict,
		Length:    len(b),
		SigHash:   sigHash,
		LowR:      r.Cmp(lowRBoundary) < 0,
		LowS:      s.Cmp(halfOrder) <= 0,
	}
	return info, true
}

// parseDerStrict parses a DER ECDSA signature (without the trailing sighash
// byte) per BIP-66's strict encoding rules, returning whether it satisfied
// them along with the decoded R and S values regardless. R is nil if the
// bytes could not be decoded as a signature at all.
func parseDerStrict(der []byte) (strict bool, r, s *big.Int) {
	if len(der) < 8 {
		return false, nil, nil
	}
	if der[0] != 0x30 {
		return false, nil, nil
	}
	totalLen := int(der[1])
	strict = len(der) == totalLen+2

	if len(der) < 3 || der[2] != 0x02 {
		return false, nil, nil
	}
	rLen := int(der[3])
	rStart := 4
	if rStart+rLen > len(der) {
		return false, nil, nil
	}
	rBytes := der[rStart : rStart+rLen]
	r = new(big.Int).SetBytes(rBytes)
	strict = strict && isStrictInt(rBytes)

	sTagIdx := rStart + rLen
	if sTagIdx+2 > len(der) || der[sTagIdx] != 0x02 {
		return false, r, big.NewInt(0)
	}
	sLen := int(der[sTagIdx+1])
	sStart := sTagIdx + 2
	if sStart+sLen > len(der) {
		return false, r, big.NewInt(0)
	}
	sBytes := der[sStart : sStart+sLen]
	s = new(big.Int).SetBytes(sBytes)
	strict = strict && isStrictInt(sBytes) && sStart+sLen == len(der)

	return strict, r, s
}

// isStrictInt reports whether a DER integer encoding carries no unnecessary
// leading zero byte and is non-empty, per BIP-66.
func isStrictInt(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if len(b) > 1 && b[0] == 0x00 && b[1] < 0x80 {
		return false
	}
	return true
}
