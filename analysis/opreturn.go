package analysis

import "bytes"

// witnessCommitmentHeader is the 4-byte magic BIP-141 prepends to a coinbase
// witness commitment, followed by the 32-byte commitment hash.
var witnessCommitmentHeader = []byte{0xaa, 0x21, 0xa9, 0xed}

var (
	rskblockPrefix = []byte("RSKBLOCK:")
	coreDaoPrefix  = []byte{0x53, 0x43} // "SC", CoreDAO's Satoshi+ merge-mining tag
	exSatPrefix    = []byte("exSat")
	hathorPrefix   = []byte("Hathor")
	omniPrefix     = []byte("omni")
	stacksPrefix   = []byte("X2")
	runestoneOp    = byte(0x5d) // OP_13, the runes protocol marker pushed immediately after OP_RETURN
)

// classifyOpReturnFlavor recognizes known OP_RETURN payload protocols
// (spec §4.2.4) and returns the total pushed payload size, which excludes
// opcodes and counts only PushBytes data, mirroring the original's
// calculate_opreturn_data_size helper.
func classifyOpReturnFlavor(pkScript []byte, isCoinbase bool) (OpReturnFlavor, int64) {
	instrs := parseScript(pkScript)
	if len(instrs) == 0 {
		return FlavorUnspecified, 0
	}

	var dataSize int64
	var payload []byte
	for _, in := range instrs[1:] {
		if d := pushData(in); d != nil {
			dataSize += int64(len(d))
			if payload == nil {
				payload = d
			}
		}
	}

	if isCoinbase {
		if bytes.HasPrefix(payload, witnessCommitmentHeader) {
			return FlavorWitnessCommitment, dataSize
		}
		if bytes.HasPrefix(payload, rskblockPrefix) {
			return FlavorRSKBlock, dataSize
		}
		if bytes.HasPrefix(payload, coreDaoPrefix) {
			return FlavorCoreDao, dataSize
		}
		if bytes.HasPrefix(payload, exSatPrefix) {
			return FlavorExSat, dataSize
		}
		if bytes.HasPrefix(payload, hathorPrefix) {
			return FlavorHathorNetwork, dataSize
		}
	}

	if len(instrs) >= 2 && instrs[1].op == runestoneOp {
		return FlavorRunestone, dataSize
	}
	if bytes.HasPrefix(payload, omniPrefix) {
		return FlavorOmni, dataSize
	}
	if bytes.HasPrefix(payload, stacksPrefix) {
		return FlavorStacksBlockCommit, dataSize
	}
	if dataSize == 80 && looksLikePaymentCode(payload) {
		return FlavorBip47PaymentCode, dataSize
	}

	switch dataSize {
	case 1:
		return FlavorLen1Byte, dataSize
	case 20:
		return FlavorLen20Byte, dataSize
	case 80:
		return FlavorLen80Byte, dataSize
	default:
		return FlavorUnspecified, dataSize
	}
}

// looksLikePaymentCode applies BIP-47's own sanity check on an 80-byte
// notification payload: a version byte of 1, followed by a sign byte of
// 0x02 or 0x03 for the embedded public key.
func looksLikePaymentCode(payload []byte) bool {
	return len(payload) == 80 && payload[0] == 0x01 && (payload[1] == 0x02 || payload[1] == 0x03)
}
