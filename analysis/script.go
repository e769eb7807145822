package analysis

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// instr is one decoded script instruction: either a data push (Data != nil)
// or a bare opcode.
type instr struct {
	op   byte
	data []byte
}

// parseScript walks a raw script byte-for-byte, decoding push-data opcodes
// into their pushed bytes. It is deliberately hand-rolled rather than built
// on txscript's tokenizer: the only thing every caller in this package needs
// is push/opcode boundaries, and a minimal parser keeps that contract
// obvious without chasing a higher-level API across btcd versions.
func parseScript(script []byte) []instr {
	var out []instr
	i := 0
	for i < len(script) {
		op := script[i]
		switch {
		case op >= 0x01 && op <= 0x4b:
			length := int(op)
			if i+1+length > len(script) {
				return out
			}
			out = append(out, instr{op: op, data: script[i+1 : i+1+length]})
			i += 1 + length
		case op == txscript.OP_PUSHDATA1:
			if i+2 > len(script) {
				return out
			}
			length := int(script[i+1])
			if i+2+length > len(script) {
				return out
			}
			out = append(out, instr{op: op, data: script[i+2 : i+2+length]})
			i += 2 + length
		case op == txscript.OP_PUSHDATA2:
			if i+3 > len(script) {
				return out
			}
			length := int(script[i+1]) | int(script[i+2])<<8
			if i+3+length > len(script) {
				return out
			}
			out = append(out, instr{op: op, data: script[i+3 : i+3+length]})
			i += 3 + length
		case op == txscript.OP_PUSHDATA4:
			if i+5 > len(script) {
				return out
			}
			length := int(script[i+1]) | int(script[i+2])<<8 | int(script[i+3])<<16 | int(script[i+4])<<24
			if i+5+length > len(script) {
				return out
			}
			out = append(out, instr{op: op, data: script[i+5 : i+5+length]})
			i += 5 + length
		default:
			out = append(out, instr{op: op})
			i++
		}
	}
	return out
}

func isPush(in instr) bool { return in.data != nil || (in.op == txscript.OP_0) }

func pushData(in instr) []byte {
	if in.op == txscript.OP_0 {
		return nil
	}
	return in.data
}

// pubkeyStat reports whether b looks like a SEC1 pubkey and, if so,
// whether it is compressed form.
func pubkeyStat(b []byte) (PubkeyStat, bool) {
	switch len(b) {
	case 33:
		if b[0] == 0x02 || b[0] == 0x03 {
			return PubkeyStat{Compressed: true}, true
		}
	case 65:
		if b[0] == 0x04 {
			return PubkeyStat{Compressed: false}, true
		}
	}
	return PubkeyStat{}, false
}

func isWitnessProgram(script []byte, version byte, programLen int) bool {
	if len(script) != 2+programLen {
		return false
	}
	if version == 0 {
		if script[0] != txscript.OP_0 {
			return false
		}
	} else if int(script[0]) != txscript.OP_1+int(version)-1 {
		return false
	}
	return script[1] == byte(programLen)
}

func isP2WPKH(script []byte) bool { return isWitnessProgram(script, 0, 20) }
func isP2WSH(script []byte) bool  { return isWitnessProgram(script, 0, 32) }
func isP2TR(script []byte) bool   { return isWitnessProgram(script, 1, 32) }

// isP2A matches the BIP-anchor scriptPubKey: OP_1 <0x4e 0x73>.
func isP2A(script []byte) bool {
	return len(script) == 4 && script[0] == txscript.OP_1 && script[1] == 0x02 && script[2] == 0x4e && script[3] == 0x73
}

func isP2PKH(script []byte) bool {
	return len(script) == 25 &&
		script[0] == txscript.OP_DUP &&
		script[1] == txscript.OP_HASH160 &&
		script[2] == 0x14 &&
		script[23] == txscript.OP_EQUALVERIFY &&
		script[24] == txscript.OP_CHECKSIG
}

func isP2SH(script []byte) bool {
	return len(script) == 23 &&
		script[0] == txscript.OP_HASH160 &&
		script[1] == 0x14 &&
		script[22] == txscript.OP_EQUAL
}

func isP2PK(instrs []instr) ([]byte, bool) {
	if len(instrs) != 2 {
		return nil, false
	}
	data := pushData(instrs[0])
	if data == nil || instrs[1].op != txscript.OP_CHECKSIG {
		return nil, false
	}
	if _, ok := pubkeyStat(data); !ok {
		return nil, false
	}
	return data, true
}

// isBareMultisig matches `OP_m <pubkey>... OP_n OP_CHECKMULTISIG`.
func isBareMultisig(instrs []instr) ([][]byte, bool) {
	if len(instrs) < 4 {
		return nil, false
	}
	last := instrs[len(instrs)-1]
	nOp := instrs[len(instrs)-2]
	if last.op != txscript.OP_CHECKMULTISIG {
		return nil, false
	}
	if nOp.op < txscript.OP_1 || nOp.op > txscript.OP_16 {
		return nil, false
	}
	var pubkeys [][]byte
	for _, in := range instrs[1 : len(instrs)-2] {
		d := pushData(in)
		if d == nil {
			return nil, false
		}
		if _, ok := pubkeyStat(d); !ok {
			return nil, false
		}
		pubkeys = append(pubkeys, d)
	}
	return pubkeys, true
}

// classifyOutputScript implements the 10-way output discriminant of
// spec §4.2.4, returning any pubkeys found for ScriptStats accounting.
func classifyOutputScript(pkScript []byte) (OutputType, []PubkeyStat) {
	if len(pkScript) == 0 {
		return OutputUnknown, nil
	}
	if pkScript[0] == txscript.OP_RETURN {
		return OutputOpReturn, nil
	}
	if isP2WPKH(pkScript) {
		return OutputP2WPKH, nil
	}
	if isP2WSH(pkScript) {
		return OutputP2WSH, nil
	}
	if isP2TR(pkScript) {
		// the taproot output key itself is not accounted as a "pubkey" in
		// ScriptStats; only input/output pubkeys from legacy script shapes are.
		return OutputP2TR, nil
	}
	if isP2A(pkScript) {
		return OutputP2A, nil
	}
	if isP2PKH(pkScript) {
		return OutputP2PKH, nil
	}
	if isP2SH(pkScript) {
		return OutputP2SH, nil
	}
	instrs := parseScript(pkScript)
	if pk, ok := isP2PK(instrs); ok {
		stat, _ := pubkeyStat(pk)
		return OutputP2PK, []PubkeyStat{stat}
	}
	if pubkeys, ok := isBareMultisig(instrs); ok {
		stats := make([]PubkeyStat, 0, len(pubkeys))
		for _, pk := range pubkeys {
			stat, _ := pubkeyStat(pk)
			stats = append(stats, stat)
		}
		return OutputP2MS, stats
	}
	return OutputUnknown, nil
}

// classifyInput implements the 14-way input discriminant of spec §4.2.3 by
// inspecting the spending scriptSig/witness shape, since the adapter
// contract (§4.1) does not furnish the prevout's own script bytes. P2A vs
// Unknown is disambiguated by the caller using the prevout's script type
// tag, per spec.
func classifyInput(in *wire.TxIn, isCoinbase bool) InputInfo {
	if isCoinbase {
		if len(in.Witness) == 1 && len(in.Witness[0]) == 32 {
			return InputInfo{Type: InputCoinbaseWitness}
		}
		return InputInfo{Type: InputCoinbase}
	}

	hasWitness := len(in.Witness) > 0
	hasSigScript := len(in.SignatureScript) > 0

	if hasWitness {
		if info, ok := classifyTaprootWitness(in.Witness); ok {
			return info
		}
		if len(in.Witness) == 2 && len(in.Witness[1]) == 33 {
			if _, ok := pubkeyStat(in.Witness[1]); ok {
				return classifyWitnessP2WPKH(in.Witness, !hasSigScript)
			}
		}
		return classifyWitnessP2WSH(in.Witness, !hasSigScript)
	}

	if hasSigScript {
		return classifyLegacy(in.SignatureScript)
	}

	// No witness, no sigScript: either an anchor spend or otherwise
	// unclassifiable from the spending side alone.
	return InputInfo{Type: InputUnknown}
}

func classifyTaprootWitness(witness wire.TxWitness) (InputInfo, bool) {
	items := witness
	// BIP-341 annex, if present, is the last item and starts with 0x50; peel
	// it off before inspecting the control block / signature shape.
	if len(items) > 0 && len(items[len(items)-1]) > 0 && items[len(items)-1][0] == 0x50 {
		items = items[:len(items)-1]
	}

	if len(items) >= 2 {
		last := items[len(items)-1]
		if len(last) >= 33 && (len(last)-1)%32 == 0 && (last[0]&0xfe) == 0xc0 {
			info := InputInfo{Type: InputP2TRScriptpath, IsSpendingSegwit: true, IsSpendingTaproot: true, IsSpendingNativeSegwit: true}
			script := items[len(items)-2]
			instrs := parseScript(script)
			info.SignatureInfo, info.PubkeyStats = collectFromTapscript(instrs)
			return info, true
		}
	}

	if len(items) == 1 && (len(items[0]) == 64 || len(items[0]) == 65) {
		sig := SignatureInfo{Kind: SignatureSchnorr, Length: len(items[0]), SigHash: 0x00}
		if len(items[0]) == 65 {
			sig.SigHash = items[0][64]
		}
		return InputInfo{
			Type:                   InputP2TRKeypath,
			IsSpendingSegwit:       true,
			IsSpendingTaproot:      true,
			IsSpendingNativeSegwit: true,
			SignatureInfo:          []SignatureInfo{sig},
		}, true
	}

	return InputInfo{}, false
}

func collectFromTapscript(instrs []instr) ([]SignatureInfo, []PubkeyStat) {
	var sigs []SignatureInfo
	var pubkeys []PubkeyStat
	for _, in := range instrs {
		d := pushData(in)
		if d == nil {
			continue
		}
		if len(d) == 64 || len(d) == 65 {
			sig := SignatureInfo{Kind: SignatureSchnorr, Length: len(d)}
			if len(d) == 65 {
				sig.SigHash = d[64]
			}
			sigs = append(sigs, sig)
			continue
		}
		if stat, ok := pubkeyStat(d); ok {
			pubkeys = append(pubkeys, stat)
		}
	}
	return sigs, pubkeys
}

func classifyWitnessP2WPKH(witness wire.TxWitness, native bool) InputInfo {
	info := InputInfo{IsSpendingSegwit: true}
	if native {
		info.Type = InputP2WPKH
		info.IsSpendingNativeSegwit = true
	} else {
		info.Type = InputNestedP2WPKH
		info.IsSpendingNestedSegwit = true
	}
	if sig, ok := parseEcdsaSignature(witness[0]); ok {
		info.SignatureInfo = append(info.SignatureInfo, sig)
	}
	if stat, ok := pubkeyStat(witness[1]); ok {
		info.PubkeyStats = append(info.PubkeyStats, stat)
	}
	return info
}

func classifyWitnessP2WSH(witness wire.TxWitness, native bool) InputInfo {
	info := InputInfo{IsSpendingSegwit: true}
	if native {
		info.Type = InputP2WSH
		info.IsSpendingNativeSegwit = true
	} else {
		info.Type = InputNestedP2WSH
		info.IsSpendingNestedSegwit = true
	}
	if len(witness) == 0 {
		return info
	}
	witnessScript := witness[len(witness)-1]
	instrs := parseScript(witnessScript)
	if isMultisigScript(instrs) {
		info.IsSpendingMultisig = true
	}
	for _, item := range witness[:len(witness)-1] {
		if sig, ok := parseEcdsaSignature(item); ok {
			info.SignatureInfo = append(info.SignatureInfo, sig)
		}
	}
	return info
}

func isMultisigScript(instrs []instr) bool {
	for _, in := range instrs {
		if in.op == txscript.OP_CHECKMULTISIG || in.op == txscript.OP_CHECKMULTISIGVERIFY {
			return true
		}
	}
	return false
}

func classifyLegacy(sigScript []byte) InputInfo {
	instrs := parseScript(sigScript)
	info := InputInfo{IsSpendingLegacy: true}

	// P2SH: last push, when parsed as a script, is itself a recognizable
	// redeem script. Segwit-wrapped P2SH is handled by the witness path
	// above (it still has a one-push sigScript carrying the witness program).
	if len(instrs) > 0 {
		last := instrs[len(instrs)-1]
		if redeem := pushData(last); redeem != nil {
			if isP2WPKH(redeem) || isP2WSH(redeem) {
				// witness program redeem script with no witness data present
				// is a malformed/legacy-looking spend; treat conservatively
				// as P2SH since no segwit discount applies without a witness.
				info.Type = InputP2SH
				return info
			}
			redeemInstrs := parseScript(redeem)
			if isMultisigScript(redeemInstrs) {
				info.Type = InputP2SH
				info.IsSpendingMultisig = true
				for _, in := range instrs[:len(instrs)-1] {
					if d := pushData(in); d != nil {
						if sig, ok := parseEcdsaSignature(d); ok {
							info.SignatureInfo = append(info.SignatureInfo, sig)
						}
					}
				}
				return info
			}
		}
	}

	if len(instrs) == 2 {
		sigData := pushData(instrs[0])
		pkData := pushData(instrs[1])
		if sigData != nil && pkData != nil {
			if _, ok := pubkeyStat(pkData); ok {
				info.Type = InputP2PKH
				if sig, ok := parseEcdsaSignature(sigData); ok {
					info.SignatureInfo = append(info.SignatureInfo, sig)
				}
				info.PubkeyStats = append(info.PubkeyStats, func() PubkeyStat { s, _ := pubkeyStat(pkData); return s }())
				return info
			}
		}
	}

	if len(instrs) == 1 {
		if sig, ok := parseEcdsaSignature(pushData(instrs[0])); ok {
			info.Type = InputP2PK
			info.SignatureInfo = append(info.SignatureInfo, sig)
			return info
		}
	}

	if len(instrs) >= 1 && instrs[0].op == txscript.OP_0 {
		info.Type = InputP2MS
		info.IsSpendingMultisig = true
		for _, in := range instrs[1:] {
			if d := pushData(in); d != nil {
				if sig, ok := parseEcdsaSignature(d); ok {
					info.SignatureInfo = append(info.SignatureInfo, sig)
				}
			}
		}
		return info
	}

	if len(instrs) > 0 {
		if redeem := pushData(instrs[len(instrs)-1]); redeem != nil {
			info.Type = InputP2SH
			return info
		}
	}

	info.Type = InputUnknown
	return info
}
