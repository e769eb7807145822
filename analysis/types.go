package analysis

// InputType is the 14-way discriminant input scripts are classified into,
// mirroring spec §4.2.3.
type InputType int

const (
	InputUnknown InputType = iota
	InputP2PK
	InputP2PKH
	InputNestedP2WPKH
	InputP2WPKH
	InputP2MS
	InputP2SH
	InputNestedP2WSH
	InputP2WSH
	InputCoinbase
	InputCoinbaseWitness
	InputP2TRKeypath
	InputP2TRScriptpath
	InputP2A
)

// OutputType is the 10-way discriminant output scripts are classified into,
// mirroring spec §4.2.4.
type OutputType int

const (
	OutputUnknown OutputType = iota
	OutputP2PK
	OutputP2PKH
	OutputP2WPKH
	OutputP2MS
	OutputP2SH
	OutputP2WSH
	OutputP2TR
	OutputP2A
	OutputOpReturn
)

// OpReturnFlavor recognizes known OP_RETURN payload protocols, per
// spec §4.2.4.
type OpReturnFlavor int

const (
	FlavorUnspecified OpReturnFlavor = iota
	FlavorRunestone
	FlavorOmni
	FlavorStacksBlockCommit
	FlavorBip47PaymentCode
	FlavorRSKBlock
	FlavorCoreDao
	FlavorExSat
	FlavorHathorNetwork
	FlavorWitnessCommitment
	FlavorLen1Byte
	FlavorLen20Byte
	FlavorLen80Byte
)

// SignatureKind distinguishes Schnorr (taproot) from ECDSA signatures.
type SignatureKind int

const (
	SignatureEcdsa SignatureKind = iota
	SignatureSchnorr
)

// PubkeyStat records whether a discovered public key was in compressed or
// uncompressed SEC1 form.
type PubkeyStat struct {
	Compressed bool
}

// SignatureInfo is everything ScriptStats needs about one discovered
// signature.
type SignatureInfo struct {
	Kind        SignatureKind
	DERStrict   bool // only meaningful for Kind == SignatureEcdsa
	Length      int  // encoded length in bytes, including the sighash byte
	SigHash     byte
	LowR, LowS  bool // only meaningful for Kind == SignatureEcdsa
}

// InputInfo is the precomputed classification of one transaction input.
type InputInfo struct {
	Type InputType

	IsSpendingLegacy       bool
	IsSpendingSegwit       bool
	IsSpendingTaproot      bool
	IsSpendingNestedSegwit bool
	IsSpendingNativeSegwit bool
	IsSpendingMultisig     bool

	PubkeyStats   []PubkeyStat
	SignatureInfo []SignatureInfo
}

// OutputInfo is the precomputed classification of one transaction output.
type OutputInfo struct {
	Type        OutputType
	Flavor      OpReturnFlavor
	Value       int64
	PubkeyStats []PubkeyStat
	// DataSize is the total pushed payload size for an OP_RETURN output (the
	// sum of PushBytes lengths, excluding opcodes); zero for other types.
	DataSize int64
}

// TxInfo is the per-transaction analytical scratch space the engine builds
// once per transaction and every sub-aggregate reads from (spec §4.2).
type TxInfo struct {
	InputInfos  []InputInfo
	OutputInfos []OutputInfo

	isBip69Compliant      bool
	signalsExplicitRBF    bool
	outputValueSum        int64
}

// Payments is the number of outputs excluding OP_RETURN outputs, matching
// rawtx_rs's tx_info.payments().
func (t *TxInfo) Payments() uint32 {
	var n uint32
	for _, out := range t.OutputInfos {
		if out.Type != OutputOpReturn {
			n++
		}
	}
	return n
}

func (t *TxInfo) OutputValueSum() int64 { return t.outputValueSum }

func (t *TxInfo) IsBip69Compliant() bool { return t.isBip69Compliant }

func (t *TxInfo) IsSignalingExplicitRBF() bool { return t.signalsExplicitRBF }

func (t *TxInfo) IsSpendingSegwit() bool {
	for _, in := range t.InputInfos {
		if in.IsSpendingSegwit {
			return true
		}
	}
	return false
}

func (t *TxInfo) IsSpendingTaproot() bool {
	for _, in := range t.InputInfos {
		if in.IsSpendingTaproot {
			return true
		}
	}
	return false
}

func (t *TxInfo) IsSpendingNativeSegwit() bool {
	for _, in := range t.InputInfos {
		if in.IsSpendingNativeSegwit {
			return true
		}
	}
	return false
}

func (t *TxInfo) IsSpendingNestedSegwit() bool {
	for _, in := range t.InputInfos {
		if in.IsSpendingNestedSegwit {
			return true
		}
	}
	return false
}

func (t *TxInfo) IsSpendingSegwitAndLegacy() bool {
	var legacy, segwit bool
	for _, in := range t.InputInfos {
		if in.Type == InputCoinbase || in.Type == InputCoinbaseWitness {
			continue
		}
		if in.IsSpendingLegacy {
			legacy = true
		}
		if in.IsSpendingSegwit {
			segwit = true
		}
	}
	return legacy && segwit
}

func (t *TxInfo) IsOnlySpendingLegacy() bool {
	var any bool
	for _, in := range t.InputInfos {
		if in.Type == InputCoinbase || in.Type == InputCoinbaseWitness {
			continue
		}
		any = true
		if in.IsSpendingSegwit {
			return false
		}
	}
	return any
}

func (t *TxInfo) IsOnlySpendingSegwit() bool {
	var any bool
	for _, in := range t.InputInfos {
		if in.Type == InputCoinbase || in.Type == InputCoinbaseWitness {
			continue
		}
		any = true
		if in.IsSpendingLegacy {
			return false
		}
	}
	return any
}

func (t *TxInfo) IsOnlySpendingTaproot() bool {
	var any bool
	for _, in := range t.InputInfos {
		if in.Type == InputCoinbase || in.Type == InputCoinbaseWitness {
			continue
		}
		any = true
		if !in.IsSpendingTaproot {
			return false
		}
	}
	return any
}
