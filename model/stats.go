package model

// STATSVersion is the schema version this engine computes stats at. The
// orchestrator treats any stored row at a lower version as stale.
//
// History:
//
//	1: initial version
//	2: added coinbase locktime stats
//	3: added coinbase output stats
//	4: added UTXO spend age stats
const STATSVersion = 4

// Bundle is the six sibling stats records the engine derives for a single
// block height. A Bundle is a value type: once emitted from analysis it is
// never mutated, only persisted or discarded.
type Bundle struct {
	Block    BlockStats
	Tx       TxStats
	Input    InputStats
	Output   OutputStats
	Script   ScriptStats
	Feerate  FeerateStats
}

// BlockStats carries header facts, size measurements, and pool attribution
// for one block.
type BlockStats struct {
	StatsVersion int32
	Height       int64
	Date         string

	Version int32
	Nonce   int32
	Bits    int32
	// Difficulty is a low-precision floor(difficulty_float(target)).
	Difficulty int64
	// Log2Work is log2(target.to_work()) for this block only; not cumulative.
	Log2Work float32

	Size         int64
	StrippedSize int64
	VSize        int64
	Weight       int64
	Empty        bool

	CoinbaseOutputAmount      int64
	CoinbaseWeight            int64
	CoinbaseLocktimeSet       bool
	CoinbaseLocktimeSetBip54  bool

	Transactions int32
	Payments     int32

	PaymentsSegwitSpendingTx      int32
	PaymentsTaprootSpendingTx     int32
	PaymentsSignalingExplicitRbf  int32

	Inputs  int32
	Outputs int32

	// PoolID is looked up from the pool catalog; 0 means unidentified.
	PoolID int32
}

// TxStats classifies transactions and counts per-transaction properties.
type TxStats struct {
	Height int64
	Date   string

	TxVersion1       int32
	TxVersion2       int32
	TxVersion3       int32
	TxVersionUnknown int32

	TxOutputAmount int64

	TxSpendingSegwit          int32
	TxSpendingOnlySegwit      int32
	TxSpendingOnlyLegacy      int32
	TxSpendingOnlyTaproot     int32
	TxSpendingSegwitAndLegacy int32
	TxSpendingNestedSegwit    int32
	TxSpendingNativeSegwit    int32
	TxSpendingTaproot         int32

	TxBip69Compliant       int32
	TxSignalingExplicitRbf int32

	Tx1Input               int32
	Tx1Output              int32
	Tx1Input1Output        int32
	Tx1Input2Output        int32
	TxSpendingNewlyCreatedUtxos int32
	TxSpendingEphemeralDust     int32

	TxTimelockHeight      int32
	TxTimelockTimestamp   int32
	TxTimelockNotEnforced int32
	TxTimelockTooHigh     int32
}

// ScriptStats enumerates every pubkey and signature discovered in inputs and
// outputs.
type ScriptStats struct {
	Height int64
	Date   string

	Pubkeys                    int32
	PubkeysCompressed          int32
	PubkeysUncompressed        int32
	PubkeysCompressedInputs    int32
	PubkeysUncompressedInputs  int32
	PubkeysCompressedOutputs   int32
	PubkeysUncompressedOutputs int32

	SigsSchnorr           int32
	SigsEcdsa             int32
	SigsEcdsaNotStrictDer int32
	SigsEcdsaStrictDer    int32

	SigsEcdsaLengthLess70Byte   int32
	SigsEcdsaLength70Byte       int32
	SigsEcdsaLength71Byte       int32
	SigsEcdsaLength72Byte       int32
	SigsEcdsaLength73Byte       int32
	SigsEcdsaLength74Byte       int32
	SigsEcdsaLength75ByteOrMore int32

	SigsEcdsaLowR       int32
	SigsEcdsaHighR      int32
	SigsEcdsaLowS       int32
	SigsEcdsaHighS      int32
	SigsEcdsaHighRs     int32
	SigsEcdsaLowRs      int32
	SigsEcdsaLowRHighS  int32
	SigsEcdsaHighRLowS  int32

	SigsSighashes       int32
	SigsSighashAll      int32
	SigsSighashNone     int32
	SigsSighashSingle   int32
	SigsSighashAllAcp    int32
	SigsSighashNoneAcp   int32
	SigsSighashSingleAcp int32
}

// InputStats categorizes every input by spend pattern, 14-way type
// discriminant, and confirmation age.
type InputStats struct {
	Height int64
	Date   string

	InputsSpendingLegacy              int32
	InputsSpendingSegwit              int32
	InputsSpendingTaproot             int32
	InputsSpendingNestedSegwit        int32
	InputsSpendingNativeSegwit        int32
	InputsSpendingMultisig            int32
	InputsSpendingP2msMultisig        int32
	InputsSpendingP2shMultisig        int32
	InputsSpendingNestedP2wshMultisig int32
	InputsSpendingP2wshMultisig       int32

	InputsP2pk             int32
	InputsP2pkh            int32
	InputsNestedP2wpkh     int32
	InputsP2wpkh           int32
	InputsP2ms             int32
	InputsP2sh             int32
	InputsNestedP2wsh      int32
	InputsP2wsh            int32
	InputsCoinbase         int32
	InputsWitnessCoinbase  int32
	InputsP2trKeypath      int32
	InputsP2trScriptpath   int32
	InputsP2a              int32
	InputsP2aDust          int32
	InputsUnknown          int32

	InputsSpendInSameBlock int32

	InputsSpendingPrev1Blocks    int32
	InputsSpendingPrev6Blocks    int32
	InputsSpendingPrev144Blocks  int32
	InputsSpendingPrev2016Blocks int32
}

// OutputStats categorizes every output by type, amount, and (for OP_RETURN)
// protocol flavor.
type OutputStats struct {
	Height int64
	Date   string

	OutputsP2pk     int32
	OutputsP2pkh    int32
	OutputsP2wpkh   int32
	OutputsP2ms     int32
	OutputsP2sh     int32
	OutputsP2wsh    int32
	OutputsOpreturn int32
	OutputsP2tr     int32
	OutputsP2a      int32
	OutputsP2aDust  int32
	OutputsUnknown  int32

	OutputsP2pkAmount     int64
	OutputsP2pkhAmount    int64
	OutputsP2wpkhAmount   int64
	OutputsP2msAmount     int64
	OutputsP2shAmount     int64
	OutputsP2wshAmount    int64
	OutputsP2trAmount     int64
	OutputsP2aAmount      int64
	OutputsOpreturnAmount int64
	OutputsUnknownAmount  int64

	OutputsOpreturnOmnilayer               int32
	OutputsOpreturnStacksBlockCommit       int32
	OutputsOpreturnBip47PaymentCode        int32
	OutputsOpreturnCoinbaseRsk             int32
	OutputsOpreturnCoinbaseCoredao         int32
	OutputsOpreturnCoinbaseExsat           int32
	OutputsOpreturnCoinbaseHathor          int32
	OutputsOpreturnCoinbaseWitnessCommitment int32
	OutputsOpreturnRunestone               int32
	OutputsOpreturnBytes                   int64

	OutputsCoinbase         int32
	OutputsCoinbaseP2pk     int32
	OutputsCoinbaseP2pkh    int32
	OutputsCoinbaseP2wpkh   int32
	OutputsCoinbaseP2ms     int32
	OutputsCoinbaseP2sh     int32
	OutputsCoinbaseP2wsh    int32
	OutputsCoinbaseP2tr     int32
	OutputsCoinbaseOpreturn int32
	OutputsCoinbaseUnknown  int32
}

// FeerateStats summarizes fees, sizes, and feerates over every non-coinbase
// transaction in the block: extrema, sums, means, quantiles, and band
// counts.
type FeerateStats struct {
	Height int64
	Date   string

	FeeMin              int64
	Fee5thPercentile    int64
	Fee10thPercentile   int64
	Fee25thPercentile   int64
	Fee35thPercentile   int64
	Fee50thPercentile   int64
	Fee65thPercentile   int64
	Fee75thPercentile   int64
	Fee90thPercentile   int64
	Fee95thPercentile   int64
	FeeMax              int64
	FeeSum              int64
	FeeAvg              float32

	SizeMin            int32
	Size5thPercentile  int32
	Size10thPercentile int32
	Size25thPercentile int32
	Size35thPercentile int32
	Size50thPercentile int32
	Size65thPercentile int32
	Size75thPercentile int32
	Size90thPercentile int32
	Size95thPercentile int32
	SizeMax            int32
	SizeAvg            float32
	SizeSum            int64

	FeerateMin              float32
	Feerate5thPercentile    float32
	Feerate10thPercentile   float32
	Feerate25thPercentile   float32
	Feerate35thPercentile   float32
	Feerate50thPercentile   float32
	Feerate65thPercentile   float32
	Feerate75thPercentile   float32
	Feerate90thPercentile   float32
	Feerate95thPercentile   float32
	FeerateMax              float32
	FeerateAvg              float32

	// FeeratePackage* fields are reserved for a future schema version and
	// always emitted as 0 (spec §4.2.6, §9 open question).
	FeeratePackageMin            float32
	FeeratePackage5thPercentile  float32
	FeeratePackage10thPercentile float32
	FeeratePackage25thPercentile float32
	FeeratePackage35thPercentile float32
	FeeratePackage50thPercentile float32
	FeeratePackage65thPercentile float32
	FeeratePackage75thPercentile float32
	FeeratePackage90thPercentile float32
	FeeratePackage95thPercentile float32
	FeeratePackageMax            float32
	FeeratePackageAvg            float32

	ZeroFeeTx      int32
	Below1SatVbyte int32

	Feerate1To2SatVbyte      int32
	Feerate2To5SatVbyte      int32
	Feerate5To10SatVbyte     int32
	Feerate10To25SatVbyte    int32
	Feerate25To50SatVbyte    int32
	Feerate50To100SatVbyte   int32
	Feerate100To250SatVbyte  int32
	Feerate250To500SatVbyte  int32
	Feerate500To1000SatVbyte int32
	Feerate1000PlusSatVbyte  int32
}
