// Package model defines the decoded-block value types the node adapter
// produces and the analysis engine consumes, plus the stats bundle the
// engine emits. Every type here is a plain value: no I/O, no mutation after
// construction.
package model

// ScriptPubkeyType mirrors the node's scriptPubKey type tag for a prevout.
// Only the tags the analysis engine needs to special-case are named as
// constants; any other tag is carried through verbatim and classified by
// the engine's own script inspection instead.
type ScriptPubkeyType string

const (
	ScriptPubkeyTypeAnchor ScriptPubkeyType = "anchor"
)

// Prevout is the previous output a non-coinbase input spends, as furnished
// by the node alongside the input (see spec §4.1's adapter contract).
type Prevout struct {
	Value            int64
	ScriptPubkeyType ScriptPubkeyType
	// Height is the confirmation height of the prevout. It is 0 both for
	// genesis-adjacent prevouts and for prevouts created earlier in the same
	// block; callers must consult the in-block txid set to disambiguate true
	// height-0 age from same-block age, per spec §4.2.3.
	Height int64
}

// TxIn is one transaction input. Coinbase is true for the single input of a
// coinbase transaction, which carries no PrevTxid/Prevout.
type TxIn struct {
	Coinbase bool
	PrevTxid string
	PrevVout uint32
	Prevout  Prevout
	Sequence uint32
}

// TxOut is one transaction output.
type TxOut struct {
	N     uint32
	Value int64
}

// Tx is a transaction as furnished by the node: raw consensus bytes plus the
// fields the orchestrator and engine need without re-parsing for everything.
type Tx struct {
	Txid string
	// Raw holds the consensus-serialized transaction bytes; the analysis
	// engine re-parses these rather than trusting any JSON-derived witness
	// ordering (spec §4.1).
	Raw []byte

	Version  int32
	LockTime uint32
	Size     uint32
	VSize    uint32

	// Fee is nil for the coinbase transaction and the satoshi fee for every
	// other transaction.
	Fee *int64

	In  []TxIn
	Out []TxOut
}

// Block is a single decoded block, ready for analysis. The coinbase
// transaction is always TxData[0]; order is significant for in-block
// ancestor detection (spec §3).
type Block struct {
	Height uint64
	Time   uint32
	Bits   uint32
	Nonce  uint32
	Version int32

	Size         int64
	StrippedSize int64
	Weight       int64

	TxData []Tx
}
