package analysis

import (
	"bytes"
	"time"

	"github.com/btcsuite/btcd/wire"

	"github.com/blockstats/blockstatsd/errors"
	"github.com/blockstats/blockstatsd/model"
)

// Engine turns one decoded block into the six stats records a Bundle holds.
// It is stateless except for the pool catalog, which it only reads, and
// Analyze keeps all decoding state local to the call, so a single Engine is
// safe to reuse and to share across goroutines.
type Engine struct {
	pools *Catalog
}

// NewEngine builds an Engine using pools for coinbase mining-pool
// attribution. pools may be nil, in which case every block identifies as
// UnknownPoolID.
func NewEngine(pools *Catalog) *Engine {
	return &Engine{pools: pools}
}

// Analyze computes a Bundle for block. It is pure: the same block always
// produces the same Bundle, and no partial state escapes a failed call.
func (e *Engine) Analyze(block *model.Block) (*model.Bundle, error) {
	if len(block.TxData) == 0 {
		return nil, errors.NewStatsError(int64(block.Height), "block has no transactions, not even a coinbase", nil)
	}

	wireTxs := make([]*wire.MsgTx, len(block.TxData))
	for i, tx := range block.TxData {
		var msgTx wire.MsgTx
		if err := msgTx.Deserialize(bytes.NewReader(tx.Raw)); err != nil {
			return nil, errors.NewDecodeError("deserializing tx "+tx.Txid, err).WithHeight(int64(block.Height))
		}
		wireTxs[i] = &msgTx
	}

	txInfos := make([]*TxInfo, len(block.TxData))
	for i, tx := range block.TxData {
		txInfos[i] = buildTxInfo(tx, wireTxs[i], i == 0)
	}

	date := time.Unix(int64(block.Time), 0).UTC().Format("2006-01-02")

	var poolID int32 = UnknownPoolID
	if e.pools != nil {
		var outScripts [][]byte
		for _, out := range wireTxs[0].TxOut {
			outScripts = append(outScripts, out.PkScript)
		}
		poolID = e.pools.Identify(wireTxs[0].TxIn[0].SignatureScript, outScripts)
	}

	dustFlags := resolveDustFlags(block, wireTxs)

	bundle := &model.Bundle{
		Block:   buildBlockStats(block, wireTxs, txInfos, date, poolID),
		Tx:      buildTxStats(block, wireTxs, txInfos, date, dustFlags),
		Input:   buildInputStats(block, txInfos, date),
		Output:  buildOutputStats(block, txInfos, date),
		Script:  buildScriptStats(block, txInfos, date),
		Feerate: buildFeerateStats(block, wireTxs, date),
	}
	return bundle, nil
}

func resolveDustFlags(block *model.Block, wireTxs []*wire.MsgTx) []bool {
	dustTxs := make([]DustTx, 0, len(block.TxData)-1)
	indexOf := make([]int, 0, len(block.TxData)-1)
	for i := 1; i < len(block.TxData); i++ {
		tx := block.TxData[i]
		wireTx := wireTxs[i]
		var outs []OutputInfo
		for _, o := range wireTx.TxOut {
			typ, _ := classifyOutputScript(o.PkScript)
			outs = append(outs, OutputInfo{Type: typ, Value: o.Value})
		}
		var prevs []OutPointRef
		for _, in := range tx.In {
			prevs = append(prevs, OutPointRef{Txid: in.PrevTxid, Vout: in.PrevVout})
		}
		dustTxs = append(dustTxs, DustTx{
			Txid:          tx.Txid,
			Version:       tx.Version,
			Fee:           tx.Fee,
			VSize:         tx.VSize,
			Outputs:       outs,
			PrevOutpoints: prevs,
		})
		indexOf = append(indexOf, i)
	}

	resolved := ResolveEphemeralDust(dustTxs)
	flags := make([]bool, len(block.TxData))
	for j, spends := range resolved {
		flags[indexOf[j]] = spends
	}
	return flags
}

// buildTxInfo classifies every input and output of a transaction once; the
// block, tx, input, output and script stats builders read from the result.
// The feerate builder does not use it, and resolveDustFlags classifies
// output scripts on its own.
func buildTxInfo(tx model.Tx, wireTx *wire.MsgTx, isCoinbase bool) *TxInfo {
	info := &TxInfo{}

	for i, win := range wireTx.TxIn {
		inInfo := classifyInput(win, isCoinbase)
		if !isCoinbase && inInfo.Type == InputUnknown && i < len(tx.In) &&
			tx.In[i].Prevout.ScriptPubkeyType == model.ScriptPubkeyTypeAnchor {
			inInfo.Type = InputP2A
		}
		info.InputInfos = append(info.InputInfos, inInfo)
	}

	for _, wout := range wireTx.TxOut {
		typ, pubkeys := classifyOutputScript(wout.PkScript)
		oi := OutputInfo{Type: typ, Value: wout.Value, PubkeyStats: pubkeys}
		if typ == OutputOpReturn {
			oi.Flavor, oi.DataSize = classifyOpReturnFlavor(wout.PkScript, isCoinbase)
		}
		info.OutputInfos = append(info.OutputInfos, oi)
		info.outputValueSum += wout.Value
	}

	if !isCoinbase {
		info.isBip69Compliant = isBip69InputOrder(wireTx.TxIn) && isBip69OutputOrder(wireTx.TxOut)
		for _, in := range wireTx.TxIn {
			if in.Sequence <= 0xfffffffd {
				info.signalsExplicitRBF = true
				break
			}
		}
	} else {
		info.isBip69Compliant = true
	}

	return info
}

func isBip69InputOrder(ins []*wire.TxIn) bool {
	for i := 1; i < len(ins); i++ {
		prev, cur := ins[i-1].PreviousOutPoint, ins[i].PreviousOutPoint
		cmp := bytes.Compare(prev.Hash[:], cur.Hash[:])
		if cmp > 0 || (cmp == 0 && prev.Index > cur.Index) {
			return false
		}
	}
	return true
}

func isBip69OutputOrder(outs []*wire.TxOut) bool {
	for i := 1; i < len(outs); i++ {
		prev, cur := outs[i-1], outs[i]
		if prev.Value > cur.Value {
			return false
		}
		if prev.Value == cur.Value && bytes.Compare(prev.PkScript, cur.PkScript) > 0 {
			return false
		}
	}
	return true
}

