package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentsExcludesOpReturnOutputs(t *testing.T) {
	info := &TxInfo{OutputInfos: []OutputInfo{
		{Type: OutputP2PKH},
		{Type: OutputP2WPKH},
		{Type: OutputOpReturn},
	}}
	assert.Equal(t, uint32(2), info.Payments())
}

func TestPaymentsZeroWhenOnlyOpReturn(t *testing.T) {
	info := &TxInfo{OutputInfos: []OutputInfo{{Type: OutputOpReturn}}}
	assert.Equal(t, uint32(0), info.Payments())
}
