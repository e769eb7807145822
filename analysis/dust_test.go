package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64p(v int64) *int64 { return &v }

func TestResolveEphemeralDustSimplePair(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   200,
		Outputs: []OutputInfo{{Type: OutputP2A, Value: 100}},
	}
	consumer := DustTx{
		Txid:          "consumer",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, consumer})
	assert.False(t, result[0])
	assert.True(t, result[1])
}

func TestResolveEphemeralDustRejectsOversizeProducer(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   10001,
		Outputs: []OutputInfo{{Type: OutputP2A, Value: 100}},
	}
	consumer := DustTx{
		Txid:          "consumer",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, consumer})
	assert.False(t, result[0])
	assert.False(t, result[1])
}

func TestResolveEphemeralDustRejectsOversizeConsumer(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   200,
		Outputs: []OutputInfo{{Type: OutputP2A, Value: 100}},
	}
	consumer := DustTx{
		Txid:          "consumer",
		Version:       3,
		Fee:           int64p(500),
		VSize:         1001,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, consumer})
	assert.False(t, result[0])
	assert.False(t, result[1])
}

func TestResolveEphemeralDustSingleTake(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   200,
		Outputs: []OutputInfo{{Type: OutputP2A, Value: 100}},
	}
	first := DustTx{
		Txid:          "first",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}
	second := DustTx{
		Txid:          "second",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, first, second})
	assert.True(t, result[1])
	assert.False(t, result[2])
}

func TestResolveEphemeralDustIgnoresNonDustOutputs(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   200,
		Outputs: []OutputInfo{{Type: OutputP2PKH, Value: 5000}},
	}
	consumer := DustTx{
		Txid:          "consumer",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, consumer})
	assert.False(t, result[0])
	assert.False(t, result[1])
}

func TestResolveEphemeralDustRejectsMultipleDustOutputs(t *testing.T) {
	producer := DustTx{
		Txid:    "producer",
		Version: 3,
		Fee:     int64p(0),
		VSize:   200,
		Outputs: []OutputInfo{
			{Type: OutputP2A, Value: 100},
			{Type: OutputP2A, Value: 50},
		},
	}
	consumer := DustTx{
		Txid:          "consumer",
		Version:       3,
		Fee:           int64p(500),
		VSize:         300,
		PrevOutpoints: []OutPointRef{{Txid: "producer", Vout: 0}},
	}

	result := ResolveEphemeralDust([]DustTx{producer, consumer})
	assert.False(t, result[1])
}
