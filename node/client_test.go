package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New("", 0)
	c.endpoint = srv.URL + "/"
	return c, srv.Close
}

func TestChainInfo(t *testing.T) {
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getblockchaininfo", req.Method)

		resp := rpcResponse{Result: json.RawMessage(`{"blocks": 900000, "initialblockdownload": false, "verificationprogress": 0.999999}`)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	defer closeFn()

	info, err := client.ChainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(900000), info.Blocks)
	assert.False(t, info.InitialBlockDownload)
}

func TestChainInfoPropagatesRpcError(t *testing.T) {
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		resp := rpcResponse{Error: &rpcError{Code: -1, Message: "boom"}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	defer closeFn()

	_, err := client.ChainInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestBlockAtHeight(t *testing.T) {
	// BlockAtHeight stores raw tx bytes verbatim for later deserialization by
	// the analysis engine; it only needs to be valid hex here, not a
	// consensus-valid transaction.
	txHex := "deadbeef"

	calls := 0
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls++
		switch req.Method {
		case "getblockhash":
			resp := rpcResponse{Result: json.RawMessage(`"000000000000000000deadbeef"`)}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		case "getblock":
			result := map[string]interface{}{
				"height":       12345,
				"time":         1700000000,
				"bits":         "1d00ffff",
				"nonce":        42,
				"version":      1,
				"size":         250,
				"strippedsize": 200,
				"weight":       850,
				"tx": []map[string]interface{}{
					{
						"txid":     "abc123",
						"hex":      txHex,
						"size":     60,
						"vsize":    60,
						"version":  1,
						"locktime": 0,
						"fee":      0,
						"vin": []map[string]interface{}{
							{"coinbase": "0102", "sequence": 4294967295},
						},
						"vout": []map[string]interface{}{
							{"n": 0, "value": 6.25},
						},
					},
				},
			}
			raw, err := json.Marshal(result)
			require.NoError(t, err)
			resp := rpcResponse{Result: raw}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}
	})
	defer closeFn()

	block, err := client.BlockAtHeight(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), block.Height)
	assert.Equal(t, uint32(0x1d00ffff), block.Bits)
	require.Len(t, block.TxData, 1)
	assert.Equal(t, "abc123", block.TxData[0].Txid)
	assert.Nil(t, block.TxData[0].Fee)
	assert.True(t, block.TxData[0].In[0].Coinbase)
	assert.Equal(t, int64(625000000), block.TxData[0].Out[0].Value)
	assert.Equal(t, 2, calls)
}

func TestToSatoshis(t *testing.T) {
	assert.Equal(t, int64(100000000), toSatoshis(1.0))
	assert.Equal(t, int64(50000000), toSatoshis(0.5))
	assert.Equal(t, int64(1), toSatoshis(0.00000001))
}

func TestParseCompactBitsHex(t *testing.T) {
	v, err := parseCompactBitsHex("1d00ffff")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1d00ffff), v)
}
