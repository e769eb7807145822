package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// UnknownPoolID is returned by Catalog.Identify when no entry matches.
const UnknownPoolID int32 = 0

// PoolEntry is one mining pool's identification signature: a coinbase
// scriptSig tag substring and/or a set of known payout scriptPubKeys.
type PoolEntry struct {
	ID        int32    `json:"id"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Addresses [][]byte `json:"addresses"`
}

// Catalog is the loaded mining-pool identification dataset. The upstream
// bitcoin_pool_identification crate ships a bundled default dataset; rather
// than fabricate an equivalent (inventing pool tags/addresses would not be
// grounded in anything real), blockstatsd loads its catalog from a JSON file
// supplied by the operator and applies the same two-signal matching
// algorithm the crate does.
type Catalog struct {
	entries []PoolEntry
}

// LoadCatalog reads a pool catalog from a JSON file. A missing file yields
// an empty catalog (every block identifies as UnknownPoolID) rather than an
// error, since pool attribution is enrichment, not a correctness
// requirement of the stats pipeline.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pool catalog %s: %w", path, err)
	}

	var entries []PoolEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing pool catalog %s: %w", path, err)
	}
	return &Catalog{entries: entries}, nil
}

// Identify matches a coinbase transaction against the catalog: first by
// scriptSig tag substring, falling back to output scriptPubKey equality
// against a known payout address. It returns UnknownPoolID when neither
// signal matches any entry.
func (c *Catalog) Identify(coinbaseScriptSig []byte, outputScripts [][]byte) int32 {
	if c == nil {
		return UnknownPoolID
	}

	for _, entry := range c.entries {
		for _, tag := range entry.Tags {
			if len(tag) > 0 && bytes.Contains(coinbaseScriptSig, []byte(tag)) {
				return entry.ID
			}
		}
	}

	for _, entry := range c.entries {
		for _, addr := range entry.Addresses {
			for _, out := range outputScripts {
				if bytes.Equal(addr, out) {
					return entry.ID
				}
			}
		}
	}

	return UnknownPoolID
}
