package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, json string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pools.json")
	require.NoError(t, os.WriteFile(path, []byte(json), 0o644))
	return path
}

func TestLoadCatalogMissingFileIsEmpty(t *testing.T) {
	cat, err := LoadCatalog(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, UnknownPoolID, cat.Identify([]byte("anything"), nil))
}

func TestCatalogIdentifyByTag(t *testing.T) {
	path := writeCatalogFile(t, `[{"id": 7, "name": "examplepool", "tags": ["/example/"]}]`)
	cat, err := LoadCatalog(path)
	require.NoError(t, err)

	id := cat.Identify([]byte("fabricated coinbase /example/ tag"), nil)
	assert.Equal(t, int32(7), id)
}

func TestCatalogIdentifyByPayoutAddress(t *testing.T) {
	payout := []byte{0x76, 0xa9, 0x14}
	cat := &Catalog{entries: []PoolEntry{{ID: 9, Addresses: [][]byte{payout}}}}
	id := cat.Identify([]byte("no tag here"), [][]byte{payout})
	assert.Equal(t, int32(9), id)
}

func TestCatalogIdentifyUnknownWhenNoMatch(t *testing.T) {
	cat := &Catalog{entries: []PoolEntry{{ID: 3, Tags: []string{"/foo/"}}}}
	assert.Equal(t, UnknownPoolID, cat.Identify([]byte("bar"), nil))
}

func TestNilCatalogIdentifyIsUnknown(t *testing.T) {
	var cat *Catalog
	assert.Equal(t, UnknownPoolID, cat.Identify([]byte("anything"), nil))
}
