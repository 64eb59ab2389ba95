package normalize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("Nature", "nature"), "case-insensitive identical strings are a perfect match")
	assert.Equal(t, 1.0, Ratio("", ""), "two empty strings are trivially identical")
	assert.Less(t, Ratio("Nature", "Science"), 0.5)
	assert.Greater(t, Ratio("Royal Society of Chemistry", "Royal Soc. of Chemistry"), 0.6)
}

func TestBest(t *testing.T) {
	idx := Index{
		"NAT": Entry{NormalizedName: "Nature", NameVariants: []string{"Nature Publishing Group", "Nat."}},
		"RSC": Entry{NormalizedName: "Royal Society of Chemistry", NameVariants: []string{"RSC Publishing"}},
	}

	name, ok := Best(idx, "Nature Publishing Group", 0.9)
	require.True(t, ok)
	assert.Equal(t, "Nature", name)

	name, ok = Best(idx, "Nat.", 0.9)
	require.True(t, ok)
	assert.Equal(t, "Nature", name)

	_, ok = Best(idx, "Completely Unrelated Press", 0.9)
	assert.False(t, ok, "no registry entry should clear the threshold")
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers_index.json")

	data, err := json.Marshal(Index{
		"NAT": Entry{NormalizedName: "Nature", NameVariants: []string{"Nature Publishing Group"}},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	idx, err := LoadIndex(path)
	require.NoError(t, err)
	require.Contains(t, idx, "NAT")
	assert.Equal(t, "Nature", idx["NAT"].NormalizedName)
}

func TestLoadIndexMissingFile(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
