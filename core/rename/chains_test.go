package rename

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/utilstudy/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linux.csv")
	chains := []schema.AliasChain{
		{"lib/util.c", "lib/helpers.c"},
		{"odd,name.c"},
	}
	require.NoError(t, WriteChains(path, chains))

	back, err := ReadChains(path)
	require.NoError(t, err)
	assert.Equal(t, chains, back)
}

func TestEncodeChains(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeChains(&buf, []schema.AliasChain{{"a.c", "b.c", "c.c"}, {"d.c"}}))
	assert.Equal(t, "a.c,b.c,c.c\nd.c\n", buf.String())
}

func TestDecodeChains_SkipsBlankRows(t *testing.T) {
	chains, err := DecodeChains(strings.NewReader("a.c,b.c\n\nc.c\n"))
	require.NoError(t, err)
	assert.Equal(t, []schema.AliasChain{{"a.c", "b.c"}, {"c.c"}}, chains)
}

func TestReadChains_Missing(t *testing.T) {
	_, err := ReadChains(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
