package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	require.NoError(t, os.WriteFile(a, []byte("<TEI/>"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("<TEI/>\n"), 0o644))

	ha, err := HashFile(a)
	require.NoError(t, err)
	assert.Len(t, ha, 64)

	again, err := HashFile(a)
	require.NoError(t, err)
	assert.Equal(t, ha, again)

	hb, err := HashFile(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)

	_, err = HashFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
