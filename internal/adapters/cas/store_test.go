package cas_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lesscache/internal/adapters/cas"
	"go.trai.ch/lesscache/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore()

	info := domain.BuildInfo{
		Stylesheet: "theme",
		Source:     "theme/main.less",
		Output:     "public/theme.css",
		OutputHash: "0123456789abcdef",
		Monitored:  []string{"theme/partials/a.less", "theme/partials/b.less"},
		Timestamp:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(root, info))

	got, err := store.Get(root, "theme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.Stylesheet, got.Stylesheet)
	assert.Equal(t, info.Monitored, got.Monitored)
	assert.True(t, info.Timestamp.Equal(got.Timestamp))
}

func TestStore_GetMissing(t *testing.T) {
	store := cas.NewStore()

	got, err := store.Get(t.TempDir(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Persistence(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, cas.NewStore().Put(root, domain.BuildInfo{Stylesheet: "admin", OutputHash: "xyz"}))

	// A fresh store instance reads what the first one wrote.
	got, err := cas.NewStore().Get(root, "admin")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "xyz", got.OutputHash)
}

func TestStore_CorruptEntry(t *testing.T) {
	root := t.TempDir()
	hash := sha256.Sum256([]byte("broken"))
	path := filepath.Join(root, domain.DefaultStorePath(), hex.EncodeToString(hash[:])+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore().Get(root, "broken")
	require.ErrorIs(t, err, domain.ErrStoreUnmarshalFailed)
}

func TestStore_OmitZero(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(root, domain.BuildInfo{Stylesheet: "zero"}))

	hash := sha256.Sum256([]byte("zero"))
	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(filepath.Join(root, domain.DefaultStorePath(), hex.EncodeToString(hash[:])+".json"))
	require.NoError(t, err)

	jsonStr := string(content)
	for _, field := range []string{"output_hash", "monitored", "timestamp", "scanned_at"} {
		assert.False(t, strings.Contains(jsonStr, field), "JSON should not contain %q for zero value", field)
	}
	assert.Contains(t, jsonStr, `"stylesheet"`)
}
