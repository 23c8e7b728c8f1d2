package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Empty(t, store.Table("anything"))
}

func TestLoadMalformedFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = not [valid toml"), 0o600))

	store, err := Load(path)
	require.Error(t, err, "parse failure is reported")
	require.NotNil(t, store, "but the store is still usable")
	assert.Empty(t, store.Table("basic"))
}

func TestLoadReadsPluginTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[basic]
greeting_prefix = "Howdy"
enabled = true

[logger]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Howdy", store.Table("basic")["greeting_prefix"])

	on, ok := store.Enabled("basic")
	require.True(t, ok)
	assert.True(t, on)

	on, ok = store.Enabled("logger")
	require.True(t, ok)
	assert.False(t, on)
}

func TestEnabledReportsUnreadableValues(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)

	_, ok := store.Enabled("absent")
	assert.False(t, ok)

	store.Table("odd")["enabled"] = "definitely"
	_, ok = store.Enabled("odd")
	assert.False(t, ok, "non-boolean enabled values count as unreadable")

	store.Table("plain")["other_key"] = 1
	_, ok = store.Enabled("plain")
	assert.False(t, ok)
}

func TestTableIsLiveAndSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")

	store, err := Load(path)
	require.NoError(t, err)

	store.Table("basic")["greeting_prefix"] = "Hi"
	store.Table("basic")["enabled"] = true
	require.NoError(t, store.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Hi", reloaded.Table("basic")["greeting_prefix"])

	on, ok := reloaded.Enabled("basic")
	require.True(t, ok)
	assert.True(t, on)
}

func TestSaveWithEmptyPathIsInMemoryOnly(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)
	store.Table("x")["k"] = "v"
	assert.NoError(t, store.Save())
}
