package storage

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "css/battle.css", []byte("body{}"), 0o644))
	store := NewAferoStore(memFs)

	t.Run("Open", func(t *testing.T) {
		f, err := store.Open("css/battle.css")
		require.NoError(t, err)
		defer f.Close()

		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "body{}", string(b))
	})

	t.Run("Open non-existent file", func(t *testing.T) {
		_, err := store.Open("js/nothing.js")
		assert.Error(t, err)
	})

	t.Run("Exists", func(t *testing.T) {
		assert.True(t, store.Exists("css/battle.css"))
		assert.False(t, store.Exists("css"))
		assert.False(t, store.Exists("missing.css"))
	})

	t.Run("FS", func(t *testing.T) {
		b, err := fs.ReadFile(store.FS(), "css/battle.css")
		require.NoError(t, err)
		assert.Equal(t, "body{}", string(b))
	})
}

func TestNewStaticFs_Embed(t *testing.T) {
	embedded := fstest.MapFS{
		"static/js/battle.js": {Data: []byte("// js")},
	}

	staticFs, err := NewStaticFs(SourceEmbed, embedded, "")
	require.NoError(t, err)

	b, err := afero.ReadFile(staticFs, "js/battle.js")
	require.NoError(t, err)
	assert.Equal(t, "// js", string(b))

	err = afero.WriteFile(staticFs, "js/other.js", []byte("x"), 0o644)
	assert.Error(t, err, "static assets are read-only")
}

func TestNewStaticFs_Disk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "battle.css"), []byte("main{}"), 0o644))

	staticFs, err := NewStaticFs(SourceDisk, nil, root)
	require.NoError(t, err)

	b, err := afero.ReadFile(staticFs, "css/battle.css")
	require.NoError(t, err)
	assert.Equal(t, "main{}", string(b))

	_, err = NewStaticFs(SourceDisk, nil, filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestNewStaticFs_UnknownSource(t *testing.T) {
	_, err := NewStaticFs("s3", nil, "")
	assert.Error(t, err)
}
