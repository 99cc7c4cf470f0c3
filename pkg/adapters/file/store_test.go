package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/heddle/pkg/adapters/file"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_YAMLContract(t *testing.T) {
	ports.RunDocumentStoreContract(t, file.New(t.TempDir(), file.WithFormat(document.YAML)))
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	doc := &domain.Document{ID: "loom", Version: domain.DocumentVersion}

	yamlStore := file.New(dir, file.WithFormat(document.YAML))
	require.NoError(t, yamlStore.Save(ctx, "loom", doc))
	assert.FileExists(t, filepath.Join(dir, "loom.yaml"))

	// switching format replaces the old file
	jsonStore := file.New(dir)
	require.NoError(t, jsonStore.Save(ctx, "loom", doc))
	assert.FileExists(t, filepath.Join(dir, "loom.json"))
	assert.NoFileExists(t, filepath.Join(dir, "loom.yaml"))

	// no temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// hand-written .yml files are picked up
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.yml"), []byte("id: draft\nnodes: []\nedges: []\n"), 0o644))
	ids, err := jsonStore.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft", "loom"}, ids)

	loaded, err := jsonStore.Load(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, "draft", loaded.ID)
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, store.Save(ctx, id, &domain.Document{}), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
