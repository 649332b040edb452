package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/config"
	"medrag/store"
	"medrag/types"
)

type unitEmbedder struct{}

func (unitEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	base := t.TempDir()
	return config.Settings{
		SourceDir:    filepath.Join(base, "source"),
		ArchiveDir:   filepath.Join(base, "archive"),
		BadDir:       filepath.Join(base, "bad"),
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

func TestIngestFileUpsertsChunks(t *testing.T) {
	cfg := testSettings(t)
	index := store.NewMemoryStore()

	svc, err := New(index, unitEmbedder{}, cfg)
	require.NoError(t, err)

	path := filepath.Join(cfg.SourceDir, "hygiene.txt")
	require.NoError(t, os.WriteFile(path, []byte("Wash hands before and after patient contact."), 0644))

	require.NoError(t, svc.IngestFile(context.Background(), path))

	hits, err := index.Nearest(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "hygiene.txt::chunk_0", hits[0].ID)
	assert.Equal(t, "Wash hands before and after patient contact.", hits[0].Content)
	assert.Equal(t, "hygiene.txt", hits[0].Metadata[types.MetaFilename])
}

func TestIngestFileIsIdempotent(t *testing.T) {
	cfg := testSettings(t)
	index := store.NewMemoryStore()

	svc, err := New(index, unitEmbedder{}, cfg)
	require.NoError(t, err)

	path := filepath.Join(cfg.SourceDir, "hygiene.txt")
	require.NoError(t, os.WriteFile(path, []byte("Wash hands."), 0644))

	require.NoError(t, svc.IngestFile(context.Background(), path))
	require.NoError(t, svc.IngestFile(context.Background(), path))

	hits, err := index.Nearest(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIngestDirectoryArchivesProcessedFiles(t *testing.T) {
	cfg := testSettings(t)
	index := store.NewMemoryStore()

	svc, err := New(index, unitEmbedder{}, cfg)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.SourceDir, "a.txt"), []byte("first document"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SourceDir, "b.txt"), []byte("second document"), 0644))

	require.NoError(t, svc.IngestDirectory(context.Background()))

	remaining, err := os.ReadDir(cfg.SourceDir)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	var archived []string
	err = filepath.WalkDir(cfg.ArchiveDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			archived = append(archived, filepath.Base(path))
		}
		return err
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, archived)
}
