package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medrag/chunker"
	"medrag/config"
	"medrag/loader/internal"
	"medrag/model"
	"medrag/store"
	"medrag/types"
)

// Service ingests source files into the vector index: load, chunk, embed,
// upsert. Processed files move to a dated archive directory, failed ones to
// the bad directory, so the source directory only ever holds pending work.
type Service struct {
	logger   *slog.Logger
	index    store.VectorIndex
	embedder model.EmbedderInterface
	cfg      config.Settings
}

func New(index store.VectorIndex, embedder model.EmbedderInterface, cfg config.Settings) (*Service, error) {
	for _, dir := range []string{cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &Service{
		logger:   slog.Default(),
		index:    index,
		embedder: embedder,
		cfg:      cfg,
	}, nil
}

// IngestDirectory processes every ingestable file currently in the source
// directory. Failures on one file do not stop the rest.
func (s *Service) IngestDirectory(ctx context.Context) error {
	files, err := internal.ListSourceFiles(s.cfg.SourceDir)
	if err != nil {
		return err
	}

	var failed int
	for _, path := range files {
		if err := s.IngestFile(ctx, path); err != nil {
			s.logger.Error("ingest failed", "file", path, "error", err.Error())
			s.moveTo(path, s.cfg.BadDir)
			failed++
			continue
		}
		s.moveTo(path, s.cfg.ArchiveDir)
	}

	s.logger.Info("ingest finished", "files", len(files), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(files))
	}
	return nil
}

// IngestFile loads one file, chunks it, embeds every chunk and upserts the
// records. Re-ingesting the same file is idempotent: chunk UIDs are
// deterministic and the index overwrites by UID.
func (s *Service) IngestFile(ctx context.Context, path string) error {
	doc, err := internal.LoadFile(path)
	if err != nil {
		return err
	}

	chunks, err := chunker.Split([]types.Document{doc}, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		s.logger.Warn("no chunks produced", "file", path)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	records := make([]types.IndexedRecord, len(chunks))
	for i, c := range chunks {
		records[i] = types.IndexedRecord{
			UID:       c.UID,
			Content:   c.Content,
			Metadata:  c.Metadata,
			Embedding: vectors[i],
		}
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		return err
	}

	s.logger.Info("file ingested", "file", path, "chunks", len(chunks))
	return nil
}

// Watch polls the source directory and ingests files once they have sat
// unmodified for the watch interval, so partially copied files are not picked
// up. Runs until the context is cancelled.
func (s *Service) Watch(ctx context.Context) {
	s.logger.Info("start monitoring folder", "dir", s.cfg.SourceDir)

	firstSeen := make(map[string]time.Time)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping file watcher")
			return
		case <-ticker.C:
			files, err := internal.ListSourceFiles(s.cfg.SourceDir)
			if err != nil {
				s.logger.Error("error while reading source directory", "error", err.Error())
				continue
			}

			current := make(map[string]bool, len(files))
			for _, path := range files {
				current[path] = true

				seen, ok := firstSeen[path]
				if !ok {
					firstSeen[path] = time.Now()
					s.logger.Info("new file detected", "file", path)
					continue
				}
				if time.Since(seen) < s.cfg.WatchInterval {
					continue
				}

				if err := s.IngestFile(ctx, path); err != nil {
					s.logger.Error("ingest failed", "file", path, "error", err.Error())
					s.moveTo(path, s.cfg.BadDir)
				} else {
					s.moveTo(path, s.cfg.ArchiveDir)
				}
				delete(firstSeen, path)
			}

			for path := range firstSeen {
				if !current[path] {
					delete(firstSeen, path)
				}
			}
		}
	}
}

// moveTo places a processed file in a dated subdirectory of dest, renaming on
// name conflicts.
func (s *Service) moveTo(path, dest string) {
	destDir := filepath.Join(dest, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		s.logger.Error("error creating archive directory", "error", err.Error())
		return
	}

	destPath := filepath.Join(destDir, filepath.Base(path))
	counter := 1
	for {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(filepath.Base(path), ext)
		destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		counter++
	}

	if err := copyFile(path, destPath); err != nil {
		s.logger.Error("error moving file", "file", path, "error", err.Error())
		return
	}
	os.Remove(path)
	s.logger.Info("file archived", "file", destPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
