package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"medrag/types"
)

// ListSourceFiles returns the ingestable files in dir, in directory order.
func ListSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".pdf":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// LoadFile reads a single source file into a Document. Text files are decoded
// as UTF-8 with invalid bytes silently dropped; PDFs go through plain-text
// extraction.
func LoadFile(path string) (types.Document, error) {
	var content string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		content, err = loadText(path)
	case ".pdf":
		content, err = loadPDF(path)
	default:
		return types.Document{}, fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return types.Document{}, err
	}

	return types.Document{
		Content: content,
		Metadata: map[string]string{
			types.MetaSource:   path,
			types.MetaFilename: filepath.Base(path),
		},
	}, nil
}

// LoadDocuments loads every ingestable file in dir.
func LoadDocuments(dir string) ([]types.Document, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	docs := make([]types.Document, 0, len(files))
	for _, path := range files {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}

func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
