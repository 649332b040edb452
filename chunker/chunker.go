package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"medrag/types"
)

// Separator preference order: paragraph break, line break, sentence end,
// word boundary, then a hard character cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

const fallbackSource = "unknown_source"

// Split cuts each document into chunks of at most size characters, sliding an
// overlap-character window across chunk boundaries so local context survives a
// cut. Sizes count characters, not bytes, so multibyte text is never cut
// mid-rune. Pure and deterministic: the same input always produces the same
// chunks and the same UIDs.
func Split(docs []types.Document, size, overlap int) ([]types.Chunk, error) {
	if size <= 0 || overlap < 0 {
		return nil, fmt.Errorf("invalid chunking parameters: size=%d overlap=%d", size, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}

	var all []types.Chunk
	for _, doc := range docs {
		source := doc.Metadata[types.MetaFilename]
		if source == "" {
			source = doc.Metadata[types.MetaSource]
		}
		if source == "" {
			source = fallbackSource
		}

		for i, content := range splitText(doc.Content, size, overlap) {
			meta := make(map[string]string, len(doc.Metadata)+1)
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			uid := fmt.Sprintf("%s::chunk_%d", source, i)
			meta[types.MetaChunkUID] = uid

			all = append(all, types.Chunk{
				Content:  content,
				Index:    i,
				UID:      uid,
				Metadata: meta,
			})
		}
	}
	return all, nil
}

// splitText produces the ordered chunk contents for a single document.
func splitText(text string, size, overlap int) []string {
	spans := splitRecursive(text, separators, size)
	return mergeSpans(spans, size, overlap)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// splitRecursive cuts text into spans no longer than size characters,
// preferring the earliest separator in the preference list that occurs in the
// text and descending to finer separators for spans that are still too long.
// The empty separator is a hard cut at the size boundary, taken on rune
// boundaries only.
func splitRecursive(text string, seps []string, size int) []string {
	if runeLen(text) <= size {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	sep := ""
	rest := []string{}
	for i, s := range seps {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		runes := []rune(text)
		var parts []string
		for len(runes) > size {
			parts = append(parts, string(runes[:size]))
			runes = runes[size:]
		}
		if len(runes) > 0 {
			parts = append(parts, string(runes))
		}
		return parts
	}

	var out []string
	for _, piece := range strings.SplitAfter(text, sep) {
		if runeLen(piece) <= size {
			if piece != "" {
				out = append(out, piece)
			}
			continue
		}
		out = append(out, splitRecursive(piece, rest, size)...)
	}
	return out
}

// mergeSpans re-merges adjacent small spans into chunks of at most size
// characters, carrying at most overlap trailing characters into the start of
// the next chunk.
func mergeSpans(spans []string, size, overlap int) []string {
	var chunks []string
	var window []string
	total := 0

	flush := func() {
		joined := strings.TrimSpace(strings.Join(window, ""))
		if joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, span := range spans {
		n := runeLen(span)
		if total+n > size && total > 0 {
			flush()
			// keep a tail of at most overlap characters as the next window
			for total > overlap || (total > 0 && total+n > size) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, span)
		total += n
	}
	if total > 0 {
		flush()
	}
	return chunks
}
