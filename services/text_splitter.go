package services

import (
	"strings"
	"unicode/utf8"

	"rag-chat-bot/models"
)

// DefaultSeparators are tried in order: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveCharacterTextSplitter cuts text into chunks of at most ChunkSize
// characters, carrying up to ChunkOverlap characters of the previous chunk
// into the next one. It splits on the coarsest separator present and only
// falls back to finer ones for pieces that are still too long.
type RecursiveCharacterTextSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewRecursiveCharacterTextSplitter creates a splitter with the default separators
func NewRecursiveCharacterTextSplitter(chunkSize, chunkOverlap int) *RecursiveCharacterTextSplitter {
	return &RecursiveCharacterTextSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}
}

// SplitText returns the whitespace-trimmed, non-empty chunks of text
func (s *RecursiveCharacterTextSplitter) SplitText(text string) []string {
	return s.splitText(text, s.Separators)
}

// SplitDocuments splits every document and gives each chunk a copy of its
// source document's metadata.
func (s *RecursiveCharacterTextSplitter) SplitDocuments(docs []models.Document) []models.Document {
	var chunks []models.Document
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.PageContent) {
			chunks = append(chunks, models.Document{
				PageContent: text,
				Metadata:    doc.CloneMetadata(),
			})
		}
	}
	return chunks
}

func (s *RecursiveCharacterTextSplitter) splitText(text string, separators []string) []string {
	// Pick the first separator that occurs in the text; "" always matches.
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var final, pending []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if utf8.RuneCountInString(piece) < s.ChunkSize {
			pending = append(pending, piece)
			continue
		}

		if len(pending) > 0 {
			final = append(final, s.mergeSplits(pending)...)
			pending = nil
		}
		if len(finer) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, finer)...)
		}
	}

	if len(pending) > 0 {
		final = append(final, s.mergeSplits(pending)...)
	}
	return final
}

// mergeSplits packs consecutive pieces into chunks no longer than ChunkSize,
// starting each new chunk with the trailing pieces of the previous one that
// fit inside ChunkOverlap.
func (s *RecursiveCharacterTextSplitter) mergeSplits(splits []string) []string {
	var docs, current []string
	total := 0

	for _, piece := range splits {
		n := utf8.RuneCountInString(piece)

		if total+n > s.ChunkSize && len(current) > 0 {
			if doc := joinChunk(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.ChunkOverlap || (total+n > s.ChunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += n
	}

	if doc := joinChunk(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on sep and glues each separator to the
// start of the piece that follows it, so no characters are lost.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces = make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, p := range parts[1:] {
		pieces = append(pieces, sep+p)
	}
	return pieces
}

func joinChunk(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}
