package services

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"rag-chat-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortTextIsOneChunk(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	chunks := s.SplitText("  A short page.\n\nWith two paragraphs.  \n")

	require.Len(t, chunks, 1)
	assert.Equal(t, "A short page.\n\nWith two paragraphs.", chunks[0])
}

func TestSplitTextEmpty(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	assert.Empty(t, s.SplitText(""))
	assert.Empty(t, s.SplitText(" \n\n \n "))
}

func TestSplitTextPacksParagraphs(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	paras := make([]string, 5)
	for i := range paras {
		paras[i] = strings.Repeat(string(rune('a'+i)), 400)
	}

	chunks := s.SplitText(strings.Join(paras, "\n\n"))

	// Paragraphs longer than the overlap are never repeated.
	require.Len(t, chunks, 3)
	assert.Equal(t, paras[0]+"\n\n"+paras[1], chunks[0])
	assert.Equal(t, paras[2]+"\n\n"+paras[3], chunks[1])
	assert.Equal(t, paras[4], chunks[2])
}

func TestSplitTextWordOverlap(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	words := make([]string, 400)
	for i := range words {
		words[i] = fmt.Sprintf("w%04d", i)
	}
	text := strings.Join(words, " ")

	chunks := s.SplitText(text)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 1000)
	}

	assert.True(t, strings.HasPrefix(chunks[0], "w0000 "))
	assert.True(t, strings.HasSuffix(chunks[0], " w0165"))
	assert.True(t, strings.HasPrefix(chunks[1], "w0150 "))
	assert.True(t, strings.HasSuffix(chunks[1], " w0315"))
	assert.True(t, strings.HasPrefix(chunks[2], "w0300 "))
	assert.True(t, strings.HasSuffix(chunks[2], " w0399"))
}

func TestSplitTextFallsBackToCharacters(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)
	text := strings.Repeat("abcdefghij", 250)

	chunks := s.SplitText(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, text[:1000], chunks[0])
	assert.Equal(t, text[900:1900], chunks[1])
	assert.Equal(t, text[1800:], chunks[2])
}

func TestSplitTextRecursesIntoLongParagraph(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	words := make([]string, 300)
	for i := range words {
		words[i] = fmt.Sprintf("x%04d", i)
	}
	long := strings.Join(words, " ")
	text := "Intro paragraph.\n\n" + long + "\n\nOutro paragraph."

	chunks := s.SplitText(text)

	require.GreaterOrEqual(t, len(chunks), 3)
	assert.Equal(t, "Intro paragraph.", chunks[0])
	assert.Equal(t, "Outro paragraph.", chunks[len(chunks)-1])
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 1000)
	}
}

func TestSplitTextCountsRunes(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	chunks := s.SplitText(strings.Repeat("é", 1000))

	require.Len(t, chunks, 1)
	assert.Equal(t, 1000, utf8.RuneCountInString(chunks[0]))
}

func TestSplitTextChunkCountTracksLength(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)

	for _, n := range []int{1, 999, 1000, 1001, 5000, 9000} {
		chunks := s.SplitText(strings.Repeat("z", n))
		want := 1
		if n > 1000 {
			want = (n - 100 + 899) / 900
		}
		assert.Len(t, chunks, want, "length %d", n)
	}
}

func TestSplitDocumentsCopiesMetadata(t *testing.T) {
	s := NewRecursiveCharacterTextSplitter(1000, 100)
	pages := []models.Document{
		{PageContent: strings.Repeat("p", 1500), Metadata: map[string]any{models.MetadataPage: 0, models.MetadataSource: "uploads/a.pdf"}},
		{PageContent: "second page", Metadata: map[string]any{models.MetadataPage: 1, models.MetadataSource: "uploads/a.pdf"}},
		{PageContent: "", Metadata: map[string]any{models.MetadataPage: 2, models.MetadataSource: "uploads/a.pdf"}},
	}

	chunks := s.SplitDocuments(pages)

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].Metadata[models.MetadataPage])
	assert.Equal(t, 0, chunks[1].Metadata[models.MetadataPage])
	assert.Equal(t, 1, chunks[2].Metadata[models.MetadataPage])

	chunks[0].Metadata["extra"] = true
	assert.NotContains(t, chunks[1].Metadata, "extra")
	assert.NotContains(t, pages[0].Metadata, "extra")
}
