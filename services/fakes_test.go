package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"unicode"

	"rag-chat-bot/internal/ai"
	"rag-chat-bot/models"
)

// letterEmbedder maps text to letter frequencies plus a constant bias term,
// so similar texts get similar vectors and no vector is all zeros.
type letterEmbedder struct {
	docCalls   int
	queryCalls int
	err        error
}

func (e *letterEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.docCalls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letterVector(t)
	}
	return out, nil
}

func (e *letterEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.queryCalls++
	if e.err != nil {
		return nil, e.err
	}
	return letterVector(text), nil
}

func letterVector(text string) []float32 {
	v := make([]float32, 27)
	v[26] = 1
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}

// recordingChatModel answers with a fixed string and keeps every request.
type recordingChatModel struct {
	mu       sync.Mutex
	answer   string
	err      error
	requests []ai.ChatRequest
}

func (m *recordingChatModel) Generate(_ context.Context, req ai.ChatRequest) (*ai.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &ai.Completion{Text: m.answer, Model: "fake"}, nil
}

// staticLoader returns the same pages for any path.
type staticLoader struct {
	pages []string
	err   error
}

func (l *staticLoader) Load(_ context.Context, path string) ([]models.Document, error) {
	if l.err != nil {
		return nil, l.err
	}
	docs := make([]models.Document, len(l.pages))
	for i, p := range l.pages {
		docs[i] = models.Document{
			PageContent: p,
			Metadata: map[string]any{
				models.MetadataSource:     path,
				models.MetadataPage:       i,
				models.MetadataTotalPages: len(l.pages),
			},
		}
	}
	return docs, nil
}

// writeTestPDF writes a minimal uncompressed PDF with one text line per page.
func writeTestPDF(t *testing.T, path string, pages ...string) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		for _, r := range text {
			if r > unicode.MaxASCII || r == '(' || r == ')' || r == '\\' {
				t.Fatalf("writeTestPDF only supports plain ASCII, got %q", r)
			}
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write test PDF: %v", err)
	}
}

// isStage reports whether err came from the given pipeline stage.
func isStage(err error, stage string) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}
