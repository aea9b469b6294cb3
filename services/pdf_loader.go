package services

import (
	"context"
	"fmt"

	"rag-chat-bot/models"

	"github.com/ledongthuc/pdf"
)

// DocumentLoader turns a file on disk into page documents.
type DocumentLoader interface {
	Load(ctx context.Context, path string) ([]models.Document, error)
}

// PDFLoader extracts plain text page by page, one document per page.
// Pages with no content object yield an empty document so page numbers stay aligned.
type PDFLoader struct{}

func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

func (l *PDFLoader) Load(ctx context.Context, path string) (docs []models.Document, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("malformed PDF %s: %v", path, r)
		}
	}()

	return l.load(ctx, path)
}

func (l *PDFLoader) load(ctx context.Context, path string) ([]models.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	docs := make([]models.Document, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := ""
		p := reader.Page(i)
		if !p.V.IsNull() {
			fonts := make(map[string]*pdf.Font)
			t, err := p.GetPlainText(fonts)
			if err != nil {
				return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
			}
			text = t
		}

		docs = append(docs, models.Document{
			PageContent: text,
			Metadata: map[string]any{
				models.MetadataSource:     path,
				models.MetadataPage:       i - 1,
				models.MetadataTotalPages: total,
			},
		})
	}

	return docs, nil
}
