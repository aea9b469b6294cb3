package models

// Document is a span of text with provenance metadata. The PDF loader
// produces one per page; the splitter produces one per chunk, copying the
// page metadata onto every chunk cut from it.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// Metadata keys set by the PDF loader.
const (
	MetadataSource     = "source"
	MetadataPage       = "page"
	MetadataTotalPages = "total_pages"
)

// CloneMetadata returns a shallow copy so chunks never share a map with their page.
func (d Document) CloneMetadata() map[string]any {
	out := make(map[string]any, len(d.Metadata))
	for k, v := range d.Metadata {
		out[k] = v
	}
	return out
}
