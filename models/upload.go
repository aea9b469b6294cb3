package models

import "fmt"

// UploadResponse is returned by POST /uploadfile.
type UploadResponse struct {
	Filename     string `json:"filename"`
	FilePath     string `json:"file_path"`
	Confirmation string `json:"confirmation"`
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Filename string
	FilePath string
	Pages    int
	IDs      []string
}

// Confirmation is the human readable count of stored chunks.
func (r *IngestResult) Confirmation() string {
	return fmt.Sprintf("Successfully store %d docs in the vector store", len(r.IDs))
}
