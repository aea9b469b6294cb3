package services

import (
	"errors"
	"fmt"
)

// Pipeline stages, reported to callers as "<stage>_error".
const (
	StageFileSave      = "file_save"
	StagePDFProcessing = "pdf_processing"
	StageEmbedding     = "embedding"
	StageVectorStore   = "vector_store"
	StageGeneration    = "ai_generation"
)

var ErrNoFile = errors.New("no file provided")

// StageError tags a failure with the pipeline stage it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Code is the error_code string for an HTTP error body.
func (e *StageError) Code() string { return e.Stage + "_error" }

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
