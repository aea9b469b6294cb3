package models

// UserQuery is the /chat request body. Query is a pointer so that a missing
// field fails binding while an empty string is still accepted.
type UserQuery struct {
	Query                 *string `json:"query" binding:"required"`
	ReturnSourceDocuments bool    `json:"return_source_documents,omitempty"`
}

// QAResult mirrors the output of a retrieval question-answering chain.
type QAResult struct {
	Query           string     `json:"query"`
	Result          string     `json:"result"`
	SourceDocuments []Document `json:"source_documents,omitempty"`
}

// ChatResponse wraps the chain output the way the /chat endpoint returns it.
type ChatResponse struct {
	Response *QAResult `json:"response"`
}
