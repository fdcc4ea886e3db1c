package document

// Document is a piece of extracted text ready to be embedded
type Document struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Metadata key recording a chunk's position within its source text
const MetaChunk = "chunk"
