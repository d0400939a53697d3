package models

// Document is a retrievable agricultural reference passage. Similarity is
// assigned at retrieval time and never persisted.
type Document struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Content    string                 `json:"content"`
	Snippet    string                 `json:"snippet"`
	URL        string                 `json:"url"`
	Similarity float32                `json:"similarity,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Text returns the best available body text for the document.
func (d Document) Text() string {
	if d.Content != "" {
		return d.Content
	}
	return d.Snippet
}
