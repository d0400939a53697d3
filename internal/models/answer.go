package models

// Answer modes carried in meta.mode. Every response leaving the pipeline
// declares which tier produced it.
const (
	ModeAI        = "ai"
	ModeFallback  = "fallback"
	ModeDemo      = "demo"
	ModeEmergency = "emergency_fallback"
)

// Source is a citation attached to an answer.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// AnswerResponse is the contract-compliant output object returned to every
// caller, regardless of which tier produced it.
type AnswerResponse struct {
	Answer     string                 `json:"answer"`
	Confidence float64                `json:"confidence"`
	Actions    []string               `json:"actions"`
	Sources    []Source               `json:"sources"`
	Meta       map[string]interface{} `json:"meta"`
}
