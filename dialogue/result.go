// Package dialogue implements the resolution pipeline: language detection,
// entity recognition, context-scoped matching, intent-weighted ranking, and
// the fallback chain, orchestrated per request by Engine.
package dialogue

import "context"

// Source tags identifying which tier of the pipeline produced an answer.
const (
	SourceContext       = "context"
	SourceQA            = "qa"
	SourceAPIFallback   = "api_fallback"
	SourceLocalFallback = "local_fallback"
	SourceDefault       = "default"
)

// DefaultAnswer is the built-in terminal answer used when the knowledge base
// configures none and every other tier came up empty.
const DefaultAnswer = "Maaf, saya tidak dapat menjawab pertanyaan itu."

// Result is the structured outcome of one resolved turn. Intent and Score are
// present only for locally matched answers; Context is the session's active
// context after the turn, nil when none.
type Result struct {
	Answer      string            `json:"answer"`
	Intent      string            `json:"intent,omitempty"`
	Score       *float64          `json:"score,omitempty"`
	Source      string            `json:"source"`
	Context     *string           `json:"context"`
	Language    string            `json:"language"`
	Entities    map[string]string `json:"entities,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

// Record is one resolved turn handed to a Recorder.
type Record struct {
	SessionID string
	Utterance string
	Answer    string
	Source    string
	Language  string
	Intent    string
	Score     *float64
}

// Recorder persists resolved turns. Failures are logged by the engine and
// never fail the request.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}
