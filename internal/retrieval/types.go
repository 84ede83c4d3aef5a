package retrieval

// Backend classifies how an answer was produced, or why it was not.
type Backend string

const (
	// BackendOK means the knowledge base produced a usable answer.
	BackendOK Backend = "ok"

	// BackendError means the call failed or the input was unusable.
	BackendError Backend = "error"

	// BackendEmpty means the call succeeded but generated no text.
	BackendEmpty Backend = "empty"

	// BackendMissingConfig means required Bedrock identifiers are absent.
	BackendMissingConfig Backend = "missing-config"

	// BackendMemory means the turn was absorbed as a remembered note and
	// never reached the knowledge base.
	BackendMemory Backend = "memory"
)

// SourceLocation identifies where a retrieved reference lives.
type SourceLocation struct {
	Type string `json:"type,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// Source is one retrieved reference: its location plus the opaque metadata
// the knowledge base attached to the chunk.
type Source struct {
	Location SourceLocation `json:"location"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result is the normalized outcome of one retrieve-and-generate call.
// For a terminal result exactly one of Answer or Error is non-empty;
// the memory short-circuit carries neither.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Backend Backend  `json:"backend"`
	Error   string   `json:"error,omitempty"`
}
