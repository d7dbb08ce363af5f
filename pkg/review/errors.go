package review

import "errors"

// Sentinel errors forming the review error taxonomy. Callers classify
// failures with errors.Is and wrap them with fmt.Errorf("...: %w", ...).
var (
	// ErrParse indicates malformed or unreadable source content.
	ErrParse = errors.New("parse error")
	// ErrUnsupportedLanguage indicates a file extension no analyzer understands.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrAnalysis indicates an analyzer failed internally.
	ErrAnalysis = errors.New("analysis error")
	// ErrIO indicates a filesystem failure.
	ErrIO = errors.New("io error")
	// ErrAI indicates a network or auth failure from the optional AI reviewer.
	ErrAI = errors.New("ai error")
	// ErrConfig indicates an invalid pipeline configuration.
	ErrConfig = errors.New("configuration error")
)
