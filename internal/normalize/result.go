package normalize

// Status classifies the outcome of normalizing one raw value
type Status uint8

const (
	// StatusParsed means the value matched a known form or table entry
	StatusParsed Status = iota
	// StatusFallback means a best-effort rendering (title-cased) was produced
	StatusFallback
	// StatusMissing means the raw value was empty or an explicit "none" marker
	StatusMissing
	// StatusInvalid means no strategy matched and a sentinel was emitted
	StatusInvalid
)

// String returns the status name used in logs and reports
func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusFallback:
		return "fallback"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Result is the discriminated outcome of a field normalizer.
// Text is the canonical rendering written back to the cleaned file.
type Result[T any] struct {
	Value  T
	Text   string
	Status Status
	Reason string
}

// Final reports whether the value can be trusted as canonical.
// Fallback and invalid results are low confidence.
func (r Result[T]) Final() bool {
	return r.Status == StatusParsed || r.Status == StatusMissing
}

// Changed reports whether normalization altered the raw text
func (r Result[T]) Changed(raw string) bool {
	return r.Text != raw
}

func parsed[T any](v T, text string) Result[T] {
	return Result[T]{Value: v, Text: text, Status: StatusParsed}
}

func fallback[T any](v T, text string) Result[T] {
	return Result[T]{Value: v, Text: text, Status: StatusFallback}
}

func missing[T any](v T, text string) Result[T] {
	return Result[T]{Value: v, Text: text, Status: StatusMissing}
}

func invalid[T any](v T, text, reason string) Result[T] {
	return Result[T]{Value: v, Text: text, Status: StatusInvalid, Reason: reason}
}
