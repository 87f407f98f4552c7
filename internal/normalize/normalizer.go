package normalize

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"maintcli/internal/config"
)

// DefaultNoneLabel renders an empty parts list
const DefaultNoneLabel = "None"

var (
	initialPattern = regexp.MustCompile(`^(\p{L})\.\s*(\p{L}[\p{L}'\-]*)$`)
	partsSplitter  = regexp.MustCompile(`\s*[,;|]\s*|\s+[/-]\s+`)
)

// Normalizer applies the lookup tables of one mappings set.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	technicians map[string]string
	initials    map[string]string
	faults      map[string]string
	noneTokens  map[string]struct{}
	noneLabel   string
}

// New builds a normalizer from mapping tables; nil uses the built-in tables
func New(m *config.Mappings) *Normalizer {
	if m == nil {
		m = config.DefaultMappings()
	}

	n := &Normalizer{
		technicians: buildLookup(m.Technicians.Aliases),
		initials:    make(map[string]string, len(m.Technicians.Initials)),
		faults:      buildLookup(m.FaultTypes),
		noneTokens:  make(map[string]struct{}, len(m.Parts.NoneTokens)+1),
		noneLabel:   collapseSpaces(m.Parts.NoneLabel),
	}

	for initial, first := range m.Technicians.Initials {
		n.initials[strings.ToUpper(initial)] = collapseSpaces(first)
	}
	if n.noneLabel == "" {
		n.noneLabel = DefaultNoneLabel
	}
	for _, token := range m.Parts.NoneTokens {
		n.noneTokens[foldKey(token)] = struct{}{}
	}
	n.noneTokens[foldKey(n.noneLabel)] = struct{}{}
	n.noneTokens[""] = struct{}{}

	return n
}

// NoneLabel returns the marker written for an empty parts list
func (n *Normalizer) NoneLabel() string {
	return n.noneLabel
}

// Date normalizes the intervention date
func (n *Normalizer) Date(raw string) Result[time.Time] {
	return ParseDate(raw)
}

// Duration normalizes the downtime in hours
func (n *Normalizer) Duration(raw string) Result[float64] {
	return ParseDuration(raw)
}

// Technician resolves a technician name to "First Last".
// Known aliases win, then "I.Last" initial expansion, then title casing.
func (n *Normalizer) Technician(raw string) Result[string] {
	s := collapseSpaces(raw)
	if s == "" {
		return missing("", "")
	}

	if canonical, ok := n.technicians[foldKey(s)]; ok {
		return parsed(canonical, canonical)
	}

	if m := initialPattern.FindStringSubmatch(s); m != nil {
		initial := strings.ToUpper(m[1])
		last := titleCase(m[2])
		if first, ok := n.initials[initial]; ok {
			name := first + " " + last
			return parsed(name, name)
		}
		name := initial + ". " + last
		return fallback(name, name)
	}

	name := titleCase(s)
	return fallback(name, name)
}

// FaultType maps a fault label variant to its canonical form
func (n *Normalizer) FaultType(raw string) Result[string] {
	s := collapseSpaces(raw)
	if s == "" {
		return missing("", "")
	}

	if canonical, ok := n.faults[foldKey(s)]; ok {
		return parsed(canonical, canonical)
	}

	label := titleCase(s)
	return fallback(label, label)
}

// Parts splits a replaced-parts cell on any known delimiter and renders the
// list joined by ", ". Empty cells and "none" markers yield an empty list.
func (n *Normalizer) Parts(raw string) Result[[]string] {
	s := collapseSpaces(raw)
	if n.isNone(s) {
		return missing([]string{}, n.noneLabel)
	}

	pieces := partsSplitter.Split(s, -1)
	parts := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimFunc(piece, unicode.IsSpace)
		if n.isNone(piece) {
			continue
		}
		parts = append(parts, piece)
	}

	if len(parts) == 0 {
		return missing([]string{}, n.noneLabel)
	}
	return parsed(parts, strings.Join(parts, ", "))
}

func (n *Normalizer) isNone(s string) bool {
	_, ok := n.noneTokens[foldKey(s)]
	return ok
}
