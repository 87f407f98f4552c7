// Package normalize turns raw intervention log cells into canonical values.
//
// Every normalizer is total: it never returns an error and never panics on
// malformed input. The outcome is a Result carrying the typed value, its
// canonical text and a Status telling parsed values apart from best-effort
// fallbacks, absent cells and unparsable input.
//
//	r := normalize.ParseDuration("41h45")
//	// r.Value == 41.75, r.Text == "41.75", r.Status == normalize.StatusParsed
//
// Lookup tables (technician aliases, initials, fault variants, "no parts"
// markers) come from config.Mappings so they can be changed without a
// rebuild. Normalizing canonical text again returns the same text.
package normalize
