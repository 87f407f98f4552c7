// Package pipeline runs the field normalizers over every intervention row and
// produces the typed records, the canonical text rows and the cleaning audit.
package pipeline
