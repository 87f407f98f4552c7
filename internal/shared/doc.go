// Package shared holds helpers used by tests across maintcli.
//
// The testutil subpackage provides a capturing slog handler and fixture
// builders for raw and cleaned intervention records.
package shared
