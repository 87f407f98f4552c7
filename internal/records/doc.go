// Package records loads intervention logs and holds cleaned interventions
// in an immutable Store that can be narrowed with composable predicates.
package records
