package records

import (
	"time"

	"maintcli/pkg/contracts/domain"
)

// Predicate selects intervention records
type Predicate func(domain.InterventionRecord) bool

// All combines predicates with logical AND. No predicate matches everything.
func All(preds ...Predicate) Predicate {
	return func(r domain.InterventionRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// DateBetween keeps dated records inside [from, to]. A zero bound is open.
// Undated records never match.
func DateBetween(from, to time.Time) Predicate {
	return func(r domain.InterventionRecord) bool {
		if !r.HasDate() {
			return false
		}
		if !from.IsZero() && r.Date.Before(from) {
			return false
		}
		if !to.IsZero() && r.Date.After(to) {
			return false
		}
		return true
	}
}

// TechnicianIn keeps records handled by one of names
func TechnicianIn(names ...string) Predicate {
	set := toSet(names)
	return func(r domain.InterventionRecord) bool {
		_, ok := set[r.Technician]
		return ok
	}
}

// FaultTypeIn keeps records whose fault type is one of types
func FaultTypeIn(types ...string) Predicate {
	set := toSet(types)
	return func(r domain.InterventionRecord) bool {
		_, ok := set[r.FaultType]
		return ok
	}
}

// MachineIn keeps records of the given machines
func MachineIn(ids ...string) Predicate {
	set := toSet(ids)
	return func(r domain.InterventionRecord) bool {
		_, ok := set[r.MachineID]
		return ok
	}
}

// HasIdentifiers drops records missing an intervention or machine id
func HasIdentifiers() Predicate {
	return domain.InterventionRecord.HasIdentifiers
}

// Filter is the caller-facing selection over a record set. Empty lists
// and zero dates do not restrict anything.
type Filter struct {
	From              time.Time
	To                time.Time
	Technicians       []string
	FaultTypes        []string
	Machines          []string
	ExcludeMissingIDs bool
}

// IsZero reports whether the filter keeps every record
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.Technicians) == 0 && len(f.FaultTypes) == 0 && len(f.Machines) == 0 &&
		!f.ExcludeMissingIDs
}

// Predicate compiles the filter
func (f Filter) Predicate() Predicate {
	var preds []Predicate
	if !f.From.IsZero() || !f.To.IsZero() {
		preds = append(preds, DateBetween(f.From, f.To))
	}
	if len(f.Technicians) > 0 {
		preds = append(preds, TechnicianIn(f.Technicians...))
	}
	if len(f.FaultTypes) > 0 {
		preds = append(preds, FaultTypeIn(f.FaultTypes...))
	}
	if len(f.Machines) > 0 {
		preds = append(preds, MachineIn(f.Machines...))
	}
	if f.ExcludeMissingIDs {
		preds = append(preds, HasIdentifiers())
	}
	return All(preds...)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
