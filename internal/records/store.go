package records

import (
	"sort"
	"time"

	"maintcli/pkg/contracts/domain"
)

// Store is an immutable, ordered collection of cleaned interventions.
// Narrowing a store returns a new one; the receiver never changes.
type Store struct {
	records []domain.InterventionRecord
}

// NewStore copies records into a new store, keeping their order
func NewStore(records []domain.InterventionRecord) *Store {
	cp := make([]domain.InterventionRecord, len(records))
	copy(cp, records)
	return &Store{records: cp}
}

// Len returns the number of records
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of the records in load order
func (s *Store) Records() []domain.InterventionRecord {
	if s == nil {
		return nil
	}
	cp := make([]domain.InterventionRecord, len(s.records))
	copy(cp, s.records)
	return cp
}

// Where returns the records matching p
func (s *Store) Where(p Predicate) *Store {
	if s == nil {
		return &Store{}
	}
	out := make([]domain.InterventionRecord, 0, s.Len())
	for _, r := range s.records {
		if p(r) {
			out = append(out, r)
		}
	}
	return &Store{records: out}
}

// Apply narrows the store with a caller filter
func (s *Store) Apply(f Filter) *Store {
	if f.IsZero() {
		return s
	}
	return s.Where(f.Predicate())
}

// Machines returns the distinct non-empty machine ids, sorted
func (s *Store) Machines() []string {
	return s.distinct(func(r domain.InterventionRecord) string { return r.MachineID })
}

// Technicians returns the distinct non-empty technician names, sorted
func (s *Store) Technicians() []string {
	return s.distinct(func(r domain.InterventionRecord) string { return r.Technician })
}

// FaultTypes returns the distinct non-empty fault types, sorted
func (s *Store) FaultTypes() []string {
	return s.distinct(func(r domain.InterventionRecord) string { return r.FaultType })
}

// DateRange returns the first and last intervention dates.
// ok is false when no record is dated.
func (s *Store) DateRange() (from, to time.Time, ok bool) {
	for _, r := range s.records {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(from) {
			from = r.Date
		}
		if !ok || r.Date.After(to) {
			to = r.Date
		}
		ok = true
	}
	return from, to, ok
}

func (s *Store) distinct(key func(domain.InterventionRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range s.records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
