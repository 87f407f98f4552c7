package analytics

import (
	"sort"

	"maintcli/pkg/contracts/domain"
)

// Effectiveness thresholds on the mean gap between repeats of a fault
const (
	EffectiveGapDays = 90.0
	ModerateGapDays  = 30.0
	// ChronicOccurrences is the repeat count from which a pair is counted as chronic
	ChronicOccurrences = 3
)

type faultKey struct {
	machine string
	fault   string
}

// Recurrence scores every (machine, fault type) pair seen at least twice on
// dated interventions. The score n/(gap+1) grows with repeats and shrinks
// with the mean gap in days. Results are ranked by score, then occurrences,
// then machine and fault.
func Recurrence(recs []domain.InterventionRecord) []domain.RecurrenceEntry {
	groups := make(map[faultKey][]domain.InterventionRecord)
	for _, r := range recs {
		if !r.HasDate() || r.FaultType == "" || r.MachineID == "" {
			continue
		}
		k := faultKey{machine: r.MachineID, fault: r.FaultType}
		groups[k] = append(groups[k], r)
	}

	out := make([]domain.RecurrenceEntry, 0)
	for k, group := range groups {
		if len(group) < 2 {
			continue
		}
		gap := mean(dayGaps(datesOf(group)))
		out = append(out, domain.RecurrenceEntry{
			MachineID:     k.machine,
			FaultType:     k.fault,
			Occurrences:   len(group),
			MeanGapDays:   Round2(gap),
			Score:         Round2(RecurrenceScore(len(group), gap)),
			Effectiveness: ClassifyRepair(gap),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.MachineID != b.MachineID {
			return a.MachineID < b.MachineID
		}
		return a.FaultType < b.FaultType
	})
	return out
}

// RecurrenceScore is occurrences/(meanGapDays+1). A zero gap scores the
// occurrence count itself.
func RecurrenceScore(occurrences int, meanGapDays float64) float64 {
	if meanGapDays <= 0 {
		return float64(occurrences)
	}
	return float64(occurrences) / (meanGapDays + 1)
}

// ClassifyRepair maps the mean gap between repeats to a repair effectiveness class
func ClassifyRepair(meanGapDays float64) domain.RepairEffectiveness {
	switch {
	case meanGapDays > EffectiveGapDays:
		return domain.RepairEffective
	case meanGapDays > ModerateGapDays:
		return domain.RepairModerate
	default:
		return domain.RepairPoor
	}
}

// ChronicPairs counts the pairs repeated at least ChronicOccurrences times
func ChronicPairs(entries []domain.RecurrenceEntry) int {
	n := 0
	for _, e := range entries {
		if e.Occurrences >= ChronicOccurrences {
			n++
		}
	}
	return n
}
