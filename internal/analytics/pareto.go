package analytics

import (
	"sort"

	"maintcli/pkg/contracts/domain"
)

// DefaultParetoThreshold is the cumulative share under which machines are critical
const DefaultParetoThreshold = 80.0

// paretoEpsilon absorbs float error in running sums such as 50+30 vs 80
const paretoEpsilon = 1e-9

// Pareto ranks machines by downtime or intervention count and marks as
// critical every machine whose cumulative share stays within threshold
// percent. Ties are ranked by machine id. A zero grand total gives 0 %
// everywhere and no critical machine.
func Pareto(recs []domain.InterventionRecord, basis domain.ParetoBasis, threshold float64) []domain.ParetoEntry {
	values := make(map[string]float64)
	for _, r := range recs {
		if r.MachineID == "" {
			continue
		}
		if basis == domain.ParetoByCount {
			values[r.MachineID]++
		} else {
			values[r.MachineID] += r.DowntimeHours
		}
	}
	return rankPareto(values, threshold)
}

func rankPareto(values map[string]float64, threshold float64) []domain.ParetoEntry {
	entries := make([]domain.ParetoEntry, 0, len(values))
	for machine, v := range values {
		entries = append(entries, domain.ParetoEntry{MachineID: machine, Value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].MachineID < entries[j].MachineID
	})

	total := 0.0
	for _, e := range entries {
		total += e.Value
	}

	running := 0.0
	for i := range entries {
		e := &entries[i]
		e.Rank = i + 1
		running += e.Value
		if total > 0 {
			e.SharePct = e.Value * 100 / total
			e.CumulativePct = running * 100 / total
			e.IsCritical = e.CumulativePct <= threshold+paretoEpsilon
		}
		e.Value = Round2(e.Value)
		e.SharePct = Round2(e.SharePct)
		e.CumulativePct = Round2(e.CumulativePct)
	}
	return entries
}

// CriticalCount counts the machines flagged critical
func CriticalCount(entries []domain.ParetoEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsCritical {
			n++
		}
	}
	return n
}
