package analytics

import (
	"sort"
	"time"

	"maintcli/pkg/contracts/domain"
)

// Technicians profiles every named technician, ranked by intervention count
// then name. Regularity is the sample standard deviation of the day gaps
// between their dated interventions.
func Technicians(recs []domain.InterventionRecord) []domain.TechnicianProfile {
	groups := make(map[string][]domain.InterventionRecord)
	for _, r := range recs {
		if r.Technician == "" {
			continue
		}
		groups[r.Technician] = append(groups[r.Technician], r)
	}

	out := make([]domain.TechnicianProfile, 0, len(groups))
	for name, group := range groups {
		hours := make([]float64, len(group))
		faults := make([]string, len(group))
		for i, r := range group {
			hours[i] = r.DowntimeHours
			faults[i] = r.FaultType
		}
		out = append(out, domain.TechnicianProfile{
			Technician:        name,
			InterventionCount: len(group),
			MeanRepairHours:   Round2(mean(hours)),
			TotalRepairHours:  Round2(sum(hours)),
			Specialization:    mode(faults),
			RegularityDays:    Round2(sampleStdDev(dayGaps(datesOf(group)))),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].InterventionCount != out[j].InterventionCount {
			return out[i].InterventionCount > out[j].InterventionCount
		}
		return out[i].Technician < out[j].Technician
	})
	return out
}

// Parts counts replacements per part name with the machines involved and
// the fault type that most often required it. Ranked by count then name.
func Parts(recs []domain.InterventionRecord) []domain.PartUsage {
	type usage struct {
		count    int
		machines map[string]struct{}
		faults   []string
	}
	byPart := make(map[string]*usage)

	for _, r := range recs {
		for _, part := range r.PartsChanged {
			if part == "" {
				continue
			}
			u, ok := byPart[part]
			if !ok {
				u = &usage{machines: make(map[string]struct{})}
				byPart[part] = u
			}
			u.count++
			if r.MachineID != "" {
				u.machines[r.MachineID] = struct{}{}
			}
			u.faults = append(u.faults, r.FaultType)
		}
	}

	out := make([]domain.PartUsage, 0, len(byPart))
	for part, u := range byPart {
		out = append(out, domain.PartUsage{
			Part:         part,
			Count:        u.count,
			Machines:     len(u.machines),
			TopFaultType: mode(u.faults),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Part < out[j].Part
	})
	return out
}

// Monthly aggregates dated interventions per calendar month, oldest first
func Monthly(recs []domain.InterventionRecord) []domain.MonthlyTrend {
	byMonth := make(map[string]*domain.MonthlyTrend)
	for _, r := range recs {
		if !r.HasDate() {
			continue
		}
		key := r.Date.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &domain.MonthlyTrend{Month: key}
			byMonth[key] = m
		}
		m.Interventions++
		m.DowntimeHours += r.DowntimeHours
	}

	out := make([]domain.MonthlyTrend, 0, len(byMonth))
	for _, m := range byMonth {
		m.DowntimeHours = Round2(m.DowntimeHours)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// mode returns the most frequent non-empty value; ties go to the value seen first
func mode(values []string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// FaultDistribution counts interventions per fault type. Records without a
// fault type are left out of both the counts and the share denominator.
// Ranked by count then fault type.
func FaultDistribution(recs []domain.InterventionRecord) []domain.FaultShare {
	byFault := make(map[string]*domain.FaultShare)
	total := 0
	for _, r := range recs {
		if r.FaultType == "" {
			continue
		}
		f, ok := byFault[r.FaultType]
		if !ok {
			f = &domain.FaultShare{FaultType: r.FaultType}
			byFault[r.FaultType] = f
		}
		f.Interventions++
		f.DowntimeHours += r.DowntimeHours
		total++
	}

	out := make([]domain.FaultShare, 0, len(byFault))
	for _, f := range byFault {
		f.DowntimeHours = Round2(f.DowntimeHours)
		f.SharePct = Round2(float64(f.Interventions) * 100 / float64(total))
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Interventions != out[j].Interventions {
			return out[i].Interventions > out[j].Interventions
		}
		return out[i].FaultType < out[j].FaultType
	})
	return out
}

// weekOrder lists weekdays Monday first
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Weekdays spreads dated interventions over the days of the week, Monday
// first. All seven days are present, empty ones with zero counts.
func Weekdays(recs []domain.InterventionRecord) []domain.WeekdayLoad {
	var counts [7]int
	var hours [7]float64
	for _, r := range recs {
		if !r.HasDate() {
			continue
		}
		d := r.Date.Weekday()
		counts[d]++
		hours[d] += r.DowntimeHours
	}

	out := make([]domain.WeekdayLoad, 0, len(weekOrder))
	for _, d := range weekOrder {
		out = append(out, domain.WeekdayLoad{
			Weekday:       d.String(),
			Interventions: counts[d],
			DowntimeHours: Round2(hours[d]),
		})
	}
	return out
}
