package analytics

import (
	"math"
	"sort"
	"time"

	"maintcli/pkg/contracts/domain"
)

const (
	// DaysPerYear is the calendar year used by the calendar MTBF
	DaysPerYear = 365.0
	// HoursPerYear is the default availability window
	HoursPerYear = DaysPerYear * 24
	hoursPerDay  = 24.0
)

// Round2 rounds half away from zero to two decimals. NaN passes through.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// MTTR is the mean downtime of the given interventions, NaN when empty
func MTTR(downtimes []float64) float64 {
	if len(downtimes) == 0 {
		return math.NaN()
	}
	return sum(downtimes) / float64(len(downtimes))
}

// CalendarMTBF is the yearly mean time between failures in days,
// 365 / number of interventions. NaN when there were none.
func CalendarMTBF(interventions int) float64 {
	if interventions <= 0 {
		return math.NaN()
	}
	return DaysPerYear / float64(interventions)
}

// Availability is the share of the period the machine was running, in percent.
// NaN when the period is not positive.
func Availability(downtimeHours, periodHours float64) float64 {
	if periodHours <= 0 {
		return math.NaN()
	}
	return (periodHours - downtimeHours) / periodHours * 100
}

// PeriodHoursBetween is the inclusive length of [from, to] in hours, counting
// whole calendar days. It is 0 when to precedes from.
func PeriodHoursBetween(from, to time.Time) float64 {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0
	}
	days := math.Round(to.Sub(from).Hours()/hoursPerDay) + 1
	return days * hoursPerDay
}

// MachineMetrics computes the yearly indicators of every machine, sorted by
// cumulative downtime descending then machine id. Records without a machine
// id are not attributed to any machine.
func MachineMetrics(recs []domain.InterventionRecord, periodHours float64) []domain.MachineMetrics {
	groups := groupByMachine(recs)

	out := make([]domain.MachineMetrics, 0, len(groups))
	for machine, group := range groups {
		downtimes := make([]float64, len(group))
		for i, r := range group {
			downtimes[i] = r.DowntimeHours
		}
		cumulative := sum(downtimes)

		out = append(out, domain.MachineMetrics{
			MachineID:               machine,
			Category:                domain.MachineCategory(machine),
			InterventionCount:       len(group),
			MTTRHours:               Round2(MTTR(downtimes)),
			CumulativeDowntimeHours: Round2(cumulative),
			MTBFDays:                Round2(CalendarMTBF(len(group))),
			AvailabilityPct:         Round2(Availability(cumulative, periodHours)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CumulativeDowntimeHours != out[j].CumulativeDowntimeHours {
			return out[i].CumulativeDowntimeHours > out[j].CumulativeDowntimeHours
		}
		return out[i].MachineID < out[j].MachineID
	})
	return out
}

// EventGapMTBF measures the observed mean gap between consecutive dated
// interventions of each machine. Machines with fewer than two dated events
// are reported undefined and left out of the fleet mean.
func EventGapMTBF(recs []domain.InterventionRecord) domain.EventGapReport {
	groups := groupByMachine(recs)

	machines := make([]string, 0, len(groups))
	for m := range groups {
		machines = append(machines, m)
	}
	sort.Strings(machines)

	report := domain.EventGapReport{
		Machines:       make([]domain.EventGapMTBF, 0, len(machines)),
		FleetMeanDays:  domain.Undefined(),
		FleetMeanHours: domain.Undefined(),
	}

	var defined []float64
	for _, m := range machines {
		dates := datesOf(groups[m])
		entry := domain.EventGapMTBF{
			MachineID:    m,
			DatedEvents:  len(dates),
			MeanGapDays:  domain.Undefined(),
			MeanGapHours: domain.Undefined(),
		}
		if gaps := dayGaps(dates); len(gaps) > 0 {
			mean := sum(gaps) / float64(len(gaps))
			entry.MeanGapDays = domain.Measure(Round2(mean))
			entry.MeanGapHours = domain.Measure(Round2(mean * hoursPerDay))
			defined = append(defined, mean)
		}
		report.Machines = append(report.Machines, entry)
	}

	report.DefinedMachines = len(defined)
	if len(defined) > 0 {
		mean := sum(defined) / float64(len(defined))
		report.FleetMeanDays = domain.Measure(Round2(mean))
		report.FleetMeanHours = domain.Measure(Round2(mean * hoursPerDay))
	}
	return report
}

// groupByMachine buckets records by machine id, keeping load order
func groupByMachine(recs []domain.InterventionRecord) map[string][]domain.InterventionRecord {
	groups := make(map[string][]domain.InterventionRecord)
	for _, r := range recs {
		if r.MachineID == "" {
			continue
		}
		groups[r.MachineID] = append(groups[r.MachineID], r)
	}
	return groups
}

// datesOf returns the sorted dates of the dated records
func datesOf(recs []domain.InterventionRecord) []time.Time {
	dates := make([]time.Time, 0, len(recs))
	for _, r := range recs {
		if r.HasDate() {
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// dayGaps returns the gaps in days between consecutive sorted dates
func dayGaps(dates []time.Time) []float64 {
	if len(dates) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/hoursPerDay)
	}
	return gaps
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// mean returns NaN for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return sum(values) / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation, 0 with fewer than two values
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
