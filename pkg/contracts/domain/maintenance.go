package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Measure is an aggregate that may be undefined, for example an average over
// an empty group. Undefined values are NaN and encode as JSON null.
type Measure float64

// Undefined returns the "not applicable" measure
func Undefined() Measure {
	return Measure(math.NaN())
}

// Defined reports whether the measure carries a finite value
func (m Measure) Defined() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns the raw value (NaN when undefined)
func (m Measure) Float() float64 {
	return float64(m)
}

// String renders two decimals or "N/A"
func (m Measure) String() string {
	if !m.Defined() {
		return "N/A"
	}
	return strconv.FormatFloat(float64(m), 'f', 2, 64)
}

// MarshalJSON encodes undefined measures as null
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

// UnmarshalJSON accepts a number or null
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Measure(f)
	return nil
}

// MachineMetrics holds the yearly reliability indicators of one machine
type MachineMetrics struct {
	MachineID               string  `json:"machine_id"`
	Category                string  `json:"category"`
	InterventionCount       int     `json:"intervention_count"`
	MTTRHours               float64 `json:"mttr_hours"`
	CumulativeDowntimeHours float64 `json:"cumulative_downtime_hours"`
	MTBFDays                float64 `json:"mtbf_days"`
	AvailabilityPct         float64 `json:"availability_pct"`
}

// EventGapMTBF is the observed mean time between consecutive dated failures
type EventGapMTBF struct {
	MachineID    string  `json:"machine_id"`
	DatedEvents  int     `json:"dated_events"`
	MeanGapDays  Measure `json:"mean_gap_days"`
	MeanGapHours Measure `json:"mean_gap_hours"`
}

// Defined reports whether at least two dated events were available
func (e EventGapMTBF) Defined() bool {
	return e.MeanGapDays.Defined()
}

// EventGapReport groups per-machine event-gap MTBF with the fleet average
// over machines where it is defined
type EventGapReport struct {
	Machines        []EventGapMTBF `json:"machines"`
	DefinedMachines int            `json:"defined_machines"`
	FleetMeanDays   Measure        `json:"fleet_mean_days"`
	FleetMeanHours  Measure        `json:"fleet_mean_hours"`
}

// ParetoBasis selects the quantity ranked by the Pareto analysis
type ParetoBasis string

const (
	ParetoByDowntime ParetoBasis = "downtime"
	ParetoByCount    ParetoBasis = "count"
)

// Valid reports whether the basis is known
func (b ParetoBasis) Valid() bool {
	return b == ParetoByDowntime || b == ParetoByCount
}

// ParetoEntry is one ranked machine of a Pareto analysis
type ParetoEntry struct {
	Rank          int     `json:"rank"`
	MachineID     string  `json:"machine_id"`
	Value         float64 `json:"value"`
	SharePct      float64 `json:"share_pct"`
	CumulativePct float64 `json:"cumulative_pct"`
	IsCritical    bool    `json:"is_critical"`
}

// RepairEffectiveness classifies how long a repair holds before the same
// fault comes back on the same machine
type RepairEffectiveness string

const (
	RepairEffective RepairEffectiveness = "effective"
	RepairModerate  RepairEffectiveness = "moderate"
	RepairPoor      RepairEffectiveness = "poor"
)

// RecurrenceEntry scores a (machine, fault type) pair that failed repeatedly
type RecurrenceEntry struct {
	MachineID     string              `json:"machine_id"`
	FaultType     string              `json:"fault_type"`
	Occurrences   int                 `json:"occurrences"`
	MeanGapDays   float64             `json:"mean_gap_days"`
	Score         float64             `json:"score"`
	Effectiveness RepairEffectiveness `json:"effectiveness"`
}

// TechnicianProfile summarizes the work of one technician
type TechnicianProfile struct {
	Technician        string  `json:"technician"`
	InterventionCount int     `json:"intervention_count"`
	MeanRepairHours   float64 `json:"mean_repair_hours"`
	TotalRepairHours  float64 `json:"total_repair_hours"`
	Specialization    string  `json:"specialization,omitempty"`
	RegularityDays    float64 `json:"regularity_days"`
}

// PartUsage counts how often a spare part was replaced
type PartUsage struct {
	Part         string `json:"part"`
	Count        int    `json:"count"`
	Machines     int    `json:"machines"`
	TopFaultType string `json:"top_fault_type,omitempty"`
}

// MonthlyTrend aggregates interventions per calendar month (YYYY-MM)
type MonthlyTrend struct {
	Month         string  `json:"month"`
	Interventions int     `json:"interventions"`
	DowntimeHours float64 `json:"downtime_hours"`
}

// FaultShare counts interventions per fault type with its share of the total
type FaultShare struct {
	FaultType     string  `json:"fault_type"`
	Interventions int     `json:"interventions"`
	DowntimeHours float64 `json:"downtime_hours"`
	SharePct      float64 `json:"share_pct"`
}

// WeekdayLoad counts dated interventions falling on one day of the week
type WeekdayLoad struct {
	Weekday       string  `json:"weekday"`
	Interventions int     `json:"interventions"`
	DowntimeHours float64 `json:"downtime_hours"`
}

// FleetSummary holds the global averages printed at the top of reports
type FleetSummary struct {
	Machines           int     `json:"machines"`
	Interventions      int     `json:"interventions"`
	TotalDowntimeHours float64 `json:"total_downtime_hours"`
	TotalDowntimeDays  float64 `json:"total_downtime_days"`
	AvgMTTRHours       Measure `json:"avg_mttr_hours"`
	AvgMTBFDays        Measure `json:"avg_mtbf_days"`
	AvgAvailabilityPct Measure `json:"avg_availability_pct"`
	CriticalMachines   int     `json:"critical_machines"`
	RecurringPairs     int     `json:"recurring_pairs"`
}

// Analysis is the full set of indicators computed for one record set
type Analysis struct {
	GeneratedAt time.Time           `json:"generated_at"`
	PeriodHours float64             `json:"period_hours"`
	Summary     FleetSummary        `json:"summary"`
	Machines    []MachineMetrics    `json:"machines"`
	EventGap    EventGapReport      `json:"event_gap_mtbf"`
	Pareto      []ParetoEntry       `json:"pareto"`
	Recurrence  []RecurrenceEntry   `json:"recurrence"`
	Technicians []TechnicianProfile `json:"technicians"`
	Parts       []PartUsage         `json:"parts"`
	Monthly     []MonthlyTrend      `json:"monthly"`
	Faults      []FaultShare        `json:"faults"`
	Weekdays    []WeekdayLoad       `json:"weekdays"`
}

// FieldStats counts corrections applied to one field during a cleaning run
type FieldStats struct {
	Field   Field `json:"field"`
	Changed int   `json:"changed"`
	Invalid int   `json:"invalid"`
	Missing int   `json:"missing"`
}

// NormalizationWarning describes a value that could not be normalized
type NormalizationWarning struct {
	Row       int    `json:"row"`
	RecordID  string `json:"record_id,omitempty"`
	MachineID string `json:"machine_id,omitempty"`
	Field     Field  `json:"field"`
	Value     string `json:"value"`
	Reason    string `json:"reason"`
}

// CleaningReport is the audit trail of one normalization run
type CleaningReport struct {
	RunID              string                 `json:"run_id"`
	StartedAt          time.Time              `json:"started_at"`
	Duration           time.Duration          `json:"duration"`
	TotalRecords       int                    `json:"total_records"`
	Fields             []FieldStats           `json:"fields"`
	MissingIdentifiers int                    `json:"missing_identifiers"`
	Warnings           []NormalizationWarning `json:"warnings"`
	Digest             string                 `json:"digest"`
}

// TotalChanges sums the per-field change counts
func (r CleaningReport) TotalChanges() int {
	total := 0
	for _, f := range r.Fields {
		total += f.Changed
	}
	return total
}

// Stats returns the counters of one field
func (r CleaningReport) Stats(field Field) FieldStats {
	for _, f := range r.Fields {
		if f.Field == field {
			return f
		}
	}
	return FieldStats{Field: field}
}
