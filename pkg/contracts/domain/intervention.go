package domain

import (
	"strings"
	"time"
)

// Column names of the intervention log. Cleaned output keeps the same schema.
const (
	ColumnID         = "ID_Intervention"
	ColumnMachineID  = "ID_Machine"
	ColumnDate       = "Date"
	ColumnDuration   = "Duree_Arret_h"
	ColumnTechnician = "Technicien"
	ColumnFaultType  = "Type_Panne"
	ColumnParts      = "Pieces_Changees"
)

// InterventionColumns lists the intervention log header in file order
var InterventionColumns = []string{
	ColumnID,
	ColumnMachineID,
	ColumnDate,
	ColumnDuration,
	ColumnTechnician,
	ColumnFaultType,
	ColumnParts,
}

// DateLayout is the canonical calendar date rendering
const DateLayout = "2006-01-02"

// Field identifies one normalized column
type Field string

const (
	FieldID         Field = "id"
	FieldMachineID  Field = "machine_id"
	FieldDate       Field = "date"
	FieldDuration   Field = "duration"
	FieldTechnician Field = "technician"
	FieldFaultType  Field = "fault_type"
	FieldParts      Field = "parts"
)

// NormalizedFields is the fixed order in which fields are normalized
var NormalizedFields = []Field{
	FieldDate,
	FieldDuration,
	FieldTechnician,
	FieldFaultType,
	FieldParts,
}

// RawRecord is one intervention row exactly as read from the source.
// An empty string means the cell was absent.
type RawRecord struct {
	Row        int    `json:"row"`
	ID         string `json:"id"`
	MachineID  string `json:"machine_id"`
	Date       string `json:"date"`
	Duration   string `json:"duration"`
	Technician string `json:"technician"`
	FaultType  string `json:"fault_type"`
	Parts      string `json:"parts"`
}

// Values returns the row in InterventionColumns order
func (r RawRecord) Values() []string {
	return []string{r.ID, r.MachineID, r.Date, r.Duration, r.Technician, r.FaultType, r.Parts}
}

// Get returns the raw text of a normalized field
func (r RawRecord) Get(f Field) string {
	switch f {
	case FieldID:
		return r.ID
	case FieldMachineID:
		return r.MachineID
	case FieldDate:
		return r.Date
	case FieldDuration:
		return r.Duration
	case FieldTechnician:
		return r.Technician
	case FieldFaultType:
		return r.FaultType
	case FieldParts:
		return r.Parts
	}
	return ""
}

// InterventionRecord is one maintenance event after normalization
type InterventionRecord struct {
	ID            string    `json:"id"`
	MachineID     string    `json:"machine_id"`
	Date          time.Time `json:"date"`
	DowntimeHours float64   `json:"downtime_hours"`
	Technician    string    `json:"technician,omitempty"`
	FaultType     string    `json:"fault_type,omitempty"`
	PartsChanged  []string  `json:"parts_changed"`
}

// HasDate reports whether the intervention date was parsed
func (r InterventionRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// HasIdentifiers reports whether both the intervention and machine ids are present
func (r InterventionRecord) HasIdentifiers() bool {
	return strings.TrimSpace(r.ID) != "" && strings.TrimSpace(r.MachineID) != ""
}

// DateString renders the date canonically, or "" when missing
func (r InterventionRecord) DateString() string {
	if !r.HasDate() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// MachineCategory returns the machine family, the id prefix before the first '-'
func MachineCategory(machineID string) string {
	if i := strings.Index(machineID, "-"); i > 0 {
		return machineID[:i]
	}
	return machineID
}
