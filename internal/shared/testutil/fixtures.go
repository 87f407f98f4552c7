package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"maintcli/pkg/contracts/domain"
)

// DirtyInterventionsCSV is a small intervention log carrying the typical
// defects found in hand-maintained logs
const DirtyInterventionsCSV = `ID_Intervention,ID_Machine,Date,Duree_Arret_h,Technicien,Type_Panne,Pieces_Changees
INT-001,PRESS-01,2024-01-15,41h45,A. PETIT,surchauffe,Roulement / Joint
INT-002,PRESS-01,15/03/2024,13 heures 30 min,RODRIGUEZ,Def. Lubrification,
INT-003,CNC-02,2024-02-01,33.0.25,T.Laurent,PANNE HYDRAULIQUE,Filtre;Joint
INT-004,CNC-02,not-a-date,garbage,celine lefebvre,fuites,N/A
,LATHE-03,2024-04-10,,M.Durand,rupture COURROIE,Courroie - Moteur
`

// Date builds a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Intervention builds a cleaned record. An empty date string leaves the date unset.
func Intervention(id, machine, date string, hours float64, technician, fault string, parts ...string) domain.InterventionRecord {
	rec := domain.InterventionRecord{
		ID:            id,
		MachineID:     machine,
		DowntimeHours: hours,
		Technician:    technician,
		FaultType:     fault,
		PartsChanged:  parts,
	}
	if rec.PartsChanged == nil {
		rec.PartsChanged = []string{}
	}
	if date != "" {
		d, err := time.Parse(domain.DateLayout, date)
		if err != nil {
			panic(err)
		}
		rec.Date = d
	}
	return rec
}

// Raw builds a raw row in column order
func Raw(row int, values ...string) domain.RawRecord {
	v := make([]string, len(domain.InterventionColumns))
	copy(v, values)
	return domain.RawRecord{
		Row:        row,
		ID:         v[0],
		MachineID:  v[1],
		Date:       v[2],
		Duration:   v[3],
		Technician: v[4],
		FaultType:  v[5],
		Parts:      v[6],
	}
}

// WriteFile writes content under a fresh temp dir and returns its path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// CSV joins rows into CSV text with a trailing newline
func CSV(rows ...string) string {
	return strings.Join(rows, "\n") + "\n"
}
