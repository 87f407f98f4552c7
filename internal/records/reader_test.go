package records

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "maintcli/internal/errors"
	"maintcli/internal/files"
	"maintcli/internal/shared/testutil"
	"maintcli/pkg/contracts/domain"
)

const header = "ID_Intervention,ID_Machine,Date,Duree_Arret_h,Technicien,Type_Panne,Pieces_Changees"

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.RawRecord
	}{
		{
			name:    "plain",
			content: testutil.CSV(header, "INT-1,PRESS-01,2024-01-15,41h45,A. PETIT,surchauffe,Roulement / Joint"),
			want: []domain.RawRecord{
				testutil.Raw(1, "INT-1", "PRESS-01", "2024-01-15", "41h45", "A. PETIT", "surchauffe", "Roulement / Joint"),
			},
		},
		{
			name:    "byte order mark",
			content: "\ufeff" + testutil.CSV(header, "INT-1,PRESS-01,,,,,"),
			want:    []domain.RawRecord{testutil.Raw(1, "INT-1", "PRESS-01")},
		},
		{
			name: "reordered and padded header",
			content: testutil.CSV(
				" Pieces_Changees ,Type_Panne,Technicien,Duree_Arret_h,Date,ID_Machine,ID_Intervention",
				"Joint,Fuite,RODRIGUEZ,2,2024-02-01,CNC-02,INT-7",
			),
			want: []domain.RawRecord{
				testutil.Raw(1, "INT-7", "CNC-02", "2024-02-01", "2", "RODRIGUEZ", "Fuite", "Joint"),
			},
		},
		{
			name:    "short rows are padded",
			content: testutil.CSV(header, "INT-1,PRESS-01,2024-01-15", "INT-2"),
			want: []domain.RawRecord{
				testutil.Raw(1, "INT-1", "PRESS-01", "2024-01-15"),
				testutil.Raw(2, "INT-2"),
			},
		},
		{
			name:    "quoted delimiters",
			content: testutil.CSV(header, `INT-1,PRESS-01,2024-01-15,"12,5",X,Y,"Roulement, Joint"`),
			want: []domain.RawRecord{
				testutil.Raw(1, "INT-1", "PRESS-01", "2024-01-15", "12,5", "X", "Y", "Roulement, Joint"),
			},
		},
		{
			name:    "header only",
			content: testutil.CSV(header),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.content), "test.csv")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSVSchemaErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("ID_Intervention,ID_Machine,Date\nA,B,C\n"), "short.csv")
	require.Error(t, err)

	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Duree_Arret_h", "Technicien", "Type_Panne", "Pieces_Changees"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "short.csv")

	_, err = ReadCSV(strings.NewReader(""), "empty.csv")
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestLoadFormats(t *testing.T) {
	content := testutil.CSV(header,
		"INT-1,PRESS-01,2024-01-15,14.00,Alexandre Petit,Surchauffe,Roulement",
		"INT-2,CNC-02,2024-02-01,9:45,RODRIGUEZ,fuites,None",
	)
	want, err := ReadCSV(strings.NewReader(content), "")
	require.NoError(t, err)
	require.Len(t, want, 2)

	t.Run("csv", func(t *testing.T) {
		got, err := Load(testutil.WriteFile(t, "log.csv", content))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	for _, name := range []string{"log.csv.gz", "log.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			w, err := files.CreateWriter(path)
			require.NoError(t, err)
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("xlsx", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.xlsx")
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		rows := [][]any{
			toAny(domain.InterventionColumns),
			{"INT-1", "PRESS-01", "2024-01-15", "14.00", "Alexandre Petit", "Surchauffe", "Roulement"},
			{},
			{"INT-2", "CNC-02", "2024-02-01", "9:45", "RODRIGUEZ", "fuites", "None"},
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("json", func(t *testing.T) {
		doc := `[
 {"ID_Intervention":"INT-1","ID_Machine":"PRESS-01","Date":"2024-01-15","Duree_Arret_h":"14.00","Technicien":"Alexandre Petit","Type_Panne":"Surchauffe","Pieces_Changees":"Roulement"},
 {"ID_Intervention":"INT-2","ID_Machine":"CNC-02","Date":"2024-02-01","Duree_Arret_h":"9:45","Technicien":"RODRIGUEZ","Type_Panne":"fuites","Pieces_Changees":"None"}
]`
		got, err := Load(testutil.WriteFile(t, "log.json", doc))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestParseJSON(t *testing.T) {
	doc := `[{"ID_Intervention":"INT-1","ID_Machine":"M-1","Date":null,"Duree_Arret_h":12.5,"Technicien":"","Type_Panne":"Fuite","Pieces_Changees":""}]`
	got, err := ParseJSON([]byte(doc), "x.json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12.5", got[0].Duration)
	assert.Equal(t, "", got[0].Date)

	_, err = ParseJSON([]byte(`{"not":"an array"}`), "x.json")
	assert.True(t, apperrors.IsIOError(err))

	_, err = ParseJSON([]byte(`[{"ID_Intervention":"INT-1"}]`), "x.json")
	assert.True(t, apperrors.IsSchemaError(err))

	_, err = ParseJSON([]byte(`[1, 2]`), "x.json")
	assert.True(t, apperrors.IsIOError(err))

	_, err = ParseJSON([]byte(`[{"broken"`), "x.json")
	assert.True(t, apperrors.IsIOError(err))

	got, err = ParseJSON([]byte(`[]`), "x.json")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.csv")

	_, err = Load("interventions.txt")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	_, err = Load(testutil.WriteFile(t, "broken.xlsx", "not a workbook"))
	assert.True(t, apperrors.IsIOError(err))
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
