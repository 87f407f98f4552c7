package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
	"github.com/xuri/excelize/v2"

	apperrors "maintcli/internal/errors"
	"maintcli/internal/files"
	"maintcli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

var jsonParsers fastjson.ParserPool

// Load reads an intervention log from path. The format is chosen from the
// file extension: .csv, .csv.gz, .csv.zst, .xlsx or .json.
//
// Every data row is returned, numbered from 1, with absent cells as "".
// Open and read failures are reported as *errors.IOError, missing header
// columns as *errors.SchemaError.
func Load(path string) ([]domain.RawRecord, error) {
	switch files.DetectFormat(path) {
	case files.FormatCSV, files.FormatCSVGzip, files.FormatCSVZstd:
		r, err := files.OpenReader(path)
		if err != nil {
			return nil, apperrors.NewIOError("open", path, err)
		}
		defer r.Close()
		return ReadCSV(r, path)

	case files.FormatXLSX:
		return loadXLSX(path)

	case files.FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewIOError("open", path, err)
		}
		return ParseJSON(data, path)
	}

	return nil, fmt.Errorf("%s: %w", path, apperrors.ErrUnsupportedFormat)
}

// ReadCSV parses comma-delimited intervention rows. A leading UTF-8 BOM is
// ignored and header names are matched after trimming, in any order.
// path is only used in error messages.
func ReadCSV(r io.Reader, path string) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &apperrors.SchemaError{Path: path, Missing: domain.InterventionColumns}
		}
		return nil, apperrors.NewIOError("read", path, err)
	}

	cols, err := resolveColumns(header, path)
	if err != nil {
		return nil, err
	}

	var out []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewIOError("read", path, err)
		}
		out = append(out, cols.record(len(out)+1, row))
	}

	return out, nil
}

func loadXLSX(path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewIOError("open", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &apperrors.SchemaError{Path: path, Missing: domain.InterventionColumns}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewIOError("read", path, err)
	}
	if len(rows) == 0 {
		return nil, &apperrors.SchemaError{Path: path, Missing: domain.InterventionColumns}
	}

	cols, err := resolveColumns(rows[0], path)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, cols.record(len(out)+1, row))
	}
	return out, nil
}

// ParseJSON decodes an array of objects keyed by the intervention column
// names. Numeric cells are rendered back to text; null means absent.
func ParseJSON(data []byte, path string) ([]domain.RawRecord, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, apperrors.NewIOError("decode", path, err)
	}

	items, err := v.Array()
	if err != nil {
		return nil, apperrors.NewIOError("decode", path, fmt.Errorf("expected an array of records: %w", err))
	}

	if len(items) > 0 {
		if missing := missingJSONColumns(items[0]); len(missing) > 0 {
			return nil, &apperrors.SchemaError{Path: path, Missing: missing}
		}
	}

	out := make([]domain.RawRecord, 0, len(items))
	for i, item := range items {
		if item.Type() != fastjson.TypeObject {
			return nil, apperrors.NewIOError("decode", path, fmt.Errorf("record %d is %s, not an object", i+1, item.Type()))
		}
		out = append(out, domain.RawRecord{
			Row:        i + 1,
			ID:         jsonText(item, domain.ColumnID),
			MachineID:  jsonText(item, domain.ColumnMachineID),
			Date:       jsonText(item, domain.ColumnDate),
			Duration:   jsonText(item, domain.ColumnDuration),
			Technician: jsonText(item, domain.ColumnTechnician),
			FaultType:  jsonText(item, domain.ColumnFaultType),
			Parts:      jsonText(item, domain.ColumnParts),
		})
	}
	return out, nil
}

func missingJSONColumns(first *fastjson.Value) []string {
	obj, err := first.Object()
	if err != nil {
		return nil
	}
	var missing []string
	for _, col := range domain.InterventionColumns {
		if obj.Get(col) == nil {
			missing = append(missing, col)
		}
	}
	return missing
}

func jsonText(v *fastjson.Value, key string) string {
	field := v.Get(key)
	if field == nil {
		return ""
	}
	switch field.Type() {
	case fastjson.TypeString:
		return string(field.GetStringBytes())
	case fastjson.TypeNumber:
		return strconv.FormatFloat(field.GetFloat64(), 'f', -1, 64)
	case fastjson.TypeNull:
		return ""
	}
	return field.String()
}

// columnIndex maps each intervention column to its position in the header
type columnIndex [7]int

func resolveColumns(header []string, path string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	var idx columnIndex
	var missing []string
	for i, col := range domain.InterventionColumns {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return idx, &apperrors.SchemaError{Path: path, Missing: missing}
	}
	return idx, nil
}

func (c columnIndex) record(rowNum int, row []string) domain.RawRecord {
	cell := func(i int) string {
		if c[i] < len(row) {
			return row[c[i]]
		}
		return ""
	}
	return domain.RawRecord{
		Row:        rowNum,
		ID:         cell(0),
		MachineID:  cell(1),
		Date:       cell(2),
		Duration:   cell(3),
		Technician: cell(4),
		FaultType:  cell(5),
		Parts:      cell(6),
	}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
