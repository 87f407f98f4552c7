package errors

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   string
	}{
		{name: "not found", err: NotFoundError("machine", "PRESS-01"), status: http.StatusNotFound, code: CodeNotFound},
		{name: "field validation", err: ErrValidation("from", "must be a YYYY-MM-DD date"), status: http.StatusBadRequest, code: CodeValidation},
		{name: "data not loaded", err: ErrDataNotLoaded, status: http.StatusServiceUnavailable, code: CodeDataNotLoaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	nf := NotFoundError("machine", "PRESS-01")
	assert.Equal(t, "machine PRESS-01 not found", nf.Message)
	assert.Equal(t, map[string]string{"kind": "machine", "id": "PRESS-01"}, nf.Details)
}

func TestValidationDetails(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "from", Message: "bad date"},
		{Field: "basis", Message: "unknown basis"},
	})

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
	assert.Equal(t, "basis", details.Errors[1].Field)

	single, ok := ErrValidation("to", "to must not be before from").Details.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, []ValidationError{{Field: "to", Message: "to must not be before from"}}, single.Errors)
}

func TestProblemDetailsJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/api/v1/pareto").
		WithExtension("error_code", CodeValidation)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, float64(400), body["status"])
	assert.Equal(t, "/api/v1/pareto", body["instance"])
	assert.Equal(t, CodeValidation, body["error_code"])
	assert.NotContains(t, body, "detail")

	empty := &ProblemDetails{}
	empty.WithExtension("k", 1)
	assert.Equal(t, 1, empty.Extensions["k"])
}

func TestDataErrors(t *testing.T) {
	ioErr := NewIOError("open", "data.csv", fs.ErrNotExist)
	wrapped := fmt.Errorf("loading: %w", ioErr)

	assert.True(t, IsIOError(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.Equal(t, "open data.csv: file does not exist", ioErr.Error())

	schemaErr := &SchemaError{Path: "data.csv", Missing: []string{"Date_Intervention", "Technicien"}}
	assert.True(t, IsSchemaError(fmt.Errorf("x: %w", schemaErr)))
	assert.False(t, IsSchemaError(ioErr))
	assert.Equal(t, "data.csv: missing required columns: Date_Intervention, Technicien", schemaErr.Error())
	assert.Equal(t, "missing required columns: Date", (&SchemaError{Missing: []string{"Date"}}).Error())
}
