package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apierrors "maintcli/internal/errors"
	"maintcli/internal/records"
	"maintcli/pkg/contracts/domain"
)

// FilterQuery is the query string accepted by every analysis endpoint.
// Repeated parameters (technician=a&technician=b) select several values.
type FilterQuery struct {
	From              string   `query:"from" validate:"omitempty,isodate"`
	To                string   `query:"to" validate:"omitempty,isodate"`
	Technicians       []string `query:"technician" validate:"max=100,dive,ident"`
	FaultTypes        []string `query:"fault" validate:"max=100,dive,ident"`
	Machines          []string `query:"machine" validate:"max=100,dive,ident"`
	ExcludeMissingIDs string   `query:"exclude_missing_ids" validate:"omitempty,boolean"`
	Basis             string   `query:"basis" validate:"omitempty,oneof=downtime count"`
}

// bindFilterQuery reads the filter parameters from the request URL
func bindFilterQuery(r *http.Request) FilterQuery {
	q := r.URL.Query()
	return FilterQuery{
		From:              strings.TrimSpace(q.Get("from")),
		To:                strings.TrimSpace(q.Get("to")),
		Technicians:       trimAll(q["technician"]),
		FaultTypes:        trimAll(q["fault"]),
		Machines:          trimAll(q["machine"]),
		ExcludeMissingIDs: strings.TrimSpace(q.Get("exclude_missing_ids")),
		Basis:             strings.ToLower(strings.TrimSpace(q.Get("basis"))),
	}
}

// Filter converts a validated query into a record filter. The only error
// is a window whose end precedes its start.
func (q FilterQuery) Filter() (records.Filter, error) {
	var f records.Filter
	if q.From != "" {
		f.From, _ = time.Parse(domain.DateLayout, q.From)
	}
	if q.To != "" {
		f.To, _ = time.Parse(domain.DateLayout, q.To)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return records.Filter{}, apierrors.ErrValidation("to", "to must not be before from")
	}

	f.Technicians = q.Technicians
	f.FaultTypes = q.FaultTypes
	f.Machines = q.Machines
	if q.ExcludeMissingIDs != "" {
		f.ExcludeMissingIDs, _ = strconv.ParseBool(q.ExcludeMissingIDs)
	}
	return f, nil
}

// ParetoBasis returns the requested basis, empty when the default applies
func (q FilterQuery) ParetoBasis() domain.ParetoBasis {
	return domain.ParetoBasis(q.Basis)
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
