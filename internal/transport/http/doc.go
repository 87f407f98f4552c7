// Package http implements the read-only JSON API over the loaded
// intervention dataset. Handlers are thin: they bind and validate the
// query string, call the analysis service and render the result.
//
// # Endpoints
//
//	GET /healthz                    dataset and runtime health
//	GET /version                    build information
//	GET /metrics                    Prometheus scrape endpoint
//	GET /api/v1/summary             fleet summary
//	GET /api/v1/machines            per-machine indicators (?top=N)
//	GET /api/v1/machines/{id}       one machine
//	GET /api/v1/mtbf/event-gap      observed MTBF between failures
//	GET /api/v1/pareto              Pareto ranking (?basis=downtime|count)
//	GET /api/v1/recurrence          recurring (machine, fault) pairs
//	GET /api/v1/technicians         technician profiles
//	GET /api/v1/parts               part usage
//	GET /api/v1/trends/monthly      interventions and downtime per month
//	GET /api/v1/trends/weekday      interventions per day of the week
//	GET /api/v1/faults              fault type distribution
//	GET /api/v1/cleaning/report     last cleaning run
//
// # Filters
//
// Every analysis endpoint accepts from and to (YYYY-MM-DD, inclusive),
// repeated technician, fault and machine values, and exclude_missing_ids.
// When both dates are given, availability is computed over that window.
//
// # Error Handling
//
// Errors are RFC 7807 problem details written by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/v1/pareto",
//	    "error_code": "VALIDATION_FAILED"
//	}
//
// A server whose dataset is not loaded yet answers 503 with error code
// DATA_NOT_LOADED.
package http
