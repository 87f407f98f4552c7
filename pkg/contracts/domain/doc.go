// Package domain contains the maintenance intervention records, the cleaning
// audit types and the reliability indicators shared by the pipeline, the
// metrics engine, the exporters and the HTTP API.
package domain
