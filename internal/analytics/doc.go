// Package analytics computes maintenance reliability indicators from
// cleaned interventions: MTTR, calendar and event-gap MTBF, availability,
// Pareto criticality, fault recurrence, technician profiles, spare-part
// usage and monthly trends.
//
// Calendar MTBF (365 / interventions) and event-gap MTBF (mean days between
// dated failures) are separate operations and never share an output table.
package analytics
