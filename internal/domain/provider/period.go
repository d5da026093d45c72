package provider

import "time"

// Period is the time window applied to the ledger projection and KPI
// aggregation: either all time or the last N days relative to a fixed
// reference instant. Carrying the reference instant keeps both views pure
// functions of their inputs.
type Period struct {
	start *time.Time
	asOf  time.Time
}

// AllTime returns a period covering everything up to asOf
func AllTime(asOf time.Time) Period {
	return Period{asOf: asOf}
}

// LastNDays returns a period covering the n days before asOf.
// A non-positive n degrades to all time.
func LastNDays(n int, asOf time.Time) Period {
	if n <= 0 {
		return AllTime(asOf)
	}
	start := asOf.AddDate(0, 0, -n)
	return Period{start: &start, asOf: asOf}
}

// Contains reports whether t falls within the period
func (p Period) Contains(t time.Time) bool {
	return p.start == nil || !t.Before(*p.start)
}

// AsOf returns the reference instant of the period
func (p Period) AsOf() time.Time {
	return p.asOf
}

// IsAllTime returns true if the period has no lower bound
func (p Period) IsAllTime() bool {
	return p.start == nil
}
