// Package timezone converts stored UTC instants into display-local times.
package timezone

import "time"

// Project returns t expressed in the named IANA timezone. The instant is
// unchanged; only the wall-clock representation differs. An unrecognised
// zone name yields t as-is — a silent fallback, so callers that feed a
// configured default never fail a read over a bad zone string. Boundary
// layers that must reject bad input should check Valid first.
func Project(t time.Time, zone string) time.Time {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t
	}
	return t.In(loc)
}

// Valid reports whether zone names a recognised IANA timezone.
func Valid(zone string) bool {
	_, err := time.LoadLocation(zone)
	return err == nil
}
