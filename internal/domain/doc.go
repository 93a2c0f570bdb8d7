// Package domain models Georgia public drinking water systems and the
// geospatial records derived from them.
//
// # Data Source
//
// Water system and violation records originate from the EPA Safe Drinking
// Water Information System (SDWIS) and are served to this application by an
// external catalog store. The catalog is read-only from this service's point
// of view: classifications and resolved coordinates are derived per request
// and never written back.
//
// # SDWIS Conventions
//
// System identifiers:
//
//	PWSID — Public Water System ID, e.g. "GA0670000". State prefix plus a
//	seven-digit number. Stable across reporting periods, which makes it
//	usable as a hash seed for deterministic fallback coordinates.
//
// System types:
//
//	CWS    — Community Water System
//	TNCWS  — Transient Non-Community Water System
//	NTNCWS — Non-Transient Non-Community Water System
//
// Violation status:
//
//	"Unaddressed" and "Addressed" count as active; "Resolved" and "Archived"
//	do not. The health-based flag marks violations with direct health impact
//	(MCL/MRDL/TT categories).
//
// # Compliance Classification
//
// Classification is a pure function of a system's active violations,
// recomputed whenever the violation set changes and never stored:
//
//	critical  — at least one active health-based violation
//	violation — at least one active violation, none health-based
//	compliant — no active violations
//
// # Location Keys
//
// Coordinate cache entries are keyed by a normalized composite of county,
// city, and system name: fields are upper-cased, whitespace runs collapse to
// a single underscore, and the three parts join with underscores. Two
// descriptors differing only in case or spacing normalize to the same key.
//
// # Fallback Coordinates
//
// Systems that cannot be geocoded render at the Georgia centroid
// (32.1656, -82.9001) plus a small offset derived from an FNV-1a hash of the
// PWSID. The same PWSID always yields the same offset, so unresolvable
// systems keep a stable position across reloads instead of stacking on a
// single point. Fallback records carry the lowest confidence band (0.1).
package domain
