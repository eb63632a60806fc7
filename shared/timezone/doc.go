// Package timezone anchors calendar dates to the application timezone (APP_TIMEZONE, UTC
// when unset). Reservation and work-order days are parsed and compared in that zone:
//
//	start, err := timezone.Parse(constant.DateOnlyFormat, "2025-03-10")
//	today := timezone.Today(clock) // clock is timezone.NewClock() or timezone.Fixed(t) in tests
//
// The location is loaded when the package is imported.
package timezone
