// Package age converts between dates of birth and ages in whole years.
package age

import "time"

// At returns the age in whole years on the given day, counting a birthday
// only once it has occurred in that calendar year.
func At(dob, now time.Time) int {
	dob, now = dob.UTC(), now.UTC()
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// BirthRange returns the half-open interval of dates of birth (earliest,
// latest] whose age on now lies within [minAge, maxAge].
//
// Example:
//
//	earliest, latest := age.BirthRange(25, 30, now)
//	// dob > earliest && dob <= latest  <=>  25 <= age.At(dob, now) <= 30
func BirthRange(minAge, maxAge int, now time.Time) (earliest, latest time.Time) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	latest = yearsBefore(today, minAge)
	earliest = yearsBefore(today, maxAge+1)
	return earliest, latest
}

// yearsBefore moves day back n years, clamping Feb 29 to Feb 28 instead of
// letting it roll over into March.
func yearsBefore(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	t := time.Date(y-n, m, d, 0, 0, 0, 0, time.UTC)
	for t.Month() != m {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
