package format

import "time"

// Age returns the number of whole years elapsed between birth and now, comparing calendar
// fields in birth's location. Birth dates in the future yield a negative age.
func Age(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.In(birth.Location()).Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}
