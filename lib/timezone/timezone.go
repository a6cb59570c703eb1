package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Guayaquil")
	if err != nil {
		panic(err)
	}
}

// force the timezone to Ecuador because both portals live there
// and hosting providers tend to put us in random US regions, which
// shifts Year()/Month()/Day() and corrupts due date comparisons.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current calendar date formatted as an ISO date
// string ("2006-01-02"), the canonical form for due date comparison.
func Today() string {
	return Now().Format(time.DateOnly)
}
