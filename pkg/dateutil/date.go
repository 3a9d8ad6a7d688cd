package dateutil

import "time"

const (
	// ISO is the dash-separated layout used by the mid-market and
	// Frankfurter APIs.
	ISO = "2006-01-02"
	// Compact is the YYYYMMDD layout used by the BOK and Eximbank APIs.
	Compact = "20060102"
)

func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// DaysAgo returns the UTC calendar date n days before today.
func DaysAgo(n int) time.Time {
	return Today().AddDate(0, 0, -n)
}

func FormatISO(date time.Time) string {
	return date.Format(ISO)
}

func FormatCompact(date time.Time) string {
	return date.Format(Compact)
}

func ParseCompact(s string) (time.Time, error) {
	return time.Parse(Compact, s)
}
