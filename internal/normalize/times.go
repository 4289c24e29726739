package normalize

import "regexp"

var clockTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClockTime reports whether s is a 24-hour HH:MM time.
func IsClockTime(s string) bool {
	return clockTime.MatchString(s)
}
