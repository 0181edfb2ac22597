package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ageUnits extends time.ParseDuration with calendar-ish suffixes.
var ageUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// parseAge reads a positive age such as "90m", "36h", "7d" or "2w".
func parseAge(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("age is empty")
	}

	var age time.Duration
	unit, ok := ageUnits[raw[len(raw)-1:]]
	if ok {
		n, err := strconv.Atoi(raw[:len(raw)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid age %q", raw)
		}
		age = time.Duration(n) * unit
	} else {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid age %q (use e.g. 36h, 7d, 2w)", raw)
		}
		age = d
	}

	if age <= 0 {
		return 0, fmt.Errorf("age %q must be greater than zero", raw)
	}
	return age, nil
}

// cutoffFlag resolves an age flag into the earliest timestamp it keeps.
func cutoffFlag(raw string, now time.Time) (time.Time, error) {
	age, err := parseAge(raw)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-age), nil
}
