package catalog

import (
	"fmt"
	"math"
	"strconv"
)

const (
	portraitBaseMinutes  = 3
	landscapeBaseMinutes = 5
	sessionJitterMinutes = 3 // jitter is drawn from [0, 3)
)

// SessionLabel renders a session length in minutes
func SessionLabel(minutes int) string {
	return fmt.Sprintf("%d phút", minutes)
}

// PlayCountLabel renders a play count as 950, 1.2K or 3.4M
func PlayCountLabel(plays int) string {
	switch {
	case plays >= 1_000_000:
		return compact(plays, 1_000_000) + "M"
	case plays >= 1_000:
		return compact(plays, 1_000) + "K"
	case plays < 0:
		return "0"
	default:
		return strconv.Itoa(plays)
	}
}

// compact renders plays/unit truncated to one decimal, dropping a trailing ".0"
func compact(plays, unit int) string {
	tenths := plays / (unit / 10)
	if tenths%10 == 0 {
		return strconv.Itoa(tenths / 10)
	}
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// durationMinutes converts seconds to whole minutes, rounded, at least 1
func durationMinutes(seconds int) int {
	m := int(math.Round(float64(seconds) / 60))
	if m < 1 {
		return 1
	}
	return m
}
