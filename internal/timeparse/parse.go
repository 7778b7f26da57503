package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Jira's default working-time settings.
const (
	SecondsPerHour = 3600
	SecondsPerDay  = 8 * SecondsPerHour
	SecondsPerWeek = 5 * SecondsPerDay
)

var (
	reToken    = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([wdhm])`)
	reDuration = regexp.MustCompile(`^(?:\d+(?:[.,]\d+)?\s*[wdhm]\s*)+$`)
)

func normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, "ч", "h")
	s = strings.ReplaceAll(s, "м", "m")
	s = strings.ReplaceAll(s, "д", "d")
	return s
}

// Parse converts a Jira duration like "1w 2d", "2h 30m", "1.5ч" into seconds.
// Unknown fragments are ignored; a string with no recognised units yields 0.
func Parse(input string) int {
	total := 0.0
	for _, m := range reToken.FindAllStringSubmatch(normalize(input), -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "w":
			total += n * SecondsPerWeek
		case "d":
			total += n * SecondsPerDay
		case "h":
			total += n * SecondsPerHour
		case "m":
			total += n * 60
		}
	}
	return int(total)
}

// Valid reports whether input is entirely made of duration units and is non-zero.
func Valid(input string) bool {
	s := normalize(input)
	return reDuration.MatchString(s) && Parse(s) > 0
}

// Format renders seconds as "2h 30m", "45m" or "3h".
func Format(seconds int) string {
	h := seconds / SecondsPerHour
	m := (seconds % SecondsPerHour) / 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
