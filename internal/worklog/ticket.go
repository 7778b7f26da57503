package worklog

import (
	"regexp"
	"strings"
)

var (
	reGluedTicket = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
	reTicket      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-\d+$`)
)

// RepairTicketID inserts the missing hyphen in IDs like "ABC123".
// It is a best-effort heuristic: IDs that already contain a hyphen, or that
// do not match letters-then-digits, are returned unchanged. Jira decides
// whether the result is valid.
func RepairTicketID(id string) string {
	id = strings.TrimSpace(id)
	if strings.Contains(id, "-") {
		return id
	}
	if m := reGluedTicket.FindStringSubmatch(id); m != nil {
		return m[1] + "-" + m[2]
	}
	return id
}

// LooksLikeTicket reports whether id has the PROJECT-NUMBER shape.
func LooksLikeTicket(id string) bool {
	return reTicket.MatchString(id)
}
