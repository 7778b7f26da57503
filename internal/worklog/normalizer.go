package worklog

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"go-worklogger/internal/dates"
	"go-worklogger/internal/timeparse"
)

type response struct {
	Entries []json.RawMessage `json:"entries"`
}

// Normalizer validates extractor output and repairs what it safely can.
type Normalizer struct {
	now    func() time.Time
	logger *slog.Logger
}

func NewNormalizer(now func() time.Time, logger *slog.Logger) *Normalizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{now: now, logger: logger}
}

// Normalize parses raw as {"entries": [...]} and returns entries in input order.
// Malformed text yields an empty slice, never an error. Each entry is decoded
// on its own: entries with mistyped fields, without a ticket or a duration, or
// with a date that cannot be resolved are dropped without affecting the rest.
func (n *Normalizer) Normalize(raw string) []Entry {
	var resp response
	if err := json.Unmarshal([]byte(stripFence(raw)), &resp); err != nil {
		n.logger.Error("parse extractor response", "error", err, "response", raw)
		return []Entry{}
	}

	now := n.now()
	today := dates.Resolve(now).Today

	entries := make([]Entry, 0, len(resp.Entries))
	for i, item := range resp.Entries {
		var re Entry
		if err := json.Unmarshal(item, &re); err != nil {
			n.logger.Warn("dropping malformed entry", "index", i, "error", err, "entry", string(item))
			continue
		}

		e := Entry{
			TicketID:  RepairTicketID(re.TicketID),
			TimeSpent: strings.TrimSpace(re.TimeSpent),
			Comment:   strings.TrimSpace(re.Comment),
			WorkDate:  strings.TrimSpace(re.WorkDate),
		}

		if e.TicketID == "" || e.TimeSpent == "" {
			n.logger.Warn("dropping incomplete entry", "index", i, "ticket_id", e.TicketID, "time_spent", e.TimeSpent)
			continue
		}

		if e.WorkDate == "" {
			e.WorkDate = today
		} else {
			d, err := dates.Parse(e.WorkDate, now)
			if err != nil {
				n.logger.Warn("dropping entry with unresolved date", "index", i, "ticket_id", e.TicketID, "error", err)
				continue
			}
			e.WorkDate = d
		}

		if !timeparse.Valid(e.TimeSpent) {
			n.logger.Warn("time spent outside duration grammar", "ticket_id", e.TicketID, "time_spent", e.TimeSpent)
		}

		entries = append(entries, e)
	}

	n.logger.Debug("normalized entries", "count", len(entries), "received", len(resp.Entries))
	return entries
}

// stripFence removes a ```json fence some models wrap around the payload.
func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
