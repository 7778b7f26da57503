// Package worklog holds the work-log data model and the normalizer that turns
// raw extractor output into entries safe to submit.
package worklog

// Entry is one unit of extracted work. The JSON tags are the extractor's wire format.
type Entry struct {
	TicketID  string `json:"ticket_id"`
	TimeSpent string `json:"time_spent"`
	Comment   string `json:"comment"`
	WorkDate  string `json:"work_date"`
}

// Outcome is the result of one submission attempt.
type Outcome struct {
	TicketID string
	Success  bool
	Err      string

	Entry Entry
	// UnrecognizedTicket is set when the ticket ID does not look like KEY-123
	// even after repair. The entry is still submitted.
	UnrecognizedTicket bool
}
