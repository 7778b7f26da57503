package jira

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-worklogger/internal/dates"
	"go-worklogger/internal/worklog"

	"golang.org/x/sync/errgroup"
)

// Submitter records normalized entries in Jira and reports every attempt as
// an Outcome. It never returns an error: failures are data.
type Submitter struct {
	client *Client
	loc    *time.Location
	logger *slog.Logger
}

func NewSubmitter(client *Client, loc *time.Location, logger *slog.Logger) *Submitter {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{client: client, loc: loc, logger: logger}
}

// Started converts an ISO work date into midnight of that day in loc, in the
// timestamp format the worklog API requires.
func Started(workDate string, loc *time.Location) (string, error) {
	t, err := time.ParseInLocation(dates.Layout, workDate, loc)
	if err != nil {
		return "", fmt.Errorf("invalid work date %q: %w", workDate, err)
	}
	return t.Format(StartedLayout), nil
}

func (s *Submitter) Submit(ctx context.Context, e worklog.Entry) worklog.Outcome {
	out := worklog.Outcome{
		TicketID:           e.TicketID,
		Entry:              e,
		UnrecognizedTicket: !worklog.LooksLikeTicket(e.TicketID),
	}

	started, err := Started(e.WorkDate, s.loc)
	if err != nil {
		out.Err = err.Error()
		s.logger.Error("worklog not submitted", "ticket_id", e.TicketID, "error", err)
		return out
	}

	err = s.client.AddWorklog(ctx, e.TicketID, e.TimeSpent, e.Comment, started)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			out.Err = apiErr.Error()
		} else {
			out.Err = "Connection error: " + err.Error()
		}
		s.logger.Warn("worklog submission failed", "ticket_id", e.TicketID, "error", out.Err)
		return out
	}

	out.Success = true
	s.logger.Info("worklog submitted", "ticket_id", e.TicketID, "time_spent", e.TimeSpent, "started", started)
	return out
}

// SubmitAll submits every entry and returns outcomes index-aligned with entries.
// With concurrency <= 1 entries are sent one at a time in order; otherwise up
// to concurrency requests run at once.
func (s *Submitter) SubmitAll(ctx context.Context, entries []worklog.Entry, concurrency int) []worklog.Outcome {
	outcomes := make([]worklog.Outcome, len(entries))

	if concurrency <= 1 {
		for i, e := range entries {
			outcomes[i] = s.Submit(ctx, e)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, e := range entries {
		g.Go(func() error {
			outcomes[i] = s.Submit(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
