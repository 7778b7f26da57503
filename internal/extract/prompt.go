package extract

import (
	"fmt"

	"go-worklogger/internal/dates"
)

// BuildPrompt returns the system instruction for one extraction request.
// The template is fixed; only the three anchor dates vary.
func BuildPrompt(a dates.Anchors) string {
	return fmt.Sprintf(`You are a Jira work log assistant. Extract Jira ticket IDs and the time spent on them
from the user's natural-language description. The description may mention several tickets.

Today's date is %[1]s. Convert relative dates such as "yesterday" or "last Friday" to ISO dates (YYYY-MM-DD).

For every ticket extract:
1. ticket_id: the Jira ticket ID, which follows the PROJECT-NUMBER convention (for example PROJ-123)
2. time_spent: the time spent in Jira format, for example "1h 30m", "45m", "2h"
3. comment: a short description of the work done
4. work_date: the date the work was done, defaulting to today (%[1]s)
   - "yesterday" is %[2]s
   - "day before yesterday" is %[3]s
   - calculate any other relative date from today (%[1]s)

Return a JSON object with a single "entries" array:
{
  "entries": [
    {
      "ticket_id": "PROJ-123",
      "time_spent": "1h 30m",
      "comment": "Brief description of work done",
      "work_date": "%[1]s"
    },
    {
      "ticket_id": "PROJ-456",
      "time_spent": "2h",
      "comment": "Another task",
      "work_date": "%[2]s"
    }
  ]
}

Always return the "entries" array, even if there is only one ticket.
Return only the JSON object. Do not add any explanation or text outside it.`, a.Today, a.Yesterday, a.DayBeforeYesterday)
}
