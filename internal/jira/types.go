package jira

import "fmt"

// StartedLayout is the timestamp format the worklog API expects for "started".
const StartedLayout = "2006-01-02T15:04:05.000-0700"

type worklogPayload struct {
	TimeSpent string `json:"timeSpent"`
	Comment   string `json:"comment"`
	Started   string `json:"started"`
}

type Myself struct {
	AccountID   string `json:"accountId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// APIError is a non-2xx answer from Jira.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}
