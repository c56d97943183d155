package api

// createRequest is the body of POST /api/entries.
type createRequest struct {
	TaskName        string `json:"taskName"`
	TaskDescription string `json:"taskDescription"`
}
