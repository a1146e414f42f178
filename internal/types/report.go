package types

// RunReport is the JSON-serializable result of one reminder-trigger tick. It
// is returned from the Lambda handler and is the primary observability
// surface: Errors and HasMore are the signals operators alarm on.
type RunReport struct {
	OK                   bool   `json:"ok"`
	Message              string `json:"message"`
	EventsProcessed      int    `json:"eventsProcessed"`
	RemindersChecked     int    `json:"remindersChecked"`
	NotificationsCreated int    `json:"notificationsCreated"`
	Errors               int    `json:"errors"`
	DurationMs           int64  `json:"durationMs"`
	HasMore              bool   `json:"hasMore"`
	Error                string `json:"error,omitempty"`
}
