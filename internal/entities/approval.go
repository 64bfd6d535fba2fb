package entities

import "encoding/json"

// PendingSubmission is an administrative view of a submission awaiting
// review. It is fetched transiently per bulk-approval run and never
// persisted locally.
type PendingSubmission struct {
	ID        int64  `json:"id"`
	TagsJSON  string `json:"tags"`
	UserToken string `json:"user_token"`
}

// Source extracts the originating source name from the submission's
// tag JSON. Malformed or missing tags yield an empty string.
func (p PendingSubmission) Source() string {
	if p.TagsJSON == "" {
		return ""
	}
	var tags map[string]string
	if err := json.Unmarshal([]byte(p.TagsJSON), &tags); err != nil {
		return ""
	}
	return tags["source"]
}
