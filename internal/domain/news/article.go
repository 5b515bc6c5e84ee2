package news

import "encoding/json"

// Result holds the upstream provider's answer for a single query.
// Articles is kept as raw JSON so the provider payload is passed
// through to clients unmodified.
type Result struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Articles     json.RawMessage `json:"articles"`
}
