package lpdb

// Response is the decoded body of a successful call.
type Response struct {
	Result  []map[string]any `json:"result"`
	Warning []string         `json:"warning,omitempty"`
	Error   []string         `json:"error,omitempty"`
}

// TypedResponse is Response with rows decoded into R.
type TypedResponse[R any] struct {
	Result  []R      `json:"result"`
	Warning []string `json:"warning,omitempty"`
	Error   []string `json:"error,omitempty"`
}
