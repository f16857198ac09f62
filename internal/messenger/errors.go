package messenger

import (
	"encoding/json"
	"fmt"
)

// GraphError is the error object returned by the Graph API.
// Reference: https://developers.facebook.com/docs/graph-api/guides/error-handling
type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode,omitempty"`
	FBTraceID string `json:"fbtrace_id"`
}

// APIError is returned by Client.Send when the Send API answers with a 4xx/5xx status.
type APIError struct {
	StatusCode int
	Graph      *GraphError // nil when the body was not a Graph error object
	Body       string
}

func (e *APIError) Error() string {
	if e.Graph != nil {
		return fmt.Sprintf("send API status %d: %s (type=%s code=%d fbtrace_id=%s)",
			e.StatusCode, e.Graph.Message, e.Graph.Type, e.Graph.Code, e.Graph.FBTraceID)
	}
	return fmt.Sprintf("send API status %d: %s", e.StatusCode, e.Body)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var wrapper struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		apiErr.Graph = wrapper.Error
	}
	return apiErr
}
