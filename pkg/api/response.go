package api

import "net/http"

// Response is the trigger contract both stages return to their invoker.
type Response struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// AnalyzeBody is the stage-1 response body.
type AnalyzeBody struct {
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
	Timestamp         string `json:"timestamp,omitempty"`
	ResourcesAnalyzed int    `json:"resources_analyzed,omitempty"`
	Recommendations   int    `json:"recommendations,omitempty"`
}

// ReportBody is the stage-2 response body.
type ReportBody struct {
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	ReportLength int    `json:"report_length,omitempty"`
}

// OK reports whether the response indicates success.
func (r Response) OK() bool {
	return r.StatusCode == http.StatusOK
}
