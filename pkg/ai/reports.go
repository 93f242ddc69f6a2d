package ai

import (
	"context"
	"time"
)

// ReportResponse is the envelope for reports that may carry AI commentary.
type ReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	RawData    interface{} `json:"raw_data"`
	AIInsights string      `json:"ai_insights,omitempty"`
	Summary    string      `json:"summary"`
	Error      string      `json:"error,omitempty"`
}

// NewReport wraps raw in a successful report without AI commentary.
func NewReport(raw interface{}, summary string) *ReportResponse {
	return &ReportResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		Data: ReportData{
			RawData: raw,
			Summary: summary,
		},
	}
}

// Annotate wraps raw in a report and, when the client is enabled, asks the
// model for commentary. A failed completion is recorded on the report and
// never returned as an error.
func (c *Client) Annotate(ctx context.Context, systemPrompt, userPrompt string, raw interface{}) *ReportResponse {
	response := NewReport(raw, "Raw report data (AI insights unavailable)")
	response.AIEnabled = c.Enabled()

	if !c.Enabled() {
		return response
	}

	insights, err := c.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		response.Data.Error = "AI analysis failed: " + err.Error()
		return response
	}
	response.Data.AIInsights = insights
	response.Data.Summary = "AI-generated insights and recommendations"
	return response
}
