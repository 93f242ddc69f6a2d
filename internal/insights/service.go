package insights

import (
	"context"
	"log/slog"

	"swiftbites.app/storefront/pkg/ai"
	"swiftbites.app/storefront/pkg/models"
)

type OrderLister interface {
	List(ctx context.Context) ([]models.Order, error)
}

// Result is the raw payload of an insights response.
type Result struct {
	Insights string  `json:"insights"`
	Stats    *Report `json:"stats,omitempty"`
}

type Service struct {
	orders OrderLister
	ai     *ai.Client
	log    *slog.Logger
}

func NewService(orders OrderLister, aiClient *ai.Client, log *slog.Logger) *Service {
	return &Service{orders: orders, ai: aiClient, log: log}
}

// Generate builds the insights report for all current orders. Only a failure
// to read orders is an error; a report that cannot be aggregated degrades to
// basic stats.
func (s *Service) Generate(ctx context.Context) (*ai.ReportResponse, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return s.plain(Result{Insights: NoOrdersMessage}), nil
	}

	report, err := Build(orders)
	if err != nil {
		s.log.Warn("failed to build insights report, using basic stats", "error", err)
		return s.plain(Result{Insights: BasicStats(orders)}), nil
	}

	markdown := report.Markdown()
	return s.ai.Annotate(ctx, ai.OrderInsightsSystemPrompt, ai.InsightsUserPrompt(markdown),
		Result{Insights: markdown, Stats: report}), nil
}

func (s *Service) plain(result Result) *ai.ReportResponse {
	resp := ai.NewReport(result, "Order summary")
	resp.AIEnabled = s.ai.Enabled()
	return resp
}
