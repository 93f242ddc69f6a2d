package insights

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"swiftbites.app/storefront/pkg/models"
)

const (
	NoOrdersMessage = "No orders found. Place some orders to generate insights."
	topItemsLimit   = 3
)

var comboThreshold = decimal.NewFromInt(15)

type ItemSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Orders   int    `json:"orders"`
}

type StatusBreakdown struct {
	Pending  int `json:"pending"`
	Prepared int `json:"prepared"`
	PickedUp int `json:"pickedup"`
}

type PaymentBreakdown struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Report is derived from the current order set and never stored.
type Report struct {
	TotalOrders       int              `json:"total_orders"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	TopItems          []ItemSales      `json:"top_items"`
	ByStatus          StatusBreakdown  `json:"by_status"`
	ByPayment         PaymentBreakdown `json:"by_payment"`
	Recommendations   []string         `json:"recommendations"`
}

// Build aggregates orders. It fails when an item summary cannot be parsed.
func Build(orders []models.Order) (*Report, error) {
	r := &Report{TotalOrders: len(orders), TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero}

	sales := map[string]*ItemSales{}
	for _, o := range orders {
		r.TotalRevenue = r.TotalRevenue.Add(o.Amount)

		switch o.Status {
		case models.StatusPrepared:
			r.ByStatus.Prepared++
		case models.StatusPickedUp:
			r.ByStatus.PickedUp++
		default:
			r.ByStatus.Pending++
		}
		if o.PaymentStatus == models.PaymentPaid {
			r.ByPayment.Completed++
		} else {
			r.ByPayment.Pending++
		}

		lines, err := parseItems(o.Item)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", o.ID, err)
		}
		for name, qty := range lines {
			s, ok := sales[name]
			if !ok {
				s = &ItemSales{Name: name}
				sales[name] = s
			}
			s.Quantity += qty
			s.Orders++
		}
	}

	if r.TotalOrders > 0 {
		r.AverageOrderValue = r.TotalRevenue.Div(decimal.NewFromInt(int64(r.TotalOrders))).Round(2)
	}

	r.TopItems = make([]ItemSales, 0, len(sales))
	for _, s := range sales {
		r.TopItems = append(r.TopItems, *s)
	}
	sort.Slice(r.TopItems, func(i, j int) bool {
		a, b := r.TopItems[i], r.TopItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(r.TopItems) > topItemsLimit {
		r.TopItems = r.TopItems[:topItemsLimit]
	}

	r.Recommendations = recommend(r)
	return r, nil
}

// parseItems reads "<name> X <qty>" lines into per-name quantities.
func parseItems(summary string) (map[string]int, error) {
	items := map[string]int{}
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		i := strings.LastIndex(line, " X ")
		if i <= 0 {
			return nil, fmt.Errorf("malformed item line %q", line)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(line[i+3:]))
		if err != nil || qty < 1 {
			return nil, fmt.Errorf("malformed quantity in %q", line)
		}
		items[strings.TrimSpace(line[:i])] += qty
	}
	return items, nil
}

func recommend(r *Report) []string {
	var recs []string

	if len(r.TopItems) > 0 {
		recs = append(recs, fmt.Sprintf("Consider promoting your top seller %q more prominently.", r.TopItems[0].Name))
	} else {
		recs = append(recs, "No specific top seller to recommend promotion for yet.")
	}

	switch {
	case r.ByStatus.Pending > 0 && r.ByStatus.Pending > r.ByStatus.Prepared*2:
		recs = append(recs, "The kitchen might need more staff as there are many pending orders.")
	case r.ByStatus.Pending == 0 && r.TotalOrders > 0:
		recs = append(recs, "Excellent job, all orders are being processed efficiently!")
	}

	if r.TotalOrders == 0 {
		return append(recs, "Start by gathering more order data to generate meaningful recommendations.")
	}

	if r.AverageOrderValue.LessThan(comboThreshold) {
		recs = append(recs, "Try offering combo deals to increase average order value.")
	} else {
		recs = append(recs, "Your average order value is good, consider loyalty rewards for repeat customers.")
	}

	// pending > completed * 0.5
	if r.ByPayment.Pending > 0 && r.ByPayment.Pending*2 > r.ByPayment.Completed {
		recs = append(recs, "Review your payment process, many customers are abandoning payment.")
	} else {
		recs = append(recs, "Your payment completion rate is excellent!")
	}
	return recs
}

// Markdown renders the report for the admin insights page.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Business Insights Report\n\n")

	b.WriteString("## Order Summary\n")
	fmt.Fprintf(&b, "- Total Orders: %d\n", r.TotalOrders)
	fmt.Fprintf(&b, "- Total Revenue: ₹%s\n", r.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "- Average Order Value: ₹%s\n\n", r.AverageOrderValue.StringFixed(2))

	b.WriteString("## Top Selling Items\n")
	if len(r.TopItems) == 0 {
		b.WriteString("- No top selling items yet.\n")
	}
	for i, item := range r.TopItems {
		fmt.Fprintf(&b, "%d. %s (%d sold in %d orders)\n", i+1, item.Name, item.Quantity, item.Orders)
	}
	b.WriteString("\n")

	b.WriteString("## Order Status Breakdown\n")
	fmt.Fprintf(&b, "- Pending: %d\n", r.ByStatus.Pending)
	fmt.Fprintf(&b, "- Prepared: %d\n", r.ByStatus.Prepared)
	fmt.Fprintf(&b, "- Picked Up: %d\n\n", r.ByStatus.PickedUp)

	b.WriteString("## Payment Status Breakdown\n")
	fmt.Fprintf(&b, "- Payment Pending: %d\n", r.ByPayment.Pending)
	fmt.Fprintf(&b, "- Payment Completed: %d\n\n", r.ByPayment.Completed)

	b.WriteString("## Recommendations\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}

// BasicStats is the minimal summary used when the full report cannot be built.
func BasicStats(orders []models.Order) string {
	revenue := decimal.Zero
	completed := 0
	for _, o := range orders {
		revenue = revenue.Add(o.Amount)
		if o.PaymentStatus == models.PaymentPaid {
			completed++
		}
	}
	return fmt.Sprintf("Total Orders: %d\nTotal Revenue: ₹%s\nCompleted Payments: %d",
		len(orders), revenue.StringFixed(2), completed)
}
