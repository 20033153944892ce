package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bullpowerhubgit/digistore24-automation/app/models"
	"github.com/bullpowerhubgit/digistore24-automation/app/repository"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/mail"
	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/notify"
	"github.com/gofiber/fiber/v2/log"
)

const maxReportRows = 10

// Summary is the computed outcome of one daily report run.
type Summary struct {
	Date         string  `json:"date"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
	Sent         bool    `json:"sent"`
}

// Reporter emails a daily sales summary for the previous day.
type Reporter struct {
	repo repository.SaleRepository

	// swappable for tests
	now  func() time.Time
	send func(to, subject, body string) error
}

// NewReporter creates a reporter from an injected sale repository.
func NewReporter(repo repository.SaleRepository) *Reporter {
	return &Reporter{repo: repo, now: time.Now, send: mail.SendMail}
}

// RunDaily summarizes yesterday [midnight, midnight) and emails the report
// to NOTIFICATION_EMAIL. An unset recipient skips sending but still
// returns the computed summary, so scheduled callers can see the numbers.
func (r *Reporter) RunDaily() (Summary, error) {
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	count, revenue, err := r.repo.SumCompleted(&yesterday, &today)
	if err != nil {
		return Summary{}, fmt.Errorf("computing daily totals: %w", err)
	}

	sales, err := r.repo.List(0, maxReportRows, &yesterday, &today)
	if err != nil {
		return Summary{}, fmt.Errorf("loading daily sales: %w", err)
	}

	summary := Summary{
		Date:         yesterday.Format("2006-01-02"),
		TotalSales:   count,
		TotalRevenue: revenue,
	}

	to := env.GetEnv("NOTIFICATION_EMAIL", "")
	if to == "" {
		log.Warn("[Report] notification email not configured, skipping daily report")
		return summary, nil
	}

	subject := fmt.Sprintf("Daily Sales Report - %s", summary.Date)
	if err := r.send(to, subject, reportBody(summary, sales)); err != nil {
		return summary, fmt.Errorf("sending daily report: %w", err)
	}
	summary.Sent = true
	return summary, nil
}

func reportBody(s Summary, sales []models.Sale) string {
	var b strings.Builder
	b.WriteString("<h2>Daily Sales Report</h2>")
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>", s.Date)
	fmt.Fprintf(&b, "<p><strong>Total Sales:</strong> %d</p>", s.TotalSales)
	fmt.Fprintf(&b, "<p><strong>Total Revenue:</strong> %s</p>", notify.FormatAmount(s.TotalRevenue, env.GetEnv("DEFAULT_CURRENCY", "EUR")))

	if len(sales) == 0 {
		b.WriteString("<p>No sales recorded for this period.</p>")
		return b.String()
	}

	b.WriteString("<h3>Recent Sales</h3>")
	b.WriteString(`<table style="border-collapse: collapse;">`)
	b.WriteString("<tr><th>Order ID</th><th>Product</th><th>Amount</th></tr>")
	for _, sale := range sales {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			sale.OrderID, sale.ProductName, notify.FormatAmount(sale.Amount, sale.Currency))
	}
	b.WriteString("</table>")
	return b.String()
}
