package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
)

// ReportService renders account statements and collection reports
type ReportService struct {
	installmentRepo repository.InstallmentRepository
	customerRepo    repository.CustomerRepository
	saleRepo        repository.SaleRepository
	cfg             *config.Config
	clock           Clock
}

// NewReportService creates a new report service
func NewReportService(
	installmentRepo repository.InstallmentRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	cfg *config.Config,
	clock Clock,
) *ReportService {
	if clock == nil {
		clock = SystemClock
	}
	return &ReportService{
		installmentRepo: installmentRepo,
		customerRepo:    customerRepo,
		saleRepo:        saleRepo,
		cfg:             cfg,
		clock:           clock,
	}
}

const statementTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; color: #222; margin: 32px; }
  h1 { font-size: 20px; color: #1a6b3c; }
  .meta { margin-bottom: 16px; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; }
  th { background: #f0f0f0; text-align: left; padding: 6px; border-bottom: 2px solid #ccc; }
  td { padding: 6px; border-bottom: 1px solid #eee; }
  .num { text-align: right; }
  .totals { margin-top: 16px; font-size: 13px; }
  .totals strong { display: inline-block; width: 180px; }
</style>
</head>
<body>
  <h1>{{.CompanyName}} — Estado de cuenta</h1>
  <div class="meta">
    <div>Cliente: <strong>{{.CustomerName}}</strong></div>
    <div>Plan #{{.PlanID}} — {{.Months}} meses de L {{printf "%.2f" .Monthly}}</div>
    <div>Generado: {{.GeneratedAt}}</div>
  </div>
  <table>
    <tr><th>Vence</th><th class="num">Monto</th><th class="num">Pagado</th><th class="num">Traslado</th><th>Estado</th><th>Fecha pago</th></tr>
    {{range .Entries}}
    <tr>
      <td>{{.DueDate}}</td>
      <td class="num">{{.AmountDue}}</td>
      <td class="num">{{.AmountPaid}}</td>
      <td class="num">{{.Carryover}}</td>
      <td>{{.Status}}</td>
      <td>{{.PaymentDate}}</td>
    </tr>
    {{end}}
  </table>
  <div class="totals">
    <div><strong>Total programado:</strong> L {{printf "%.2f" .TotalScheduled}}</div>
    <div><strong>Total cobrado:</strong> L {{printf "%.2f" .TotalCollected}}</div>
    <div><strong>Saldo pendiente:</strong> L {{printf "%.2f" .Outstanding}}</div>
  </div>
</body>
</html>`

type statementRow struct {
	DueDate     string
	AmountDue   string
	AmountPaid  string
	Carryover   string
	Status      string
	PaymentDate string
}

// GeneratePlanStatementPDF renders a plan's full collection history as
// a PDF account statement.
func (s *ReportService) GeneratePlanStatementPDF(ctx context.Context, planID uint) (*bytes.Buffer, error) {
	plan, err := s.installmentRepo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	entries, err := s.installmentRepo.FindEntriesByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	summary := BuildPlanSummary(plan, entries, s.clock.Now())

	rows := make([]statementRow, 0, len(entries))
	for _, e := range entries {
		paymentDate := "—"
		if e.PaymentDate != nil {
			paymentDate = e.PaymentDate.Format("02/01/2006")
		}
		rows = append(rows, statementRow{
			DueDate:     e.DueDate.Format("02/01/2006"),
			AmountDue:   fmt.Sprintf("L %.2f", e.AmountDue),
			AmountPaid:  fmt.Sprintf("L %.2f", e.AmountPaid),
			Carryover:   fmt.Sprintf("L %.2f", e.CarryoverAmount),
			Status:      statusLabel(e.Status),
			PaymentDate: paymentDate,
		})
	}

	data := struct {
		CompanyName    string
		CustomerName   string
		PlanID         uint
		Months         int
		Monthly        float64
		GeneratedAt    string
		Entries        []statementRow
		TotalScheduled float64
		TotalCollected float64
		Outstanding    float64
	}{
		CompanyName:    s.cfg.CompanyName,
		CustomerName:   plan.Customer.FullName,
		PlanID:         plan.ID,
		Months:         plan.NumberOfMonths,
		Monthly:        plan.MonthlyInstallment,
		GeneratedAt:    s.clock.Now().Format("02/01/2006 15:04"),
		Entries:        rows,
		TotalScheduled: summary.TotalScheduled,
		TotalCollected: summary.TotalCollected,
		Outstanding:    summary.Outstanding,
	}

	tmpl, err := template.New("statement").Parse(statementTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement template: %w", err)
	}
	var html bytes.Buffer
	if err := tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Buffer(), nil
}

// GenerateCollectionsCSV exports every collected entry inside a date
// range, for the accounting close.
func (s *ReportService) GenerateCollectionsCSV(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error) {
	query := &repository.EntryQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 100

	var start, end time.Time
	var err error
	if startDate != "" {
		if start, err = time.Parse("2006-01-02", startDate); err != nil {
			return nil, "", fmt.Errorf("fecha inicial inválida: %w", err)
		}
	}
	if endDate != "" {
		if end, err = time.Parse("2006-01-02", endDate); err != nil {
			return nil, "", fmt.Errorf("fecha final inválida: %w", err)
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"Reporte de Cobranza", s.clock.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Cuota", "Cliente", "Vencimiento", "Monto", "Pagado", "Traslado", "Estado", "Fecha de pago"})

	// Page through collected entries; the repository caps page size
	for page := 1; ; page++ {
		query.Page = page
		entries, total, err := s.installmentRepo.ListEntries(ctx, query)
		if err != nil {
			return nil, "", err
		}
		for _, e := range entries {
			if e.PaymentDate == nil {
				continue
			}
			if !start.IsZero() && e.PaymentDate.Before(start) {
				continue
			}
			if !end.IsZero() && e.PaymentDate.After(end) {
				continue
			}
			_ = writer.Write([]string{
				fmt.Sprintf("%d", e.ID),
				e.Customer.FullName,
				e.DueDate.Format("2006-01-02"),
				fmt.Sprintf("%.2f", e.AmountDue),
				fmt.Sprintf("%.2f", e.AmountPaid),
				fmt.Sprintf("%.2f", e.CarryoverAmount),
				statusLabel(e.Status),
				e.PaymentDate.Format("2006-01-02"),
			})
		}
		if int64(page*query.PerPage) >= total {
			break
		}
	}

	writer.Flush()
	filename := fmt.Sprintf("cobranza_%s.csv", s.clock.Now().Format("2006-01-02"))
	return buf, filename, nil
}

func statusLabel(status string) string {
	switch status {
	case models.EntryStatusPaid:
		return "Pagada"
	case models.EntryStatusPartial:
		return "Parcial"
	default:
		return "Pendiente"
	}
}
