package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/storage"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// InvoiceService issues and renders fiscal documents
type InvoiceService struct {
	repo         repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	storage      *storage.LocalStorage
	cfg          *config.Config
	clock        Clock
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	repo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	storage *storage.LocalStorage,
	cfg *config.Config,
	clock Clock,
) *InvoiceService {
	if clock == nil {
		clock = SystemClock
	}
	return &InvoiceService{
		repo:         repo,
		customerRepo: customerRepo,
		storage:      storage,
		cfg:          cfg,
		clock:        clock,
	}
}

// FindByID returns one invoice
func (s *InvoiceService) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// IssueForSale creates an invoice covering a sale's total
func (s *InvoiceService) IssueForSale(ctx context.Context, sale *models.Sale, description string) (*models.Invoice, error) {
	saleID := sale.ID
	return s.issue(ctx, sale.CustomerID, &saleID, sale.TotalAmount, description)
}

// IssueForSubscription creates an invoice for one monthly charge
func (s *InvoiceService) IssueForSubscription(ctx context.Context, sub *models.Subscription, description string) (*models.Invoice, error) {
	return s.issue(ctx, sub.CustomerID, nil, sub.MonthlyFee, description)
}

// issue builds the correlative number, splits out tax and persists the
// invoice. The total received is tax-inclusive: subtotal is derived by
// backing the configured rate out of it.
func (s *InvoiceService) issue(ctx context.Context, customerID uint, saleID *uint, total float64, description string) (*models.Invoice, error) {
	if total <= 0 {
		return nil, ErrInvalidPaidAmount
	}

	now := s.clock.Now()
	seq, err := s.repo.NextSequence(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	subtotal := RoundMoney(total / (1 + s.cfg.TaxRate))
	tax := RoundMoney(total - subtotal)

	invoice := &models.Invoice{
		Number:     fmt.Sprintf("FAC-%d-%06d", now.Year(), seq),
		CustomerID: customerID,
		SaleID:     saleID,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      RoundMoney(total),
		Status:     models.InvoiceStatusIssued,
		IssuedAt:   now,
	}
	if description != "" {
		invoice.Description = &description
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	// Rendering is best-effort: the invoice exists even if the PDF
	// write fails, and can be re-rendered on demand.
	if path, err := s.renderAndStore(ctx, invoice); err != nil {
		logger.Error(fmt.Sprintf("[InvoiceService] Failed to render invoice %s: %v", invoice.Number, err))
	} else {
		invoice.DocumentPath = &path
		if err := s.repo.Update(ctx, invoice); err != nil {
			logger.Error(fmt.Sprintf("[InvoiceService] Failed to save document path for %s: %v", invoice.Number, err))
		}
	}

	return invoice, nil
}

// Void annuls an issued invoice
func (s *InvoiceService) Void(ctx context.Context, id uint, reason string) (*models.Invoice, error) {
	invoice, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !invoice.MayVoid() {
		return nil, ErrInvalidState
	}

	now := s.clock.Now()
	invoice.Status = models.InvoiceStatusVoided
	invoice.VoidedAt = &now
	if reason != "" {
		note := fmt.Sprintf("Anulada: %s", reason)
		invoice.Description = &note
	}
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List returns invoices matching the query
func (s *InvoiceService) List(ctx context.Context, query *repository.InvoiceQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, query)
}

// GetPDF returns the rendered document, rendering it first if the
// stored copy is missing.
func (s *InvoiceService) GetPDF(ctx context.Context, id uint) ([]byte, string, error) {
	invoice, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if invoice.DocumentPath == nil || !s.storage.Exists(*invoice.DocumentPath) {
		path, err := s.renderAndStore(ctx, invoice)
		if err != nil {
			return nil, "", err
		}
		invoice.DocumentPath = &path
		if err := s.repo.Update(ctx, invoice); err != nil {
			return nil, "", err
		}
	}

	f, err := s.storage.Download(*invoice.DocumentPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("%s.pdf", invoice.Number), nil
}

// renderAndStore draws the invoice PDF and saves it to storage
func (s *InvoiceService) renderAndStore(ctx context.Context, invoice *models.Invoice) (string, error) {
	customer := invoice.Customer
	if customer.ID == 0 {
		loaded, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
		if err != nil {
			return "", fmt.Errorf("failed to load customer: %w", err)
		}
		customer = *loaded
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(120, 10, s.cfg.CompanyName)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 10, invoice.Number, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if s.cfg.CompanyRTN != "" {
		pdf.Cell(120, 5, fmt.Sprintf("RTN: %s", s.cfg.CompanyRTN))
		pdf.Ln(5)
	}
	if s.cfg.CompanyAddr != "" {
		pdf.Cell(120, 5, s.cfg.CompanyAddr)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(40, 6, "Cliente:")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, customer.FullName)
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(40, 6, "Fecha:")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, invoice.IssuedAt.Format("02/01/2006"))
	pdf.Ln(10)

	if invoice.Description != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, *invoice.Description, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(130, 7, "Subtotal")
	pdf.CellFormat(60, 7, fmt.Sprintf("L %.2f", invoice.Subtotal), "", 1, "R", false, 0, "")
	pdf.Cell(130, 7, fmt.Sprintf("ISV (%.0f%%)", s.cfg.TaxRate*100))
	pdf.CellFormat(60, 7, fmt.Sprintf("L %.2f", invoice.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(130, 8, "Total")
	pdf.CellFormat(60, 8, fmt.Sprintf("L %.2f", invoice.Total), "T", 1, "R", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(190, 5, fmt.Sprintf("Referencia: %s", uuid.New().String()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render pdf: %w", err)
	}

	return s.storage.UploadFromBytes(buf.Bytes(), fmt.Sprintf("%s.pdf", invoice.Number), "invoices")
}
