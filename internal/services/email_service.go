package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends transactional email to customers and staff
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendPaymentReceipt emails the customer a receipt for a collected entry
func (s *EmailService) SendPaymentReceipt(ctx context.Context, plan *models.InstallmentPlan, entry *models.InstallmentEntry) error {
	if plan.Customer.Email == "" {
		logger.Debug(fmt.Sprintf("[Email] Customer %d has no email, skipping receipt", plan.CustomerID))
		return nil
	}

	paymentDate := ""
	if entry.PaymentDate != nil {
		paymentDate = entry.PaymentDate.Format("02/01/2006")
	}
	carryover := ""
	if entry.CarryoverAmount > 0 {
		carryover = fmt.Sprintf("L %.2f", entry.CarryoverAmount)
	}
	statusLabel := "Pagada"
	if entry.Status == models.EntryStatusPartial {
		statusLabel = "Pago parcial"
	}

	data := struct {
		Name        string
		EntryID     uint
		AmountPaid  string
		PaymentDate string
		Status      string
		Carryover   string
		CompanyName string
	}{
		Name:        plan.Customer.FullName,
		EntryID:     entry.ID,
		AmountPaid:  fmt.Sprintf("L %.2f", entry.AmountPaid),
		PaymentDate: paymentDate,
		Status:      statusLabel,
		Carryover:   carryover,
		CompanyName: s.config.CompanyName,
	}

	return s.send(plan.Customer.Email, "Recibo de pago", "payment_receipt.html", data)
}

// SendOverdueNotice emails the customer a reminder for a late entry
func (s *EmailService) SendOverdueNotice(ctx context.Context, customer *models.Customer, entry *models.InstallmentEntry, overdueDays int) error {
	if customer.Email == "" {
		return nil
	}

	data := struct {
		Name         string
		DueDate      string
		AmountDue    string
		OverdueDays  int
		CompanyName  string
		CompanyPhone string
	}{
		Name:         customer.FullName,
		DueDate:      entry.DueDate.Format("02/01/2006"),
		AmountDue:    fmt.Sprintf("L %.2f", entry.AmountDue),
		OverdueDays:  overdueDays,
		CompanyName:  s.config.CompanyName,
		CompanyPhone: s.config.CompanyPhone,
	}

	return s.send(customer.Email, "Recordatorio de pago", "overdue_notice.html", data)
}

// SendAccountCreated welcomes a new back-office user
func (s *EmailService) SendAccountCreated(ctx context.Context, user *models.User) error {
	data := struct {
		Name        string
		Role        string
		CompanyName string
	}{
		Name:        user.FullName,
		Role:        user.Role,
		CompanyName: s.config.CompanyName,
	}

	return s.send(user.Email, "Cuenta creada", "account_created.html", data)
}

// SendMaintenanceReminder reminds the customer of an upcoming visit
func (s *EmailService) SendMaintenanceReminder(ctx context.Context, order *models.MaintenanceOrder) error {
	if order.Customer.Email == "" {
		return nil
	}

	technicianName := ""
	if order.Technician != nil {
		technicianName = order.Technician.FullName
	}

	data := struct {
		Name           string
		ServiceName    string
		ScheduledFor   string
		TechnicianName string
		CompanyName    string
		CompanyPhone   string
	}{
		Name:           order.Customer.FullName,
		ServiceName:    order.ServiceItem.Name,
		ScheduledFor:   order.ScheduledFor.Format("02/01/2006 15:04"),
		TechnicianName: technicianName,
		CompanyName:    s.config.CompanyName,
		CompanyPhone:   s.config.CompanyPhone,
	}

	return s.send(order.Customer.Email, "Visita de mantenimiento", "maintenance_reminder.html", data)
}

func (s *EmailService) send(to, subject, templateName string, data interface{}) error {
	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
