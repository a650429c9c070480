package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService produces spreadsheet exports for the back office
type ExportService struct {
	saleRepo        repository.SaleRepository
	installmentRepo repository.InstallmentRepository
	clock           Clock
}

// NewExportService creates a new export service
func NewExportService(saleRepo repository.SaleRepository, installmentRepo repository.InstallmentRepository, clock Clock) *ExportService {
	if clock == nil {
		clock = SystemClock
	}
	return &ExportService{
		saleRepo:        saleRepo,
		installmentRepo: installmentRepo,
		clock:           clock,
	}
}

// ExportSalesCSV exports the sales book as CSV
func (s *ExportService) ExportSalesCSV(ctx context.Context, query *repository.SaleQuery) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Libro de Ventas", s.clock.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Venta", "Cliente", "Equipo", "Tipo", "Estado", "Total", "Prima", "Fecha"})

	for page := 1; ; page++ {
		query.Page = page
		sales, total, err := s.saleRepo.List(ctx, query)
		if err != nil {
			return nil, "", err
		}
		for _, sale := range sales {
			_ = writer.Write([]string{
				fmt.Sprintf("%d", sale.ID),
				sale.Customer.FullName,
				sale.Equipment.Name,
				sale.SaleType,
				sale.Status,
				fmt.Sprintf("%.2f", sale.TotalAmount),
				fmt.Sprintf("%.2f", sale.DownPayment),
				sale.SoldAt.Format("2006-01-02"),
			})
		}
		if int64(page*query.PerPage) >= total {
			break
		}
	}

	writer.Flush()
	filename := fmt.Sprintf("ventas_%s.csv", s.clock.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportPortfolioXLSX exports the credit portfolio (every entry of
// every plan, with lateness) as a spreadsheet.
func (s *ExportService) ExportPortfolioXLSX(ctx context.Context, query *repository.EntryQuery) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cartera"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	lateStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#B33A3A"},
	})

	_ = f.SetCellValue(sheet, "A1", "Cartera de Crédito")
	_ = f.SetCellValue(sheet, "B1", s.clock.Now().Format("2006-01-02 15:04"))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	headers := []string{"Cuota", "Plan", "Cliente", "Vencimiento", "Monto", "Pagado", "Traslado", "Estado", "Días de atraso"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	now := s.clock.Now()
	row := 4
	for page := 1; ; page++ {
		query.Page = page
		entries, total, err := s.installmentRepo.ListEntries(ctx, query)
		if err != nil {
			return nil, "", err
		}
		for _, e := range entries {
			values := []interface{}{
				e.ID,
				e.PlanID,
				e.Customer.FullName,
				e.DueDate.Format("2006-01-02"),
				e.AmountDue,
				e.AmountPaid,
				e.CarryoverAmount,
				statusLabel(e.Status),
				e.OverdueDaysAt(now),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			if e.IsLateAt(now) {
				start, _ := excelize.CoordinatesToCellName(1, row)
				end, _ := excelize.CoordinatesToCellName(len(values), row)
				_ = f.SetCellStyle(sheet, start, end, lateStyle)
			}
			row++
		}
		if int64(page*query.PerPage) >= total {
			break
		}
	}

	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "D", "I", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("cartera_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
