package payments

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders an amount as Colombian pesos with two decimals.
func FormatCOP(v float64) string {
	return copPrinter.Sprintf("$ %.2f", v)
}

func ReceiptKey(p Payment) string {
	return fmt.Sprintf("receipts/%s/%s.pdf", p.ContractID, p.ID)
}

// Receipt renders the pay receipt and, when a blob store is configured, keeps
// a copy there. A failed upload is logged and the PDF is still returned.
func (s *Service) Receipt(ctx context.Context, id string) (Receipt, error) {
	p, c, _, err := s.Get(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	employer, _ := s.profiles.GetProfile(ctx, c.EmployerID)
	worker, _ := s.profiles.GetProfile(ctx, c.WorkerID)

	data, err := RenderReceipt(p, c, employer, worker)
	if err != nil {
		return Receipt{}, err
	}
	out := Receipt{Data: data, Filename: fmt.Sprintf("recibo-%s.pdf", p.ID)}
	if s.blobs != nil {
		location, err := s.blobs.Put(ctx, ReceiptKey(p), data, "application/pdf")
		if err != nil {
			slog.Warn("receipt upload failed", "payment", p.ID, "err", err)
		} else {
			out.Location = location
		}
	}
	return out, nil
}

func RenderReceipt(p Payment, c contracts.Contract, employer, worker auth.Profile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Comprobante de pago"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(70, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(value), "", 1, "R", false, 0, "")
	}
	line("Contrato", c.Title)
	line("Empleador", partyName(employer, c.EmployerID))
	line("Trabajador", partyName(worker, c.WorkerID))
	line("Fecha de pago", p.PaymentDate.Format("2006-01-02"))
	line("Medio de pago", methodLabel(p.PaymentMethod))
	line("Estado", Catalog.Lookup(p.Status).Label)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr("Liquidación"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	line("Horas ordinarias", copPrinter.Sprintf("%.1f", p.HoursWorked))
	line("Horas extra diurnas", copPrinter.Sprintf("%.1f", p.OvertimeHoursDiurnal))
	line("Horas extra nocturnas", copPrinter.Sprintf("%.1f", p.OvertimeHoursNocturnal))
	line("Salario base", FormatCOP(p.BaseSalary))
	line("Horas extra", FormatCOP(p.OvertimePay))
	line("Devengado", FormatCOP(p.Amount))
	line("Retención en la fuente", "-"+FormatCOP(p.TaxDeductions))
	line("Salud y pensión", "-"+FormatCOP(p.SocialSecurityDeductions))
	pdf.SetFont("Helvetica", "B", 12)
	line("Neto a pagar", FormatCOP(p.NetAmount))
	pdf.SetFont("Helvetica", "", 9)
	pdf.Ln(4)
	line("Aportes del empleador", FormatCOP(p.EmployerContributions))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func partyName(p auth.Profile, fallback string) string {
	if p.FullName != "" {
		return p.FullName
	}
	return fallback
}

func methodLabel(m Method) string {
	switch m {
	case MethodBankTransfer:
		return "Transferencia bancaria"
	case MethodDigitalWallet:
		return "Billetera digital"
	}
	return string(m)
}
