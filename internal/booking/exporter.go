package booking

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// exportLimit caps export size to keep spreadsheets workable
const exportLimit = 10000

var exportHeader = []string{
	"ID", "Booking Name", "Event Date", "Slot", "People",
	"WhatsApp", "Email", "Occasion", "Total", "Advance", "Remaining",
	"Payment Status", "Payment ID", "Created At",
}

func exportRow(b Booking) []string {
	return []string{
		strconv.FormatUint(uint64(b.ID), 10),
		b.BookingName,
		b.EventDate,
		b.SlotTime,
		strconv.Itoa(b.People),
		b.WhatsApp,
		b.Email,
		b.Occasion,
		fmt.Sprintf("%.2f", b.TotalAmount),
		fmt.Sprintf("%.2f", b.AdvanceAmount),
		fmt.Sprintf("%.2f", b.RemainingAmount),
		b.PaymentStatus,
		b.RazorpayPaymentID,
		b.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// exportBookings renders a booking list in the requested format.
// Returns content, filename and MIME type.
func exportBookings(bookings []Booking, slotType, format string) ([]byte, string, string, error) {
	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_bookings_%s", slotType, stamp)

	switch format {
	case "csv":
		data, err := exportCSV(bookings)
		return data, base + ".csv", "text/csv", err
	case "excel", "xlsx":
		data, err := exportExcel(bookings, slotType)
		return data, base + ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case "pdf":
		data, err := exportPDF(bookings, slotType)
		return data, base + ".pdf", "application/pdf", err
	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportCSV(bookings []Booking) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if err := w.Write(exportRow(b)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(bookings []Booking, slotType string) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Bookings"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for row, b := range bookings {
		for col, val := range exportRow(b) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(bookings []Booking, slotType string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s Bookings", slotType), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{10, 40, 22, 36, 14, 26, 48, 24, 20, 20}
	headers := []string{"ID", "Name", "Date", "Slot", "Ppl", "WhatsApp", "Email", "Total", "Advance", "Status"}

	pdf.SetFont("Arial", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, b := range bookings {
		row := []string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.BookingName,
			b.EventDate,
			b.SlotTime,
			strconv.Itoa(b.People),
			b.WhatsApp,
			b.Email,
			fmt.Sprintf("%.2f", b.TotalAmount),
			fmt.Sprintf("%.2f", b.AdvanceAmount),
			b.PaymentStatus,
		}
		for i, val := range row {
			pdf.CellFormat(widths[i], 6, val, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// receiptPDF renders a single-booking receipt for the customer.
func receiptPDF(b *Booking) ([]byte, string, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, "Booking Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Booking ID", strconv.FormatUint(uint64(b.ID), 10))
	line("Name", b.BookingName)
	line("Event Date", b.EventDate)
	line("Slot", b.SlotTime)
	line("Package", b.SlotType)
	line("Guests", strconv.Itoa(b.People))
	line("Occasion", b.Occasion)
	pdf.Ln(4)
	line("Total Amount", fmt.Sprintf("Rs. %.2f", b.TotalAmount))
	line("Advance Paid", fmt.Sprintf("Rs. %.2f", b.AdvanceAmount))
	line("Balance Due", fmt.Sprintf("Rs. %.2f", b.RemainingAmount))
	line("Payment Status", b.PaymentStatus)
	if b.RazorpayPaymentID != "" {
		line("Payment Ref", b.RazorpayPaymentID)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Please arrive 15 minutes before your slot. Balance is collected at the venue.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", "", err
	}

	filename := fmt.Sprintf("receipt_%s_%d.pdf", b.SlotType, b.ID)
	return buf.Bytes(), filename, "application/pdf", nil
}
