package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

var guestListColumns = []string{"#", "Ticket ID", "Attendee Name", "Email", "Ticket Type", "Checked In", "Checked In At"}

func checkedInCells(t *ticket.Ticket) (string, string) {
	if !t.IsUsed {
		return "No", ""
	}
	usedAt := ""
	if t.UsedAt != nil {
		usedAt = t.UsedAt.Format("2006-01-02 15:04:05")
	}
	return "Yes", usedAt
}

// GuestListXLSX renders the attendee list for one event as a spreadsheet.
func GuestListXLSX(ev *event.Event, tickets []ticket.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Guest List"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — %s %s, %s", ev.Name, ev.EventDate, ev.EventTime, ev.Venue))
	if err := f.MergeCell(sheet, "A1", "G1"); err != nil {
		return nil, err
	}

	for i, col := range guestListColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, col)
	}

	for i, t := range tickets {
		row := i + 3
		used, usedAt := checkedInCells(&t)
		values := []interface{}{i + 1, t.TicketID, t.AttendeeName, t.AttendeeEmail, t.TicketType, used, usedAt}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "D", 28)
	f.SetColWidth(sheet, "G", "G", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GuestListCSV renders the attendee list as plain CSV.
func GuestListCSV(tickets []ticket.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(guestListColumns); err != nil {
		return nil, err
	}
	for i, t := range tickets {
		used, usedAt := checkedInCells(&t)
		record := []string{strconv.Itoa(i + 1), t.TicketID, t.AttendeeName, t.AttendeeEmail, t.TicketType, used, usedAt}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// GuestListPDF renders the attendee list as a printable table.
func GuestListPDF(ev *event.Event, tickets []ticket.Ticket) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Guest List: %s", ev.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s %s | %s, %s", ev.EventDate, ev.EventTime, ev.Venue, ev.City), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{10, 62, 55, 62, 30, 25, 36}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range guestListColumns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, t := range tickets {
		used, usedAt := checkedInCells(&t)
		row := []string{strconv.Itoa(i + 1), t.TicketID, t.AttendeeName, t.AttendeeEmail, t.TicketType, used, usedAt}
		for j, v := range row {
			pdf.CellFormat(widths[j], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TicketPDF embeds one rendered ticket image into a printable page.
func TicketPDF(ev *event.Event, t *ticket.Ticket) ([]byte, error) {
	image, err := os.ReadFile(t.TicketImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket image: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, ev.Name, "", 1, "C", false, 0, "")

	imgName := t.TicketID
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(image))
	// 800x400 source at 2:1, centered on the A5 landscape page.
	pdf.ImageOptions(imgName, 14, 20, 182, 91, false, opts, 0, "")

	pdf.SetY(115)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Ticket ID: %s", t.TicketID), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
