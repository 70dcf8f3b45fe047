package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskdesk/internal/models"
)

// Generator renders audit reports (interface kept small for test fakes).
type Generator interface {
	WriteHistoryReport(w io.Writer, task *models.Task, entries []models.TaskHistory) error
}

type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) WriteHistoryReport(w io.Writer, task *models.Task, entries []models.TaskHistory) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Task #%d history", task.ID), false)
	pdf.SetAuthor("Taskdesk", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "TASK HISTORY", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Task #%d: %s", task.ID, task.Title), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s    Generated: %s",
		task.Status, time.Now().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	hr(pdf)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 7, "Timestamp", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Action", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Actor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Changes", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range entries {
		actor := fmt.Sprintf("#%d", e.UserID)
		if e.User != nil {
			actor = e.User.Name
		}
		pdf.CellFormat(40, 6, e.Timestamp.Format("2006-01-02 15:04:05"), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, string(e.Action), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, actor, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, describeChanges(e), "", "L", false)
	}

	return pdf.Output(w)
}

func describeChanges(e models.TaskHistory) string {
	out := ""
	add := func(field, prev, next string) {
		if out != "" {
			out += "; "
		}
		switch {
		case prev == "":
			out += fmt.Sprintf("%s: %s", field, next)
		case next == "":
			out += fmt.Sprintf("%s was %s", field, prev)
		default:
			out += fmt.Sprintf("%s: %s -> %s", field, prev, next)
		}
	}

	if e.PreviousTitle != nil || e.NewTitle != nil {
		add("title", strOrEmpty(e.PreviousTitle), strOrEmpty(e.NewTitle))
	}
	if e.PreviousDesc != nil || e.NewDesc != nil {
		add("description", strOrEmpty(e.PreviousDesc), strOrEmpty(e.NewDesc))
	}
	if e.PreviousStatus != nil || e.NewStatus != nil {
		add("status", statusOrEmpty(e.PreviousStatus), statusOrEmpty(e.NewStatus))
	}
	if e.PreviousAssignee != nil || e.NewAssignee != nil {
		add("assignee", idOrEmpty(e.PreviousAssignee), idOrEmpty(e.NewAssignee))
	}
	if out == "" {
		out = "-"
	}
	return out
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusOrEmpty(s *models.TaskStatus) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func idOrEmpty(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("user #%d", *id)
}

func hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	_, y := pdf.GetXY()
	pdf.Line(20, y, 190, y)
	pdf.Ln(4)
}
