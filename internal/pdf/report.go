package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"workdesk/internal/models"
)

// Generator renders task reports to PDF files on disk.
type Generator interface {
	GenerateDepartmentReport(data DepartmentReportData) (string, error)
}

type ReportGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

type DepartmentReportData struct {
	Department models.Department
	Tasks      []models.Task
	Generated  time.Time
	Filename   string // optional; derived from the department when empty
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateDepartmentReport(data DepartmentReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("department_%d_tasks.pdf", data.Department.ID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Task Report — %s", data.Department.Name), false)
	pdf.SetAuthor("Workdesk", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "TASK REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s  —  %s", data.Department.Name, data.Generated.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Summary")
	byStatus := map[models.TaskStatus]int{}
	for _, t := range data.Tasks {
		byStatus[t.Status]++
	}
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", len(data.Tasks)))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", byStatus[models.StatusPending]))
	g.kvLine(pdf, "In progress", fmt.Sprintf("%d", byStatus[models.StatusInProgress]))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", byStatus[models.StatusCompleted]))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Title", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Due", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range data.Tasks {
		pdf.CellFormat(80, 7, truncate(t.Title, 45), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, string(t.TaskType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, string(t.Status), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, t.DueDate.Format("02.01.2006"), "1", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.Line(left, y+1, pageW-right, y+1)
	pdf.SetXY(x, y+3)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
