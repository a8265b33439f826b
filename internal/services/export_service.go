package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetPaper     = "Paper"
	sheetQuestions = "Questions"
	sheetMatrix    = "Matrix"
)

type exportService struct {
	papers PaperService
	logger *slog.Logger
	events *eventEmitter
}

func NewExportService(papers PaperService, logger *slog.Logger, emitter *eventEmitter) ExportService {
	return &exportService{papers: papers, logger: logger, events: emitter}
}

// ExportPaper renders a paper as an XLSX workbook with Paper, Questions and
// Matrix sheets.
func (s *exportService) ExportPaper(ctx context.Context, paperID uint, actorID *uint) (*ExportFile, error) {
	paper, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetPaper); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetQuestions, sheetMatrix} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, sheetPaper, header, paperRows(paper)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetQuestions, header, questionRows(paper.Questions)); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetMatrix, header, matrixRows(paper.Matrix)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.events.emit(ctx, events.PaperExported, paperID, actorID, "xlsx")
	s.logger.Info("Paper exported", "paper_id", paperID, "bytes", buf.Len())

	return &ExportFile{
		Filename:    exportFilename(paper),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

// writeRows writes rows from A1 down; the first row is bold.
func writeRows(f *excelize.File, sheet string, headerStyle int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func paperRows(p *PaperResponse) [][]interface{} {
	h := p.Header.Data()
	info := p.StudentInfo.Data()
	footer := p.Footer.Data()

	rows := [][]interface{}{
		{"Field", "Value"},
		{"Paper ID", p.ID},
		{"Status", string(p.Status)},
		{"Department", h.Department},
		{"Course Code", h.CourseCode},
		{"Course Name", h.CourseName},
		{"Session", h.Session},
		{"Assessment Type", h.AssessmentType},
		{"Percentage", h.Percentage},
		{"Set", h.Set},
		{"Duration", info.Duration},
		{"Total Marks", info.TotalMarks},
		{"Prepared By", footer.PreparedBy},
		{"Reviewed By", footer.ReviewedBy},
		{"Endorsed By", footer.EndorsedBy},
	}
	for i, line := range p.Instructions {
		rows = append(rows, []interface{}{fmt.Sprintf("Instruction %d", i+1), line})
	}
	clos := p.CLODefinitions.Data()
	for _, key := range sortedKeys(clos) {
		rows = append(rows, []interface{}{key, clos[key]})
	}
	return rows
}

func questionRows(questions []*models.Question) [][]interface{} {
	rows := [][]interface{}{{"ID", "Section", "Number", "Type", "Text", "Marks", "Taxonomy", "Topic", "CLOs", "Answer"}}
	for _, q := range questions {
		rows = append(rows, []interface{}{
			q.ID, q.SectionTitle, q.Number, string(q.Type), q.Text, q.Marks,
			q.Taxonomy, q.Topic, strings.Join(q.CLOKeys, ", "), q.Answer,
		})
	}
	return rows
}

func matrixRows(matrix []models.MatrixRow) [][]interface{} {
	rows := [][]interface{}{{"Task", "CLOs", "Topic", "Domain", "Construct", "Item Types", "Total Mark"}}
	for _, r := range matrix {
		clos := r.CLOs
		if len(clos) == 0 && r.CLO != "" {
			clos = []string{r.CLO}
		}
		topic := r.TopicCode
		if topic == "" {
			topic = r.Topic
		}
		items := r.ItemTypes
		if len(items) == 0 && r.ItemType != "" {
			items = []string{r.ItemType}
		}
		var total interface{}
		switch {
		case r.TotalMark != nil:
			total = *r.TotalMark
		case r.Marks != nil:
			total = *r.Marks
		}
		rows = append(rows, []interface{}{
			r.Task, strings.Join(clos, ", "), topic, r.Domain, r.Construct, strings.Join(items, ", "), total,
		})
	}
	return rows
}

func exportFilename(p *PaperResponse) string {
	code := strings.TrimSpace(p.Header.Data().CourseCode)
	if code == "" {
		return fmt.Sprintf("paper-%d.xlsx", p.ID)
	}
	return fmt.Sprintf("paper-%d-%s.xlsx", p.ID, strings.ReplaceAll(code, " ", "_"))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
