package history

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal/table"
)

// Column names of the history log
const (
	ColStudent   = "Student"
	ColClass     = "Class"
	ColListNum   = "List_Num"
	ColWord      = "Word"
	ColPrintDate = "Print_Date"
)

// Columns is the header of a new history log
var Columns = []string{ColStudent, ColClass, ColListNum, ColWord, ColPrintDate}

// DateLayout formats Print_Date
const DateLayout = "2006-01-02"

// PrintRecord is one printed word
type PrintRecord struct {
	Student   string `json:"student"`
	Class     string `json:"class"`
	ListNum   string `json:"list_num"`
	Word      string `json:"word"`
	PrintDate string `json:"print_date"`
}

// NewRecords builds one record per word, all dated at now
func NewRecords(student, class, listNum string, words []string, now time.Time) []PrintRecord {
	date := now.Format(DateLayout)
	records := make([]PrintRecord, len(words))
	for i, w := range words {
		records[i] = PrintRecord{
			Student:   student,
			Class:     class,
			ListNum:   listNum,
			Word:      w,
			PrintDate: date,
		}
	}
	return records
}

func (p PrintRecord) get(column string) string {
	switch column {
	case ColStudent:
		return p.Student
	case ColClass:
		return p.Class
	case ColListNum:
		return p.ListNum
	case ColWord:
		return p.Word
	case ColPrintDate:
		return p.PrintDate
	default:
		return ""
	}
}

// Log is the append-only print history
type Log struct {
	table  table.Table
	logger *zap.Logger
}

// New creates a history log on top of a table backend
func New(t table.Table, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{table: t, logger: logger}
}

// Path returns where the log is stored
func (l *Log) Path() string {
	return l.table.Path()
}

// Append adds records after the existing ones. The whole log is rewritten.
func (l *Log) Append(records []PrintRecord) error {
	if len(records) == 0 {
		return nil
	}

	header, rows, err := l.read()
	if err != nil {
		return err
	}

	for _, col := range Columns {
		if !contains(header, col) {
			header = append(header, col)
			for i := range rows {
				rows[i] = append(rows[i], "")
			}
		}
	}

	for _, r := range records {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = r.get(col)
		}
		rows = append(rows, row)
	}

	if err := l.table.Write(header, rows); err != nil {
		return fmt.Errorf("failed to save print history: %w", err)
	}

	l.logger.Info("Print history updated",
		zap.String("path", l.table.Path()),
		zap.Int("added", len(records)),
		zap.Int("total", len(rows)))
	return nil
}

// All returns every record in file order
func (l *Log) All() ([]PrintRecord, error) {
	header, rows, err := l.read()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	cell := func(row []string, col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]PrintRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, PrintRecord{
			Student:   cell(row, ColStudent),
			Class:     cell(row, ColClass),
			ListNum:   cell(row, ColListNum),
			Word:      cell(row, ColWord),
			PrintDate: cell(row, ColPrintDate),
		})
	}
	return records, nil
}

// ForStudent returns the records of one student in one class
func (l *Log) ForStudent(student, class string) ([]PrintRecord, error) {
	all, err := l.All()
	if err != nil {
		return nil, err
	}
	var out []PrintRecord
	for _, r := range all {
		if r.Student == student && r.Class == class {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *Log) read() ([]string, [][]string, error) {
	header, rows, err := l.table.Read()
	if errors.Is(err, table.ErrNotExist) || (err == nil && len(header) == 0) {
		return append([]string(nil), Columns...), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load print history: %w", err)
	}
	return header, rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
