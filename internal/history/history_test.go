package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/wordcard/internal/table"
)

func newLog(t *testing.T, name string) *Log {
	t.Helper()
	tbl, err := table.Open(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	return New(tbl, nil)
}

func TestNewRecords(t *testing.T) {
	now := time.Date(2025, 9, 1, 23, 59, 0, 0, time.UTC)
	records := NewRecords("张三", "YS1800", "List 10", []string{"ambition", "aggressive"}, now)

	require.Len(t, records, 2)
	assert.Equal(t, PrintRecord{Student: "张三", Class: "YS1800", ListNum: "List 10", Word: "ambition", PrintDate: "2025-09-01"}, records[0])
	assert.Equal(t, "aggressive", records[1].Word)
}

func TestAppendCreatesLog(t *testing.T) {
	log := newLog(t, "student_print_history.csv")
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(NewRecords("张三", "YS1800", "List 10", []string{"a", "b", "c"}, now)))

	content, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "Student,Class,List_Num,Word,Print_Date\n")
	assert.Contains(t, string(content), "张三,YS1800,List 10,a,2025-09-01\n")

	all, err := log.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAppendAddsOneRowPerWord(t *testing.T) {
	for _, name := range []string{"history.csv", "history.xlsx", "history.db"} {
		t.Run(name, func(t *testing.T) {
			log := newLog(t, name)
			now := time.Now()

			require.NoError(t, log.Append(NewRecords("A", "C1", "1", []string{"x", "y"}, now)))
			require.NoError(t, log.Append(NewRecords("B", "C1", "2", []string{"z"}, now)))

			all, err := log.All()
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "x", all[0].Word)
			assert.Equal(t, "z", all[2].Word)
			assert.Equal(t, "B", all[2].Student)
		})
	}
}

func TestAppendEmptyIsNoop(t *testing.T) {
	log := newLog(t, "history.csv")
	require.NoError(t, log.Append(nil))

	_, err := os.Stat(log.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAppendKeepsUnknownColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student,Word,Note\nold,w,keep\n"), 0644))

	log := New(table.NewCSV(path), nil)
	require.NoError(t, log.Append(NewRecords("new", "C", "1", []string{"v"}, time.Now())))

	header, rows, err := table.NewCSV(path).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Student", "Word", "Note", "Class", "List_Num", "Print_Date"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"old", "w", "keep", "", "", ""}, rows[0])
	assert.Equal(t, "new", rows[1][0])
	assert.Equal(t, "", rows[1][2])
}

func TestForStudent(t *testing.T) {
	log := newLog(t, "history.csv")
	now := time.Now()

	require.NoError(t, log.Append(NewRecords("张三", "YS1800", "1", []string{"a", "b"}, now)))
	require.NoError(t, log.Append(NewRecords("张三", "YS1900", "1", []string{"c"}, now)))
	require.NoError(t, log.Append(NewRecords("李四", "YS1800", "1", []string{"d"}, now)))

	records, err := log.ForStudent("张三", "YS1800")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Word)
	assert.Equal(t, "b", records[1].Word)

	records, err = log.ForStudent("nobody", "YS1800")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAllMissingLog(t *testing.T) {
	log := newLog(t, "history.csv")
	all, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}
