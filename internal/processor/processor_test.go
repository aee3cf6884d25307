package processor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/wordcard/internal/cli"
	"codeberg.org/snonux/wordcard/internal/generator"
	"codeberg.org/snonux/wordcard/internal/history"
	"codeberg.org/snonux/wordcard/internal/table"
	"codeberg.org/snonux/wordcard/internal/testutil"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

func testSettings(t *testing.T) cli.Settings {
	t.Helper()
	dir := t.TempDir()
	return cli.Settings{
		StorePath:       filepath.Join(dir, "Total_Words.csv"),
		HistoryPath:     filepath.Join(dir, "student_print_history.csv"),
		Addr:            "127.0.0.1:0",
		SpellThreshold:  0.8,
		SpellMaxResults: 3,
		AutoCorrect:     true,
		Seed:            1,
	}
}

func batchFlags(t *testing.T, content string) *cli.Flags {
	t.Helper()
	flags := cli.NewFlags()
	flags.BatchFile = filepath.Join(t.TempDir(), "words.txt")
	flags.OutputDir = filepath.Join(t.TempDir(), "out")
	flags.Class = "YS1800"
	flags.Name = "张三"
	flags.ListNum = "List 10"
	testutil.CreateTestFile(t, flags.BatchFile, []byte(content))
	return flags
}

func TestNewProcessor(t *testing.T) {
	settings := testSettings(t)
	p, err := NewProcessor(cli.NewFlags(), settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)
	assert.NotNil(t, p.ctrl)
	assert.Equal(t, settings.HistoryPath, p.history.Path())

	settings.StorePath = "words.txt"
	_, err = NewProcessor(cli.NewFlags(), settings, nil, nil)
	assert.Error(t, err)
}

func TestNewGeneratorWithoutKey(t *testing.T) {
	settings := testSettings(t)
	settings.Provider = "openai"

	gen := newGenerator(settings, nil)
	_, err := gen.Generate(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, generator.ErrNoAPIKey)
}

func TestProcessBatch(t *testing.T) {
	settings := testSettings(t)
	testutil.WriteWordTable(t, settings.StorePath, wordstore.SeedRecord())

	gen := &testutil.MockGenerator{}
	flags := batchFlags(t, "# mistakes\nambition, amibtion\ncollocation # new\n")
	p, err := NewProcessor(flags, settings, nil, gen)
	require.NoError(t, err)

	var outputFile string
	out := testutil.CaptureOutput(t, func() {
		outputFile, err = p.ProcessBatch(context.Background())
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(flags.OutputDir, "单词卡_YS1800_张三_List 10.html"), outputFile)
	testutil.AssertFileContains(t, outputFile, "window.print()")
	testutil.AssertFileContains(t, outputFile, "collocation")

	assert.Contains(t, out, "Corrected 'amibtion' to 'ambition'")
	assert.Contains(t, out, "Generated: collocation")
	assert.Contains(t, out, "Cards: 2")
	assert.Equal(t, [][]string{{"collocation"}}, gen.Calls())

	records, err := history.New(table.NewCSV(settings.HistoryPath), nil).ForStudent("张三", "YS1800")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ambition", records[0].Word)
	assert.Equal(t, "collocation", records[1].Word)
}

func TestProcessBatchAnkiExport(t *testing.T) {
	settings := testSettings(t)
	testutil.WriteWordTable(t, settings.StorePath, wordstore.SeedRecord())

	flags := batchFlags(t, "ambition")
	flags.Anki = true
	p, err := NewProcessor(flags, settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)

	out := testutil.CaptureOutput(t, func() {
		_, err = p.ProcessBatch(context.Background())
	})
	require.NoError(t, err)

	ankiFile := filepath.Join(flags.OutputDir, "单词卡_YS1800_张三_List 10_anki.csv")
	testutil.AssertFileContains(t, ankiFile, "ambition<br>/æmˈbɪʃn/")
	assert.Contains(t, out, "Anki export written to: "+ankiFile)
}

func TestProcessBatchErrors(t *testing.T) {
	t.Run("missing identity", func(t *testing.T) {
		flags := batchFlags(t, "ambition")
		flags.Name = ""
		p, err := NewProcessor(flags, testSettings(t), nil, &testutil.MockGenerator{})
		require.NoError(t, err)

		_, err = p.ProcessBatch(context.Background())
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		p, err := NewProcessor(batchFlags(t, "# nothing\n"), testSettings(t), nil, &testutil.MockGenerator{})
		require.NoError(t, err)

		_, err = p.ProcessBatch(context.Background())
		assert.ErrorContains(t, err, "no words found")
	})

	t.Run("nothing resolved", func(t *testing.T) {
		gen := &testutil.MockGenerator{Err: errors.New("offline")}
		p, err := NewProcessor(batchFlags(t, "qwzxv"), testSettings(t), nil, gen)
		require.NoError(t, err)

		testutil.CaptureOutput(t, func() {
			_, err = p.ProcessBatch(context.Background())
		})
		assert.ErrorContains(t, err, "could be resolved")
	})
}

func TestArchiveHistory(t *testing.T) {
	settings := testSettings(t)
	testutil.CreateTestFile(t, settings.HistoryPath, []byte("Student,Class,List_Num,Word,Print_Date\n"))

	p, err := NewProcessor(cli.NewFlags(), settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)

	testutil.CaptureOutput(t, func() {
		err = p.ArchiveHistory()
	})
	require.NoError(t, err)
	testutil.AssertFileNotExists(t, settings.HistoryPath)

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(settings.HistoryPath), "archive"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListModelsRejectsGemini(t *testing.T) {
	settings := testSettings(t)
	settings.Provider = generator.ProviderGemini

	p, err := NewProcessor(cli.NewFlags(), settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)
	assert.Error(t, p.ListModels(context.Background()))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestRunServer(t *testing.T) {
	settings := testSettings(t)
	settings.Addr = freeAddr(t)

	p, err := NewProcessor(cli.NewFlags(), settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- p.RunServer(ctx)
	}()

	url := fmt.Sprintf("http://%s/healthz", settings.Addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	settings := testSettings(t)
	settings.Addr = ln.Addr().String()
	p, err := NewProcessor(cli.NewFlags(), settings, nil, &testutil.MockGenerator{})
	require.NoError(t, err)

	err = p.RunServer(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "address already in use") || strings.Contains(err.Error(), "bind"), err.Error())
}
