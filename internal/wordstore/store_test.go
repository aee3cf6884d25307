package wordstore

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/wordcard/internal/table"
)

func newTestStore(t *testing.T, name string) (*Store, table.Table) {
	t.Helper()
	tbl, err := table.Open(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	return New(tbl, nil), tbl
}

func TestLoadSeedsMissingTable(t *testing.T) {
	for _, name := range []string{"words.csv", "Total_Words.xlsx", "words.db"} {
		t.Run(name, func(t *testing.T) {
			store, tbl := newTestStore(t, name)

			idx, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, 1, idx.Len())

			r, ok := idx.Lookup("AMBITION")
			require.True(t, ok)
			assert.Equal(t, SeedRecord(), r)

			header, rows, err := tbl.Read()
			require.NoError(t, err)
			assert.Equal(t, DefaultColumns, header)
			assert.Len(t, rows, 1)
		})
	}
}

func TestUpsertLatestWins(t *testing.T) {
	store, _ := newTestStore(t, "words.csv")

	require.NoError(t, store.Upsert([]Record{
		{Word: "Cat", Meaning: "n. 猫"},
		{Word: "dog", Meaning: "n. 狗"},
	}))
	require.NoError(t, store.Upsert([]Record{
		{Word: "cat", Meaning: "n. 猫科动物"},
		{Word: "AMBITION", Meaning: "n. 志向"},
	}))

	idx, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "cat", "ambition"}, idx.Words())

	cat, ok := idx.Lookup("CAT")
	require.True(t, ok)
	assert.Equal(t, "cat", cat.Word)
	assert.Equal(t, "n. 猫科动物", cat.Meaning)

	amb, _ := idx.Lookup("ambition")
	assert.Equal(t, "AMBITION", amb.Word)
	assert.Equal(t, "n. 志向", amb.Meaning)
	assert.Empty(t, amb.Phonetic)
}

func TestUpsertNoDuplicateKeys(t *testing.T) {
	store, tbl := newTestStore(t, "words.csv")

	batches := [][]Record{
		{{Word: "a"}, {Word: "B"}, {Word: "a"}},
		{{Word: "b"}, {Word: "C"}, {Word: "c"}},
		{{Word: "A"}},
	}
	for _, b := range batches {
		require.NoError(t, store.Upsert(b))
	}

	_, rows, err := tbl.Read()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, row := range rows {
		k := Key(row[0])
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
	assert.Len(t, rows, 4)
}

func TestUpsertReconcilesColumns(t *testing.T) {
	store, tbl := newTestStore(t, "words.xlsx")

	header := []string{"Word", "Meaning", "Level", "Example"}
	require.NoError(t, tbl.Write(header, [][]string{{"ambition", "n. 抱负", "B2", "x"}}))

	require.NoError(t, store.Upsert([]Record{{
		Word:        "cat",
		Meaning:     "n. 猫",
		Phonetic:    "/kæt/",
		Collocation: "black cat",
	}}))

	gotHeader, rows, err := tbl.Read()
	require.NoError(t, err)
	assert.Equal(t, header, gotHeader)
	want := [][]string{
		{"ambition", "n. 抱负", "B2", "x"},
		{"cat", "n. 猫", "", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	idx, err := store.Load()
	require.NoError(t, err)
	amb, _ := idx.Lookup("ambition")
	assert.Equal(t, "B2", amb.Extra["Level"])
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	store, tbl := newTestStore(t, "words.csv")

	require.NoError(t, store.Upsert(nil))

	_, _, err := tbl.Read()
	assert.ErrorIs(t, err, table.ErrNotExist)
}

func TestUpsertSkipsBlankWords(t *testing.T) {
	store, _ := newTestStore(t, "words.csv")

	require.NoError(t, store.Upsert([]Record{{Word: "  ", Meaning: "x"}, {Word: "tree"}}))

	idx, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ambition", "tree"}, idx.Words())
}

func TestLoadRequiresWordColumn(t *testing.T) {
	store, tbl := newTestStore(t, "words.csv")
	require.NoError(t, tbl.Write([]string{"Term", "Meaning"}, [][]string{{"x", "y"}}))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestLoadDuplicateRowsLastWins(t *testing.T) {
	store, tbl := newTestStore(t, "words.csv")
	require.NoError(t, tbl.Write(DefaultColumns, [][]string{
		{"Run", "", "v. 跑", "", ""},
		{"walk", "", "v. 走", "", ""},
		{"run", "", "v. 奔跑", "", ""},
	}))

	idx, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"walk", "run"}, idx.Words())
	r, _ := idx.Lookup("run")
	assert.Equal(t, "v. 奔跑", r.Meaning)
}

func TestIndexLookupExactOnly(t *testing.T) {
	idx := newIndex([]Record{{Word: "ambition"}})

	_, ok := idx.Lookup("ambit")
	assert.False(t, ok)
	_, ok = idx.Lookup(" Ambition ")
	assert.True(t, ok)
}

func TestIndexAdd(t *testing.T) {
	idx := newIndex([]Record{{Word: "a", Meaning: "1"}})
	idx.Add(Record{Word: "B"}, Record{Word: "A", Meaning: "2"}, Record{Word: ""})

	assert.Equal(t, []string{"a", "b"}, idx.Words())
	r, _ := idx.Lookup("a")
	assert.Equal(t, "2", r.Meaning)
}

func TestRecordRowAndFromRow(t *testing.T) {
	header := []string{"Collocation", "Word", "Note"}
	r := FromRow(header, []string{"c", "w", "n"})
	assert.Equal(t, "w", r.Word)
	assert.Equal(t, "c", r.Collocation)
	assert.Equal(t, map[string]string{"Note": "n"}, r.Extra)
	assert.Equal(t, []string{"c", "w", "n"}, r.Row(header))
}
