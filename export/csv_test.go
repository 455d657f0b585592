package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quotes-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuotes() []models.Quote {
	return []models.Quote{
		{Text: "“The world as we have created it is a process of our thinking.”", Author: "Albert Einstein", Tags: []string{"change", "deep-thoughts"}},
		{Text: "“It is our choices, Harry, that show what we truly are.”", Author: "J.K. Rowling", Tags: []string{"abilities", "choices"}},
		{Text: "“A day without sunshine is like, you know, night.”", Author: "Steve Martin", Tags: []string{}},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	quotes := sampleQuotes()

	require.NoError(t, WriteCSV(path, quotes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, len(quotes)+1)
	assert.Equal(t, "text,author,tags", lines[0])

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(quotes)+1)
	for i, q := range quotes {
		assert.Equal(t, q.Text, rows[i+1][0])
		assert.Equal(t, q.Author, rows[i+1][1])
		assert.Equal(t, strings.Join(q.Tags, ","), rows[i+1][2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, WriteCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text,author,tags\n", string(data))
}

func TestWriteCSVTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 50)), 0o644))

	require.NoError(t, WriteCSV(path, sampleQuotes()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestWriteCSVBadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "quotes.csv"), sampleQuotes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}

type recordingExporter struct {
	name  string
	calls *[]string
	err   error
}

func (r recordingExporter) Export(ctx context.Context, quotes []models.Quote) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestMultiStopsAtFirstError(t *testing.T) {
	var calls []string
	m := Multi{
		recordingExporter{name: "csv", calls: &calls},
		recordingExporter{name: "sheets", calls: &calls, err: assert.AnError},
		recordingExporter{name: "db", calls: &calls},
	}

	err := m.Export(context.Background(), sampleQuotes())
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"csv", "sheets"}, calls)
}

func TestCSVWriterExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(path)
	assert.Equal(t, path, w.Path())

	require.NoError(t, Multi{w}.Export(context.Background(), sampleQuotes()))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestRow(t *testing.T) {
	assert.Equal(t, []string{"t", "a", "love,inspirational"},
		Row(models.Quote{Text: "t", Author: "a", Tags: []string{"love", "inspirational"}}))
	assert.Equal(t, []string{"t", "a", ""}, Row(models.Quote{Text: "t", Author: "a", Tags: []string{}}))
}
