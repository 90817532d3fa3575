package dataset

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/insightsphere/internal/recommend"
	"github.com/xuri/excelize/v2"
)

const matrixCSV = `,A,B,C
A,0.0,5000.0,15000.0
B,5000.0,0.0,20000.0
C,15000.0,20000.0,0.0
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVTable_Load(t *testing.T) {
	path := writeFile(t, "location_distance.csv", matrixCSV)

	table, err := CSVTable{Path: path}.LoadDistanceTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, table.Locations())

	got, err := table.WithinRadius("A", 10)
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{{Location: "B", Meters: 5000}}, got)
}

func TestCSVTable_IndexedByColumn(t *testing.T) {
	// the column is the query location: column A, row B holds A -> B
	path := writeFile(t, "directed.csv", ",A,B\nA,0,7000\nB,1000,0\n")

	table, err := CSVTable{Path: path}.LoadDistanceTable(context.Background())
	require.NoError(t, err)

	fromA, err := table.WithinRadius("A", math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{{Location: "B", Meters: 1000}}, fromA)

	fromB, err := table.WithinRadius("B", math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{{Location: "A", Meters: 7000}}, fromB)
}

func TestCSVTable_MissingCells(t *testing.T) {
	path := writeFile(t, "gaps.csv", ",A,B,C\nA,0,,NaN\nB,,0,300\nC,nan,300\n")

	table, err := CSVTable{Path: path}.LoadDistanceTable(context.Background())
	require.NoError(t, err)

	got, err := table.WithinRadius("A", 100)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = table.WithinRadius("C", 100)
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{{Location: "B", Meters: 300}}, got)
}

func TestCSVTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no locations", "only\n"},
		{"bad number", ",A,B\nA,0,far\nB,1,0\n"},
		{"negative", ",A,B\nA,0,-5\nB,1,0\n"},
		{"duplicate header", ",A,A\nA,0,1\n"},
		{"duplicate row", ",A,B\nB,5000,0\nB,900,0\nA,0,5000\n"},
		{"unnamed row", ",A,B\n,0,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			_, err := CSVTable{Path: path}.LoadDistanceTable(context.Background())
			assert.True(t, errors.Is(err, ErrMalformedTable), "got %v", err)
		})
	}

	_, err := CSVTable{Path: filepath.Join(t.TempDir(), "missing.csv")}.LoadDistanceTable(context.Background())
	assert.Error(t, err)
}

func TestXLSXTable_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_distance.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"", "A", "B", "C"},
		{"A", 0, 5000, 15000},
		{"B", 5000, 0, 20000},
		{"C", 15000, 20000, 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := TableFile(path, "").LoadDistanceTable(context.Background())
	require.NoError(t, err)

	got, err := table.WithinRadius("A", 20)
	require.NoError(t, err)
	assert.Equal(t, []recommend.Neighbor{
		{Location: "B", Meters: 5000},
		{Location: "C", Meters: 15000},
	}, got)

	_, err = XLSXTable{Path: path, Sheet: "Missing"}.LoadDistanceTable(context.Background())
	assert.True(t, errors.Is(err, ErrMalformedTable))
}

func TestTableFile(t *testing.T) {
	assert.IsType(t, CSVTable{}, TableFile("datasets/location_distance.csv", ""))
	assert.IsType(t, XLSXTable{}, TableFile("datasets/location_distance.XLSX", "Sheet2"))
}
