package excel

import (
	"os"
	"path/filepath"
	"testing"

	"rxcheck/domain/reaction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadSubmissionsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	content := "Product,Reactants\n" +
		"CCOC(C)=O,CCO.CC(=O)O\n" +
		",\n" +
		"CC(=O)OCC1=CC=CC=C1C(=O)O,CC(=O)O[C1]=CC=CC=C1C(=O)O.CC1=CC=CC1=O\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	subs, err := NewDataReader(path).ReadSubmissions()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, reaction.Submission{Row: 1, Product: "CCOC(C)=O", Reactants: []string{"CCO", "CC(=O)O"}}, subs[0])
	assert.Equal(t, 3, subs[1].Row)
	assert.Equal(t, []string{"CC(=O)O[C1]=CC=CC=C1C(=O)O", "CC1=CC=CC1=O"}, subs[1].Reactants)
}

func TestReadSubmissionsFromXLSXNumberedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"product", "reactant_2", "reactant_1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"CCOC(C)=O", "CC(=O)O", "CCO"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"CC=O", "", "CCO"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	subs, err := NewDataReader(path).ReadSubmissions()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, []string{"CCO", "CC(=O)O"}, subs[0].Reactants)
	assert.Equal(t, []string{"CCO"}, subs[1].Reactants)
}

func TestParseSubmissionsRequiresColumns(t *testing.T) {
	_, err := ParseSubmissions(&SheetData{Headers: []string{"reactants"}})
	assert.Error(t, err)

	_, err = ParseSubmissions(&SheetData{Headers: []string{"product"}})
	assert.Error(t, err)

	_, err = ParseSubmissions(&SheetData{Headers: []string{"product", "reactant_x"}})
	assert.Error(t, err)
}

func TestReadDataMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv")).ReadData()
	assert.Error(t, err)
}
