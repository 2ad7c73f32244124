package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meikuraledutech/famtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantFamily = []famtree.Person{
	{ID: "Saleem", Generation: 0, Attribute: "Grandfather"},
	{ID: "Samia", Generation: 0, Attribute: "Grandmother"},
	{ID: "Talal", Generation: 1, ParentID: "Saleem", Attribute: "Father"},
	{ID: "Laila", Generation: 1, ParentID: "Saleem", Attribute: "Mother"},
}

func TestParseCSV(t *testing.T) {
	in := `id,generation,parent_id,attribute
Saleem,0,,Grandfather
Samia,0,,Grandmother
Talal,1,Saleem,Father
Laila,1,Saleem,Mother
`
	persons, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, wantFamily, persons)
}

func TestParseCSV_Aliases(t *testing.T) {
	in := `Name, Generation, Parent, Profession, Notes
Saleem, 0, None, Grandfather, x
Samia, 0, , Grandmother, y
Talal, 1, Saleem, Father, z
Laila, 1, Saleem, Mother,
`
	persons, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, wantFamily, persons)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "read CSV header"},
		{"missing generation", "id,parent\nA,\n", `missing "generation" column`},
		{"bad generation", "id,generation\nA,zero\n", "line 2: invalid generation"},
		{"duplicate column", "id,name,generation\nA,B,0\n", `column "id" given twice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseYAML_Document(t *testing.T) {
	in := `
id: saleem-family
persons:
  - {id: Saleem, generation: 0, attribute: Grandfather}
  - {id: Samia, generation: 0, parent_id: null, attribute: Grandmother}
  - {id: Talal, generation: 1, parent_id: Saleem, attribute: Father}
  - {id: Laila, generation: 1, parent_id: Saleem, attribute: Mother}
`
	tree, err := ParseYAML([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "saleem-family", tree.ID)
	assert.Equal(t, wantFamily, tree.Persons)
}

func TestParseYAML_List(t *testing.T) {
	in := `
- id: Saleem
  generation: 0
  attribute: Grandfather
- id: Samia
  generation: 0
  parent_id: None
  attribute: Grandmother
- id: Talal
  generation: 1
  parent_id: Saleem
  attribute: Father
- id: Laila
  generation: 1
  parent_id: Saleem
  attribute: Mother
`
	tree, err := ParseYAML([]byte(in))
	require.NoError(t, err)
	assert.Empty(t, tree.ID)
	assert.Equal(t, wantFamily, tree.Persons)
}

func TestParseYAML_Errors(t *testing.T) {
	_, err := ParseYAML([]byte("just a string"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("- id: [unclosed"))
	assert.Error(t, err)

	tree, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, tree.Persons)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "saleem.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,generation,parent\nSaleem,0,\nTalal,1,Saleem\n"), 0o644))
	tree, err := ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "saleem", tree.ID)
	assert.Len(t, tree.Persons, 2)

	yamlPath := filepath.Join(dir, "fam.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("id: fam\npersons:\n  - {id: A, generation: 0}\n"), 0o644))
	tree, err = ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "fam", tree.ID)

	_, err = ReadFile(filepath.Join(dir, "fam.xlsx"))
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "fam.txt")
	require.NoError(t, os.WriteFile(txtPath, nil, 0o644))
	_, err = ReadFile(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
