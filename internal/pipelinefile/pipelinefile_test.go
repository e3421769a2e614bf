package pipelinefile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Cardflow/internal/catalog"
	"github.com/shaiso/Cardflow/internal/domain"
)

func samplePipeline(t *testing.T) *domain.Pipeline {
	t.Helper()

	cat := catalog.Default()
	genDef, _ := cat.Definition("number-generator")
	filterDef, _ := cat.Definition("filter")

	p := domain.NewPipeline("My Sample  Pipeline", "numbers above ten")
	gen := p.AddCard(*domain.NewCard(genDef, domain.Position{X: 10, Y: 20}))
	genID, genOut := gen.ID, gen.OutputPorts[0].ID
	filter := p.AddCard(*domain.NewCard(filterDef, domain.Position{X: 300, Y: 20}))

	_, err := p.Connect(genID, genOut, filter.ID, filter.InputPorts[0].ID)
	require.NoError(t, err)
	require.NoError(t, p.SetProperty(filter.ID, "value", domain.Int(10)))

	return p
}

func TestFileName(t *testing.T) {
	p := domain.NewPipeline("My Sample  Pipeline\t2", "")
	assert.Equal(t, "My_Sample_Pipeline_2.json", FileName(p))

	p.Name = "   "
	assert.Equal(t, "pipeline.json", FileName(p))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("b.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("b.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveLoad_PreservesFields(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			original := samplePipeline(t)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, original, format))

			loaded, err := Load(&buf, format)
			require.NoError(t, err)

			assert.Equal(t, original.ID, loaded.ID)
			assert.Equal(t, original.Name, loaded.Name)
			assert.Equal(t, original.Description, loaded.Description)
			assert.True(t, original.CreatedAt.Equal(loaded.CreatedAt))
			assert.Equal(t, original.Connections, loaded.Connections)
			require.Len(t, loaded.Cards, 2)

			for i := range original.Cards {
				want, got := original.Cards[i], loaded.Cards[i]
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.DefinitionID, got.DefinitionID)
				assert.Equal(t, want.Position, got.Position)
				require.Len(t, got.InputPorts, len(want.InputPorts))
				require.Len(t, got.Properties, len(want.Properties))
				for j := range want.Properties {
					assert.Equal(t, want.Properties[j].Name, got.Properties[j].Name)
					assert.True(t, want.Properties[j].Value.Equal(got.Properties[j].Value),
						"property %s", want.Properties[j].Name)
				}
			}

			assert.True(t, loaded.Cards[1].InputPorts[0].Connected)
		})
	}
}

func TestLoad_UIFormat(t *testing.T) {
	src := `{
	  "id": "p1",
	  "name": "From UI",
	  "description": "",
	  "cards": [{
	    "id": "c1",
	    "definitionId": "number-generator",
	    "name": "Number Generator",
	    "position": {"x": 1, "y": 2},
	    "inputPorts": [{"id": "in1", "name": "count", "type": "input", "dataType": "number", "connected": true, "defaultValue": 10}],
	    "outputPorts": [{"id": "out1", "name": "numbers", "type": "output", "dataType": "array", "connected": false}],
	    "properties": [{"name": "min", "type": "number", "value": 1}],
	    "isSelected": false
	  }],
	  "connections": [],
	  "createdAt": "2024-05-01T10:00:00.000Z",
	  "updatedAt": "2024-05-01T10:00:00.000Z"
	}`

	p, err := Load(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)

	require.Len(t, p.Cards, 1)
	assert.Equal(t, domain.PortInput, p.Cards[0].InputPorts[0].Direction)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt.UTC())

	// Флаг пересчитан по соединениям
	assert.False(t, p.Cards[0].InputPorts[0].Connected)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader(`{"cards": [{"id": ""}]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidPipeline)

	_, err = Load(strings.NewReader(`not json`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidPipeline)

	_, err = Load(strings.NewReader(`{}`), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPrepare(t *testing.T) {
	assert.ErrorIs(t, Prepare(nil), ErrInvalidPipeline)

	p := &domain.Pipeline{ID: "p1"}
	require.NoError(t, Prepare(p))
	assert.NotNil(t, p.Cards)
	assert.NotNil(t, p.Connections)

	p.Connections = append(p.Connections, domain.Connection{ID: "c1"})
	assert.ErrorIs(t, Prepare(p), ErrInvalidPipeline)
}

func TestSaveFile_LoadFile(t *testing.T) {
	dir := t.TempDir()
	original := samplePipeline(t)

	path := filepath.Join(dir, FileName(original))
	require.NoError(t, SaveFile(path, original))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.ID, loaded.ID)

	// Временных файлов не остаётся
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
