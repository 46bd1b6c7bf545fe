package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ninetyKeyLayout(t *testing.T) *Document {
	t.Helper()
	codes := make([]string, 90)
	for i := range codes {
		codes[i] = fmt.Sprintf("%d", i+100)
	}
	payload := fmt.Sprintf(`{"layout":[[%s]]}`, strings.Join(codes, ","))
	doc, err := ParseDocument([]byte(payload))
	require.NoError(t, err)
	return doc
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"layout":[[1,2],[3,4]]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Layers())
}

func TestParseDocument_NoLayers(t *testing.T) {
	_, err := ParseDocument([]byte(`{"layout":[]}`))
	assert.Error(t, err)

	_, err = ParseDocument([]byte(`{}`))
	assert.Error(t, err)
}

func TestParseDocument_BadJSON(t *testing.T) {
	_, err := ParseDocument([]byte(`{"layout":`))
	assert.Error(t, err)
}

func TestParseActions(t *testing.T) {
	data := []byte(`[
		{"actions":{
			"100":{"name":"KEY_A","id":"a"},
			"101":{"id":"b"},
			"102":{}
		}}
	]`)

	actions, err := ParseActions(data)
	require.NoError(t, err)

	assert.Equal(t, "KEY_A", actions["100"], "name wins over id")
	assert.Equal(t, "b", actions["101"], "id is the fallback")
	assert.Equal(t, "Unknown_102", actions["102"])
}

// An action present but nameless and a code missing from the map are
// different conditions and keep distinct placeholders.
func TestPlaceholders_NamelessActionVsUnmappedCode(t *testing.T) {
	actions, err := ParseActions([]byte(`[{"actions":{"7":{}}}]`))
	require.NoError(t, err)

	doc, err := ParseDocument([]byte(`{"layout":[[7,8,7,8]]}`))
	require.NoError(t, err)

	grid, err := doc.Grid(0, actions)
	require.NoError(t, err)

	assert.Equal(t, []string{"Unknown_7", "UNKNOWN_8", "Unknown_7", "UNKNOWN_8"}, grid[0])
}

func TestParseActions_BadJSON(t *testing.T) {
	_, err := ParseActions([]byte(`{"actions":{}}`))
	assert.Error(t, err)
}

func TestGrid_NinetyKeysIsSixByFifteen(t *testing.T) {
	doc := ninetyKeyLayout(t)

	grid, err := doc.Grid(0, ActionMap{"100": "KEY_A"})
	require.NoError(t, err)

	require.Len(t, grid, 6)
	for _, row := range grid {
		assert.Len(t, row, 15)
	}
	assert.Equal(t, "KEY_A", grid[0][0])
	assert.Equal(t, "UNKNOWN_101", grid[0][1])
}

func TestGrid_ZeroCodeIsEmpty(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"layout":[[0,1,0,1]]}`))
	require.NoError(t, err)

	grid, err := doc.Grid(0, ActionMap{"1": "KEY_B"})
	require.NoError(t, err)

	require.Len(t, grid, 1)
	assert.Equal(t, []string{"EMPTY", "KEY_B", "EMPTY", "KEY_B"}, grid[0])
}

func TestGrid_LayerOutOfRange(t *testing.T) {
	doc := ninetyKeyLayout(t)

	_, err := doc.Grid(5, ActionMap{})
	assert.ErrorContains(t, err, "out of range")

	_, err = doc.Grid(-1, ActionMap{})
	assert.Error(t, err)
}

func TestGrid_UndetectableShape(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"layout":[[1,2,3,4,5,6,7,8,9,10,11,12,13]]}`))
	require.NoError(t, err)

	_, err = doc.Grid(0, ActionMap{})
	assert.Error(t, err, "13 keys fit no supported row count")
}

func TestDetectRows(t *testing.T) {
	tests := []struct {
		keys int
		rows int
		ok   bool
	}{
		{90, 6, true},
		{67, 0, false},
		{56, 4, true},
		{35, 5, true},
		{0, 0, false},
	}
	for _, tt := range tests {
		rows, ok := detectRows(tt.keys)
		assert.Equal(t, tt.ok, ok, "keys=%d", tt.keys)
		if ok {
			assert.Equal(t, tt.rows, rows, "keys=%d", tt.keys)
		}
	}
}

func TestRender(t *testing.T) {
	out := Render([][]string{
		{"KEY_A", "a_very_long_action_name"},
		{"EMPTY", "KEY_B"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Row 0:")
	assert.Contains(t, lines[0], "a_very_lon..", "long names are truncated")
	assert.Contains(t, lines[1], "EMPTY")
}
