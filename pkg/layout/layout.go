// Package layout renders a device layout as a grid of action names by
// joining the layout.json and actions.json datasets of one firmware.
package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document is the decoded layout.json: one flat slice of action codes
// per layer.
type Document struct {
	Layout [][]int `json:"layout"`
}

func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if len(doc.Layout) == 0 {
		return nil, fmt.Errorf("parse layout: no layers")
	}
	return &doc, nil
}

func (d *Document) Layers() int { return len(d.Layout) }

// ActionMap maps action codes (as decimal strings) to display names.
type ActionMap map[string]string

// ParseActions builds the code→name map from actions.json: a list of
// objects whose "actions" field maps codes to details. The display name
// prefers "name", falls back to "id", then to an Unknown_<code>
// placeholder. Codes absent from the map entirely render as
// UNKNOWN_<code> in Grid.
func ParseActions(data []byte) (ActionMap, error) {
	var items []struct {
		Actions map[string]struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}

	actions := make(ActionMap)
	for _, item := range items {
		for code, details := range item.Actions {
			switch {
			case details.Name != "":
				actions[code] = details.Name
			case details.ID != "":
				actions[code] = details.ID
			default:
				actions[code] = "Unknown_" + code
			}
		}
	}
	return actions, nil
}

// Grid converts one layer into rows of action names. Code 0 is an
// unassigned key. Row count is auto-detected from the key count,
// trying the common 6-row shape first.
func (d *Document) Grid(layer int, actions ActionMap) ([][]string, error) {
	if layer < 0 || layer >= len(d.Layout) {
		return nil, fmt.Errorf("layer %d out of range (layout has %d layers)", layer, len(d.Layout))
	}
	codes := d.Layout[layer]

	rows, ok := detectRows(len(codes))
	if !ok {
		return nil, fmt.Errorf("cannot determine grid shape for %d keys", len(codes))
	}
	cols := len(codes) / rows

	grid := make([][]string, rows)
	for r := 0; r < rows; r++ {
		names := make([]string, cols)
		for c := 0; c < cols; c++ {
			code := codes[r*cols+c]
			if code == 0 {
				names[c] = "EMPTY"
				continue
			}
			name, ok := actions[strconv.Itoa(code)]
			if !ok {
				name = "UNKNOWN_" + strconv.Itoa(code)
			}
			names[c] = name
		}
		grid[r] = names
	}
	return grid, nil
}

func detectRows(keys int) (int, bool) {
	if keys == 0 {
		return 0, false
	}
	for _, rows := range []int{6, 4, 5, 7} {
		if keys%rows == 0 {
			return rows, true
		}
	}
	return 0, false
}

const cellWidth = 12

// Render formats a grid with fixed-width columns, truncating long
// action names.
func Render(grid [][]string) string {
	var b strings.Builder
	for r, row := range grid {
		b.WriteString(fmt.Sprintf("Row %d: ", r))
		for _, name := range row {
			if len(name) > cellWidth {
				name = name[:cellWidth-2] + ".."
			}
			b.WriteString(fmt.Sprintf("%-*s ", cellWidth, name))
		}
		b.WriteString("\n")
	}
	return b.String()
}
