// Package navigator walks the catalog tree one level at a time:
// device, then firmware version, then a dataset file. Each level is
// either chosen interactively through a Selector or pinned by an
// explicit override.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"fwbrowse/pkg/catalog"
)

// DefaultDataset is fetched when no dataset name is given.
const DefaultDataset = "actions.json"

// ErrAborted reports that the user cancelled an interactive step. It is
// normal termination, not a failure.
var ErrAborted = errors.New("selection aborted")

// Source fetches the three catalog levels. *catalog.Client satisfies
// this; tests and the caching layer wrap it.
type Source interface {
	Devices(ctx context.Context) ([]catalog.Entry, error)
	Firmwares(ctx context.Context, device string) ([]catalog.Entry, error)
	Dataset(ctx context.Context, device, firmware, name string) ([]byte, error)
}

// Selector presents a list of names and returns the chosen one, or ""
// when the user aborts.
type Selector interface {
	Select(title string, options []string) (string, error)
}

// Path is the accumulated selection for one run. Each field is set
// exactly once; there is no backtracking.
type Path struct {
	Device   string
	Firmware string
	Dataset  string
}

// Overrides pin levels ahead of time, skipping the corresponding
// interactive step. Device and Firmware are validated against the
// fetched catalog; Dataset is passed through since dataset files are
// not enumerated by the endpoint.
type Overrides struct {
	Device   string
	Firmware string
	Dataset  string
}

// UnknownEntryError reports an override that is not present in the
// fetched catalog, with the nearest catalog name as a hint.
type UnknownEntryError struct {
	Kind       string
	Name       string
	Suggestion string
}

func (e *UnknownEntryError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Kind, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

type Navigator struct {
	Source   Source
	Selector Selector
}

// Run walks the full tree and returns the final path together with the
// fetched dataset bytes. Any transport or parse error aborts the run;
// no later level is fetched after a failure.
func (n *Navigator) Run(ctx context.Context, ov Overrides) (Path, []byte, error) {
	path, err := n.ResolvePair(ctx, ov)
	if err != nil {
		return Path{}, nil, err
	}

	path.Dataset = ov.Dataset
	if path.Dataset == "" {
		path.Dataset = DefaultDataset
	}

	slog.Debug("Fetching dataset", "device", path.Device, "firmware", path.Firmware, "dataset", path.Dataset)
	doc, err := n.Source.Dataset(ctx, path.Device, path.Firmware, path.Dataset)
	if err != nil {
		return Path{}, nil, err
	}
	return path, doc, nil
}

// ResolvePair walks only the device and firmware levels. Used directly
// by commands that fetch several datasets for one pair.
func (n *Navigator) ResolvePair(ctx context.Context, ov Overrides) (Path, error) {
	var path Path

	devices, err := n.Source.Devices(ctx)
	if err != nil {
		return Path{}, err
	}
	path.Device, err = n.choose("device", devices, ov.Device)
	if err != nil {
		return Path{}, err
	}

	firmwares, err := n.Source.Firmwares(ctx, path.Device)
	if err != nil {
		return Path{}, err
	}
	path.Firmware, err = n.choose("firmware", firmwares, ov.Firmware)
	if err != nil {
		return Path{}, err
	}

	return path, nil
}

func (n *Navigator) choose(kind string, entries []catalog.Entry, override string) (string, error) {
	names := catalog.Names(entries)

	if override != "" {
		if slices.Contains(names, override) {
			return override, nil
		}
		return "", &UnknownEntryError{Kind: kind, Name: override, Suggestion: nearest(override, names)}
	}

	if len(names) == 0 {
		return "", fmt.Errorf("empty %s catalog", kind)
	}

	choice, err := n.Selector.Select("Select "+kind, names)
	if err != nil {
		return "", err
	}
	if choice == "" {
		return "", ErrAborted
	}
	return choice, nil
}

// nearest returns the candidate with the smallest case-insensitive edit
// distance to name, or "" when there are no candidates.
func nearest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || dist < bestDist {
			best = c
			bestDist = dist
		}
	}
	return best
}
