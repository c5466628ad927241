// Package graphfile loads causal graph definitions from CUE or JSON files.
//
// CUE files declare a top-level graph struct and are unified against the
// embedded schema before decoding, so malformed definitions fail with file
// positions. JSON files use the bare graph object format the HTTP API
// accepts.
package graphfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/causalsim/causalsim/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// LoadGraph reads a graph definition from a .cue or .json file.
func LoadGraph(path string) (*model.CausalGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return loadCUE(path, data)
	case ".json":
		return loadJSON(path, data)
	default:
		return nil, fmt.Errorf("unsupported graph file extension %q (want .cue or .json)", filepath.Ext(path))
	}
}

// LoadDir loads every .cue and .json graph definition in a directory,
// in lexical filename order.
func LoadDir(dir string) ([]model.CausalGraph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read graph dir: %w", err)
	}

	var graphs []model.CausalGraph
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".cue" && ext != ".json" {
			continue
		}
		g, err := LoadGraph(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, *g)
	}
	if len(graphs) == 0 {
		return nil, fmt.Errorf("no graph files found in %s", dir)
	}
	return graphs, nil
}

func loadCUE(path string, data []byte) (*model.CausalGraph, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal schema error: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	graphVal := unified.LookupPath(cue.ParsePath("graph"))
	if !graphVal.Exists() {
		return nil, fmt.Errorf("%s: missing top-level graph struct", path)
	}

	// Route through JSON so the Value union decodes via the model's own
	// unmarshalers - cue.Value.Decode cannot target an interface field.
	raw, err := graphVal.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return loadJSON(path, raw)
}

func loadJSON(path string, data []byte) (*model.CausalGraph, error) {
	var g model.CausalGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.ID == "" {
		return nil, fmt.Errorf("%s: graph id is required", path)
	}
	return &g, nil
}

// formatCUEError flattens a CUE error list into one error with positions.
func formatCUEError(err error) error {
	details := cueerrors.Details(err, nil)
	return fmt.Errorf("graph definition error:\n%s", strings.TrimRight(details, "\n"))
}
