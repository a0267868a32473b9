package compiler

import (
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/hypermatch/internal/query"
)

// LoadDir builds the CUE package in dir.
func LoadDir(dir string) (cue.Value, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, formatCUEError(inst.Err)
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// LoadFile compiles a single CUE file.
func LoadFile(path string) (cue.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("reading %s: %w", path, err)
	}
	v := cuecontext.New().CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}

// LoadDocumentFiles compiles each file as its own document and merges
// them in argument order. Query names must be unique across files.
func LoadDocumentFiles(paths ...string) (query.Document, error) {
	merged := query.Document{Atoms: []query.Term{}, Queries: []query.Query{}}
	seen := make(map[string]string)
	for _, p := range paths {
		v, err := LoadFile(p)
		if err != nil {
			return query.Document{}, err
		}
		doc, err := CompileDocument(v)
		if err != nil {
			return query.Document{}, err
		}
		merged.Atoms = append(merged.Atoms, doc.Atoms...)
		for _, q := range doc.Queries {
			if prev, ok := seen[q.Name]; ok {
				return query.Document{}, fmt.Errorf("query %q defined in both %s and %s", q.Name, prev, p)
			}
			seen[q.Name] = p
			merged.Queries = append(merged.Queries, q)
		}
	}
	sort.Slice(merged.Queries, func(i, j int) bool {
		return merged.Queries[i].Name < merged.Queries[j].Name
	})
	return merged, nil
}
