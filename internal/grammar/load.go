package grammar

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Load reads a CUE file and compiles every grammar it declares.
func Load(path string) ([]*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes compiles the grammars in src. filename is used in error
// positions.
func LoadBytes(filename string, src []byte) ([]*Grammar, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileAll(v)
}

// LoadNamed loads the grammar called name from a file. An empty name is
// allowed when the file declares exactly one grammar.
func LoadNamed(path, name string) (*Grammar, error) {
	grammars, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Select(grammars, name)
}

// Select picks a grammar by name. An empty name selects the only grammar.
func Select(grammars []*Grammar, name string) (*Grammar, error) {
	if name == "" {
		if len(grammars) == 1 {
			return grammars[0], nil
		}
		return nil, fmt.Errorf("%d grammars declared, a name is required", len(grammars))
	}
	for _, g := range grammars {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, fmt.Errorf("grammar %q not found", name)
}
