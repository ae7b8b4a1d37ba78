package source

import (
	"context"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	pkgio "github.com/matzehuels/lineage/pkg/io"
)

// File loads a record tree from a YAML or JSON file.
type File struct {
	path string
}

// NewFile validates path and returns a file loader.
func NewFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &File{path: path}, nil
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) (*family.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pkgio.ImportFile(f.path)
}

// Locator returns the file path.
func (f *File) Locator() string { return f.path }

// Path returns the file path.
func (f *File) Path() string { return f.path }

var _ Loader = (*File)(nil)
