// Package samples provides the canned circulation log records that can be
// seeded into a freshly provisioned tenant.
package samples

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

// Dir is the logical directory that sample names are resolved under.
const Dir = "samples"

// Catalog lists the sample files seeded into a tenant. Order carries no meaning.
var Catalog = []string{
	"fee_fine.json",
	"item_block.json",
	"loan.json",
	"manual_block.json",
	"notice.json",
	"patron_block.json",
	"request.json",
}

var (
	// ErrResourceMissing is returned when a sample cannot be located.
	ErrResourceMissing = errors.New("sample resource missing")
	// ErrResourceMalformed is returned when a sample is not a JSON log record.
	ErrResourceMalformed = errors.New("sample resource malformed")
)

// LogicalName returns the resource name of a catalog entry.
func LogicalName(entry string) string {
	return Dir + "/" + entry
}

//go:embed samples/*.json
var embedded embed.FS

// Source reads a sample by logical name. Implementations report a missing
// resource with an error wrapping ErrResourceMissing.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// FSSource reads samples from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a Source backed by fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Embedded returns the Source holding the samples compiled into the binary.
func Embedded() *FSSource {
	return NewFSSource(embedded)
}

func (s *FSSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("%w: %s", ErrResourceMissing, name)
		}
		return nil, fmt.Errorf("read sample %s: %w", name, err)
	}
	return data, nil
}
