package samples

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/alfredjeanlab/audit/internal/model"
)

// Loader resolves logical sample names to parsed log records.
type Loader struct {
	src    Source
	logger *slog.Logger
}

// NewLoader returns a Loader reading from src.
func NewLoader(src Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{src: src, logger: logger}
}

// Load reads the named sample and decodes it into a LogRecord.
func (l *Loader) Load(ctx context.Context, name string) (*model.LogRecord, error) {
	l.logger.Info("using mock datafile", "path", name)
	data, err := l.src.ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceMalformed, name, err)
	}
	return rec, nil
}

func decodeRecord(data []byte) (*model.LogRecord, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("not valid UTF-8")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var rec model.LogRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON object")
	}
	return &rec, nil
}
