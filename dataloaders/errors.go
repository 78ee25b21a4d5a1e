package dataloaders

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("record needs at least one history move and a label")
	ErrInvalidConfig   = errors.New("invalid reader configuration")
	ErrEmptySource     = errors.New("data source has no records")
	ErrSourceIO        = errors.New("data source i/o failure")
	ErrReaderClosed    = errors.New("reader is closed")
)

// FormatError reports a record that could not be turned into an example.
// Err is ErrMalformedRecord or one of the move token errors.
type FormatError struct {
	Line   int
	Record string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("record %d %q: %v", e.Line, e.Record, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SourceError is a failure to read or rewind the data source.
type SourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceIO, e.Err}
}
