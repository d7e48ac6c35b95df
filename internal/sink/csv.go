package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rankscope/rankscope/internal/model"
)

// CSVSink appends result rows to a local CSV file. Every write is flushed
// so an interrupted run keeps the rows produced so far.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink creates (or truncates) the file at path and writes the header.
func NewCSVSink(path string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}

	return &CSVSink{file: file, writer: writer}, nil
}

func (s *CSVSink) Write(_ context.Context, row *model.Row) error {
	if err := s.writer.Write(Record(row)); err != nil {
		return fmt.Errorf("write row %q: %w", row.Keyword, err)
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flush row %q: %w", row.Keyword, err)
	}

	return nil
}

func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
