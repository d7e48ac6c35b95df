package sink

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rankscope/rankscope/internal/model"
)

// SheetsSink appends result rows to a Google Sheets worksheet using a
// service account. The status column doubles as the resume marker: rows
// already marked completed are skipped when a run restarts.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsSink authenticates with the service-account credentials file and
// ensures the worksheet carries the shared header row.
func NewSheetsSink(ctx context.Context, cfg model.SheetsConfig) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	s := &SheetsSink{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}

	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SheetsSink) Write(ctx context.Context, row *model.Row) error {
	record := Record(row)
	values := make([]interface{}, len(record))
	for i, v := range record {
		values[i] = v
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.dataRange(), &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row %q: %w", row.Keyword, err)
	}

	return nil
}

func (s *SheetsSink) Close() error {
	return nil
}

// CompletedKeywords returns the keywords whose rows are already marked
// completed, so a resumed run can skip them.
func (s *SheetsSink) CompletedKeywords(ctx context.Context) (map[string]bool, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.dataRange()).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	completed := make(map[string]bool)
	statusCol := len(Header) - 1

	for i, row := range resp.Values {
		if i == 0 {
			continue // header
		}
		if len(row) <= statusCol {
			continue
		}
		keyword, _ := row[0].(string)
		status, _ := row[statusCol].(string)
		if keyword != "" && status == StatusCompleted {
			completed[keyword] = true
		}
	}

	return completed, nil
}

func (s *SheetsSink) ensureHeader(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!A1:F1", s.sheetName)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	_, err = s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A1", s.sheetName), &sheets.ValueRange{
			Values: [][]interface{}{header},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

func (s *SheetsSink) dataRange() string {
	return fmt.Sprintf("%s!A:F", s.sheetName)
}
