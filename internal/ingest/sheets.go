package ingest

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"athletepulse/internal/dataprocessing"
)

// SheetsSource reads a table from a Google Sheets range.
type SheetsSource struct {
	Table         string
	SpreadsheetID string
	// Range is an A1 range such as "Global!A:G". A bare sheet name reads the whole sheet.
	Range string

	APIKey          string
	CredentialsFile string
	// Options override the credential fields when set. Tests point them at an httptest server.
	Options []option.ClientOption
}

// Name implements Source.
func (s SheetsSource) Name() string {
	return s.Table
}

func (s SheetsSource) clientOptions() []option.ClientOption {
	if len(s.Options) > 0 {
		return s.Options
	}
	var opts []option.ClientOption
	switch {
	case s.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	case s.APIKey != "":
		opts = append(opts, option.WithAPIKey(s.APIKey))
	}
	return append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
}

// Load implements Source.
func (s SheetsSource) Load(ctx context.Context) (dataprocessing.Table, error) {
	srv, err := sheets.NewService(ctx, s.clientOptions()...)
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("failed to create sheets client: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return dataprocessing.Table{}, fmt.Errorf("failed to read range %q: %w", s.Range, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return tableFromRows(s.Table, rows), nil
}
