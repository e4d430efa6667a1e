// Package google exports the CRM collections to a Google Spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"shootbook/internal/core"
	"shootbook/internal/log"
	ports "shootbook/internal/sheets"
)

var _ ports.Exporter = (*Client)(nil)

type Config struct {
	SpreadsheetID string
	ShootsSheet   string
	LeadsSheet    string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	shootsSheet   string
	leadsSheet    string
	logger        *log.Logger
}

// New creates an exporter. Without client options it authenticates with
// the service account named by GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if cfg.ShootsSheet == "" || cfg.LeadsSheet == "" {
		return nil, errors.New("missing sheet names")
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	if len(opts) == 0 {
		credOpts, err := serviceAccountOptions(ctx, logger)
		if err != nil {
			return nil, err
		}
		opts = credOpts
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		shootsSheet:   cfg.ShootsSheet,
		leadsSheet:    cfg.LeadsSheet,
		logger:        logger,
	}, nil
}

// serviceAccountOptions loads Service Account credentials from the environment.
func serviceAccountOptions(ctx context.Context, logger *log.Logger) ([]goption.ClientOption, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		logger.InfoContext(ctx, "Read service account credentials", "path", serviceAccountFile)
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return []goption.ClientOption{
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, nil
}

func (c *Client) ExportShoots(ctx context.Context, shoots []core.Shoot) (int, error) {
	if err := c.rewrite(ctx, c.shootsSheet, ports.ShootRows(shoots)); err != nil {
		return 0, fmt.Errorf("export shoots: %w", err)
	}
	return len(shoots), nil
}

func (c *Client) ExportLeads(ctx context.Context, leads []core.Lead) (int, error) {
	if err := c.rewrite(ctx, c.leadsSheet, ports.LeadRows(leads)); err != nil {
		return 0, fmt.Errorf("export leads: %w", err)
	}
	return len(leads), nil
}

// rewrite clears the sheet and writes rows from A1, so rows removed from the
// store disappear from the sheet too.
func (c *Client) rewrite(ctx context.Context, sheet string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}

	vr := &gsheet.ValueRange{Values: rows}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", sheet), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", sheet, err)
	}

	c.logger.InfoContext(ctx, "Sheet rewritten",
		"sheet", sheet,
		log.FieldRecordCount, len(rows)-1,
		"updated_cells", resp.UpdatedCells)
	return nil
}
