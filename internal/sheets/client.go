package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/opyta/sistema-financeiro/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	_ service.Workbook       = (*Client)(nil)
	_ service.TableFormatter = (*Client)(nil)
	_ service.Identity       = (*Client)(nil)
)

// Client reads and writes spreadsheet tabs through the Google Sheets API.
type Client struct {
	service  *sheets.Service
	logger   *slog.Logger
	sheetIDs map[string]int64
	config   Config
	mu       sync.Mutex
}

// NewClient creates a Google Sheets client from credentials in config.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewClientWithService(srv, config, logger), nil
}

// NewClientWithService wraps an already configured Sheets service.
func NewClientWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		service: srv,
		config:  config,
		logger:  logger,
	}
}

// SpreadsheetID returns the identifier of the connected spreadsheet.
func (c *Client) SpreadsheetID() string {
	return c.config.SpreadsheetID
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// ReadTable reads every cell of the tab. Numbers come back unformatted and
// dates as their displayed text.
func (c *Client) ReadTable(ctx context.Context, name string) (model.Table, error) {
	var resp *sheets.ValueRange

	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = c.service.Spreadsheets.Values.Get(c.config.SpreadsheetID, QuoteSheet(name)).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("FORMATTED_STRING").
			Context(ctx).
			Do()
		return classifyError(name, callErr)
	}, c.retryOptions())
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read tab %q: %w", name, err)
	}

	table := model.Table{}
	if len(resp.Values) == 0 {
		return table, nil
	}

	table.Header = make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		table.Header[i] = model.CellString(v)
	}
	table.Rows = resp.Values[1:]

	c.logger.Debug("read tab", "tab", name, "rows", len(table.Rows))
	return table, nil
}

// UpdateRow overwrites a single row in place.
func (c *Client) UpdateRow(ctx context.Context, name string, row int, values []any) error {
	rng := RowRange(name, row, len(values))
	_, err := c.service.Spreadsheets.Values.Update(c.config.SpreadsheetID, rng, &sheets.ValueRange{
		Values: [][]any{values},
	}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rng, err)
	}

	c.logger.Debug("updated row", "range", rng)
	return nil
}

// AppendRow appends a row to the tab, creating the tab when it does not exist yet.
func (c *Client) AppendRow(ctx context.Context, name string, values []any) error {
	if _, err := c.ensureSheet(ctx, name); err != nil {
		return err
	}

	_, err := c.service.Spreadsheets.Values.Append(c.config.SpreadsheetID, QuoteSheet(name)+"!A1", &sheets.ValueRange{
		Values: [][]any{values},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to tab %q: %w", name, err)
	}

	return nil
}

// FormatTable styles a written tab: bold frozen header and currency columns
// from the third column onwards.
func (c *Client) FormatTable(ctx context.Context, name string, columns int) error {
	if !c.config.EnableFormatting {
		return nil
	}

	sheetID, err := c.ensureSheet(ctx, name)
	if err != nil {
		return err
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: tableFormatRequests(sheetID, columns, c.config.CurrencyPattern),
	}

	_, err = c.service.Spreadsheets.BatchUpdate(c.config.SpreadsheetID, batchUpdate).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to format tab %q: %w", name, err)
	}
	return nil
}

// ensureSheet returns the numeric id of the tab, adding the tab when missing.
func (c *Client) ensureSheet(ctx context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sheetIDs == nil {
		spreadsheet, err := c.service.Spreadsheets.Get(c.config.SpreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		if err != nil {
			return 0, fmt.Errorf("unable to access spreadsheet %s: %w", c.config.SpreadsheetID, err)
		}

		c.sheetIDs = make(map[string]int64, len(spreadsheet.Sheets))
		for _, sh := range spreadsheet.Sheets {
			if sh.Properties != nil {
				c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
			}
		}
	}

	if id, ok := c.sheetIDs[name]; ok {
		return id, nil
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(c.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to create tab %q: %w", name, err)
	}

	var id int64
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		id = resp.Replies[0].AddSheet.Properties.SheetId
	}
	c.sheetIDs[name] = id

	c.logger.Info("created tab", "tab", name, "sheet_id", id)
	return id, nil
}

func (c *Client) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  c.config.RetryAttempts,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// classifyError maps API failures onto the retry and not-found taxonomy.
func classifyError(tab string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
		return fmt.Errorf("%w: %s", common.ErrTableNotFound, tab)
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}
