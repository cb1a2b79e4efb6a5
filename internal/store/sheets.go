package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"listabot/internal/domain"
	"listabot/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient connects to one Google spreadsheet through a service
// account. Individual tabs are opened as RowStores.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsClient(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsClient, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsClient{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection reads one cell of the roster tab to verify credentials
// and sharing are in order.
func (c *SheetsClient) TestConnection(ctx context.Context, tab string) error {
	_, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, fmt.Sprintf("'%s'!A1", tab)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// ServiceAccountEmail extracts the account email from the credentials
// file, for the "share your sheet with..." startup hint.
func (c *SheetsClient) ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// OpenTab binds a RowStore to one tab of the spreadsheet. The header
// fixes the tab's width; the roster and the role tabs share a client.
func (c *SheetsClient) OpenTab(name string, header []string) domain.RowStore {
	return &sheetsTab{client: c, tab: name, header: header}
}

type sheetsTab struct {
	client *SheetsClient
	tab    string
	header []string
}

func (t *sheetsTab) dataRange() string {
	return fmt.Sprintf("'%s'!A:%c", t.tab, 'A'+len(t.header)-1)
}

func (t *sheetsTab) ReadAll(ctx context.Context) ([][]string, error) {
	resp, err := t.client.service.Spreadsheets.Values.Get(t.client.spreadsheetID, t.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, t.tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, models.PadRow(row, len(t.header)))
	}
	return rows, nil
}

// OverwriteAll replaces the whole tab, header included, in one update.
func (t *sheetsTab) OverwriteAll(ctx context.Context, rows [][]string) error {
	_, err := t.client.service.Spreadsheets.Values.Clear(t.client.spreadsheetID, t.dataRange(), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: clear %s: %v", domain.ErrStoreUnavailable, t.tab, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaceRow(t.header))
	for _, row := range rows {
		values = append(values, toInterfaceRow(models.PadRow(row, len(t.header))))
	}

	_, err = t.client.service.Spreadsheets.Values.Update(t.client.spreadsheetID, fmt.Sprintf("'%s'!A1", t.tab), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: overwrite %s: %v", domain.ErrStoreUnavailable, t.tab, err)
	}
	return nil
}

// UpdateCell writes one cell. row is the physical 1-based sheet row
// (header is row 1), col is 0-based.
func (t *sheetsTab) UpdateCell(ctx context.Context, row, col int, value string) error {
	cell := fmt.Sprintf("'%s'!%c%d", t.tab, 'A'+col, row)
	_, err := t.client.service.Spreadsheets.Values.Update(t.client.spreadsheetID, cell, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrStoreUnavailable, cell, err)
	}
	return nil
}

func (t *sheetsTab) AppendRow(ctx context.Context, row []string) error {
	_, err := t.client.service.Spreadsheets.Values.Append(t.client.spreadsheetID, t.dataRange(), &sheets.ValueRange{
		Values: [][]interface{}{toInterfaceRow(models.PadRow(row, len(t.header)))},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", domain.ErrStoreUnavailable, t.tab, err)
	}
	return nil
}

func toInterfaceRow(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
