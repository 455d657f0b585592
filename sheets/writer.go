package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"quotes-scraper/export"
	"quotes-scraper/models"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles writing quotes to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *zap.SugaredLogger
	now           func() time.Time
}

// NewWriter creates a new Google Sheets writer from a service account
// credentials file, or from GOOGLE_SHEETS_CREDENTIALS when the path is empty
func NewWriter(ctx context.Context, spreadsheetID string, credentialsPath string, logger *zap.SugaredLogger) (*Writer, error) {
	credsJSON, err := readCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}
	return NewWriterWithOptions(ctx, spreadsheetID, logger, option.WithCredentialsJSON(credsJSON))
}

// NewWriterWithOptions creates a writer with explicit client options
func NewWriterWithOptions(ctx context.Context, spreadsheetID string, logger *zap.SugaredLogger, opts ...option.ClientOption) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is empty")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheets service")
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		now:           time.Now,
	}, nil
}

func readCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte

	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read credentials file")
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, errors.New("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, errors.Wrap(err, "invalid credentials JSON")
	}
	if creds["type"] != "service_account" {
		return nil, errors.Newf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return credsJSON, nil
}

// Export implements the export.Exporter interface by writing the quotes to
// a new tab named after the current time
func (w *Writer) Export(ctx context.Context, quotes []models.Quote) error {
	sheetName := fmt.Sprintf("Quotes_%s", w.now().Format("20060102_150405"))
	_, _, err := w.CreateSheetAndWriteQuotes(ctx, sheetName, quotes)
	return err
}

// CreateSheetAndWriteQuotes creates a new sheet at the beginning of the
// spreadsheet and writes the header plus one row per quote.
// Returns the sheet name and sheet ID (gid) that was created.
func (w *Writer) CreateSheetAndWriteQuotes(ctx context.Context, sheetName string, quotes []models.Quote) (string, int64, error) {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Context(ctx).Do()
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to create sheet")
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}
	w.logger.Debugw("Created sheet", "sheet", sheetName, "sheet_id", sheetID)

	valueRange := &sheets.ValueRange{
		Values: buildValues(quotes),
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("%s!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to write to sheet")
	}

	w.logger.Infow("Wrote quotes to Google Sheets", "sheet", sheetName, "quotes", len(quotes))
	return sheetName, sheetID, nil
}

// buildValues lays out the header row followed by one row per quote
func buildValues(quotes []models.Quote) [][]interface{} {
	values := make([][]interface{}, 0, len(quotes)+1)

	header := make([]interface{}, len(models.QuoteFields))
	for i, f := range models.QuoteFields {
		header[i] = f
	}
	values = append(values, header)

	for _, q := range quotes {
		cells := export.Row(q)
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		values = append(values, row)
	}
	return values
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
// A bare ID is returned unchanged.
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		if strings.ContainsAny(url, "/?") {
			return ""
		}
		return strings.TrimSpace(url)
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
