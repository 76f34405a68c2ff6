package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/config"
	"github.com/thegioirubik/lubestation-service/pkg/pricing"
)

// SheetHeader is the first row of the orders spreadsheet.
var SheetHeader = []interface{}{
	"Timestamp", "Order ID", "Full Name", "Email", "Phone", "City", "Address",
	"Notes", "Items", "Subtotal", "Discount", "Shipping", "Total",
}

// valuesAPI is the slice of the Sheets values resource the sink needs.
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) (string, error)
}

// Sheets appends orders as rows of a Google spreadsheet.
type Sheets struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
	log           *zap.Logger
}

// NewSheets connects to the Sheets API with the service account from cfg.
func NewSheets(ctx context.Context, cfg config.SheetsConfig, log *zap.Logger) (*Sheets, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("GOOGLE_SHEET_ID is not set")
	}
	creds, err := serviceAccountJSON(cfg)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return newSheets(&sheetsValues{srv: srv}, cfg, log), nil
}

func newSheets(values valuesAPI, cfg config.SheetsConfig, log *zap.Logger) *Sheets {
	if log == nil {
		log = zap.NewNop()
	}
	name := cfg.SheetName
	if name == "" {
		name = "Sheet1"
	}
	return &Sheets{values: values, spreadsheetID: cfg.SpreadsheetID, sheetName: name, log: log}
}

// serviceAccountJSON prefers the base64 key file and falls back to the
// client email and private key pair.
func serviceAccountJSON(cfg config.SheetsConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.CredentialsJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to decode GOOGLE_CREDENTIALS_BASE64: %w", err)
		}
		return b, nil
	}
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, errors.New("google service account credentials are not configured")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": cfg.ClientEmail,
		// keys pasted into env files keep their newlines escaped
		"private_key": strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"token_uri":   "https://oauth2.googleapis.com/token",
	})
}

func (s *Sheets) rng(cells string) string {
	return s.sheetName + "!" + cells
}

// EnsureHeader writes the column headers when the first row is empty.
func (s *Sheets) EnsureHeader(ctx context.Context) error {
	rows, err := s.values.Get(ctx, s.spreadsheetID, s.rng("A1:M1"))
	if err != nil {
		return fmt.Errorf("failed to read sheet header: %w", err)
	}
	if len(rows) > 0 {
		return nil
	}
	if _, err := s.values.Append(ctx, s.spreadsheetID, s.rng("A1"), [][]interface{}{SheetHeader}); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}
	s.log.Info("initialized order sheet header", zap.String("sheet", s.sheetName))
	return nil
}

// Submit appends the order as a single row.
func (s *Sheets) Submit(ctx context.Context, rec models.OrderRecord) (models.OrderConfirmation, error) {
	if err := s.EnsureHeader(ctx); err != nil {
		return models.OrderConfirmation{}, err
	}
	updated, err := s.values.Append(ctx, s.spreadsheetID, s.rng("A:M"), [][]interface{}{Row(rec)})
	if err != nil {
		return models.OrderConfirmation{}, fmt.Errorf("failed to append order %s: %w", rec.ID, err)
	}
	s.log.Info("order appended to sheet", zap.String("order_id", rec.ID), zap.String("range", updated))
	return models.OrderConfirmation{OrderID: rec.ID, Range: updated}, nil
}

// ListOrders reads every order row below the header.
func (s *Sheets) ListOrders(ctx context.Context) ([]models.StoredOrder, error) {
	rows, err := s.values.Get(ctx, s.spreadsheetID, s.rng("A2:M"))
	if err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	orders := make([]models.StoredOrder, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, storedOrder(r))
	}
	return orders, nil
}

// Row renders an order in spreadsheet column order.
func Row(rec models.OrderRecord) []interface{} {
	p := rec.Payload
	return []interface{}{
		rec.CreatedAt.UTC().Format(isoMillis),
		rec.ID,
		p.FullName,
		p.Email,
		p.Phone,
		p.City,
		p.Address,
		p.Notes,
		ItemsText(p.Items),
		p.Subtotal,
		p.Discount,
		p.Shipping,
		p.Total,
	}
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ItemsText lists order lines one per line, e.g. "Lubicle Silk (3cc) x2 = 95.000₫".
func ItemsText(items []models.OrderItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) x%d = %s₫", it.ProductName, it.Size, it.Quantity, pricing.FormatVND(it.Price)))
	}
	return strings.Join(lines, "\n")
}

func storedOrder(r []interface{}) models.StoredOrder {
	cell := func(i int) string {
		if i >= len(r) || r[i] == nil {
			return ""
		}
		return fmt.Sprint(r[i])
	}
	return models.StoredOrder{
		Timestamp: cell(0),
		OrderID:   cell(1),
		FullName:  cell(2),
		Email:     cell(3),
		Phone:     cell(4),
		City:      cell(5),
		Address:   cell(6),
		Notes:     cell(7),
		Items:     cell(8),
		Subtotal:  models.ParseNumber(cell(9)),
		Discount:  models.ParseNumber(cell(10)),
		Shipping:  models.ParseNumber(cell(11)),
		Total:     models.ParseNumber(cell(12)),
	}
}

type sheetsValues struct {
	srv *sheets.Service
}

func (v *sheetsValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := v.srv.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *sheetsValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) (string, error) {
	resp, err := v.srv.Spreadsheets.Values.
		Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}
