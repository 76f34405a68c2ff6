package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
)

// Column order of a pricelist CSV export.
const (
	colID = iota
	colProductName
	colSize
	colPrice
	colProductCode
	colWeight
	colQtyPerCarton
	colMOQ
	colCategory
	colDescription
	minColumns = colCategory + 1
)

// ParseCSV reads a pricelist export. The first record is the header. Rows that
// are too short, carry a non-integer id or an unknown category are skipped.
func ParseCSV(data []byte, log *zap.Logger) (Source, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Source{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return Source{}, fmt.Errorf("CSV is empty or has only headers")
	}

	var src Source
	for i, row := range records[1:] {
		line := i + 2
		if len(row) < minColumns {
			log.Warn("skipping row with insufficient columns", zap.Int("line", line), zap.Int("columns", len(row)))
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
		if err != nil {
			log.Warn("skipping row with invalid id", zap.Int("line", line), zap.String("id", row[colID]))
			continue
		}

		r := models.RawVariantRow{
			ID:           id,
			ProductName:  strings.TrimSpace(row[colProductName]),
			Size:         strings.TrimSpace(row[colSize]),
			Price:        models.Price(models.ParseNumber(row[colPrice])),
			ProductCode:  strings.TrimSpace(row[colProductCode]),
			Weight:       strings.TrimSpace(row[colWeight]),
			QtyPerCarton: models.FlexInt(models.ParseNumber(row[colQtyPerCarton])),
			MOQ:          models.FlexInt(models.ParseNumber(row[colMOQ])),
			Category:     strings.TrimSpace(row[colCategory]),
		}
		if len(row) > colDescription {
			r.Description = strings.TrimSpace(row[colDescription])
		}

		switch r.Category {
		case models.CategoryCubicle:
			src.Cubicle = append(src.Cubicle, r)
		case models.CategorySCS:
			src.SCS = append(src.SCS, r)
		default:
			log.Warn("skipping row with unknown category", zap.Int("line", line), zap.String("category", r.Category))
		}
	}
	return src, nil
}
