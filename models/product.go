package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Supplier categories of the pricelist.
const (
	CategoryCubicle = "TheCubicle"
	CategorySCS     = "SpeedCubeShop"
)

// RawVariantRow is one size/price record as it appears in the pricelist source.
type RawVariantRow struct {
	ID           int     `json:"id"`
	ProductName  string  `json:"productName"`
	Size         string  `json:"size"`
	Price        Price   `json:"price"`
	ProductCode  string  `json:"productCode"`
	Weight       string  `json:"weight"`
	QtyPerCarton FlexInt `json:"qtyPerCarton"`
	MOQ          FlexInt `json:"moq"`
	Category     string  `json:"category,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// Product groups the sellable variants of one product name within a category.
type Product struct {
	ProductName string           `json:"productName"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Variants    []ProductVariant `json:"variants"`
	ImageURL    string           `json:"imageUrl,omitempty"`
}

// ProductVariant is a single sellable size of a product. ID is unique across the catalog.
type ProductVariant struct {
	ID                  int            `json:"id"`
	ProductCode         string         `json:"productCode"`
	Size                string         `json:"size"`
	Price               float64        `json:"price"`
	Weight              string         `json:"weight"`
	QtyPerCarton        FlexInt        `json:"qtyPerCarton"`
	MOQ                 FlexInt        `json:"moq"`
	DetailedDescription *LocalizedText `json:"detailedDescription,omitempty"`
}

// LocalizedText holds the long-form description in both shop languages.
type LocalizedText struct {
	EN string `json:"en"`
	VN string `json:"vn"`
}

// Price is a VND amount that may arrive as a JSON number or a numeric string.
// Values that cannot be read as a number decode to 0.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price(decodeLooseNumber(data))
	return nil
}

// FlexInt is an integer carried through from the pricelist that may be encoded as a string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(decodeLooseNumber(data))
	return nil
}

func decodeLooseNumber(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		return ParseNumber(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0
	}
	return v
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the longest numeric prefix of s ("5cc" is 5, "10 ml" is 10).
// Anything without a numeric prefix is 0.
func ParseNumber(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
