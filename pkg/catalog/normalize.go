package catalog

import (
	"sort"
	"strings"

	"github.com/thegioirubik/lubestation-service/models"
)

// MaxSellableSize is the largest bottle size (in cc) offered for pre-order.
const MaxSellableSize = 10

// Normalize groups raw rows into products, keeps only sellable variants sorted by
// size, and drops accessory products. Products keep first-seen order.
func Normalize(src Source) []models.Product {
	rows := make([]models.RawVariantRow, 0, len(src.Cubicle)+len(src.SCS))
	for _, r := range src.Cubicle {
		r.Category = models.CategoryCubicle
		rows = append(rows, r)
	}
	for _, r := range src.SCS {
		r.Category = models.CategorySCS
		rows = append(rows, r)
	}

	var keys []string
	grouped := make(map[string]*models.Product)

	for _, r := range rows {
		key := r.Category + "|" + r.ProductName
		p, ok := grouped[key]
		if !ok {
			p = &models.Product{
				ProductName: r.ProductName,
				Description: r.Description,
				Category:    r.Category,
				ImageURL:    src.Images[r.ProductName],
			}
			grouped[key] = p
			keys = append(keys, key)
		}

		p.Variants = append(p.Variants, variantOf(r, src.Descriptions))

		if r.Description != "" && p.Description == "" {
			p.Description = r.Description
		}
	}

	products := make([]models.Product, 0, len(keys))
	for _, key := range keys {
		p := grouped[key]
		p.Variants = sellable(p.Variants)
		if isAccessory(p.ProductName) || len(p.Variants) == 0 {
			continue
		}
		products = append(products, *p)
	}
	return products
}

func variantOf(r models.RawVariantRow, descriptions map[string]map[string]models.LocalizedText) models.ProductVariant {
	v := models.ProductVariant{
		ID:           r.ID,
		ProductCode:  r.ProductCode,
		Size:         r.Size,
		Price:        float64(r.Price),
		Weight:       r.Weight,
		QtyPerCarton: r.QtyPerCarton,
		MOQ:          r.MOQ,
	}
	if bySize, ok := descriptions[r.ProductName]; ok {
		if d, ok := bySize[r.Size]; ok {
			v.DetailedDescription = &d
		}
	}
	return v
}

// sellable filters out large formats and unpriced rows, then orders by size.
func sellable(variants []models.ProductVariant) []models.ProductVariant {
	kept := variants[:0:0]
	for _, v := range variants {
		if SizeOf(v) <= MaxSellableSize && v.Price > 0 {
			kept = append(kept, v)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return SizeOf(kept[i]) < SizeOf(kept[j])
	})
	return kept
}

// SizeOf is the numeric size of a variant; non-numeric sizes count as 0.
func SizeOf(v models.ProductVariant) float64 {
	return models.ParseNumber(v.Size)
}

// isAccessory reports label stickers and empty bottles.
func isAccessory(name string) bool {
	return strings.Contains(name, "Label") || strings.Contains(strings.ToLower(name), "bottle")
}
