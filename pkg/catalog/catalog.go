package catalog

import (
	"strings"

	"github.com/thegioirubik/lubestation-service/models"
)

// Brand tabs of the storefront.
const (
	BrandAll     = "all"
	BrandCubicle = "cubicle"
	BrandSCS     = "scs"
)

var brandCategories = map[string]string{
	BrandCubicle: models.CategoryCubicle,
	BrandSCS:     models.CategorySCS,
}

// ValidBrand reports whether brand names a storefront tab. Empty means all.
func ValidBrand(brand string) bool {
	if brand == "" || brand == BrandAll {
		return true
	}
	_, ok := brandCategories[brand]
	return ok
}

// BrandSubCategories returns the filter chips of a brand tab; the "all" tab has none.
func BrandSubCategories(brand string) []string {
	category, ok := brandCategories[brand]
	if !ok {
		return []string{}
	}
	return SubCategories[category]
}

// Query narrows the product listing.
type Query struct {
	Brand       string
	SubCategory string
	Search      string
}

type variantRef struct {
	product int
	variant int
}

// Catalog is the normalized, read-only product catalog. It is built once and
// shared by all requests.
type Catalog struct {
	products []models.Product
	variants map[int]variantRef
	brands   map[string]string
}

// New indexes products by variant id. When two variants share an id the first wins.
func New(products []models.Product, brands map[string]string) *Catalog {
	c := &Catalog{
		products: products,
		variants: make(map[int]variantRef),
		brands:   brands,
	}
	for pi, p := range products {
		for vi, v := range p.Variants {
			if _, dup := c.variants[v.ID]; !dup {
				c.variants[v.ID] = variantRef{product: pi, variant: vi}
			}
		}
	}
	return c
}

// Load normalizes src and indexes the result.
func Load(src Source) *Catalog {
	return New(Normalize(src), src.Brands)
}

// Products returns the catalog in display order. Callers must not modify it.
func (c *Catalog) Products() []models.Product {
	return c.products
}

// Brands returns the display name per category.
func (c *Catalog) Brands() map[string]string {
	return c.brands
}

// Variant looks up a variant and the name of the product it belongs to.
func (c *Catalog) Variant(id int) (string, models.ProductVariant, bool) {
	ref, ok := c.variants[id]
	if !ok {
		return "", models.ProductVariant{}, false
	}
	p := c.products[ref.product]
	return p.ProductName, p.Variants[ref.variant], true
}

// Filter applies the brand tab, sub-category chip and free-text search.
func (c *Catalog) Filter(q Query) []models.Product {
	category := brandCategories[q.Brand]
	search := strings.ToLower(q.Search)

	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		if q.SubCategory != "" && q.SubCategory != SubCategoryAll && Classify(p.ProductName, p.Category) != q.SubCategory {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.ProductName), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}
