package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/thegioirubik/lubestation-service/models"
)

//go:embed data/*.json
var dataFS embed.FS

// Source is the raw input of Normalize.
type Source struct {
	Cubicle []models.RawVariantRow `json:"cubicle"`
	SCS     []models.RawVariantRow `json:"scs"`
	// Images maps product name to image URL.
	Images map[string]string `json:"-"`
	// Descriptions maps product name, then size, to the localized long description.
	Descriptions map[string]map[string]models.LocalizedText `json:"-"`
	// Brands maps a category to its display name.
	Brands map[string]string `json:"brands,omitempty"`
}

type pricelistCategory struct {
	Name     string                 `json:"name"`
	Products []models.RawVariantRow `json:"products"`
}

type pricelistFile struct {
	Categories struct {
		Cubicle pricelistCategory `json:"cubicle"`
		SCS     pricelistCategory `json:"scs"`
	} `json:"categories"`
}

type imagesFile struct {
	ProductImages map[string]string `json:"productImages"`
}

// DecodePricelist reads the pricelist, image and description documents.
func DecodePricelist(pricelist, images, descriptions io.Reader) (Source, error) {
	var pl pricelistFile
	if err := json.NewDecoder(pricelist).Decode(&pl); err != nil {
		return Source{}, fmt.Errorf("failed to decode pricelist: %w", err)
	}

	var img imagesFile
	if images != nil {
		if err := json.NewDecoder(images).Decode(&img); err != nil {
			return Source{}, fmt.Errorf("failed to decode product images: %w", err)
		}
	}

	var desc map[string]map[string]models.LocalizedText
	if descriptions != nil {
		if err := json.NewDecoder(descriptions).Decode(&desc); err != nil {
			return Source{}, fmt.Errorf("failed to decode product descriptions: %w", err)
		}
	}

	return Source{
		Cubicle:      pl.Categories.Cubicle.Products,
		SCS:          pl.Categories.SCS.Products,
		Images:       img.ProductImages,
		Descriptions: desc,
		Brands: map[string]string{
			models.CategoryCubicle: pl.Categories.Cubicle.Name,
			models.CategorySCS:     pl.Categories.SCS.Name,
		},
	}, nil
}

// DefaultSource decodes the pricelist bundled with the binary.
func DefaultSource() (Source, error) {
	pricelist, err := dataFS.Open("data/stock-pricelist.json")
	if err != nil {
		return Source{}, err
	}
	defer pricelist.Close()

	images, err := dataFS.Open("data/product-images.json")
	if err != nil {
		return Source{}, err
	}
	defer images.Close()

	descriptions, err := dataFS.Open("data/product-descriptions.json")
	if err != nil {
		return Source{}, err
	}
	defer descriptions.Close()

	return DecodePricelist(pricelist, images, descriptions)
}

// WithRows returns a copy of s whose rows are replaced by those of rows.
// Side tables and brand names are kept.
func (s Source) WithRows(rows Source) Source {
	s.Cubicle = rows.Cubicle
	s.SCS = rows.SCS
	return s
}
