package api

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
	"github.com/thegioirubik/lubestation-service/pkg/catalog"
)

type listedProduct struct {
	models.Product
	SubCategory string `json:"subCategory"`
}

type productsBody struct {
	Products      []listedProduct   `json:"products"`
	SubCategories []string          `json:"subCategories"`
	Brands        map[string]string `json:"brands,omitempty"`
}

// ProductsHandler serves GET /products.
type ProductsHandler struct {
	loader *CatalogLoader
	cors   CORS
	log    *zap.Logger
}

// NewProductsHandler lists the catalog loaded per request by loader.
func NewProductsHandler(loader *CatalogLoader, cors CORS, log *zap.Logger) *ProductsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductsHandler{loader: loader, cors: cors, log: log}
}

// Handle filters the listing by query-string parameters.
func (h *ProductsHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := h.cors.headers(req, "GET, OPTIONS")
	if req.HTTPMethod == http.MethodOptions {
		return preflight(headers), nil
	}

	q := catalog.Query{
		Brand:       req.QueryStringParameters["brand"],
		SubCategory: req.QueryStringParameters["subcategory"],
		Search:      req.QueryStringParameters["q"],
	}
	if !catalog.ValidBrand(q.Brand) {
		return respondError(apperr.InvalidErr("Unknown brand.", map[string]string{"brand": "Use all, cubicle or scs."}), headers, h.log), nil
	}

	c := h.loader.Load(ctx)
	found := c.Filter(q)
	body := productsBody{
		Products:      make([]listedProduct, 0, len(found)),
		SubCategories: catalog.BrandSubCategories(q.Brand),
		Brands:        c.Brands(),
	}
	for _, p := range found {
		body.Products = append(body.Products, listedProduct{Product: p, SubCategory: catalog.Classify(p.ProductName, p.Category)})
	}

	h.log.Info("products listed",
		zap.String("brand", q.Brand),
		zap.String("subcategory", q.SubCategory),
		zap.Int("count", len(body.Products)),
	)
	headers["Cache-Control"] = "public, max-age=300, must-revalidate"
	return respond(http.StatusOK, headers, body, h.log), nil
}
