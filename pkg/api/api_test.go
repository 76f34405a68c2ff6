package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/catalog"
	"github.com/thegioirubik/lubestation-service/pkg/config"
	"github.com/thegioirubik/lubestation-service/pkg/order"
)

func bundled(t *testing.T) catalog.Source {
	t.Helper()
	src, err := catalog.DefaultSource()
	require.NoError(t, err)
	return src
}

type memoryCache struct {
	mu       sync.Mutex
	products []models.Product
	src      *catalog.Source
	stores   int
	version  int64
	verErr   error
}

func (m *memoryCache) Products(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.products) == 0 {
		return nil, cache.ErrMiss
	}
	return m.products, nil
}

func (m *memoryCache) StoreProducts(_ context.Context, products []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	m.stores++
	return nil
}

func (m *memoryCache) Source(context.Context) (catalog.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.src == nil {
		return catalog.Source{}, cache.ErrMiss
	}
	return *m.src, nil
}

func (m *memoryCache) StoreSource(_ context.Context, src catalog.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.src = &src
	m.version++
	return nil
}

func (m *memoryCache) Version(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version, m.verErr
}

func (m *memoryCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	return nil
}

func decode(t *testing.T, resp events.APIGatewayProxyResponse, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(resp.Body), v))
}

func get(query map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: query}
}

func post(body string, headers map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body, Headers: headers}
}

func TestProducts_ColdStartPopulatesCache(t *testing.T) {
	mc := &memoryCache{}
	loader := NewCatalogLoader(bundled(t), mc, mc, nil)
	h := NewProductsHandler(loader, CORS{}, nil)

	resp, err := h.Handle(context.Background(), get(nil))
	require.NoError(t, err)
	loader.Wait()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=300, must-revalidate", resp.Headers["Cache-Control"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var body struct {
		Products []struct {
			ProductName string `json:"productName"`
			SubCategory string `json:"subCategory"`
		} `json:"products"`
		SubCategories []string `json:"subCategories"`
	}
	decode(t, resp, &body)
	assert.Len(t, body.Products, 11)
	assert.Empty(t, body.SubCategories)
	assert.Equal(t, 1, mc.stores)
	assert.Len(t, mc.products, 11)
}

func TestProducts_FiltersByBrandAndSubCategory(t *testing.T) {
	h := NewProductsHandler(NewCatalogLoader(bundled(t), nil, nil, nil), CORS{}, nil)

	resp, err := h.Handle(context.Background(), get(map[string]string{"brand": "scs", "subcategory": "Cosmic Lube"}))
	require.NoError(t, err)

	var body struct {
		Products []struct {
			ProductName string `json:"productName"`
			SubCategory string `json:"subCategory"`
		} `json:"products"`
		SubCategories []string `json:"subCategories"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Cosmic Lube Lunar", body.Products[0].ProductName)
	assert.Equal(t, "Cosmic Lube", body.Products[1].SubCategory)
	assert.Equal(t, catalog.SubCategories[models.CategorySCS], body.SubCategories)
}

func TestProducts_UnknownBrand(t *testing.T) {
	h := NewProductsHandler(NewCatalogLoader(bundled(t), nil, nil, nil), CORS{}, nil)

	resp, err := h.Handle(context.Background(), get(map[string]string{"brand": "gan"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCatalogLoader_PrefersImportedRows(t *testing.T) {
	mc := &memoryCache{src: &catalog.Source{
		SCS: []models.RawVariantRow{{ID: 900, ProductName: "Adheron", Size: "5cc", Price: 99000}},
	}}
	loader := NewCatalogLoader(bundled(t), mc, mc, nil)

	c := loader.Load(context.Background())
	loader.Wait()

	require.Len(t, c.Products(), 1)
	name, v, ok := c.Variant(900)
	require.True(t, ok)
	assert.Equal(t, "Adheron", name)
	assert.Equal(t, 99000.0, v.Price)
}

func TestCatalogLoader_ServesWarmCache(t *testing.T) {
	cached := []models.Product{{ProductName: "Cached", Category: models.CategorySCS, Variants: []models.ProductVariant{{ID: 1, Size: "5cc", Price: 1}}}}
	mc := &memoryCache{products: cached}

	c := NewCatalogLoader(bundled(t), mc, mc, nil).Load(context.Background())

	assert.Equal(t, cached, c.Products())
	assert.Zero(t, mc.stores)
}

func adheron(price models.Price) catalog.Source {
	return catalog.Source{SCS: []models.RawVariantRow{{ID: 900, ProductName: "Adheron", Size: "5cc", Price: price}}}
}

func TestLiveCatalog_FollowsImports(t *testing.T) {
	ctx := context.Background()
	mc := &memoryCache{}
	require.NoError(t, mc.StoreSource(ctx, adheron(99000)))
	loader := NewCatalogLoader(bundled(t), mc, mc, nil)

	live := NewLiveCatalog(ctx, loader, mc)
	loader.Wait()
	_, v, ok := live.Variant(900)
	require.True(t, ok)
	assert.Equal(t, 99000.0, v.Price)

	before := live.Catalog()
	live.Refresh(ctx)
	assert.Same(t, before, live.Catalog(), "unchanged version keeps the catalog")

	// The normalized cache still holds the old rows; the rebuild reads the import.
	require.NoError(t, mc.StoreSource(ctx, adheron(120000)))
	live.Refresh(ctx)
	loader.Wait()
	_, v, ok = live.Variant(900)
	require.True(t, ok)
	assert.Equal(t, 120000.0, v.Price)
}

func TestLiveCatalog_KeepsCatalogWhenVersionUnreadable(t *testing.T) {
	ctx := context.Background()
	mc := &memoryCache{}
	require.NoError(t, mc.StoreSource(ctx, adheron(99000)))
	loader := NewCatalogLoader(bundled(t), mc, mc, nil)
	live := NewLiveCatalog(ctx, loader, mc)
	loader.Wait()

	require.NoError(t, mc.StoreSource(ctx, adheron(120000)))
	mc.mu.Lock()
	mc.verErr = errors.New("redis: connection refused")
	mc.mu.Unlock()
	live.Refresh(ctx)

	_, v, _ := live.Variant(900)
	assert.Equal(t, 99000.0, v.Price)
}

func TestLiveCatalog_WithoutVersionsIsStatic(t *testing.T) {
	live := NewLiveCatalog(context.Background(), NewCatalogLoader(bundled(t), nil, nil, nil), nil)
	before := live.Catalog()

	live.Refresh(context.Background())

	assert.Same(t, before, live.Catalog())
	assert.Len(t, before.Products(), 11)
}

func TestQuote(t *testing.T) {
	h := NewQuoteHandler(catalog.Load(bundled(t)), CORS{}, nil)

	resp, err := h.Handle(context.Background(), post(`{"items":{"201":2,"203":1},"city":"Hồ Chí Minh"}`, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Totals struct {
			Subtotal, Discount, Shipping, Total float64
		} `json:"totals"`
		Formatted struct {
			Total string `json:"total"`
		} `json:"formatted"`
		Units         int    `json:"units"`
		ShippingLabel string `json:"shippingLabel"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 390000.0, body.Totals.Subtotal)
	assert.Equal(t, 386000.0, body.Totals.Total)
	assert.Equal(t, "386.000 ₫", body.Formatted.Total)
	assert.Equal(t, 3, body.Units)
	assert.Equal(t, "(HCM)", body.ShippingLabel)
}

func TestQuote_EmptyCart(t *testing.T) {
	h := NewQuoteHandler(catalog.Load(bundled(t)), CORS{}, nil)

	resp, err := h.Handle(context.Background(), post(`{"items":{}}`, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"empty":true}`, resp.Body)
}

func TestQuote_BadJSON(t *testing.T) {
	h := NewQuoteHandler(catalog.Load(bundled(t)), CORS{}, nil)

	resp, err := h.Handle(context.Background(), post(`{"items":[1,2]}`, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fakeSubmitter struct {
	got order.Request
	res *order.Result
	err error
}

func (f *fakeSubmitter) Submit(_ context.Context, req order.Request) (*order.Result, error) {
	f.got = req
	return f.res, f.err
}

const orderJSON = `{"full_name":"Nguyễn Văn A","email":"a@example.com","phone":"0912345678","city":"Hồ Chí Minh","address":"1 Lê Lợi","items":{"201":2}}`

func TestOrders_Created(t *testing.T) {
	sub := &fakeSubmitter{res: &order.Result{OrderID: "ORD-1718000000000"}}
	h := NewOrdersHandler(sub, CORS{Origins: []string{"https://lubestation.vn"}}, nil)

	resp, err := h.Handle(context.Background(), post(orderJSON, map[string]string{
		"idempotency-key": "abc-123",
		"origin":          "https://lubestation.vn",
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"orderId":"ORD-1718000000000","message":"Order successfully placed"}`, resp.Body)
	assert.Equal(t, "https://lubestation.vn", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "abc-123", sub.got.IdempotencyKey)
	assert.Equal(t, "Nguyễn Văn A", sub.got.Form.FullName)
	assert.Equal(t, 2, sub.got.Cart[201])
}

func TestOrders_Replayed(t *testing.T) {
	sub := &fakeSubmitter{res: &order.Result{OrderID: "ORD-1", Replayed: true}}
	resp, err := NewOrdersHandler(sub, CORS{}, nil).Handle(context.Background(), post(orderJSON, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrders_ValidationError(t *testing.T) {
	sub := &fakeSubmitter{err: apperr.InvalidErr("Please check the highlighted fields.", map[string]string{"email": "Enter a valid email address."})}
	resp, err := NewOrdersHandler(sub, CORS{}, nil).Handle(context.Background(), post(orderJSON, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Please check the highlighted fields.","fields":{"email":"Enter a valid email address."}}`, resp.Body)
}

func TestOrders_SinkFailure(t *testing.T) {
	sub := &fakeSubmitter{err: apperr.WrapMsg(errors.New("sheets down"), order.SubmitFailedMsg)}
	resp, err := NewOrdersHandler(sub, CORS{}, nil).Handle(context.Background(), post(orderJSON, nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to save order. Please try again."}`, resp.Body)
	assert.NotContains(t, resp.Body, "sheets down")
}

func TestOrders_Preflight(t *testing.T) {
	resp, err := NewOrdersHandler(&fakeSubmitter{}, CORS{}, nil).Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

func TestDebug_NeverLeaksSecrets(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{AppEnv: "production"},
		Sheets: config.SheetsConfig{CredentialsJSON: "c2VjcmV0"},
		Mail:   config.MailConfig{ResendAPIKey: "re_secret"},
		Orders: config.OrdersConfig{Sink: "both"},
	}
	resp, err := NewDebugHandler(cfg, nil, CORS{}, nil).Handle(context.Background(), get(nil))
	require.NoError(t, err)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, true, body["hasCredentials"])
	assert.Equal(t, 8.0, body["credentialsLength"])
	assert.Equal(t, true, body["hasResendKey"])
	assert.Equal(t, "both", body["orderSink"])
	assert.NotContains(t, resp.Body, "re_secret")
	assert.NotContains(t, resp.Body, "c2VjcmV0")
	assert.NotContains(t, body, "sheetReachable")
}

type fakeLister struct {
	orders []models.StoredOrder
	err    error
}

func (f fakeLister) ListOrders(context.Context) ([]models.StoredOrder, error) {
	return f.orders, f.err
}

func TestDebug_ReportsSpreadsheetReadBack(t *testing.T) {
	cfg := &config.Config{Orders: config.OrdersConfig{Sink: "sheets"}}

	resp, err := NewDebugHandler(cfg, fakeLister{orders: make([]models.StoredOrder, 3)}, CORS{}, nil).Handle(context.Background(), get(nil))
	require.NoError(t, err)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, true, body["sheetReachable"])
	assert.Equal(t, 3.0, body["sheetOrders"])

	resp, err = NewDebugHandler(cfg, fakeLister{err: errors.New("403 sheet 1AbC forbidden")}, CORS{}, nil).Handle(context.Background(), get(nil))
	require.NoError(t, err)
	body = nil
	decode(t, resp, &body)
	assert.Equal(t, false, body["sheetReachable"])
	assert.NotContains(t, body, "sheetOrders")
	assert.NotContains(t, resp.Body, "1AbC")
}

type fakeFetcher struct {
	data   string
	bucket string
	key    string
}

func (f *fakeFetcher) Fetch(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	return []byte(f.data), nil
}

const csvHeader = "id,productName,size,price,productCode,weight,qtyPerCarton,moq,category,description\n"

func TestImporter_DirectCSV(t *testing.T) {
	mc := &memoryCache{products: []models.Product{{ProductName: "stale"}}}
	im := NewImporter(mc, nil, nil)

	res, err := im.Handle(context.Background(), ImportEvent{CSVData: csvHeader +
		"1,Lubicle Silk,3cc,95000,LUB-3,10g,100,10,TheCubicle,\n" +
		"2,Adheron,5cc,130000,ADH-5,15g,80,10,SpeedCubeShop,\n"})
	require.NoError(t, err)

	assert.Equal(t, ImportResult{Cubicle: 1, SCS: 1}, res)
	require.NotNil(t, mc.src)
	assert.Equal(t, "Adheron", mc.src.SCS[0].ProductName)
	assert.Nil(t, mc.products)
}

func TestImporter_S3Record(t *testing.T) {
	mc := &memoryCache{}
	fetcher := &fakeFetcher{data: csvHeader + "1,Lubicle Silk,3cc,95000,LUB-3,10g,100,10,TheCubicle,\n"}
	im := NewImporter(mc, fetcher, nil)

	var rec events.S3EventRecord
	rec.S3.Bucket.Name = "lubestation-pricelists"
	rec.S3.Object.Key = "uploads/price+list+2024.csv"

	res, err := im.Handle(context.Background(), ImportEvent{Records: []events.S3EventRecord{rec}})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Cubicle)
	assert.Equal(t, "lubestation-pricelists", fetcher.bucket)
	assert.Equal(t, "uploads/price list 2024.csv", fetcher.key)
}

func TestImporter_EmptyEvent(t *testing.T) {
	_, err := NewImporter(&memoryCache{}, nil, nil).Handle(context.Background(), ImportEvent{})
	assert.ErrorContains(t, err, "no S3 event record")
}
