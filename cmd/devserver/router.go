package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
)

type proxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type importHandler func(ctx context.Context, event api.ImportEvent) (api.ImportResult, error)

type routes struct {
	products proxyHandler
	quote    proxyHandler
	orders   proxyHandler
	debug    proxyHandler
	importer importHandler
}

func newRouter(r routes, origins []string, log *zap.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))

	router.Route("/api", func(rt chi.Router) {
		rt.Get("/products", proxy(r.products, log))
		rt.Post("/cart/quote", proxy(r.quote, log))
		rt.Post("/orders", proxy(r.orders, log))
		rt.Get("/debug", proxy(r.debug, log))
		if r.importer != nil {
			rt.Post("/import", importer(r.importer, log))
		}
	})
	return router
}

// refreshing picks up pricelist imports before h prices anything.
func refreshing(live *api.LiveCatalog, h proxyHandler) proxyHandler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		live.Refresh(ctx)
		return h(ctx, req)
	}
}

// proxy runs a Lambda proxy handler behind net/http.
func proxy(h proxyHandler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "failed to read body"})
			return
		}

		resp, err := h(r.Context(), toProxyRequest(r, body))
		if err != nil {
			log.Error("handler failed", zap.String("path", r.URL.Path), zap.Error(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "internal server error"})
			return
		}

		for k, v := range resp.Headers {
			// CORS is owned by the router middleware here.
			if strings.HasPrefix(k, "Access-Control-") {
				continue
			}
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		io.WriteString(w, resp.Body)
	}
}

func toProxyRequest(r *http.Request, body []byte) events.APIGatewayProxyRequest {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	query := make(map[string]string, len(r.URL.Query()))
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return events.APIGatewayProxyRequest{
		Resource:              r.URL.Path,
		Path:                  r.URL.Path,
		HTTPMethod:            r.Method,
		Headers:               headers,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext:        events.APIGatewayProxyRequestContext{RequestID: requestID, Stage: "local"},
	}
}

func importer(h importHandler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event api.ImportEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "body must be {\"csv_data\": \"...\"}"})
			return
		}
		res, err := h(r.Context(), event)
		if err != nil {
			log.Warn("import failed", zap.Error(err))
			status := http.StatusUnprocessableEntity
			if ae, ok := apperr.As(err); ok && ae.Kind == apperr.NotFound {
				status = http.StatusNotFound
			}
			render.Status(r, status)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		render.JSON(w, r, res)
	}
}
