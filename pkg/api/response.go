// Package api implements the API Gateway handlers behind each Lambda function.
package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/apperr"
)

// CORS decides the Access-Control-Allow-Origin value for a request.
type CORS struct {
	Origins []string
}

func (c CORS) allowOrigin(req events.APIGatewayProxyRequest) string {
	if len(c.Origins) == 0 {
		return "*"
	}
	origin := header(req, "Origin")
	for _, o := range c.Origins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return c.Origins[0]
}

func (c CORS) headers(req events.APIGatewayProxyRequest, methods string) map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  c.allowOrigin(req),
		"Access-Control-Allow-Methods": methods,
		"Access-Control-Allow-Headers": "Content-Type, Idempotency-Key",
		"Vary":                         "Origin",
	}
}

// header looks up a request header case-insensitively.
func header(req events.APIGatewayProxyRequest, name string) string {
	if v, ok := req.Headers[name]; ok {
		return v
	}
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respond(status int, headers map[string]string, body interface{}, log *zap.Logger) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		log.Error("failed to marshal response", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       `{"error":"Failed to format response"}`,
		}
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(b)}
}

// respondError maps err onto a status and a client-safe body.
func respondError(err error, headers map[string]string, log *zap.Logger) events.APIGatewayProxyResponse {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	return respond(status, headers, errorBody{
		Error:  apperr.PublicMessage(err),
		Fields: apperr.FieldErrors(err),
	}, log)
}

func preflight(headers map[string]string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent, Headers: headers}
}

func decodeBody(req events.APIGatewayProxyRequest, v interface{}) error {
	body := req.Body
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return apperr.InvalidErr("Request body is not valid base64.", nil)
		}
		body = string(b)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return apperr.InvalidErr("Request body must be valid JSON.", nil)
	}
	return nil
}
