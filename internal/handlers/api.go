// Package handlers provides API Gateway and HTTP handlers for the matching service.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// maxBodyBytes caps request bodies accepted by the HTTP adapter.
const maxBodyBytes = 1 << 20

// APIGatewayFunc is the Lambda handler shape shared by every API endpoint.
type APIGatewayFunc func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// corsHeaders returns the headers attached to every API Gateway response.
func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}

// preflight answers a CORS preflight request.
func preflight(headers map[string]string) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}, nil
}

// jsonResponse creates a response with a JSON body.
func jsonResponse(headers map[string]string, statusCode int, data interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "failed to encode response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": message})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// HTTPHandler serves an API Gateway handler over net/http so the local
// server and Lambda run the same code. pathParams names the route wildcards
// copied into PathParameters. CORS headers are left to the server's
// middleware.
func HTTPHandler(fn APIGatewayFunc, pathParams ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
			return
		}

		req := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Body:                  string(body),
			Headers:               map[string]string{},
			QueryStringParameters: map[string]string{},
			PathParameters:        map[string]string{},
		}
		for k := range r.Header {
			req.Headers[k] = r.Header.Get(k)
		}
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				req.QueryStringParameters[k] = v[0]
			}
		}
		for _, name := range pathParams {
			if v := r.PathValue(name); v != "" {
				req.PathParameters[name] = v
			}
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		for k, v := range resp.Headers {
			if strings.HasPrefix(k, "Access-Control-") {
				continue
			}
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
