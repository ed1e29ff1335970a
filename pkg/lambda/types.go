package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
	RequestID   string            `json:"request_id"`
}

// QueryParam returns a query parameter, empty when absent
func (r *Request) QueryParam(name string) string {
	if r.QueryParams == nil {
		return ""
	}
	return r.QueryParams[name]
}

// Header returns a header value, matching the name case-insensitively
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// ErrorBody is the JSON error shape returned by every failing function call
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON builds a response with a JSON-encoded body
func JSON(status int, v interface{}) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}, nil
}

// Error builds a JSON error response
func Error(status int, errMsg, message string) *Response {
	resp, err := JSON(status, ErrorBody{Error: errMsg, Message: message})
	if err != nil {
		// ErrorBody only holds strings
		panic(err)
	}
	return resp
}

// Empty builds a response without a body
func Empty(status int) *Response {
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{},
	}
}

// InternalError is the response used when a handler fails outright
func InternalError() *Response {
	return Error(http.StatusInternalServerError, "Internal server error", "the request could not be processed")
}
