//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// HTTPClient drives the router in-process with a fixed bearer token.
type HTTPClient struct {
	router *gin.Engine
	token  string
}

func NewHTTPClient(router *gin.Engine, token string) *HTTPClient {
	return &HTTPClient{router: router, token: token}
}

type Response struct {
	StatusCode int
	Body       []byte
}

func (c *HTTPClient) do(method, path string, body interface{}) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	bodyBytes, err := io.ReadAll(w.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: w.Code, Body: bodyBytes}, nil
}

func (c *HTTPClient) GET(path string) (*Response, error) {
	return c.do("GET", path, nil)
}

func (c *HTTPClient) POST(path string, body interface{}) (*Response, error) {
	return c.do("POST", path, body)
}

// DecodeJSON decodes the response body into target.
func (r *Response) DecodeJSON(target interface{}) error {
	return json.Unmarshal(r.Body, target)
}

// GetErrorMessage extracts the error field from an error response.
func (r *Response) GetErrorMessage() string {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return string(r.Body)
	}
	if msg, ok := errResp["error"].(string); ok {
		return msg
	}
	return string(r.Body)
}
