package utils_test

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type testResponse struct {
	Name  string `json:"name" xml:"name"`
	Value int    `json:"value" xml:"value"`
}

func TestRenderResponse(t *testing.T) {
	tests := []struct {
		name            string
		acceptHeader    string
		statusCode      int
		response        interface{}
		wantContent     string
		wantContentType string
		isXML           bool
	}{
		{
			name:            "json response",
			acceptHeader:    "application/json",
			statusCode:      http.StatusOK,
			response:        testResponse{Name: "test", Value: 123},
			wantContent:     `{"success":true,"data":{"name":"test","value":123}}`,
			wantContentType: "application/json",
		},
		{
			name:            "no accept header defaults to json",
			statusCode:      http.StatusCreated,
			response:        testResponse{Name: "test", Value: 1},
			wantContent:     `{"success":true,"data":{"name":"test","value":1}}`,
			wantContentType: "application/json",
		},
		{
			name:            "xml response",
			acceptHeader:    "application/xml",
			statusCode:      http.StatusOK,
			response:        testResponse{Name: "test", Value: 123},
			wantContent:     `<response><success>true</success><data><name>test</name><value>123</value></data></response>`,
			wantContentType: "application/xml",
			isXML:           true,
		},
		{
			name:            "first supported type wins",
			acceptHeader:    "text/html, application/xml;q=0.9, application/json",
			statusCode:      http.StatusOK,
			response:        testResponse{Name: "test", Value: 5},
			wantContent:     `<response><success>true</success><data><name>test</name><value>5</value></data></response>`,
			wantContentType: "application/xml",
			isXML:           true,
		},
		{
			name:            "error response json",
			acceptHeader:    "application/json",
			statusCode:      http.StatusBadRequest,
			response:        utils.NewBadRequest("test error"),
			wantContent:     `{"success":false,"message":"test error"}`,
			wantContentType: "application/json",
		},
		{
			name:            "error response xml",
			acceptHeader:    "application/xml",
			statusCode:      http.StatusBadRequest,
			response:        utils.NewBadRequest("test error"),
			wantContent:     `<response><success>false</success><error>test error</error></response>`,
			wantContentType: "application/xml",
			isXML:           true,
		},
		{
			name:         "nil response",
			acceptHeader: "application/json",
			statusCode:   http.StatusNoContent,
			response:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.acceptHeader != "" {
				req.Header.Set("Accept", tt.acceptHeader)
			}
			w := httptest.NewRecorder()

			require.NoError(t, utils.RenderResponse(e.NewContext(req, w), tt.statusCode, tt.response))

			resp := w.Result()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.statusCode, resp.StatusCode)
			switch {
			case tt.wantContent == "":
				assert.Empty(t, string(body))
			case tt.isXML:
				assert.Equal(t, tt.wantContent, strings.TrimSpace(string(body)))
			default:
				assert.JSONEq(t, tt.wantContent, string(body))
			}
			if tt.wantContentType != "" {
				assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tt.wantContentType))
			}
		})
	}
}

func TestAllowedContentTypes(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "allowed content type", method: http.MethodPost, contentType: "application/json", body: `{}`, wantStatus: http.StatusOK},
		{name: "allowed with charset", method: http.MethodPost, contentType: "application/json; charset=utf-8", body: `{}`, wantStatus: http.StatusOK},
		{name: "not allowed content type", method: http.MethodPost, contentType: "text/plain", body: "hello", wantStatus: http.StatusUnsupportedMediaType},
		{name: "empty body is not checked", method: http.MethodPatch, contentType: "text/plain", wantStatus: http.StatusOK},
		{name: "GET is not checked", method: http.MethodGet, contentType: "text/plain", body: "x", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(utils.AllowedContentTypes("application/json"))
			e.Any("/test", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/test", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			e.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCursor(t *testing.T) {
	created := time.Date(2026, 10, 15, 12, 30, 0, 123456789, time.UTC)
	id := uuid.New()

	gotTime, gotID, err := utils.DecodeCursor(utils.EncodeCursor(created, id))

	require.NoError(t, err)
	assert.True(t, created.Equal(gotTime))
	assert.Equal(t, id, gotID)

	for _, bad := range []string{"%%%", "bm90LWEtY3Vyc29y", ""} {
		_, _, err := utils.DecodeCursor(bad)
		assert.Error(t, err, bad)
	}
}
