package utils

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"net/http"
	"strings"
	"time"
)

type ApiError struct {
	StatusCode int    `json:"-" xml:"-"`
	Success    bool   `json:"success" xml:"success"`
	Msg        string `json:"message" xml:"message"`
}

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ContentType string

type XMLResponse struct {
	XMLName xml.Name    `xml:"response"`
	Success bool        `xml:"success"`
	Data    interface{} `xml:"data,omitempty"`
	Error   string      `xml:"error,omitempty"`
}

const (
	ContentTypeJSON ContentType = "application/json"
	ContentTypeXML  ContentType = "application/xml"
)

func (o *ApiError) Error() string {
	return fmt.Sprintf("%d: %s", o.StatusCode, o.Msg)
}

func NewApiError(statusCode int, msg string) ApiError {
	return ApiError{StatusCode: statusCode, Msg: msg}
}

func NewInternalServerError(msg string) ApiError {
	return ApiError{StatusCode: http.StatusInternalServerError, Msg: msg}
}

func NewBadRequest(msg string) ApiError {
	return ApiError{StatusCode: http.StatusBadRequest, Msg: msg}
}

// RenderResponse writes res in the representation the client asked for. ApiError values are rendered as
// failures, everything else is wrapped in a success envelope.
func RenderResponse(c echo.Context, statusCode int, res interface{}) error {
	switch getResponseContentType(c.Request()) {
	case ContentTypeXML:
		return renderXML(c, statusCode, res)
	default:
		return renderJson(c, statusCode, res)
	}
}

func RenderError(c echo.Context, ae ApiError) error {
	return RenderResponse(c, ae.StatusCode, ae)
}

// AllowedContentTypes rejects requests with a body whose Content-Type is not one of mediaTypes.
func AllowedContentTypes(mediaTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodDelete {
				return next(c)
			}
			ct := strings.TrimSpace(strings.Split(r.Header.Get(echo.HeaderContentType), ";")[0])
			if existsInSlice(mediaTypes, ct) {
				return next(c)
			}
			return RenderError(c, NewApiError(http.StatusUnsupportedMediaType, "unsupported content type"))
		}
	}
}

func EncodeCursor(t time.Time, id uuid.UUID) string {
	cursor := fmt.Sprintf("%s,%s", t.Format(time.RFC3339Nano), id.String())
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

func DecodeCursor(encoded string) (time.Time, uuid.UUID, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	parts := strings.Split(string(decodedBytes), ",")
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	return t, id, nil
}

func existsInSlice(list []string, needle string) bool {
	for i := range list {
		if list[i] == needle {
			return true
		}
	}
	return false
}

func getResponseContentType(r *http.Request) ContentType {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return ContentTypeJSON
	}

	// first supported type wins, quality values are ignored
	types := strings.Split(accept, ",")
	for _, t := range types {
		mt := strings.TrimSpace(strings.Split(t, ";")[0])
		switch mt {
		case string(ContentTypeJSON):
			return ContentTypeJSON
		case string(ContentTypeXML):
			return ContentTypeXML
		}
	}
	return ContentTypeJSON
}

func renderJson(c echo.Context, statusCode int, res interface{}) error {
	switch v := res.(type) {
	case nil:
		return c.NoContent(statusCode)
	case ApiError:
		return c.JSON(statusCode, v)
	case *ApiError:
		return c.JSON(statusCode, v)
	default:
		return c.JSON(statusCode, Envelope{Success: true, Data: res})
	}
}

func renderXML(c echo.Context, statusCode int, res interface{}) error {
	if res == nil {
		return c.NoContent(statusCode)
	}

	var xmlRes XMLResponse
	switch v := res.(type) {
	case ApiError:
		xmlRes = XMLResponse{Error: v.Msg}
	case *ApiError:
		xmlRes = XMLResponse{Error: v.Msg}
	case error:
		xmlRes = XMLResponse{Error: v.Error()}
	default:
		xmlRes = XMLResponse{Success: true, Data: res}
	}

	body, err := xml.Marshal(xmlRes)
	if err != nil {
		body, _ = xml.Marshal(XMLResponse{Error: err.Error()})
		statusCode = http.StatusInternalServerError
	}
	return c.Blob(statusCode, string(ContentTypeXML), body)
}
