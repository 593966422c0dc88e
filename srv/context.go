package srv

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/c3p0-box/msgcheck/erm"
	"golang.org/x/text/language"
)

// Header names and MIME types used by the API.
const (
	HeaderContentType    = "Content-Type"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderContentLang    = "Content-Language"
	HeaderRequestID      = "X-Request-Id"

	MIMEApplicationJSON = "application/json"
	MIMETextPlain       = "text/plain; charset=UTF-8"
)

// Context is the request view handed to API handlers.
type Context interface {
	Set(key string, value interface{})
	Get(key string) interface{}
	Request() *http.Request
	Response() http.ResponseWriter
	Method() string
	Path() string
	Query() url.Values
	QueryParam(key string) string
	GetHeader(key string) string
	SetHeader(key, value string)
	Bind(target interface{}) erm.Error
	Language(supported ...language.Tag) language.Tag
	JSON(code int, v interface{}) error
	String(code int, text string) error
	WriteHeader(code int)
}

// HttpContext wraps a request and its response writer with a request-scoped
// value store. The value store is safe for concurrent use.
type HttpContext struct {
	request        *http.Request
	responseWriter http.ResponseWriter
	mu             sync.RWMutex
	values         map[string]interface{}
	query          url.Values
}

// NewHttpContext creates a context for w and r.
func NewHttpContext(w http.ResponseWriter, r *http.Request) *HttpContext {
	return &HttpContext{
		request:        r,
		responseWriter: w,
		values:         make(map[string]interface{}),
		query:          r.URL.Query(),
	}
}

// ============================
// Value Store Methods
// ============================

// Set stores a request-scoped value.
func (c *HttpContext) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns a request-scoped value, or nil.
func (c *HttpContext) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// ============================
// Request Methods
// ============================

// Request returns the underlying request.
func (c *HttpContext) Request() *http.Request {
	return c.request
}

// Response returns the underlying response writer.
func (c *HttpContext) Response() http.ResponseWriter {
	return c.responseWriter
}

// Method returns the request method.
func (c *HttpContext) Method() string {
	return c.request.Method
}

// Path returns the request URL path.
func (c *HttpContext) Path() string {
	return c.request.URL.Path
}

// Query returns the URL query parameters.
func (c *HttpContext) Query() url.Values {
	return c.query
}

// QueryParam returns one query parameter, or "".
func (c *HttpContext) QueryParam(key string) string {
	return c.query.Get(key)
}

// GetHeader returns a request header.
func (c *HttpContext) GetHeader(key string) string {
	return c.request.Header.Get(key)
}

// SetHeader sets a response header.
func (c *HttpContext) SetHeader(key, value string) {
	c.responseWriter.Header().Set(key, value)
}

// Bind parses query parameters and the JSON body into target. See
// ParseRequest.
func (c *HttpContext) Bind(target interface{}) erm.Error {
	return ParseRequest(c.request, target)
}

// Language picks the best match for the Accept-Language header among
// supported, which defaults to the languages erm ships diagnostics in. The
// first supported language is used when nothing matches.
func (c *HttpContext) Language(supported ...language.Tag) language.Tag {
	if len(supported) == 0 {
		supported = erm.Languages()
	}

	accepted, _, err := language.ParseAcceptLanguage(c.GetHeader(HeaderAcceptLanguage))
	if err != nil || len(accepted) == 0 {
		return supported[0]
	}

	_, index, confidence := language.NewMatcher(supported).Match(accepted...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// ============================
// Response Methods
// ============================

// JSON writes v as a JSON response.
func (c *HttpContext) JSON(code int, v interface{}) error {
	c.SetHeader(HeaderContentType, MIMEApplicationJSON)
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

// String writes a plain text response.
func (c *HttpContext) String(code int, text string) error {
	c.SetHeader(HeaderContentType, MIMETextPlain)
	c.responseWriter.WriteHeader(code)
	_, err := c.responseWriter.Write([]byte(text))
	return err
}

// WriteHeader sends the response status code.
func (c *HttpContext) WriteHeader(code int) {
	c.responseWriter.WriteHeader(code)
}
