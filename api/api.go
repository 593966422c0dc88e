// Package api exposes the validator and the catalog checker over HTTP.
//
//	POST /v1/validate              {"notation":"printf","format":"%s %d","arguments":2}
//	POST /v1/validate/translation  {"notation":"printf","base":"%s","translation":"%1$s"}
//	POST /v1/catalog/check         {"base":"en","files":[{"path":"es.json","content":"..."}]}
//	GET  /healthz
//
// Verdicts and reports are always returned with status 200, invalid
// templates included; 400 is reserved for unusable requests. Messages are
// localized from the Accept-Language header.
package api

import (
	"log/slog"
	"net/http"

	"github.com/c3p0-box/msgcheck/catalog"
	"github.com/c3p0-box/msgcheck/erm"
	"github.com/c3p0-box/msgcheck/msgfmt"
	"github.com/c3p0-box/msgcheck/set"
	"github.com/c3p0-box/msgcheck/srv"
	"github.com/c3p0-box/msgcheck/vix"
	"golang.org/x/text/language"
)

// Server holds the handlers' shared configuration.
type Server struct {
	notation   msgfmt.Notation
	base       language.Tag
	logger     *slog.Logger
	validators map[language.Tag]*msgfmt.Validator
}

// Option configures a Server.
type Option func(*Server)

// WithNotation sets the notation used when a request names none.
func WithNotation(n msgfmt.Notation) Option {
	return func(s *Server) {
		s.notation = n
	}
}

// WithBaseLanguage sets the catalog base language used when a request names
// none.
func WithBaseLanguage(tag language.Tag) Option {
	return func(s *Server) {
		s.base = tag
	}
}

// WithLogger sets the logger passed to validators and checkers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server. Defaults are printf notation and English.
func New(opts ...Option) *Server {
	s := &Server{
		notation: msgfmt.Printf,
		base:     language.English,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.validators = make(map[language.Tag]*msgfmt.Validator)
	for _, tag := range erm.Languages() {
		s.validators[tag] = msgfmt.New(msgfmt.WithLanguage(tag), msgfmt.WithLogger(s.logger))
	}
	return s
}

// Handler returns the API with request ids, logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := srv.NewMux()
	mux.ErrorHandler(s.handleError)

	mux.Get("/healthz", s.health)
	mux.Post("/v1/validate", s.validate)
	mux.Post("/v1/validate/translation", s.validateTranslation)
	mux.Post("/v1/catalog/check", s.checkCatalog)

	return srv.MiddlewareChain(srv.RequestID, srv.Logging, srv.Recover)(mux)
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   erm.Kind            `json:"error"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func (s *Server) handleError(c *srv.HttpContext, err error) {
	e := erm.Wrap(err)
	localizer := erm.GetLocalizer(s.language(c))

	status := http.StatusInternalServerError
	if e.Kind() == erm.InvalidRequest {
		status = http.StatusBadRequest
	} else {
		s.logger.With(
			slog.String("name", "api.handleError"),
			slog.String("request-id", srv.RequestIDFrom(c.Request().Context())),
			slog.String("path", c.Path()),
			slog.Any("error", err),
			slog.String("stack", erm.FormatStack(e)),
		).Error("request failed")
	}

	resp := ErrorResponse{
		Error:   e.Kind(),
		Message: e.LocalizedError(localizer),
	}
	if e.Subject() != "" || e.HasErrors() {
		resp.Details = e.LocalizedErrMap(localizer)
	}
	_ = c.JSON(status, resp)
}

// language negotiates the response language and announces it.
func (s *Server) language(c *srv.HttpContext) language.Tag {
	if tag, ok := c.Get("language").(language.Tag); ok {
		return tag
	}
	tag := c.Language()
	c.Set("language", tag)
	c.SetHeader(srv.HeaderContentLang, tag.String())
	return tag
}

func (s *Server) validator(c *srv.HttpContext) *msgfmt.Validator {
	return s.validators[s.language(c)]
}

func (s *Server) notationOr(n msgfmt.Notation) msgfmt.Notation {
	if n == 0 {
		return s.notation
	}
	return n
}

func (s *Server) health(c *srv.HttpContext) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateRequest asks for one template to be validated. When Arguments is
// set the template's argument count must equal it.
type ValidateRequest struct {
	Notation  msgfmt.Notation `json:"notation" query:"notation"`
	Format    string          `json:"format" query:"-"`
	Arguments *int            `json:"arguments,omitempty" query:"-"`
}

func (s *Server) validate(c *srv.HttpContext) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	arguments := 0
	if req.Arguments != nil {
		arguments = *req.Arguments
	}
	if err := vix.V().Is(vix.Numeric(arguments, "arguments").Min(0)).Error(); err != nil {
		return err
	}

	v := s.validator(c)
	notation := s.notationOr(req.Notation)
	if req.Arguments != nil {
		return c.JSON(http.StatusOK, v.ValidateCount(notation, req.Format, arguments))
	}
	return c.JSON(http.StatusOK, v.Validate(notation, req.Format))
}

// TranslationRequest asks for a translation to be checked against its base
// template.
type TranslationRequest struct {
	Notation    msgfmt.Notation `json:"notation" query:"notation"`
	Base        string          `json:"base" query:"-"`
	Translation string          `json:"translation" query:"-"`
}

// TranslationResponse carries the translation's verdict and, when the base
// template is itself invalid, the base problem.
type TranslationResponse struct {
	Verdict   msgfmt.Verdict `json:"verdict"`
	BaseError *BaseError     `json:"baseError,omitempty"`
}

// BaseError describes an invalid base template.
type BaseError struct {
	Kind    erm.Kind `json:"kind"`
	Message string   `json:"message"`
}

func (s *Server) validateTranslation(c *srv.HttpContext) error {
	var req TranslationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	v := s.validator(c)
	verdict, baseErr := v.ValidateTranslation(s.notationOr(req.Notation), req.Base, req.Translation)

	resp := TranslationResponse{Verdict: verdict}
	if baseErr != nil {
		e := erm.Wrap(baseErr)
		resp.BaseError = &BaseError{
			Kind:    e.Kind(),
			Message: e.LocalizedError(erm.GetLocalizer(v.Language())),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CatalogFile is one message file of a catalog check. Its path names the
// language and format, as in "active.es.yaml".
type CatalogFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CatalogRequest asks for a set of message files to be checked.
type CatalogRequest struct {
	Notation  msgfmt.Notation `json:"notation" query:"notation"`
	Base      string          `json:"base" query:"base"`
	Languages []string        `json:"languages,omitempty" query:"-"`
	Files     []CatalogFile   `json:"files" query:"-"`
}

// MaxCatalogFiles caps the files of one catalog check.
const MaxCatalogFiles = 500

func validateCatalogRequest(req CatalogRequest) erm.Error {
	vo := vix.V().Is(
		vix.Numeric(len(req.Files), "files").Min(1).Max(MaxCatalogFiles),
		vix.String(req.Base, "base").LanguageTag(),
	)
	for i, tag := range req.Languages {
		vo.InRow("languages", i, vix.String(tag, "tag").Required().LanguageTag())
	}
	for i, f := range req.Files {
		vo.InRow("files", i, vix.String(f.Path, "path").Required())
	}
	return vo.Error()
}

func (s *Server) checkCatalog(c *srv.HttpContext) error {
	var req CatalogRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := validateCatalogRequest(req); err != nil {
		return err
	}

	base := s.base
	if req.Base != "" {
		base = language.Make(req.Base)
	}

	cat := catalog.New(base)
	for _, f := range req.Files {
		if err := cat.AddFile([]byte(f.Content), f.Path); err != nil {
			return erm.InvalidRequestError(err.Error(), err).WithSubject(f.Path)
		}
	}

	checker := catalog.NewChecker(
		s.notationOr(req.Notation),
		catalog.WithValidator(s.validator(c)),
		catalog.WithLanguages(set.Of(req.Languages...)),
		catalog.WithLogger(s.logger),
	)
	return c.JSON(http.StatusOK, checker.Check(cat))
}
