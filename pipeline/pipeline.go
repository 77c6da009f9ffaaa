package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/erraggy/resttools/dispatch"
	"github.com/erraggy/resttools/negotiate"
	"github.com/erraggy/resttools/partschema"
	"github.com/erraggy/resttools/resterrors"
)

// Pipeline binds, validates, negotiates and dispatches HTTP requests against
// registered resources.
//
// Registration (New, AddResource) is single-threaded startup work; every
// structure it produces is frozen afterwards and read concurrently without
// locks. Per-request work never blocks on I/O except the final response
// write, and request-time failures become structured responses, never
// panics.
type Pipeline struct {
	logger      Logger
	producers   *ProducerSet
	negotiator  *negotiate.Negotiator
	dispatcher  *dispatch.Dispatcher
	validator   *partschema.Validator
	strictMode  bool
	maxBodySize int64

	resources []*Resource
	// routes is every operation across all resources, sorted by path
	// specificity for first-match routing
	routes []*Operation
}

// New creates a Pipeline from functional options.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	producers, err := NewProducerSet(cfg.producers...)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.DefaultDispatcher()
	if cfg.processors != nil {
		dispatcher = dispatch.NewDispatcher(cfg.processors...)
	}

	return &Pipeline{
		logger:      cfg.logger,
		producers:   producers,
		negotiator:  negotiate.NewNegotiator(),
		dispatcher:  dispatcher,
		validator:   &partschema.Validator{CollectAll: cfg.collectAllErrors},
		strictMode:  cfg.strictMode,
		maxBodySize: cfg.maxBodySize,
	}, nil
}

// NewFromConfig creates a Pipeline and registers every resource in the
// configuration. Any configuration failure aborts with a ConfigError.
func NewFromConfig(cfg *Config, opts ...Option) (*Pipeline, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	for _, rc := range cfg.Resources {
		if _, err := p.AddResource(rc); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AddResource registers a resource, building every operation it declares:
// part schemas, effective producer lists, compiled path matchers. Must be
// called during startup, before the pipeline serves requests.
func (p *Pipeline) AddResource(rc ResourceConfig) (*Resource, error) {
	res, err := buildResource(rc, p.producers)
	if err != nil {
		return nil, err
	}
	p.resources = append(p.resources, res)
	p.routes = append(p.routes, res.Operations...)
	sortMatchers(p.routes)

	p.logger.Info("registered resource",
		"resource", res.Name,
		"operations", len(res.Operations))
	return res, nil
}

// Resources returns the registered resources in registration order.
func (p *Pipeline) Resources() []*Resource {
	return p.resources
}

// Producers returns the pipeline's producer set.
func (p *Pipeline) Producers() *ProducerSet {
	return p.producers
}

// Route finds the operation for a request: most specific matching path
// template first, then method match. The returned map holds the raw path
// parameter values.
func (p *Pipeline) Route(req *http.Request) (*Operation, map[string]string, bool) {
	for _, op := range p.routes {
		matched, params := op.matcher.Match(req.URL.Path)
		if matched && op.Method == req.Method {
			return op, params, true
		}
	}
	return nil, nil, false
}

// BindRequest extracts, coerces and validates every declared non-body part
// of the request against the operation's schemas. Problems accumulate as
// issues in the result for a 4xx surface; binding never panics and never
// returns an error past the request boundary.
//
// The result is pooled: callers may hand it back with ReleaseResult once
// they are done with it.
func (p *Pipeline) BindRequest(req *http.Request, op *Operation, pathParams map[string]string) *RequestResult {
	result := getRequestResult()
	result.Operation = op.Name()

	var query map[string][]string
	if req.URL != nil {
		query = req.URL.Query()
	}
	var form map[string][]string
	if needsForm(op) {
		if err := req.ParseForm(); err != nil {
			result.addIssue(Issue{
				Part:     "form",
				Location: partschema.LocationFormData.String(),
				Message:  "malformed form data: " + err.Error(),
			})
		}
		form = req.PostForm
	}

	for _, schema := range op.Parts {
		p.bindPart(result, schema, rawValues(schema, pathParams, query, req.Header, form))
	}

	if p.strictMode {
		p.checkUndeclared(result, op, query, req.Header)
	}

	p.logger.Debug("bound request",
		"operation", result.Operation,
		"valid", result.Valid,
		"issues", len(result.Issues))
	return result
}

// needsForm reports whether any declared part reads from form data.
func needsForm(op *Operation) bool {
	for _, s := range op.Parts {
		if s.In == partschema.LocationFormData {
			return true
		}
	}
	return false
}

// rawValues extracts the raw occurrences of one part from its location.
func rawValues(s *partschema.PartSchema, pathParams map[string]string, query map[string][]string, header http.Header, form map[string][]string) []string {
	switch s.In {
	case partschema.LocationPath:
		if v, ok := pathParams[s.Name]; ok {
			return []string{v}
		}
		return nil
	case partschema.LocationQuery:
		return query[s.Name]
	case partschema.LocationHeader:
		return header.Values(s.Name)
	case partschema.LocationFormData:
		return form[s.Name]
	default:
		return nil
	}
}

// bindPart applies the presence rules (default, required, allowEmptyValue,
// skipIfEmpty), coerces the raw value and validates the coerced value,
// storing it in the result on success.
func (p *Pipeline) bindPart(result *RequestResult, s *partschema.PartSchema, values []string) {
	loc := s.In.String()

	if len(values) == 0 {
		if s.Default != nil {
			values = []string{*s.Default}
		} else {
			if s.Required {
				result.addIssue(Issue{
					Part:       s.Name,
					Location:   loc,
					Constraint: "required",
					Message:    "required part is missing",
				})
			}
			return
		}
	}

	// empty-value rules apply to the single-string forms; the remainder path
	// segment is always allowed to be empty by construction
	if s.CollectionFormat != partschema.CollectionMulti && values[0] == "" {
		if s.SkipIfEmpty {
			return
		}
		if !s.AllowEmptyValue {
			result.addIssue(Issue{
				Part:       s.Name,
				Location:   loc,
				Constraint: "allowEmptyValue",
				Message:    "empty value is not allowed",
			})
			return
		}
	}

	var (
		value any
		err   error
	)
	if s.CollectionFormat == partschema.CollectionMulti {
		value, err = partschema.CoerceValues(values, s)
	} else {
		value, err = partschema.Coerce(values[0], s)
	}
	if err != nil {
		result.addIssue(Issue{
			Part:       s.Name,
			Location:   loc,
			Constraint: "type",
			Message:    err.Error(),
			Actual:     strings.Join(values, ","),
		})
		return
	}

	for _, issue := range p.validator.Validate(value, s, s.Name) {
		issue.Location = loc
		result.addIssue(issue)
	}
	if parts := result.partsFor(s.In); parts != nil {
		parts[s.Name] = value
	}
}

// standardHeaders are never rejected in strict mode.
var standardHeaders = map[string]struct{}{
	"Accept":            {},
	"Accept-Encoding":   {},
	"Accept-Language":   {},
	"Authorization":     {},
	"Cache-Control":     {},
	"Connection":        {},
	"Content-Length":    {},
	"Content-Type":      {},
	"Cookie":            {},
	"Host":              {},
	"Origin":            {},
	"Referer":           {},
	"User-Agent":        {},
	"X-Forwarded-For":   {},
	"X-Forwarded-Proto": {},
	"X-Request-Id":      {},
}

// checkUndeclared flags query parameters and non-standard headers that no
// part schema declares.
func (p *Pipeline) checkUndeclared(result *RequestResult, op *Operation, query map[string][]string, header http.Header) {
	declared := func(loc partschema.Location, name string) bool {
		for _, s := range op.Parts {
			if s.In == loc && (s.Name == name || loc == partschema.LocationHeader && strings.EqualFold(s.Name, name)) {
				return true
			}
		}
		return false
	}

	for name := range query {
		if !declared(partschema.LocationQuery, name) {
			result.addIssue(Issue{
				Part:       name,
				Location:   partschema.LocationQuery.String(),
				Constraint: "undeclared",
				Message:    "unknown query parameter",
			})
		}
	}
	for name := range header {
		if _, std := standardHeaders[http.CanonicalHeaderKey(name)]; std {
			continue
		}
		if !declared(partschema.LocationHeader, name) {
			result.addIssue(Issue{
				Part:       name,
				Location:   partschema.LocationHeader.String(),
				Constraint: "undeclared",
				Message:    "unknown header",
			})
		}
	}
}

// SelectSerializer negotiates one of the operation's serializers against an
// Accept header value. Same selection Respond performs, exposed for callers
// that want to inspect the outcome without writing a response.
func (p *Pipeline) SelectSerializer(accept string, op *Operation) (negotiate.Entry, negotiate.MediaType, error) {
	return p.negotiator.SelectSerializer(accept, op.Serializers)
}

// SelectParser negotiates one of the operation's parsers against a
// Content-Type header value.
func (p *Pipeline) SelectParser(contentType string, op *Operation) (negotiate.Entry, error) {
	return p.negotiator.SelectParser(contentType, op.Parsers)
}

// ParseBody negotiates a parser for the request's Content-Type, reads the
// body within the configured size cap, decodes it and validates it against
// the operation's body schema.
//
// A failed negotiation returns a *resterrors.NegotiationError (415); decode
// and size failures return validation issues, keeping all request-input
// problems on the 4xx surface.
func (p *Pipeline) ParseBody(req *http.Request, op *Operation) (any, []Issue, error) {
	if op.BodyPart == nil {
		return nil, nil, nil
	}

	entry, err := p.negotiator.SelectParser(req.Header.Get("Content-Type"), op.Parsers)
	if err != nil {
		return nil, nil, err
	}
	producer, ok := p.producers.Get(entry.ID)
	if !ok {
		// effective lists only hold registered producer IDs
		return nil, nil, &resterrors.DispatchError{
			Message: fmt.Sprintf("no producer registered for negotiated entry %q", entry.ID),
		}
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, p.maxBodySize+1))
	if err != nil {
		return nil, []Issue{{
			Part:     "body",
			Location: partschema.LocationBody.String(),
			Message:  "cannot read request body: " + err.Error(),
		}}, nil
	}
	if int64(len(data)) > p.maxBodySize {
		return nil, []Issue{{
			Part:       "body",
			Location:   partschema.LocationBody.String(),
			Constraint: "maxBodySize",
			Message:    fmt.Sprintf("request body exceeds %d bytes", p.maxBodySize),
			Expected:   p.maxBodySize,
		}}, nil
	}

	var value any
	if err := producer.Unmarshal(data, &value); err != nil {
		return nil, []Issue{{
			Part:     "body",
			Location: partschema.LocationBody.String(),
			Message:  "malformed request body: " + err.Error(),
		}}, nil
	}

	issues := p.validator.Validate(value, op.BodyPart, op.BodyPart.Name)
	for i := range issues {
		issues[i].Location = partschema.LocationBody.String()
	}
	return value, issues, nil
}

// Respond negotiates a serializer for the request's Accept header and
// dispatches the output through the processor chain. Negotiation and
// dispatch failures are written to the response (406 or 500) and returned
// for logging.
func (p *Pipeline) Respond(w http.ResponseWriter, req *http.Request, op *Operation, output any) error {
	ctx := dispatch.NewContext(w, req, output)

	entry, mt, err := p.negotiator.SelectSerializer(req.Header.Get("Accept"), op.Serializers)
	if err != nil {
		p.WriteError(w, err)
		return err
	}
	if producer, ok := p.producers.Get(entry.ID); ok {
		ctx.Serializer = producer
		ctx.ContentType = mt.String()
	}

	if err := p.dispatcher.Dispatch(ctx); err != nil {
		p.logger.Error("dispatch failed",
			"operation", op.Name(),
			"error", err)
		p.WriteError(w, err)
		return err
	}
	return nil
}

// WriteError writes a structured error as an HTTP response: negotiation
// failures carry their own status code and enumerate the supported media
// types, validation errors are 400, everything else is 500. Best effort if
// the response header has already been written.
func (p *Pipeline) WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := "internal error"

	var negErr *resterrors.NegotiationError
	var valErr *resterrors.ValidationError
	switch {
	case errors.As(err, &negErr):
		status = negErr.StatusCode
		body = negErr.Error()
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		body = valErr.Error()
	case errors.Is(err, resterrors.ErrDispatch):
		body = err.Error()
	case err != nil:
		body = err.Error()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body+"\n")
}

// WriteIssues writes binding or validation issues as a 400 response naming
// each offending part and constraint.
func (p *Pipeline) WriteIssues(w http.ResponseWriter, issues []Issue) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	for _, issue := range issues {
		_, _ = io.WriteString(w, issue.String()+"\n")
	}
}
