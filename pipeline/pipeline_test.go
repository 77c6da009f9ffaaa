package pipeline

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/resttools/partschema"
	"github.com/erraggy/resttools/resterrors"
)

func newTestPipeline(t *testing.T, resources ...ResourceConfig) *Pipeline {
	t.Helper()
	p, err := New()
	require.NoError(t, err)
	for _, rc := range resources {
		_, err := p.AddResource(rc)
		require.NoError(t, err)
	}
	return p
}

func newRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r
}

// petResource declares one GET operation with path, query and header parts.
func petResource() ResourceConfig {
	return ResourceConfig{
		Name:        "pets",
		Serializers: []string{"json"},
		Parsers:     []string{"json"},
		Operations: []OperationConfig{
			{
				Method: "GET",
				Path:   "/pets/{petId}",
				Parts: []*partschema.Source{
					{In: "path", Name: "petId", Type: "integer", Minimum: floatPtr(1)},
					{In: "query", Name: "tags", Type: "array", Items: &partschema.Source{Type: "string"}},
					{In: "query", Name: "limit", Type: "integer", Default: "20", Maximum: floatPtr(100)},
					{In: "header", Name: "X-Trace", Type: "string", Pattern: "[a-f0-9]{8}"},
				},
			},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestPipeline_BindRequest(t *testing.T) {
	p := newTestPipeline(t, petResource())

	t.Run("valid request binds all parts", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/42?tags=cute,fluffy", "")
		req.Header.Set("X-Trace", "deadbeef")

		op, params, ok := p.Route(req)
		require.True(t, ok)
		result := p.BindRequest(req, op, params)
		defer ReleaseResult(result)

		assert.True(t, result.Valid)
		assert.Empty(t, result.Issues)
		assert.Equal(t, "GET /pets/{petId}", result.Operation)
		assert.Equal(t, int64(42), result.PathParts["petId"])
		assert.Equal(t, []any{"cute", "fluffy"}, result.QueryParts["tags"])
		assert.Equal(t, "deadbeef", result.HeaderParts["X-Trace"])
		// absent optional part with a default still binds
		assert.Equal(t, int64(20), result.QueryParts["limit"])
	})

	t.Run("constraint violations accumulate as issues", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/0?limit=500", "")
		req.Header.Set("X-Trace", "not-hex!")

		op, params, ok := p.Route(req)
		require.True(t, ok)
		result := p.BindRequest(req, op, params)
		defer ReleaseResult(result)

		require.False(t, result.Valid)
		byPart := map[string]Issue{}
		for _, issue := range result.Issues {
			byPart[issue.Part] = issue
		}
		assert.Equal(t, "minimum", byPart["petId"].Constraint)
		assert.Equal(t, "path", byPart["petId"].Location)
		assert.Equal(t, "maximum", byPart["limit"].Constraint)
		assert.Equal(t, "pattern", byPart["X-Trace"].Constraint)
	})

	t.Run("uncoercible value is an issue not a panic", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/notanumber", "")
		op, params, ok := p.Route(req)
		require.True(t, ok)
		result := p.BindRequest(req, op, params)
		defer ReleaseResult(result)

		require.False(t, result.Valid)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "type", result.Issues[0].Constraint)
		assert.Equal(t, "petId", result.Issues[0].Part)
	})
}

func TestPipeline_BindRequest_PresenceRules(t *testing.T) {
	rc := ResourceConfig{
		Name:        "search",
		Serializers: []string{"json"},
		Operations: []OperationConfig{
			{
				Method: "GET",
				Path:   "/search",
				Parts: []*partschema.Source{
					{In: "query", Name: "q", Type: "string", Required: boolPtr(true), MinLength: intPtr(2)},
					{In: "query", Name: "cursor", Type: "string", SkipIfEmpty: boolPtr(true), MinLength: intPtr(8)},
					{In: "query", Name: "filter", Type: "string", AllowEmptyValue: boolPtr(true)},
					{In: "query", Name: "sort", Type: "string"},
					{In: "query", Name: "ids", Type: "integer", CollectionFormat: "multi"},
				},
			},
		},
	}
	p := newTestPipeline(t, rc)
	op := p.Resources()[0].Operations[0]

	bind := func(t *testing.T, rawQuery string) *RequestResult {
		t.Helper()
		req := newRequest(t, "GET", "/search?"+rawQuery, "")
		return p.BindRequest(req, op, nil)
	}

	t.Run("missing required part", func(t *testing.T) {
		result := bind(t, "")
		defer ReleaseResult(result)
		require.False(t, result.Valid)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "required", result.Issues[0].Constraint)
		assert.Equal(t, "q", result.Issues[0].Part)
	})

	t.Run("skipIfEmpty suppresses validation", func(t *testing.T) {
		result := bind(t, "q=ok&cursor=")
		defer ReleaseResult(result)
		assert.True(t, result.Valid)
		_, bound := result.QueryParts["cursor"]
		assert.False(t, bound)
	})

	t.Run("empty value rejected unless allowed", func(t *testing.T) {
		result := bind(t, "q=ok&sort=")
		defer ReleaseResult(result)
		require.False(t, result.Valid)
		assert.Equal(t, "allowEmptyValue", result.Issues[0].Constraint)

		allowed := bind(t, "q=ok&filter=")
		defer ReleaseResult(allowed)
		assert.True(t, allowed.Valid)
		assert.Equal(t, "", allowed.QueryParts["filter"])
	})

	t.Run("multi binds repeated occurrences", func(t *testing.T) {
		result := bind(t, "q=ok&ids=3&ids=4&ids=5")
		defer ReleaseResult(result)
		assert.True(t, result.Valid)
		assert.Equal(t, []any{int64(3), int64(4), int64(5)}, result.QueryParts["ids"])
	})
}

func TestPipeline_StrictMode(t *testing.T) {
	p, err := New(WithStrictMode(true))
	require.NoError(t, err)
	_, err = p.AddResource(petResource())
	require.NoError(t, err)

	req := newRequest(t, "GET", "/pets/42?bogus=1", "")
	req.Header.Set("X-Trace", "deadbeef")
	req.Header.Set("X-Internal-Debug", "on")
	req.Header.Set("User-Agent", "test")

	op, params, ok := p.Route(req)
	require.True(t, ok)
	result := p.BindRequest(req, op, params)
	defer ReleaseResult(result)

	require.False(t, result.Valid)
	var undeclared []string
	for _, issue := range result.Issues {
		require.Equal(t, "undeclared", issue.Constraint)
		undeclared = append(undeclared, issue.Part)
	}
	assert.ElementsMatch(t, []string{"bogus", "X-Internal-Debug"}, undeclared)
}

func TestPipeline_CollectAllErrors(t *testing.T) {
	rc := ResourceConfig{
		Name:        "words",
		Serializers: []string{"json"},
		Operations: []OperationConfig{
			{
				Method: "GET",
				Path:   "/words",
				Parts: []*partschema.Source{
					{In: "query", Name: "w", Type: "string", MinLength: intPtr(5), Pattern: "[a-z]+", Enum: []string{"alpha", "omega"}},
				},
			},
		},
	}

	firstOnly := newTestPipeline(t, rc)
	op := firstOnly.Resources()[0].Operations[0]
	req := newRequest(t, "GET", "/words?w=ZZ", "")
	result := firstOnly.BindRequest(req, op, nil)
	assert.Len(t, result.Issues, 1)
	ReleaseResult(result)

	all, err := New(WithCollectAllErrors(true))
	require.NoError(t, err)
	_, err = all.AddResource(rc)
	require.NoError(t, err)
	op = all.Resources()[0].Operations[0]
	result = all.BindRequest(req, op, nil)
	defer ReleaseResult(result)
	assert.Len(t, result.Issues, 3)
}

func TestPipeline_ParseBody(t *testing.T) {
	rc := ResourceConfig{
		Name:        "pets",
		Serializers: []string{"json"},
		Parsers:     []string{"json"},
		Operations: []OperationConfig{
			{
				Method: "POST",
				Path:   "/pets",
				Parts: []*partschema.Source{
					{
						In: "body", Name: "body", Type: "object",
						Properties: map[string]*partschema.Source{
							"name": {Type: "string", Required: boolPtr(true), MinLength: intPtr(1)},
						},
					},
				},
			},
		},
	}
	p := newTestPipeline(t, rc)
	op := p.Resources()[0].Operations[0]

	t.Run("valid body", func(t *testing.T) {
		req := newRequest(t, "POST", "/pets", `{"name":"rex"}`)
		req.Header.Set("Content-Type", "application/json")
		value, issues, err := p.ParseBody(req, op)
		require.NoError(t, err)
		assert.Empty(t, issues)
		body, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "rex", body["name"])
	})

	t.Run("missing required property", func(t *testing.T) {
		req := newRequest(t, "POST", "/pets", `{}`)
		req.Header.Set("Content-Type", "application/json")
		_, issues, err := p.ParseBody(req, op)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "required", issues[0].Constraint)
		assert.Equal(t, "body", issues[0].Location)
	})

	t.Run("unsupported content type is 415", func(t *testing.T) {
		req := newRequest(t, "POST", "/pets", `<pet/>`)
		req.Header.Set("Content-Type", "text/xml")
		_, _, err := p.ParseBody(req, op)
		require.Error(t, err)
		var negErr *resterrors.NegotiationError
		require.ErrorAs(t, err, &negErr)
		assert.Equal(t, 415, negErr.StatusCode)
		assert.Equal(t, []string{"application/json"}, negErr.Supported)
	})

	t.Run("malformed body is an issue", func(t *testing.T) {
		req := newRequest(t, "POST", "/pets", `{"name":`)
		req.Header.Set("Content-Type", "application/json")
		_, issues, err := p.ParseBody(req, op)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0].Message, "malformed request body")
	})

	t.Run("oversized body is an issue", func(t *testing.T) {
		small, err := New(WithMaxBodySize(4))
		require.NoError(t, err)
		_, err = small.AddResource(rc)
		require.NoError(t, err)
		req := newRequest(t, "POST", "/pets", `{"name":"rex"}`)
		req.Header.Set("Content-Type", "application/json")
		_, issues, perr := small.ParseBody(req, small.Resources()[0].Operations[0])
		require.NoError(t, perr)
		require.Len(t, issues, 1)
		assert.Equal(t, "maxBodySize", issues[0].Constraint)
	})

	t.Run("no body part declared", func(t *testing.T) {
		noBody := newTestPipeline(t, petResource())
		req := newRequest(t, "GET", "/pets/42", "")
		value, issues, err := noBody.ParseBody(req, noBody.Resources()[0].Operations[0])
		require.NoError(t, err)
		assert.Nil(t, value)
		assert.Empty(t, issues)
	})
}

func TestPipeline_Respond(t *testing.T) {
	p := newTestPipeline(t, petResource())
	op := p.Resources()[0].Operations[0]

	t.Run("serializes negotiated output", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/42", "")
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		require.NoError(t, p.Respond(rec, req, op, map[string]any{"id": 42}))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":42}`, rec.Body.String())
	})

	t.Run("nil output is 204", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/42", "")
		rec := httptest.NewRecorder()
		require.NoError(t, p.Respond(rec, req, op, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unacceptable accept header is 406", func(t *testing.T) {
		req := newRequest(t, "GET", "/pets/42", "")
		req.Header.Set("Accept", "image/png")
		rec := httptest.NewRecorder()
		err := p.Respond(rec, req, op, map[string]any{"id": 42})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Supported media-types: ['application/json']")
	})
}

func TestPipeline_WriteError(t *testing.T) {
	p := newTestPipeline(t)

	t.Run("negotiation error uses its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.WriteError(rec, &resterrors.NegotiationError{
			StatusCode: 415,
			Header:     "Content-Type",
			Value:      "text/xml",
			Supported:  []string{"application/json"},
		})
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Contains(t, rec.Body.String(), "['application/json']")
	})

	t.Run("validation error is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.WriteError(rec, &resterrors.ValidationError{Part: "petId", Location: "path", Constraint: "minimum"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "petId")
	})

	t.Run("dispatch error is 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.WriteError(rec, &resterrors.DispatchError{OutputType: "chan int", Message: "no response processor"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPipeline_WriteIssues(t *testing.T) {
	p := newTestPipeline(t)
	rec := httptest.NewRecorder()
	p.WriteIssues(rec, []Issue{
		{Part: "petId", Location: "path", Constraint: "minimum", Message: "value 0 is less than minimum 1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "path.petId: minimum")
}

func TestPipeline_FormBinding(t *testing.T) {
	rc := ResourceConfig{
		Name:        "uploads",
		Serializers: []string{"json"},
		Operations: []OperationConfig{
			{
				Method: "POST",
				Path:   "/uploads",
				Parts: []*partschema.Source{
					{In: "formData", Name: "title", Type: "string", Required: boolPtr(true)},
				},
			},
		},
	}
	p := newTestPipeline(t, rc)
	op := p.Resources()[0].Operations[0]

	form := url.Values{"title": {"holiday"}}
	req := newRequest(t, "POST", "/uploads", form.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	result := p.BindRequest(req, op, nil)
	defer ReleaseResult(result)
	assert.True(t, result.Valid)
	assert.Equal(t, "holiday", result.FormParts["title"])
}

func intPtr(v int) *int { return &v }
