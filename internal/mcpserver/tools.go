package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/resttools/internal/options"
	"github.com/erraggy/resttools/partschema"
	"github.com/erraggy/resttools/pipeline"
)

// configInput selects a pipeline configuration source.
type configInput struct {
	Config string `json:"config,omitempty" jsonschema:"Inline pipeline configuration YAML"`
	File   string `json:"file,omitempty"   jsonschema:"Path to a pipeline configuration file on disk"`
}

// load resolves the input into a parsed configuration.
func (c configInput) load() (*pipeline.Config, error) {
	if err := options.ValidateSingleInputSource(
		"missing configuration: provide config or file",
		"provide config or file, not both",
		c.Config != "", c.File != "",
	); err != nil {
		return nil, err
	}
	if c.Config != "" {
		return pipeline.LoadConfig([]byte(c.Config))
	}
	return pipeline.LoadConfigFile(c.File)
}

// build resolves and fully builds the pipeline, surfacing every
// configuration error the way startup would.
func (c configInput) build() (*pipeline.Pipeline, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, err
	}
	return pipeline.NewFromConfig(cfg)
}

type checkConfigInput struct {
	Spec configInput `json:"spec" jsonschema:"The pipeline configuration to check"`
}

type checkConfigOutput struct {
	Valid      bool   `json:"valid"`
	Resources  int    `json:"resources"`
	Operations int    `json:"operations"`
	Error      string `json:"error,omitempty"`
}

func handleCheckConfig(_ context.Context, _ *mcp.CallToolRequest, input checkConfigInput) (*mcp.CallToolResult, checkConfigOutput, error) {
	p, err := input.Spec.build()
	if err != nil {
		// configuration errors are the tool's subject matter, not tool failures
		return nil, checkConfigOutput{Error: err.Error()}, nil
	}

	output := checkConfigOutput{Valid: true, Resources: len(p.Resources())}
	for _, res := range p.Resources() {
		output.Operations += len(res.Operations)
	}
	return nil, output, nil
}

type negotiateInput struct {
	Spec        configInput `json:"spec"                   jsonschema:"The pipeline configuration to negotiate against"`
	Method      string      `json:"method"                 jsonschema:"HTTP method of the request"`
	Path        string      `json:"path"                   jsonschema:"Request path to route"`
	Accept      string      `json:"accept,omitempty"       jsonschema:"Accept header value (empty means */*)"`
	ContentType string      `json:"content_type,omitempty" jsonschema:"Content-Type header value. When set the parser selection is reported too."`
}

type negotiateOutput struct {
	Operation    string `json:"operation"`
	Serializer   string `json:"serializer,omitempty"`
	MediaType    string `json:"media_type,omitempty"`
	Parser       string `json:"parser,omitempty"`
	SerializeErr string `json:"serialize_error,omitempty"`
	ParseErr     string `json:"parse_error,omitempty"`
}

func handleNegotiate(_ context.Context, _ *mcp.CallToolRequest, input negotiateInput) (*mcp.CallToolResult, negotiateOutput, error) {
	p, err := input.Spec.build()
	if err != nil {
		return errResult(err), negotiateOutput{}, nil
	}

	path := input.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(strings.ToUpper(input.Method), "http://localhost"+path, nil)
	if err != nil {
		return errResult(fmt.Errorf("building request: %w", err)), negotiateOutput{}, nil
	}
	op, _, ok := p.Route(req)
	if !ok {
		return errResult(fmt.Errorf("no operation matches %s %s", input.Method, input.Path)), negotiateOutput{}, nil
	}

	output := negotiateOutput{Operation: op.Name()}

	entry, mt, serr := p.SelectSerializer(input.Accept, op)
	if serr != nil {
		output.SerializeErr = serr.Error()
	} else {
		output.Serializer = entry.ID
		output.MediaType = mt.String()
	}

	if input.ContentType != "" {
		pentry, perr := p.SelectParser(input.ContentType, op)
		if perr != nil {
			output.ParseErr = perr.Error()
		} else {
			output.Parser = pentry.ID
		}
	}
	return nil, output, nil
}

type validatePartInput struct {
	Part   string   `json:"part"             jsonschema:"Declarative part source as YAML with in/name/type and constraints"`
	Value  string   `json:"value,omitempty"  jsonschema:"Raw value to coerce and validate"`
	Values []string `json:"values,omitempty" jsonschema:"Repeated raw occurrences for collectionFormat multi"`
}

type partIssue struct {
	Part       string `json:"part"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
}

type validatePartOutput struct {
	Valid   bool        `json:"valid"`
	Coerced string      `json:"coerced,omitempty"`
	Issues  []partIssue `json:"issues,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func handleValidatePart(_ context.Context, _ *mcp.CallToolRequest, input validatePartInput) (*mcp.CallToolResult, validatePartOutput, error) {
	src, err := partschema.SourceFromYAML([]byte(input.Part))
	if err != nil {
		return nil, validatePartOutput{Error: err.Error()}, nil
	}
	loc, err := partschema.ParseLocation(src.In)
	if err != nil {
		return nil, validatePartOutput{Error: err.Error()}, nil
	}
	if loc == partschema.LocationNone {
		loc = partschema.LocationQuery
	}
	schema, err := partschema.NewBuilder(loc).Apply(src).Build()
	if err != nil {
		return nil, validatePartOutput{Error: err.Error()}, nil
	}

	var value any
	if len(input.Values) > 0 {
		value, err = partschema.CoerceValues(input.Values, schema)
	} else {
		value, err = partschema.Coerce(input.Value, schema)
	}
	if err != nil {
		return nil, validatePartOutput{
			Issues: []partIssue{{Part: schema.Name, Constraint: "type", Message: err.Error()}},
		}, nil
	}

	v := partschema.Validator{CollectAll: true}
	violations := v.Validate(value, schema, schema.Name)

	output := validatePartOutput{
		Valid:   len(violations) == 0,
		Coerced: fmt.Sprintf("%v", value),
	}
	for _, issue := range violations {
		output.Issues = append(output.Issues, partIssue{
			Part:       issue.Part,
			Constraint: issue.Constraint,
			Message:    issue.Message,
		})
	}
	return nil, output, nil
}
