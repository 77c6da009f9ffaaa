package pipeline

import (
	"strings"

	"github.com/erraggy/resttools/negotiate"
	"github.com/erraggy/resttools/partschema"
	"github.com/erraggy/resttools/resterrors"
)

// inheritMarker is the config-file spelling of negotiate.Inherit inside an
// operation's serializer or parser list.
const inheritMarker = "inherit"

// ResourceConfig declares one resource: its default producer lists and its
// operations. Undeclared producer lists default to every registered producer.
type ResourceConfig struct {
	Name        string            `yaml:"name"`
	Serializers []string          `yaml:"serializers"`
	Parsers     []string          `yaml:"parsers"`
	Operations  []OperationConfig `yaml:"operations"`
}

// OperationConfig declares one operation. Serializers and Parsers are
// producer IDs overriding the resource lists; the "inherit" marker anywhere
// in a list extends the resource list instead of replacing it. Nil lists
// inherit unchanged.
type OperationConfig struct {
	Method      string               `yaml:"method"`
	Path        string               `yaml:"path"`
	Serializers []string             `yaml:"serializers"`
	Parsers     []string             `yaml:"parsers"`
	Parts       []*partschema.Source `yaml:"parts"`
}

// Resource is a registered resource: frozen producer lists plus its built
// operations. Registration is single-threaded; afterwards a Resource is
// immutable and read concurrently without locks.
type Resource struct {
	Name       string
	Registry   *negotiate.Registry
	Operations []*Operation
}

// Operation is one registered method+path pair with everything precomputed:
// the compiled path matcher, built part schemas per location, and the
// effective serializer/parser candidate lists.
type Operation struct {
	Method   string
	Template string

	matcher *PathMatcher

	// Parts holds the built non-body part schemas in declaration order.
	Parts []*partschema.PartSchema
	// BodyPart is the built body schema, nil when the operation takes no body.
	BodyPart *partschema.PartSchema

	// Serializers and Parsers are the effective candidate lists.
	Serializers []negotiate.Entry
	Parsers     []negotiate.Entry
}

// Name returns "METHOD template" for logs and results.
func (op *Operation) Name() string {
	return op.Method + " " + op.Template
}

// buildResource freezes a ResourceConfig: producer lists are resolved against
// the producer set, part schemas are built, path matchers compiled. Any
// failure is a ConfigError carried up to abort startup.
func buildResource(rc ResourceConfig, producers *ProducerSet) (*Resource, error) {
	if rc.Name == "" {
		return nil, &resterrors.ConfigError{
			Option:  "resource",
			Message: "resource name cannot be empty",
		}
	}

	serializers, err := resolveEntries(orAllProducers(rc.Serializers, producers), producers)
	if err != nil {
		return nil, err
	}
	parsers, err := resolveEntries(orAllProducers(rc.Parsers, producers), producers)
	if err != nil {
		return nil, err
	}

	res := &Resource{
		Name: rc.Name,
		Registry: &negotiate.Registry{
			Serializers: serializers,
			Parsers:     parsers,
		},
	}

	for _, oc := range rc.Operations {
		op, err := buildOperation(oc, res.Registry, producers)
		if err != nil {
			return nil, err
		}
		res.Operations = append(res.Operations, op)
	}
	return res, nil
}

// buildOperation freezes one OperationConfig.
func buildOperation(oc OperationConfig, registry *negotiate.Registry, producers *ProducerSet) (*Operation, error) {
	if oc.Method == "" {
		return nil, &resterrors.ConfigError{
			Option:  "operation",
			Value:   oc.Path,
			Message: "operation method cannot be empty",
		}
	}

	matcher, err := NewPathMatcher(oc.Path)
	if err != nil {
		return nil, err
	}

	op := &Operation{
		Method:   strings.ToUpper(oc.Method),
		Template: oc.Path,
		matcher:  matcher,
	}

	override, err := resolveOverride(oc.Serializers, producers)
	if err != nil {
		return nil, err
	}
	op.Serializers = registry.SerializersFor(override)

	override, err = resolveOverride(oc.Parsers, producers)
	if err != nil {
		return nil, err
	}
	op.Parsers = registry.ParsersFor(override)

	for _, src := range oc.Parts {
		schema, err := buildPart(src)
		if err != nil {
			return nil, err
		}
		if schema.In == partschema.LocationBody {
			if op.BodyPart != nil {
				return nil, &resterrors.ConfigError{
					Option:  "parts",
					Value:   oc.Path,
					Message: "operation declares more than one body part",
				}
			}
			op.BodyPart = schema
			continue
		}
		op.Parts = append(op.Parts, schema)
	}

	return op, nil
}

// buildPart builds one part schema from its declarative source.
func buildPart(src *partschema.Source) (*partschema.PartSchema, error) {
	if src == nil || src.IsEmpty() {
		return nil, &resterrors.ConfigError{
			Option:  "parts",
			Message: "part source cannot be empty",
		}
	}
	loc, err := partschema.ParseLocation(src.In)
	if err != nil {
		return nil, err
	}
	if loc == partschema.LocationNone {
		return nil, &resterrors.ConfigError{
			Option:  "in",
			Message: "part location cannot be empty",
		}
	}
	return partschema.NewBuilder(loc).Apply(src).Build()
}

// orAllProducers substitutes every registered producer for an undeclared
// resource-level list.
func orAllProducers(ids []string, producers *ProducerSet) []string {
	if ids == nil {
		return producers.IDs()
	}
	return ids
}

// resolveEntries maps producer IDs to negotiation entries. The inherit marker
// is not valid at resource level.
func resolveEntries(ids []string, producers *ProducerSet) ([]negotiate.Entry, error) {
	entries := make([]negotiate.Entry, 0, len(ids))
	for _, id := range ids {
		if id == inheritMarker {
			return nil, &resterrors.ConfigError{
				Option:  "serializers",
				Value:   id,
				Message: "inherit marker is only valid in operation-level lists",
			}
		}
		e, err := producers.Entry(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// resolveOverride maps an operation-level ID list to negotiation entries,
// translating the inherit marker. A nil list stays nil (inherit unchanged).
func resolveOverride(ids []string, producers *ProducerSet) ([]negotiate.Entry, error) {
	if ids == nil {
		return nil, nil
	}
	entries := make([]negotiate.Entry, 0, len(ids))
	for _, id := range ids {
		if id == inheritMarker {
			entries = append(entries, negotiate.Inherit)
			continue
		}
		e, err := producers.Entry(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
