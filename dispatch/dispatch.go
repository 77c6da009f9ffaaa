package dispatch

import (
	"fmt"
	"net/http"

	"github.com/erraggy/resttools/resterrors"
)

// Outcome is a processor's verdict on the current output object.
type Outcome int

// Processor outcomes.
const (
	// NotHandled means the processor does not recognize the output; the next
	// processor in the chain is consulted.
	NotHandled Outcome = iota
	// Handled means the response has been fully written; dispatch stops.
	Handled
	// Replaced means the processor substituted a new output object; the chain
	// restarts from the beginning against it.
	Replaced
)

var outcomeNames = []string{"not-handled", "handled", "replaced"}

// String returns the outcome's name.
func (o Outcome) String() string {
	if int(o) < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Processor examines the current output object and either writes the
// response, declines, or substitutes a new output for the chain to retry.
type Processor interface {
	// Label names the processor for error messages and logs.
	Label() string
	// Process inspects ctx.Output() and reports an Outcome. An error aborts
	// dispatch immediately.
	Process(ctx *Context) (Outcome, error)
}

// Serializer marshals an output object into the negotiated representation.
// The pipeline's producers satisfy this.
type Serializer interface {
	Marshal(v any) ([]byte, error)
}

// Context carries one response through the processor chain: the request and
// writer, the negotiated serializer, and the mutable output object and status.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter

	// Serializer is the negotiated producer, nil when the operation produces
	// no negotiated representation.
	Serializer Serializer
	// ContentType is the concrete media type the serializer was selected
	// under; written to the response header on the first write.
	ContentType string

	output      any
	status      int
	wroteHeader bool
}

// NewContext builds a dispatch context for one response. A zero status means
// 200 unless a processor decides otherwise.
func NewContext(w http.ResponseWriter, r *http.Request, output any) *Context {
	return &Context{Request: r, Writer: w, output: output}
}

// Output returns the current output object.
func (c *Context) Output() any { return c.output }

// Replace substitutes a new output object. Processors that return Replaced
// call this first.
func (c *Context) Replace(v any) { c.output = v }

// Status returns the status code that will be written, defaulting to 200.
func (c *Context) Status() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

// SetStatus sets the status code for the response. It has no effect once the
// header has been written.
func (c *Context) SetStatus(code int) { c.status = code }

// Header returns the response header map for mutation before the first write.
func (c *Context) Header() http.Header { return c.Writer.Header() }

// WriteHeader writes the status line and headers once, setting Content-Type
// from the negotiated media type if the processor has not set one.
func (c *Context) WriteHeader() {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true
	if c.ContentType != "" && c.Writer.Header().Get("Content-Type") == "" {
		c.Writer.Header().Set("Content-Type", c.ContentType)
	}
	c.Writer.WriteHeader(c.Status())
}

// Write writes body bytes, emitting the header first if needed.
func (c *Context) Write(p []byte) (int, error) {
	c.WriteHeader()
	return c.Writer.Write(p)
}

// Dispatcher runs a fixed, ordered processor chain over response outputs.
//
// Each processor is consulted in order: NotHandled advances to the next,
// Handled ends dispatch successfully, and Replaced restarts the chain from
// the first processor against the substituted output. Restarts are capped at
// the chain length, which bounds total work and guarantees termination even
// for a cycle of mutually replacing processors.
type Dispatcher struct {
	chain []Processor
}

// NewDispatcher builds a dispatcher over the given chain. Order is
// significant: earlier processors win when several could handle an output.
func NewDispatcher(chain ...Processor) *Dispatcher {
	return &Dispatcher{chain: chain}
}

// DefaultDispatcher returns a dispatcher with the built-in chain: nil
// outputs, envelopes, streams, raw bytes, then the negotiated serializer.
func DefaultDispatcher() *Dispatcher {
	return NewDispatcher(
		NilProcessor{},
		EnvelopeProcessor{},
		ReaderProcessor{},
		BytesProcessor{},
		SerializerProcessor{},
	)
}

// Dispatch runs the chain until a processor handles the output. Reaching the
// end of the chain with nothing handled, exceeding the restart cap, or any
// processor error yields a *resterrors.DispatchError; dispatch errors are
// 500-class and never retried.
func (d *Dispatcher) Dispatch(ctx *Context) error {
	restarts := 0
	for i := 0; i < len(d.chain); i++ {
		p := d.chain[i]
		outcome, err := p.Process(ctx)
		if err != nil {
			return &resterrors.DispatchError{
				OutputType: typeName(ctx.Output()),
				Message:    fmt.Sprintf("processor %q failed", p.Label()),
				Cause:      err,
			}
		}

		switch outcome {
		case NotHandled:
			// next processor
		case Handled:
			return nil
		case Replaced:
			restarts++
			if restarts > len(d.chain) {
				return &resterrors.DispatchError{
					OutputType: typeName(ctx.Output()),
					Message:    fmt.Sprintf("replacement limit exceeded after %d restarts", restarts-1),
				}
			}
			i = -1
		default:
			return &resterrors.DispatchError{
				OutputType: typeName(ctx.Output()),
				Message:    fmt.Sprintf("processor %q returned unknown outcome %d", p.Label(), int(outcome)),
			}
		}
	}

	return &resterrors.DispatchError{
		OutputType: typeName(ctx.Output()),
		Message:    "no response processor for output type " + typeName(ctx.Output()),
	}
}

// typeName renders an output's Go type for error messages.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
