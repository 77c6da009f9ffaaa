package dispatch

import (
	"io"
	"net/http"
	"strconv"
)

// NilProcessor handles nil outputs by writing 204 No Content with an empty
// body. A processor-set status other than the 200 default is preserved.
type NilProcessor struct{}

// Label implements Processor.
func (NilProcessor) Label() string { return "nil" }

// Process implements Processor.
func (NilProcessor) Process(ctx *Context) (Outcome, error) {
	if ctx.Output() != nil {
		return NotHandled, nil
	}
	if ctx.status == 0 {
		ctx.SetStatus(http.StatusNoContent)
	}
	ctx.WriteHeader()
	return Handled, nil
}

// ReaderProcessor streams io.Reader outputs to the response, closing the
// reader afterwards when it is also an io.Closer.
type ReaderProcessor struct{}

// Label implements Processor.
func (ReaderProcessor) Label() string { return "reader" }

// Process implements Processor.
func (ReaderProcessor) Process(ctx *Context) (Outcome, error) {
	r, ok := ctx.Output().(io.Reader)
	if !ok {
		return NotHandled, nil
	}
	if c, isCloser := r.(io.Closer); isCloser {
		defer c.Close()
	}
	ctx.WriteHeader()
	if _, err := io.Copy(ctx.Writer, r); err != nil {
		return NotHandled, err
	}
	return Handled, nil
}

// BytesProcessor writes []byte outputs directly.
type BytesProcessor struct{}

// Label implements Processor.
func (BytesProcessor) Label() string { return "bytes" }

// Process implements Processor.
func (BytesProcessor) Process(ctx *Context) (Outcome, error) {
	b, ok := ctx.Output().([]byte)
	if !ok {
		return NotHandled, nil
	}
	ctx.Header().Set("Content-Length", strconv.Itoa(len(b)))
	if _, err := ctx.Write(b); err != nil {
		return NotHandled, err
	}
	return Handled, nil
}

// Envelope wraps a payload with response metadata. EnvelopeProcessor unwraps
// it: the status and headers are applied to the response and the payload
// replaces the envelope as the output, restarting the chain.
type Envelope struct {
	Status  int
	Header  http.Header
	Payload any
}

// EnvelopeProcessor unwraps *Envelope outputs.
type EnvelopeProcessor struct{}

// Label implements Processor.
func (EnvelopeProcessor) Label() string { return "envelope" }

// Process implements Processor.
func (EnvelopeProcessor) Process(ctx *Context) (Outcome, error) {
	env, ok := ctx.Output().(*Envelope)
	if !ok {
		return NotHandled, nil
	}
	if env.Status != 0 {
		ctx.SetStatus(env.Status)
	}
	for k, vs := range env.Header {
		for _, v := range vs {
			ctx.Header().Add(k, v)
		}
	}
	ctx.Replace(env.Payload)
	return Replaced, nil
}

// SerializerProcessor is the terminal processor: it marshals whatever output
// remains with the negotiated serializer. It declines when no serializer was
// negotiated, which surfaces the standard no-processor dispatch error.
type SerializerProcessor struct{}

// Label implements Processor.
func (SerializerProcessor) Label() string { return "serializer" }

// Process implements Processor.
func (SerializerProcessor) Process(ctx *Context) (Outcome, error) {
	if ctx.Serializer == nil {
		return NotHandled, nil
	}
	body, err := ctx.Serializer.Marshal(ctx.Output())
	if err != nil {
		return NotHandled, err
	}
	ctx.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := ctx.Write(body); err != nil {
		return NotHandled, err
	}
	return Handled, nil
}
