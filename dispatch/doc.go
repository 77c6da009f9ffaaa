// Package dispatch turns operation output objects into written HTTP
// responses through an ordered processor chain.
//
// A Processor inspects the current output and returns one of three outcomes:
// NotHandled passes to the next processor, Handled ends dispatch with the
// response written, and Replaced substitutes a new output and restarts the
// chain against it. Restarts are capped at the chain length so dispatch
// always terminates.
//
// The built-in chain covers the common output shapes: nil (204), *Envelope
// (status/header wrapper, unwrapped via Replaced), io.Reader (streamed),
// []byte (raw), and finally anything else through the negotiated serializer.
// Callers compose their own chains with NewDispatcher when they need custom
// output types.
package dispatch
