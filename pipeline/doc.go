// Package pipeline ties part-schema validation, content negotiation and
// response dispatch into a request-handling layer.
//
// A Pipeline is configured once at startup: resources declare their
// operations, each operation carries declarative part sources that are built
// into frozen schemas, producer lists are resolved into effective
// negotiation candidates, and path templates are compiled. From then on the
// pipeline only reads these structures, so request handling needs no locks.
//
// Per request the flow is Route, BindRequest (and ParseBody when the
// operation takes one), the application handler, then Respond:
//
//	op, params, ok := p.Route(req)
//	result := p.BindRequest(req, op, params)
//	defer pipeline.ReleaseResult(result)
//	if !result.Valid {
//	    p.WriteIssues(w, result.Issues)
//	    return
//	}
//	out := handle(result)
//	p.Respond(w, req, op, out)
//
// Request-input problems surface as 4xx responses, negotiation failures as
// 406/415 with the supported media types enumerated, and dispatch failures
// as 500; nothing request-scoped panics or escapes the request boundary.
package pipeline
