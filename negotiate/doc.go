// Package negotiate implements HTTP content negotiation over ordered
// candidate lists.
//
// A candidate list is a slice of Entry values: producer IDs paired with the
// media types they handle, in server preference order. Registry resolves
// operation-level override lists against a resource's lists, with the Inherit
// sentinel meaning "prepend to" rather than "replace".
//
// Negotiator matches Accept headers (for serializers) and Content-Type
// headers (for parsers) against a candidate list. Server declaration order is
// the tiebreak among equally specific matches; a failed negotiation yields a
// resterrors.NegotiationError carrying the status code (406 or 415) and the
// full supported media type list.
package negotiate
