// Package handler adapts typed request handlers to net/http.
//
// A handler receives a Context and a request value filled by binders, and
// returns a Response. Responses know how to render for plain browser
// requests and for DataStar requests (server-sent element patches, signal
// patches and redirects), so the same handler serves both.
package handler
