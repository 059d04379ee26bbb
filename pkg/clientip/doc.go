// Package clientip resolves the client address of an HTTP request, stores it
// in the request context and exposes it to the logger.
//
// Forwarding headers are only consulted when the resolver is told to trust
// them; otherwise RemoteAddr is used.
package clientip
