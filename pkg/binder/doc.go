// Package binder decodes HTTP requests into tagged Go structs. Each binder
// handles one source (query string, form body, JSON body) and returns
// ErrBinderNotApplicable when the request does not carry that source, so
// several binders can be chained on one handler.
package binder
