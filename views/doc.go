// Package views renders pages and DataStar fragments as templ components.
// Edit the .templ sources and run `templ generate` to refresh the _templ.go
// files. Components localize through the translator Views binds into the
// render context.
package views
