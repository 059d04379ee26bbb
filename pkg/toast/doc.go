// Package toast models the short-lived notifications shown to users after
// an action: a title, optional description, severity, display duration,
// dismissibility and screen position.
package toast
