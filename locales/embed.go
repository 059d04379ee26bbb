// Package locales embeds the application's translation files.
package locales

import "embed"

//go:embed *.yaml
var FS embed.FS
