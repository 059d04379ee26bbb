// Package i18n loads YAML translations and resolves localized strings for
// the language negotiated from each request.
//
//	tr, err := i18n.NewTranslator(ctx, i18n.NewFSAdapter(locales.FS, "."))
//	neg := i18n.NewNegotiator(tr.SupportedLanguages()...)
//	r.Use(i18n.Middleware(neg.Extractor(), "ja"))
//	msg := tr.Tc(r.Context(), "account.password.updated")
package i18n
