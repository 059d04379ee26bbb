package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = "ja"

// maxAcceptLanguageLength bounds the header we are willing to parse.
const maxAcceptLanguageLength = 4096

// LangExtractor picks a language for the request. "" means undecided.
type LangExtractor func(r *http.Request) string

// Negotiator matches client preferences against the supported languages.
type Negotiator struct {
	supported []string
	matcher   language.Matcher
}

// NewNegotiator builds a Negotiator. The first supported language is the
// fallback when nothing matches.
func NewNegotiator(supported ...string) *Negotiator {
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, strings.ToLower(s))
	}
	return &Negotiator{supported: names, matcher: language.NewMatcher(tags)}
}

// Match returns the best supported language for an Accept-Language header
// value or a single language code, or "" when nothing matches.
func (n *Negotiator) Match(header string) string {
	if header == "" || len(n.supported) == 0 {
		return ""
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := n.matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	return n.supported[idx]
}

// Extractor checks the "lang" query parameter, the "lang" cookie and then
// the Accept-Language header.
func (n *Negotiator) Extractor() LangExtractor {
	return func(r *http.Request) string {
		if q := strings.TrimSpace(r.URL.Query().Get("lang")); q != "" {
			if lang := n.Match(q); lang != "" {
				return lang
			}
		}
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			if lang := n.Match(c.Value); lang != "" {
				return lang
			}
		}
		return n.Match(r.Header.Get("Accept-Language"))
	}
}

type localeContextKey struct{}

// SetLocale stores locale in ctx.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the locale stored in ctx, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	if locale, _ := ctx.Value(localeContextKey{}).(string); locale != "" {
		return locale
	}
	return DefaultLanguage
}

// Middleware stores the extracted language (or fallback) in the request context.
func Middleware(extract LangExtractor, fallback string) func(http.Handler) http.Handler {
	if fallback == "" {
		fallback = DefaultLanguage
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if extract != nil {
				lang = extract(r)
			}
			if lang == "" {
				lang = fallback
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
