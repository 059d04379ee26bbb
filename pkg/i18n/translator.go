package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/studylog/pkg/logger"
)

// Translator resolves dot-separated keys against per-language translation trees.
type Translator struct {
	mu            sync.RWMutex
	translations  map[string]map[string]any
	defaultLang   string
	fallbackToKey bool
	logMissing    bool
	log           *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when the requested one is unknown.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithFallbackToKey controls whether a missing key renders as the key itself
// (default) or as an empty string.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) { t.fallbackToKey = fallback }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMissingTranslationsLogging logs a warning for every missing key.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(t *Translator) { t.logMissing = enabled }
}

// NewTranslator loads translations through adapter.
func NewTranslator(ctx context.Context, adapter Adapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		log:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for lang, tree := range translations {
		if lang == "" || tree == nil {
			return nil, fmt.Errorf("%w: language %q", ErrInvalidTranslations, lang)
		}
	}

	t.translations = translations
	t.log.InfoContext(ctx, "translations loaded",
		slog.Any("languages", t.SupportedLanguages()),
		logger.Component("i18n"),
	)
	return t, nil
}

// SupportedLanguages returns the loaded language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// DefaultLanguage returns the configured fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// HasTranslation reports whether lang defines key as a string.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := lookup(t.translations[lang], key)
	return ok
}

// T translates key for lang. args are name/value pairs substituted into
// %{name} placeholders:
//
//	tr.T("en", "account.password.update_failed", "error", err.Error())
//
// An unknown lang falls back to the default language.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	tree, ok := t.translations[lang]
	if !ok {
		tree = t.translations[t.defaultLang]
	}
	msg, found := lookup(tree, key)
	t.mu.RUnlock()

	if !found {
		if t.logMissing {
			t.log.Warn("translation not found",
				slog.String("lang", lang),
				slog.String("key", key),
				logger.Component("i18n"),
			)
		}
		if !t.fallbackToKey {
			return ""
		}
		msg = key
	}
	return substitute(msg, args)
}

// Tc translates key using the locale stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

func lookup(tree map[string]any, key string) (string, bool) {
	if tree == nil {
		return "", false
	}
	parts := strings.Split(key, ".")
	var node any = tree
	for _, part := range parts {
		m, ok := asMap(node)
		if !ok {
			return "", false
		}
		if node, ok = m[part]; !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

func substitute(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := params[match[2:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
