package views

import (
	"context"

	"github.com/dmitrymomot/studylog/pkg/i18n"
)

// Translate localizes key for the locale carried by ctx.
type Translate func(ctx context.Context, key string, args ...string) string

type translateKey struct{}

func withTranslate(ctx context.Context, fn Translate) context.Context {
	return context.WithValue(ctx, translateKey{}, fn)
}

// t localizes key with the translator the component tree renders under.
// Without one the key is shown verbatim.
func t(ctx context.Context, key string, args ...string) string {
	if fn, ok := ctx.Value(translateKey{}).(Translate); ok && fn != nil {
		return fn(ctx, key, args...)
	}
	return key
}

func lang(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}
