package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/studylog/pkg/toast"
)

// FlashToastKey is the flash key a toast survives a redirect under.
const FlashToastKey = "toast"

// Flasher stores a value for the next request to read once.
type Flasher interface {
	SetFlash(w http.ResponseWriter, key string, value any) error
}

// ToastPatch prepends a rendered toast into ToastTarget.
func ToastPatch(component templ.Component) TemplPatch {
	return Patch(component, WithTarget(ToastTarget), WithPatchMode(PatchPrepend))
}

type redirectToastResponse struct {
	url   string
	toast toast.Toast
	view  func(toast.Toast) templ.Component
	flash Flasher
}

func (rt redirectToastResponse) Render(w http.ResponseWriter, r *http.Request) error {
	// Flash before NewSSE: it flushes the headers.
	if rt.flash != nil {
		if err := rt.flash.SetFlash(w, FlashToastKey, rt.toast); err != nil {
			return err
		}
	}
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		if rt.flash == nil && rt.view != nil {
			p := ToastPatch(rt.view(rt.toast))
			if err := sse.PatchElementTempl(p.Component, p.Options...); err != nil {
				return err
			}
		}
		return sse.Redirect(rt.url)
	}
	http.Redirect(w, r, rt.url, http.StatusSeeOther)
	return nil
}

// RedirectWithToast navigates to url and shows t there through a flash.
// view is only used when no flash store is available.
func RedirectWithToast(url string, t toast.Toast, view func(toast.Toast) templ.Component, flash Flasher) Response {
	return redirectToastResponse{url: url, toast: t, view: view, flash: flash}
}
