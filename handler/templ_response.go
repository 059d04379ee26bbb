package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is an alias for datastar's PatchElementOption.
type TemplOption = datastar.PatchElementOption

// WithTarget sets the CSS selector the component is patched into.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the component is merged into the DOM.
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

// TemplPatch is one component plus its patch options, used by TemplMulti.
type TemplPatch struct {
	Component templ.Component
	Options   []TemplOption
}

func Patch(component templ.Component, opts ...TemplOption) TemplPatch {
	return TemplPatch{Component: component, Options: opts}
}

type templResponse struct {
	full    templ.Component
	patches []TemplPatch
	status  int
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		for _, p := range t.patches {
			if err := sse.PatchElementTempl(p.Component, p.Options...); err != nil {
				return err
			}
		}
		return nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	if t.full != nil {
		return t.full.Render(r.Context(), w)
	}
	for _, p := range t.patches {
		if err := p.Component.Render(r.Context(), w); err != nil {
			return err
		}
	}
	return nil
}

// Templ renders component as HTML, or as a single DataStar element patch.
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{patches: []TemplPatch{Patch(component, opts...)}}
}

// TemplPartial renders partial as a DataStar patch and full for regular requests.
//
//	return handler.TemplPartial(views.PasswordForm(vm), views.PasswordPage(vm),
//		handler.WithTarget("#password-form"))
func TemplPartial(partial, full templ.Component, opts ...TemplOption) Response {
	return templResponse{full: full, patches: []TemplPatch{Patch(partial, opts...)}}
}

// TemplMulti sends each patch as its own DataStar event, or concatenates the
// components for regular requests.
func TemplMulti(patches ...TemplPatch) Response {
	return templResponse{patches: patches}
}

// TemplMultiPage is TemplMulti whose non-DataStar rendering is full.
func TemplMultiPage(full templ.Component, patches ...TemplPatch) Response {
	return templResponse{full: full, patches: patches}
}

// WithStatus sets the status code for non-DataStar rendering. SSE responses
// are always 200.
func WithStatus(resp Response, status int) Response {
	if t, ok := resp.(templResponse); ok {
		t.status = status
		return t
	}
	return resp
}
