package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

type redirectResponse struct {
	url  string
	code int
	back bool
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	target := rr.url
	if rr.back {
		if ref := r.Header.Get("Referer"); ref != "" && sameHost(ref, r) {
			target = ref
		}
	}
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).Redirect(target)
	}
	http.Redirect(w, r, target, rr.code)
	return nil
}

// Redirect navigates to url: 303 for regular requests, a client-side
// redirect event for DataStar requests.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectBack navigates to the same-host Referer, or fallback.
func RedirectBack(fallback string) Response {
	return redirectResponse{url: fallback, code: http.StatusSeeOther, back: true}
}

// IsLocalPath reports whether target is a path on this site. Protocol-relative
// forms ("//host", "/\\host") are rejected since browsers resolve them to
// another origin.
func IsLocalPath(target string) bool {
	return strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") &&
		!strings.HasPrefix(target, "/\\")
}

func sameHost(raw string, r *http.Request) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Opaque != "" {
		return false
	}
	if u.Scheme == "" {
		return u.Host == "" && IsLocalPath(raw)
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host == r.Host
}
