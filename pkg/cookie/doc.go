// Package cookie sets plain and HMAC-SHA256 signed cookies with shared
// defaults (Path=/, HttpOnly, SameSite=Lax).
//
//	mgr, err := cookie.New([]string{secret})
//	mgr.SetSigned(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err := mgr.GetSigned(r, "sid")
package cookie
