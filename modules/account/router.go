package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services mounted by Router. Nil services are
// skipped.
type RouterOptions struct {
	Password Mountable
	Auth     Mountable
}

// Router mounts the account services.
//
//	r := chi.NewRouter()
//	r.Mount("/account", account.Router(account.RouterOptions{
//	    Password: passwordSvc,
//	    Auth:     authSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Password != nil {
		r.Mount("/password", opts.Password.Handle())
	}
	if opts.Auth != nil {
		r.Mount("/", opts.Auth.Handle())
	}

	return r
}
