package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager writes plain and HMAC-signed cookies. The first secret signs;
// every secret is accepted when verifying so secrets can be rotated.
type Manager struct {
	secrets  []string
	defaults Options
}

func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)
	return &Manager{secrets: secrets, defaults: defaults}, nil
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	m.Set(w, name, m.sign(value), opts...)
}

// GetSigned returns ErrInvalidSignature for tampered values.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

func mac(secret, value string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (m *Manager) sign(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + mac(m.secrets[0], value)
}

func (m *Manager) verify(signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	value := string(raw)
	for _, secret := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(mac(secret, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}
