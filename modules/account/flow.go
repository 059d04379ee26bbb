package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/studylog/pkg/logger"
	"github.com/dmitrymomot/studylog/pkg/statemachine"
	"github.com/dmitrymomot/studylog/pkg/toast"
	"github.com/dmitrymomot/studylog/pkg/validator"
	"github.com/dmitrymomot/studylog/svc/identity"
)

// MinPasswordLength is the shortest new password the form accepts.
const MinPasswordLength = 6

// Flow states. Every attempt starts and ends in StateIdle.
const (
	StateIdle       statemachine.State = "idle"
	StateValidating statemachine.State = "validating"
	StateRejected   statemachine.State = "rejected"
	StateSubmitting statemachine.State = "submitting"
	StateSucceeded  statemachine.State = "succeeded"
	StateFailed     statemachine.State = "failed"
)

const (
	eventSubmit  statemachine.Event = "submit"
	eventReject  statemachine.Event = "reject"
	eventAbandon statemachine.Event = "abandon"
	eventProceed statemachine.Event = "proceed"
	eventSucceed statemachine.Event = "succeed"
	eventFail    statemachine.Event = "fail"
	eventReset   statemachine.Event = "reset"
)

var passwordFlow = statemachine.MustDefine(StateIdle,
	statemachine.WithTransition(StateIdle, StateValidating, eventSubmit),
	statemachine.WithTransition(StateValidating, StateRejected, eventReject),
	statemachine.WithTransition(StateValidating, StateIdle, eventAbandon),
	statemachine.WithTransition(StateValidating, StateSubmitting, eventProceed),
	statemachine.WithTransition(StateSubmitting, StateSucceeded, eventSucceed),
	statemachine.WithTransition(StateSubmitting, StateFailed, eventFail),
	statemachine.WithTransition(StateRejected, StateIdle, eventReset),
	statemachine.WithTransition(StateSucceeded, StateIdle, eventReset),
	statemachine.WithTransition(StateFailed, StateIdle, eventReset),
)

// Toast message keys.
const (
	KeyMismatch      = "account.password.mismatch"
	KeyTooShort      = "account.password.too_short"
	KeyUpdated       = "account.password.updated"
	KeyUpdateFailed  = "account.password.update_failed"
	KeyNotSignedIn   = "account.password.not_signed_in"
	KeyUpdatePending = "account.password.busy"
)

// Outcome is how one submission ended.
type Outcome string

const (
	OutcomeSucceeded   Outcome = "succeeded"
	OutcomeRejected    Outcome = "rejected"
	OutcomeFailed      Outcome = "failed"
	OutcomeNotSignedIn Outcome = "not_signed_in"
	OutcomeBusy        Outcome = "busy"
)

// Result describes a finished submission. RedirectTo is only set on success.
type Result struct {
	Outcome    Outcome
	Err        error
	Toast      toast.Toast
	RedirectTo string
	Trace      []statemachine.State
}

func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}

// Translate localizes key for the locale carried by ctx.
type Translate func(ctx context.Context, key string, args ...string) string

// PasswordUpdater re-authenticates the principal with the current password
// and then sets the new one.
type PasswordUpdater struct {
	provider  identity.Provider
	cfg       Config
	translate Translate
	log       *slog.Logger
	busy      *busyFlags
}

type UpdaterOption func(*PasswordUpdater)

func WithUpdaterConfig(cfg Config) UpdaterOption {
	return func(u *PasswordUpdater) { u.cfg = cfg.withDefaults() }
}

func WithTranslate(t Translate) UpdaterOption {
	return func(u *PasswordUpdater) {
		if t != nil {
			u.translate = t
		}
	}
}

func WithUpdaterLogger(l *slog.Logger) UpdaterOption {
	return func(u *PasswordUpdater) {
		if l != nil {
			u.log = l
		}
	}
}

func NewPasswordUpdater(provider identity.Provider, opts ...UpdaterOption) *PasswordUpdater {
	if provider == nil {
		panic("account: identity provider is required")
	}
	u := &PasswordUpdater{
		provider:  provider,
		cfg:       DefaultConfig(),
		translate: func(_ context.Context, key string, _ ...string) string { return key },
		log:       logger.Discard(),
		busy:      newBusyFlags(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.log = u.log.With(logger.Component("account.password"))
	return u
}

// IsBusy reports whether an update for p is in flight.
func (u *PasswordUpdater) IsBusy(p *identity.Principal) bool {
	return p != nil && u.busy.isBusy(p.ID)
}

// Submit runs one attempt. Validation happens before anything else; the
// provider is only contacted for a signed-in principal with a valid form.
func (u *PasswordUpdater) Submit(ctx context.Context, p *identity.Principal, form Form) Result {
	m := passwordFlow.Start()
	m.MustFire(ctx, eventSubmit, nil)

	if err := validateForm(form); err != nil {
		m.MustFire(ctx, eventReject, nil)
		key := KeyTooShort
		if KindOf(err) == KindMismatch {
			key = KeyMismatch
		}
		return u.finish(ctx, m, Result{
			Outcome: OutcomeRejected,
			Err:     err,
			Toast:   toast.Error(u.translate(ctx, key)),
		})
	}

	if p == nil {
		m.MustFire(ctx, eventAbandon, nil)
		return u.finish(ctx, m, Result{
			Outcome: OutcomeNotSignedIn,
			Err:     ErrNotSignedIn,
			Toast:   toast.Warning(u.translate(ctx, KeyNotSignedIn)),
		})
	}

	if !u.busy.acquire(p.ID) {
		m.MustFire(ctx, eventAbandon, nil)
		return u.finish(ctx, m, Result{
			Outcome: OutcomeBusy,
			Err:     ErrBusy,
			Toast:   toast.Warning(u.translate(ctx, KeyUpdatePending)),
		})
	}
	defer u.busy.release(p.ID)

	m.MustFire(ctx, eventProceed, nil)
	if err := u.update(ctx, p, form); err != nil {
		m.MustFire(ctx, eventFail, nil)
		u.log.WarnContext(ctx, "password update failed",
			logger.UserID(p.ID),
			logger.Error(err),
		)
		return u.finish(ctx, m, Result{
			Outcome: OutcomeFailed,
			Err:     &FlowError{Kind: KindRemoteFailure, Err: err},
			Toast: toast.Error(u.translate(ctx, KeyUpdateFailed),
				toast.WithDescription(fmt.Sprint(err)),
			),
		})
	}

	m.MustFire(ctx, eventSucceed, nil)
	u.log.InfoContext(ctx, "password updated", logger.UserID(p.ID))
	return u.finish(ctx, m, Result{
		Outcome:    OutcomeSucceeded,
		Toast:      toast.Success(u.translate(ctx, KeyUpdated)),
		RedirectTo: u.cfg.HomePath,
	})
}

func (u *PasswordUpdater) update(ctx context.Context, p *identity.Principal, form Form) error {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.RemoteTimeout)
	defer cancel()

	cred := identity.CredentialFromPassword(p.Email, form.CurrentPassword)
	if err := u.provider.Reauthenticate(ctx, p, cred); err != nil {
		return err
	}
	return u.provider.UpdatePassword(ctx, p, form.Password)
}

func (u *PasswordUpdater) finish(ctx context.Context, m *statemachine.Machine, res Result) Result {
	if m.Current() != StateIdle {
		m.MustFire(ctx, eventReset, nil)
	}
	res.Trace = m.History()
	return res
}

// validateForm checks the confirmation first, then the length.
func validateForm(f Form) error {
	if err := validator.Apply(validator.Matches(FieldPasswordConf, f.PasswordConf, f.Password)); err != nil {
		return &FlowError{Kind: KindMismatch, Err: err}
	}
	if err := validator.Apply(validator.MinUTF16Length(FieldPassword, f.Password, MinPasswordLength)); err != nil {
		return &FlowError{Kind: KindTooShort, Err: err}
	}
	return nil
}
