// Package loginform implements the login form controller: field state,
// per-field validation messages and the submission lifecycle.
package loginform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/session"
)

// DefaultNotificationTTL is how long a failure notification stays visible.
const DefaultNotificationTTL = 6 * time.Second

// Status is the submission lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome reports how a Submit call ended.
type Outcome int

const (
	// OutcomeMissingFields: the required pass failed, nothing was sent.
	OutcomeMissingFields Outcome = iota
	// OutcomeSignedIn: the session store now holds the verified identity.
	OutcomeSignedIn
	// OutcomeFailed: the verifier rejected the credentials or never answered.
	OutcomeFailed
	// OutcomeIgnored: a submission was already in flight.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSignedIn:
		return "signed_in"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "missing_fields"
	}
}

// Form is the controller behind one mounted login form. It is safe for
// concurrent use; a Submit arriving while another is in flight is ignored.
type Form struct {
	verifier        ports.CredentialVerifier
	log             zerolog.Logger
	now             func() time.Time
	notificationTTL time.Duration

	mu           sync.Mutex
	fields       map[FieldName]*Field
	status       Status
	errorMessage string
	notifyUntil  time.Time
}

// Option configures a Form.
type Option func(*Form)

func WithLogger(log zerolog.Logger) Option {
	return func(f *Form) { f.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

func WithNotificationTTL(ttl time.Duration) Option {
	return func(f *Form) {
		if ttl > 0 {
			f.notificationTTL = ttl
		}
	}
}

func New(verifier ports.CredentialVerifier, opts ...Option) *Form {
	f := &Form{
		verifier:        verifier,
		log:             zerolog.Nop(),
		now:             time.Now,
		notificationTTL: DefaultNotificationTTL,
		fields: map[FieldName]*Field{
			FieldEmail:    {},
			FieldPassword: {},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Change stores a new raw value. The field's message is left alone. Values
// are frozen while a submission is in flight.
func (f *Form) Change(name FieldName, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		return ErrUnknownField
	}
	if f.status == StatusSubmitting {
		return domain.ErrSubmissionInFlight
	}
	field.Value = value
	return nil
}

// Blur validates the field's format. Emptiness is not checked here.
func (f *Form) Blur(name FieldName) (Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.fields[name]
	if !ok {
		return Field{}, ErrUnknownField
	}
	r := rules[name]
	if r.valid(field.Value) {
		field.Message = ""
	} else {
		field.Message = r.invalid
	}
	return *field, nil
}

// Submit runs the required-field pass and, when both fields are filled,
// verifies the credentials and signs the session in. The form never
// redirects; the caller re-evaluates access afterwards.
//
// The returned error carries the failure cause for OutcomeFailed and
// domain.ErrSubmissionInFlight for OutcomeIgnored.
func (f *Form) Submit(ctx context.Context, sessions session.Writer) (Outcome, error) {
	creds, outcome, ok := f.begin()
	if !ok {
		if outcome == OutcomeIgnored {
			return outcome, domain.ErrSubmissionInFlight
		}
		return outcome, nil
	}

	err := f.signIn(ctx, creds, sessions)
	f.finish(err)
	if err != nil {
		f.log.Warn().Err(err).Str("email", creds.Email).Msg("login submission failed")
		return OutcomeFailed, err
	}
	return OutcomeSignedIn, nil
}

// begin performs the required pass and moves to submitting under the lock.
func (f *Form) begin() (ports.Credentials, Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == StatusSubmitting {
		return ports.Credentials{}, OutcomeIgnored, false
	}

	missing := false
	for name, field := range f.fields {
		if field.Value == "" {
			field.Message = rules[name].required
			missing = true
		}
	}
	if missing {
		return ports.Credentials{}, OutcomeMissingFields, false
	}

	f.status = StatusSubmitting
	return ports.Credentials{
		Email:    f.fields[FieldEmail].Value,
		Password: f.fields[FieldPassword].Value,
	}, 0, true
}

// signIn talks to the verifier outside the lock. A panicking verifier is
// turned into a transport failure so the form never stays submitting.
func (f *Form) signIn(ctx context.Context, creds ports.Credentials, sessions session.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.TransportFailureError{Err: fmt.Errorf("verifier panic: %v", r)}
		}
	}()

	identity, err := f.verifier.Verify(ctx, creds)
	if err != nil {
		return err
	}
	if err := sessions.SignIn(identity); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (f *Form) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		f.status = StatusIdle
		f.errorMessage = ""
		f.notifyUntil = time.Time{}
		return
	}
	f.status = StatusFailed
	f.errorMessage = domain.UserMessage(err)
	f.notifyUntil = f.now().Add(f.notificationTTL)
}

// CloseNotification hides the failure notification early.
func (f *Form) CloseNotification() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifyUntil = time.Time{}
}

// View is a point-in-time copy of the form for rendering.
type View struct {
	Email          Field
	Password       Field
	Status         Status
	ErrorMessage   string
	Loading        bool
	SubmitDisabled bool
	// Notification is the message to show, empty once it has expired or was
	// closed.
	Notification string
	// NotificationRemaining is how long Notification stays visible.
	NotificationRemaining time.Duration
}

// NotificationMillis is NotificationRemaining in whole milliseconds, for the
// page script.
func (v View) NotificationMillis() int64 {
	return v.NotificationRemaining.Milliseconds()
}

func (f *Form) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	submitting := f.status == StatusSubmitting
	v := View{
		Email:          *f.fields[FieldEmail],
		Password:       *f.fields[FieldPassword],
		Status:         f.status,
		ErrorMessage:   f.errorMessage,
		Loading:        submitting,
		SubmitDisabled: submitting,
	}
	if now := f.now(); now.Before(f.notifyUntil) {
		v.Notification = f.errorMessage
		v.NotificationRemaining = f.notifyUntil.Sub(now)
	}
	return v
}
