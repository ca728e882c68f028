package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Its-donkey/portfolio/logging"
)

// SuccessDuration is how long the success indicator stays up after a send.
const SuccessDuration = 3 * time.Second

// Outcome is the result of one Submit call.
type Outcome int

const (
	// OutcomeInvalid means validation failed and nothing was sent.
	OutcomeInvalid Outcome = iota
	// OutcomeSent means the relay accepted the message.
	OutcomeSent
	// OutcomeFailed means the relay call failed; field values were kept.
	OutcomeFailed
	// OutcomeBusy means a submission was already in flight.
	OutcomeBusy
	// OutcomeClosed means the submitter was closed before or during the call.
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	case OutcomeClosed:
		return "closed"
	}
	return "unknown"
}

// Status holds the transient submission flags. Submitting and Success are
// never true at the same time.
type Status struct {
	Submitting bool
	Success    bool
}

// Snapshot is a copy of the form state handed to renderers.
type Snapshot struct {
	Form   Form
	Errors Errors
	Status Status
}

// Timer is the part of *time.Timer the submitter needs.
type Timer interface {
	Stop() bool
}

// Options configures a Submitter.
type Options struct {
	Logger          *logging.Logger
	SuccessDuration time.Duration
	// OnChange is called after every state change, outside the lock.
	OnChange func(Snapshot)
	// AfterFunc schedules the success auto-dismiss. Defaults to time.AfterFunc.
	AfterFunc func(time.Duration, func()) Timer
}

// Submitter owns the contact form state and drives validation and delivery.
type Submitter struct {
	relay       Relay
	logger      *logging.Logger
	successFor  time.Duration
	onChange    func(Snapshot)
	afterFunc   func(time.Duration, func()) Timer
	life        context.Context
	cancelLife  context.CancelFunc
	mu          sync.Mutex
	form        Form
	errs        Errors
	status      Status
	successTick Timer
	closed      bool
}

// NewSubmitter returns a Submitter with empty fields that sends through relay.
func NewSubmitter(relay Relay, opts Options) *Submitter {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.SuccessDuration <= 0 {
		opts.SuccessDuration = SuccessDuration
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	life, cancel := context.WithCancel(context.Background())
	return &Submitter{
		relay:      relay,
		logger:     opts.Logger,
		successFor: opts.SuccessDuration,
		onChange:   opts.OnChange,
		afterFunc:  opts.AfterFunc,
		life:       life,
		cancelLife: cancel,
	}
}

// Snapshot returns the current state.
func (s *Submitter) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Submitter) snapshotLocked() Snapshot {
	return Snapshot{Form: s.form, Errors: s.errs, Status: s.status}
}

// Update applies one edit: the name is filtered, then the edited field alone
// is re-validated.
func (s *Submitter) Update(field Field, value string) Snapshot {
	if field == FieldName {
		value = FilterName(value)
	}
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.form.Set(field, value)
	s.errs.Set(field, ValidateField(field, value))
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Submit validates every field and, when all pass, sends the form once.
// Relay failures are logged here and never returned to the caller.
func (s *Submitter) Submit(ctx context.Context) Outcome {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return OutcomeClosed
	case s.status.Submitting:
		s.mu.Unlock()
		return OutcomeBusy
	}

	s.errs = ValidateAll(s.form)
	if s.errs.Any() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return OutcomeInvalid
	}

	form := s.form
	s.status = Status{Submitting: true}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	id := uuid.NewString()
	err := s.send(ctx, form)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("contact", "submission finished after close; result dropped", map[string]any{"submission_id": id})
		return OutcomeClosed
	}
	s.status.Submitting = false
	outcome := OutcomeSent
	if err != nil {
		outcome = OutcomeFailed
	} else {
		s.form = Form{}
		s.errs = Errors{}
		s.status.Success = true
	}
	s.scheduleSuccessClearLocked()
	snap = s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		fields := map[string]any{"submission_id": id}
		var relayErr *RelayError
		if errors.As(err, &relayErr) {
			fields["status"] = relayErr.Status
			fields["relay_message"] = relayErr.Message
		}
		s.logger.Error("contact", "error sending email", err, fields)
	} else {
		s.logger.Info("contact", "message sent", map[string]any{"submission_id": id})
	}
	s.notify(snap)
	return outcome
}

// send ties the request to both the caller's context and the submitter's lifetime.
func (s *Submitter) send(ctx context.Context, form Form) error {
	if s.relay == nil {
		return errors.New("contact: no relay configured")
	}
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.life, cancel)
	defer stop()
	return s.relay.Send(reqCtx, form)
}

// scheduleSuccessClearLocked replaces any pending auto-dismiss with a new one.
func (s *Submitter) scheduleSuccessClearLocked() {
	if s.successTick != nil {
		s.successTick.Stop()
	}
	s.successTick = s.afterFunc(s.successFor, s.Dismiss)
}

// Dismiss hides the success indicator. Calling it when nothing is shown is a no-op.
func (s *Submitter) Dismiss() {
	s.mu.Lock()
	if s.closed || !s.status.Success {
		s.mu.Unlock()
		return
	}
	s.status.Success = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Close cancels any in-flight request and pending timer. Later responses are
// dropped without touching state.
func (s *Submitter) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.successTick != nil {
		s.successTick.Stop()
		s.successTick = nil
	}
	s.mu.Unlock()
	s.cancelLife()
}

func (s *Submitter) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
