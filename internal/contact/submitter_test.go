package contact

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Its-donkey/portfolio/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubRelay struct {
	mu    sync.Mutex
	calls []Form
	err   error
	block chan struct{}
}

func (r *stubRelay) Send(ctx context.Context, form Form) error {
	r.mu.Lock()
	r.calls = append(r.calls, form)
	block := r.block
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.err
}

func (r *stubRelay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type timerRecorder struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (r *timerRecorder) afterFunc(d time.Duration, fn func()) Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTimer{fn: fn}
	r.timers = append(r.timers, t)
	r.delays = append(r.delays, d)
	return t
}

func (r *timerRecorder) last() *fakeTimer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timers[len(r.timers)-1]
}

func fill(s *Submitter, name, email, message string) {
	s.Update(FieldName, name)
	s.Update(FieldEmail, email)
	s.Update(FieldMessage, message)
}

func TestSubmitInvalidDoesNotCallRelay(t *testing.T) {
	relay := &stubRelay{}
	s := NewSubmitter(relay, Options{})
	defer s.Close()

	fill(s, "", "bad-email", strings.Repeat("m", 1501))
	outcome := s.Submit(context.Background())

	assert.Equal(t, OutcomeInvalid, outcome)
	assert.Zero(t, relay.count())
	snap := s.Snapshot()
	assert.Equal(t, Errors{Name: MsgNameRequired, Email: MsgEmailInvalid, Message: MsgMessageTooLong}, snap.Errors)
	assert.False(t, snap.Status.Submitting)
}

func TestSubmitRevalidatesStaleErrors(t *testing.T) {
	relay := &stubRelay{}
	s := NewSubmitter(relay, Options{})
	defer s.Close()

	// Never touched fields have no per-keystroke error yet, but submit must still catch them.
	assert.False(t, s.Snapshot().Errors.Any())
	assert.Equal(t, OutcomeInvalid, s.Submit(context.Background()))
	assert.True(t, s.Snapshot().Errors.Any())
	assert.Zero(t, relay.count())
}

func TestSubmitSuccessClearsFormAndShowsSuccess(t *testing.T) {
	relay := &stubRelay{}
	timers := &timerRecorder{}
	var seen []Snapshot
	s := NewSubmitter(relay, Options{
		AfterFunc: timers.afterFunc,
		OnChange:  func(snap Snapshot) { seen = append(seen, snap) },
	})
	defer s.Close()

	fill(s, "John123", "john@x.com", "hi")
	outcome := s.Submit(context.Background())

	require.Equal(t, OutcomeSent, outcome)
	require.Equal(t, 1, relay.count())
	assert.Equal(t, Form{Name: "John123", Email: "john@x.com", Message: "hi"}, relay.calls[0])

	snap := s.Snapshot()
	assert.Equal(t, Form{}, snap.Form)
	assert.Equal(t, Errors{}, snap.Errors)
	assert.Equal(t, Status{Success: true}, snap.Status)

	for _, st := range seen {
		assert.False(t, st.Status.Submitting && st.Status.Success, "submitting and success must never overlap")
	}
	require.Len(t, timers.delays, 1)
	assert.Equal(t, SuccessDuration, timers.delays[0])

	timers.last().fn()
	assert.False(t, s.Snapshot().Status.Success)
}

func TestSubmitFailureKeepsValuesAndLogs(t *testing.T) {
	var logs bytes.Buffer
	relay := &stubRelay{err: &RelayError{Status: 500, Message: "quota exceeded"}}
	s := NewSubmitter(relay, Options{
		Logger:    logging.New("wasm", logging.INFO, &logs),
		AfterFunc: (&timerRecorder{}).afterFunc,
	})
	defer s.Close()

	fill(s, "John", "john@x.com", "hello there")
	outcome := s.Submit(context.Background())

	assert.Equal(t, OutcomeFailed, outcome)
	snap := s.Snapshot()
	assert.Equal(t, Form{Name: "John", Email: "john@x.com", Message: "hello there"}, snap.Form)
	assert.Equal(t, Status{}, snap.Status)
	assert.Contains(t, logs.String(), "quota exceeded")
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestDismissBeforeTimerIsSafe(t *testing.T) {
	timers := &timerRecorder{}
	s := NewSubmitter(&stubRelay{}, Options{AfterFunc: timers.afterFunc})
	defer s.Close()

	fill(s, "John", "john@x.com", "hi")
	require.Equal(t, OutcomeSent, s.Submit(context.Background()))

	s.Dismiss()
	assert.False(t, s.Snapshot().Status.Success)
	assert.NotPanics(t, func() { timers.last().fn() })
	assert.False(t, s.Snapshot().Status.Success)
}

func TestSecondSubmissionReplacesTimer(t *testing.T) {
	timers := &timerRecorder{}
	s := NewSubmitter(&stubRelay{}, Options{AfterFunc: timers.afterFunc})
	defer s.Close()

	fill(s, "John", "john@x.com", "first")
	require.Equal(t, OutcomeSent, s.Submit(context.Background()))
	first := timers.last()

	fill(s, "John", "john@x.com", "second")
	require.Equal(t, OutcomeSent, s.Submit(context.Background()))

	assert.True(t, first.stopped)
	assert.False(t, timers.last().stopped)
}

func TestSubmitWhileInFlightIsBusy(t *testing.T) {
	relay := &stubRelay{block: make(chan struct{})}
	s := NewSubmitter(relay, Options{AfterFunc: (&timerRecorder{}).afterFunc})
	defer s.Close()
	fill(s, "John", "john@x.com", "hi")

	done := make(chan Outcome)
	go func() { done <- s.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return s.Snapshot().Status.Submitting }, time.Second, 5*time.Millisecond)
	assert.Equal(t, OutcomeBusy, s.Submit(context.Background()))

	close(relay.block)
	assert.Equal(t, OutcomeSent, <-done)
	assert.Equal(t, 1, relay.count())
}

func TestCloseDuringFlightDropsResult(t *testing.T) {
	relay := &stubRelay{block: make(chan struct{})}
	s := NewSubmitter(relay, Options{AfterFunc: (&timerRecorder{}).afterFunc})
	fill(s, "John", "john@x.com", "hi")

	done := make(chan Outcome)
	go func() { done <- s.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return relay.count() == 1 }, time.Second, 5*time.Millisecond)

	s.Close()
	assert.Equal(t, OutcomeClosed, <-done)

	snap := s.Snapshot()
	assert.True(t, snap.Status.Submitting, "state of a closed form is frozen")
	assert.Equal(t, "hi", snap.Form.Message)
	assert.Equal(t, OutcomeClosed, s.Submit(context.Background()))
}

func TestCallerContextCancelsRequest(t *testing.T) {
	relay := &stubRelay{block: make(chan struct{})}
	s := NewSubmitter(relay, Options{AfterFunc: (&timerRecorder{}).afterFunc})
	defer s.Close()
	fill(s, "John", "john@x.com", "hi")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, OutcomeFailed, s.Submit(ctx))
	assert.False(t, s.Snapshot().Status.Submitting)
}

func TestUpdateFiltersNameAndValidatesField(t *testing.T) {
	s := NewSubmitter(&stubRelay{}, Options{})
	defer s.Close()

	snap := s.Update(FieldName, "J#")
	assert.Equal(t, "J", snap.Form.Name)
	assert.Equal(t, MsgNameLength, snap.Errors.Name)
	assert.Empty(t, snap.Errors.Email, "untouched fields stay clean")

	snap = s.Update(FieldEmail, "nope")
	assert.Equal(t, MsgEmailInvalid, snap.Errors.Email)
	assert.Equal(t, MsgNameLength, snap.Errors.Name)
}

func TestRealTimerAutoDismisses(t *testing.T) {
	s := NewSubmitter(&stubRelay{}, Options{SuccessDuration: 10 * time.Millisecond})
	defer s.Close()
	fill(s, "John", "john@x.com", "hi")
	require.Equal(t, OutcomeSent, s.Submit(context.Background()))
	require.Eventually(t, func() bool { return !s.Snapshot().Status.Success }, time.Second, 5*time.Millisecond)
}

func TestNilRelayFails(t *testing.T) {
	s := NewSubmitter(nil, Options{AfterFunc: (&timerRecorder{}).afterFunc})
	defer s.Close()
	fill(s, "John", "john@x.com", "hi")
	assert.Equal(t, OutcomeFailed, s.Submit(context.Background()))
	assert.Equal(t, "failed", OutcomeFailed.String())
}
