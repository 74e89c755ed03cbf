package workflow

import (
	"context"
	"sync"
	"time"

	"uvote-cli/internal/api"
	"uvote-cli/internal/domain"
	"uvote-cli/internal/session"
	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

// DetailState is the load state of the poll detail view
type DetailState string

const (
	DetailLoading    DetailState = "loading"
	DetailReady      DetailState = "ready"
	DetailLoadFailed DetailState = "load_failed"
)

// StatsState is the independent state of the owner-only results tab
type StatsState string

const (
	StatsIdle    StatsState = "idle"
	StatsLoading StatsState = "loading"
	StatsReady   StatsState = "ready"
	StatsFailed  StatsState = "failed"
)

// PollFlow drives one poll's detail cycle: load poll and options
// together, accept votes while the poll is open, and compute aggregate
// results for the owner. Results are never cached across activations.
type PollFlow struct {
	client *api.Client
	store  *session.Store
	guard  *session.Guard
	log    *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   DetailState
	poll    *domain.Poll
	options []domain.Option
	voting  bool
	stats   StatsState
}

// NewPollFlow creates a detail workflow bound to the session
func NewPollFlow(client *api.Client, store *session.Store, guard *session.Guard, log *logger.Logger) *PollFlow {
	return &PollFlow{
		client: client,
		store:  store,
		guard:  guard,
		log:    log,
		now:    time.Now,
		state:  DetailLoading,
		stats:  StatsIdle,
	}
}

// LoadPoll fetches poll metadata and its options concurrently. Both
// fetches must succeed together: any failure empties the view so it
// never shows a poll without options or options without a poll.
func (f *PollFlow) LoadPoll(ctx context.Context, pollID int64) error {
	f.mu.Lock()
	f.state = DetailLoading
	f.mu.Unlock()

	var (
		wg      sync.WaitGroup
		poll    *domain.Poll
		options []domain.Option
		pollErr error
		optsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		poll, pollErr = f.client.GetPoll(ctx, pollID)
	}()
	go func() {
		defer wg.Done()
		options, optsErr = f.client.ListOptions(ctx, pollID)
	}()
	wg.Wait()

	if pollErr != nil || optsErr != nil {
		f.mu.Lock()
		f.state = DetailLoadFailed
		f.poll = nil
		f.options = nil
		f.mu.Unlock()

		if pollErr != nil {
			return pollErr
		}
		return optsErr
	}

	domain.SortOptions(options)

	f.mu.Lock()
	f.poll = poll
	f.options = options
	f.state = DetailReady
	f.mu.Unlock()

	return nil
}

// State returns the view load state
func (f *PollFlow) State() DetailState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Poll returns the loaded poll, nil unless the view is ready
func (f *PollFlow) Poll() *domain.Poll {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.poll
}

// Options returns the loaded options sorted by display order
func (f *PollFlow) Options() []domain.Option {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options
}

// Status derives the poll's lifecycle state from the wall clock right
// now; it is recomputed on every call, never cached.
func (f *PollFlow) Status() domain.PollStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.poll == nil {
		return domain.StatusClosed
	}
	return f.poll.Status(f.now())
}

// IsVoting reports whether a vote submission is in flight
func (f *PollFlow) IsVoting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voting
}

// CastVote submits one vote. Unauthenticated users are sent to login
// instead of the backend; pending and closed polls are rejected locally
// with no network call. The view returns to ready regardless of the
// outcome, which the caller reports as a transient notice.
func (f *PollFlow) CastVote(ctx context.Context, optionID int64) (*domain.VoteAck, error) {
	if err := f.guard.Check("vote"); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.state != DetailReady || f.poll == nil {
		f.mu.Unlock()
		return nil, apperrors.NewValidationError("La encuesta no está cargada.")
	}
	if f.voting {
		f.mu.Unlock()
		return nil, apperrors.NewValidationError("Ya hay un voto en curso.")
	}

	switch f.poll.Status(f.now()) {
	case domain.StatusPending:
		f.mu.Unlock()
		return nil, apperrors.NewValidationError("La encuesta aún no inicia.")
	case domain.StatusClosed:
		f.mu.Unlock()
		return nil, apperrors.NewValidationError("Encuesta cerrada.")
	}

	pollID := f.poll.ID
	f.voting = true
	f.mu.Unlock()

	ack, err := f.client.CastVote(ctx, pollID, optionID)

	f.mu.Lock()
	f.voting = false
	f.mu.Unlock()

	if err != nil {
		f.log.WithError(err).WithField("encuesta", pollID).Debug("Vote rejected")
		return nil, err
	}

	f.log.WithFields(map[string]interface{}{
		"encuesta": pollID,
		"opcion":   optionID,
	}).Info("Vote recorded")
	return ack, nil
}

// LoadResults fetches and aggregates the results. Only the poll's
// creator may ask; the gate here is a convenience, the backend enforces
// it independently. Each activation refetches, nothing is kept between
// tab switches.
func (f *PollFlow) LoadResults(ctx context.Context) (domain.ResultSummary, error) {
	f.mu.Lock()
	if f.state != DetailReady || f.poll == nil {
		f.mu.Unlock()
		return domain.ResultSummary{}, apperrors.NewValidationError("La encuesta no está cargada.")
	}
	poll := f.poll
	f.mu.Unlock()

	if !poll.IsOwnedBy(f.store.UserID()) {
		return domain.ResultSummary{}, apperrors.NewForbiddenError("Solo el creador puede ver los resultados.")
	}

	f.mu.Lock()
	f.stats = StatsLoading
	f.mu.Unlock()

	rows, err := f.client.Results(ctx, poll.ID)
	if err != nil {
		f.mu.Lock()
		f.stats = StatsFailed
		f.mu.Unlock()
		return domain.ResultSummary{}, err
	}

	f.mu.Lock()
	f.stats = StatsReady
	f.mu.Unlock()

	return domain.Summarize(rows), nil
}

// StatsState returns the state of the results tab
func (f *PollFlow) StatsState() StatsState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}
