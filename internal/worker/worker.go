package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/tidwall/gjson"

	"github.com/noahxzhu/homework-notify/internal/homework"
	"github.com/noahxzhu/homework-notify/internal/model"
	"github.com/noahxzhu/homework-notify/internal/notify"
	"github.com/noahxzhu/homework-notify/internal/practicum"
	"github.com/noahxzhu/homework-notify/internal/storage"
)

const (
	DefaultSchedule = "@every 600s"

	errorPrefix = "Сбой в работе программы: "
)

// Fetcher is the review API as seen by the worker.
type Fetcher interface {
	Fetch(ctx context.Context, since int64) (gjson.Result, error)
}

// SendFailurePolicy decides what happens when a notification cannot be delivered.
type SendFailurePolicy string

const (
	// SendFailureLog logs the failure and retries on the next cycle.
	SendFailureLog SendFailurePolicy = "log"
	// SendFailureExit stops the worker with the delivery error.
	SendFailureExit SendFailurePolicy = "exit"
)

func ParseSendFailurePolicy(s string) (SendFailurePolicy, error) {
	switch p := SendFailurePolicy(s); p {
	case SendFailureLog, SendFailureExit:
		return p, nil
	case "":
		return SendFailureLog, nil
	default:
		return "", fmt.Errorf("invalid send failure policy %q (use log or exit)", s)
	}
}

// ParseSchedule accepts a standard cron expression or a descriptor such as "@every 10m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return s, nil
}

type Options struct {
	Schedule      cron.Schedule
	MaxCycles     int // 0 means run until the context is cancelled
	OnSendFailure SendFailurePolicy
	Clock         clockwork.Clock
	Logger        *slog.Logger
}

type Worker struct {
	fetcher  Fetcher
	notifier notify.Notifier
	store    *storage.Store
	logger   *slog.Logger
	clock    clockwork.Clock

	schedule      cron.Schedule
	maxCycles     int
	onSendFailure SendFailurePolicy
	updateChan    chan struct{}

	state model.PollState
}

func NewWorker(fetcher Fetcher, notifier notify.Notifier, store *storage.Store, opts Options) *Worker {
	w := &Worker{
		fetcher:       fetcher,
		notifier:      notifier,
		store:         store,
		logger:        opts.Logger,
		clock:         opts.Clock,
		schedule:      opts.Schedule,
		maxCycles:     opts.MaxCycles,
		onSendFailure: opts.OnSendFailure,
		updateChan:    make(chan struct{}, 1),
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.clock == nil {
		w.clock = clockwork.NewRealClock()
	}
	if w.schedule == nil {
		w.schedule, _ = ParseSchedule(DefaultSchedule)
	}
	if w.onSendFailure == "" {
		w.onSendFailure = SendFailureLog
	}
	if w.store == nil {
		w.store = storage.NewStore(model.Snapshot{})
	}

	now := w.clock.Now()
	w.state.Cursor = now.Unix()
	w.store.Update(func(s *model.Snapshot) {
		s.StartedAt = now
		s.PollState = w.state
	})
	return w
}

// Refresh signals the worker to poll immediately instead of waiting for the schedule.
func (w *Worker) Refresh() {
	select {
	case w.updateChan <- struct{}{}:
	default:
		// Channel already has a pending signal, no need to block
	}
}

// State returns the cursor and de-duplication state. Not safe to call while Start runs;
// use the store snapshot instead.
func (w *Worker) State() model.PollState {
	return w.state
}

// Start polls on the configured schedule until ctx is cancelled or MaxCycles is reached.
// It only returns an error when a notification fails under SendFailureExit.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started", "from_date", w.state.Cursor, "max_cycles", w.maxCycles)

	for cycles := 1; ; cycles++ {
		if err := w.Poll(ctx); err != nil {
			return err
		}
		if w.maxCycles > 0 && cycles >= w.maxCycles {
			w.logger.Info("Worker finished", "cycles", cycles)
			return nil
		}

		now := w.clock.Now()
		nextRun := w.schedule.Next(now)
		duration := nextRun.Sub(now)
		if duration < 0 {
			duration = 0
		}
		timer := w.clock.NewTimer(duration)
		w.logger.Info("Next check scheduled", "in", duration, "at", nextRun.Format("15:04:05"))

		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("Worker stopped")
			return nil
		case <-w.updateChan:
			timer.Stop()
			w.logger.Info("Worker received update signal. Refreshing...")
		case <-timer.Chan():
		}
	}
}

// Poll runs one fetch, validate, render and notify cycle.
func (w *Worker) Poll(ctx context.Context) error {
	cycleID := uuid.NewString()
	log := w.logger.With("cycle_id", cycleID)
	startedAt := w.clock.Now()

	outcome, err := w.poll(ctx, log)

	w.store.Update(func(s *model.Snapshot) {
		s.PollState = w.state
		s.CycleID = cycleID
		s.Cycles++
		s.LastPollAt = startedAt
		s.LastOutcome = outcome
	})
	return err
}

func (w *Worker) poll(ctx context.Context, log *slog.Logger) (model.Outcome, error) {
	log.Info("Polling homework statuses", "from_date", w.state.Cursor)

	resp, err := w.fetcher.Fetch(ctx, w.state.Cursor)
	if err != nil {
		return w.fail(ctx, log, err)
	}

	sub, err := homework.Extract(resp)
	if errors.Is(err, homework.ErrEmptyResult) {
		log.Info("No homework updates", "from_date", w.state.Cursor)
		w.advance(log, resp)
		return model.OutcomeEmpty, nil
	}
	if err != nil {
		return w.fail(ctx, log, err)
	}

	message, err := homework.Render(sub)
	if err != nil {
		return w.fail(ctx, log, err)
	}

	outcome := model.OutcomeUnchanged
	if message != w.state.LastMessage {
		if err := w.notifier.Send(ctx, message); err != nil {
			// cursor stays put so the same update is fetched again
			return model.OutcomeFailed, w.sendFailed(log, err)
		}
		w.state.LastMessage = message
		outcome = model.OutcomeNotified
	} else {
		log.Debug("Status unchanged", "message", message)
	}

	w.advance(log, resp)
	return outcome, nil
}

// advance moves the cursor to the server time, keeping the old value when the
// response has none.
func (w *Worker) advance(log *slog.Logger, resp gjson.Result) {
	date, ok := homework.CurrentDate(resp)
	if !ok {
		log.Warn("Response has no usable current_date, keeping cursor", "from_date", w.state.Cursor)
		return
	}
	w.state.Cursor = date
}

func (w *Worker) fail(ctx context.Context, log *slog.Logger, err error) (model.Outcome, error) {
	if ctx.Err() != nil {
		log.Info("Poll interrupted", "error", err)
		return model.OutcomeFailed, nil
	}

	attrs := []any{"error", err}
	var decodeErr *practicum.DecodeError
	if errors.As(err, &decodeErr) {
		attrs = append(attrs, "body", decodeErr.Body)
	}
	log.Error("Poll failed", attrs...)

	message := errorPrefix + err.Error()
	if message == w.state.LastError {
		log.Debug("Error already reported")
		return model.OutcomeFailed, nil
	}
	if sendErr := w.notifier.Send(ctx, message); sendErr != nil {
		return model.OutcomeFailed, w.sendFailed(log, sendErr)
	}
	w.state.LastError = message
	return model.OutcomeFailed, nil
}

func (w *Worker) sendFailed(log *slog.Logger, err error) error {
	if w.onSendFailure == SendFailureExit {
		return fmt.Errorf("deliver notification: %w", err)
	}
	log.Error("Notification not delivered, retrying next cycle", "error", err)
	return nil
}
