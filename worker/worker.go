package worker

import (
	"context"
	"fmt"
	"time"

	"snipehunt/game"
	"snipehunt/meta"
	"snipehunt/searcher"

	"github.com/rs/zerolog/log"
)

type Config struct {
	BatchSize            int
	PostInterval         time.Duration
	UncertaintyThreshold float64
	TerminalMinRollouts  int
}

func DefaultConfig() Config {
	return Config{
		BatchSize:            meta.ROLLOUT_BATCH_SIZE,
		PostInterval:         meta.POST_INTERVAL,
		UncertaintyThreshold: meta.UNCERTAINTY_THRESHOLD,
		TerminalMinRollouts:  meta.TERMINAL_MIN_ROLLOUTS,
	}
}

// Notification carries the latest search snapshot. A nil snapshot means
// there is nothing to report: no position, or a finished game.
type Notification struct {
	Snapshot *searcher.Snapshot
}

type requestType int

const (
	updateRequest requestType = iota
	pauseRequest
	resumeRequest
)

type request struct {
	kind         requestType
	state        *game.State
	thinkingTime time.Duration
	checkpoint   *searcher.Checkpoint
	reply        chan reply
}

type reply struct {
	checkpoint *searcher.Checkpoint
	err        error
}

// Worker hosts a search on its own goroutine. The search only runs inside
// Run; every other method talks to it over channels.
type Worker struct {
	config        Config
	mcts          *searcher.MCTS
	active        bool
	deadline      time.Time // Zero when thinking time is unlimited
	lastPosted    time.Time
	requests      chan request
	notifications chan Notification
}

func New(config Config, options ...searcher.Option) *Worker {
	if config.BatchSize <= 0 {
		config.BatchSize = meta.ROLLOUT_BATCH_SIZE
	}
	if config.PostInterval <= 0 {
		config.PostInterval = meta.POST_INTERVAL
	}
	return &Worker{
		config:        config,
		mcts:          searcher.NewMCTS(options...),
		requests:      make(chan request),
		notifications: make(chan Notification, 1),
	}
}

// Notifications delivers at most one snapshot per post interval. Stale
// snapshots are dropped when the reader falls behind.
func (w *Worker) Notifications() <-chan Notification {
	return w.notifications
}

// Update searches state from now on, reusing the tree when state continues
// the current root. A zero thinking time searches until the position is
// decided.
func (w *Worker) Update(ctx context.Context, state *game.State, thinkingTime time.Duration) error {
	_, err := w.send(ctx, request{kind: updateRequest, state: state, thinkingTime: thinkingTime})
	return err
}

// Pause stops the search and hands its complete state to the caller. It
// returns false when there is no search to pause.
func (w *Worker) Pause(ctx context.Context) (*searcher.Checkpoint, bool) {
	r, err := w.send(ctx, request{kind: pauseRequest})
	if err != nil || r.checkpoint == nil {
		return nil, false
	}
	return r.checkpoint, true
}

// Resume continues a paused search with all of its statistics.
func (w *Worker) Resume(ctx context.Context, checkpoint *searcher.Checkpoint) error {
	_, err := w.send(ctx, request{kind: resumeRequest, checkpoint: checkpoint})
	return err
}

func (w *Worker) send(ctx context.Context, req request) (reply, error) {
	req.reply = make(chan reply, 1)
	select {
	case w.requests <- req:
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, r.err
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// Run drives the search until ctx is done. Requests are served between
// rollout batches.
func (w *Worker) Run(ctx context.Context) error {
	log.Debug().Int("batch", w.config.BatchSize).Dur("post", w.config.PostInterval).Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("worker stopped")
			return nil
		case req := <-w.requests:
			req.reply <- w.handle(req)
			continue
		default:
		}

		if w.shouldSearch(time.Now()) {
			for i := 0; i < w.config.BatchSize; i++ {
				w.mcts.PerformRollout()
			}
		} else {
			select {
			case <-ctx.Done():
				continue
			case req := <-w.requests:
				req.reply <- w.handle(req)
			case <-time.After(w.config.PostInterval):
			}
		}

		if now := time.Now(); now.Sub(w.lastPosted) >= w.config.PostInterval {
			w.post(w.notification())
			w.lastPosted = now
		}
	}
}

func (w *Worker) handle(req request) reply {
	switch req.kind {
	case updateRequest:
		w.update(req.state, req.thinkingTime)
		return reply{}

	case pauseRequest:
		if !w.active {
			return reply{}
		}
		checkpoint, err := w.mcts.Checkpoint()
		if err != nil {
			return reply{err: err}
		}
		w.active = false
		log.Debug().Int("rollouts", w.mcts.Rollouts()).Int("nodes", len(checkpoint.Nodes)).Msg("worker paused")
		return reply{checkpoint: checkpoint}

	case resumeRequest:
		if req.checkpoint == nil {
			return reply{err: fmt.Errorf("no checkpoint to resume")}
		}
		if err := w.mcts.Restore(req.checkpoint); err != nil {
			return reply{err: err}
		}
		w.active = true
		log.Debug().Int("rollouts", w.mcts.Rollouts()).Msg("worker resumed")
		return reply{}
	}
	return reply{err: fmt.Errorf("unknown request %d", req.kind)}
}

func (w *Worker) update(state *game.State, thinkingTime time.Duration) {
	w.deadline = time.Time{}
	if thinkingTime > 0 {
		w.deadline = time.Now().Add(thinkingTime)
	}
	if state == nil || state.IsGameOver() {
		w.active = false
		return
	}
	reused := w.active && w.mcts.Retarget(state)
	if !reused {
		w.mcts.Reset(state)
	}
	w.active = true
	log.Debug().Bool("reused", reused).Int("rollouts", w.mcts.Rollouts()).Msg("worker updated")
}

// shouldSearch is false once thinking time is up or the root looks decided:
// enough rollouts with a mean near certain victory or defeat.
func (w *Worker) shouldSearch(now time.Time) bool {
	if !w.active {
		return false
	}
	if !w.deadline.IsZero() && now.After(w.deadline) {
		return false
	}
	if w.mcts.Rollouts() >= w.config.TerminalMinRollouts {
		mean := w.mcts.RootMean()
		if mean > 1-w.config.UncertaintyThreshold || mean < w.config.UncertaintyThreshold {
			return false
		}
	}
	return true
}

func (w *Worker) notification() Notification {
	if !w.active {
		return Notification{}
	}
	snapshot, ok := w.mcts.Snapshot()
	if !ok {
		return Notification{}
	}
	return Notification{Snapshot: &snapshot}
}

func (w *Worker) post(n Notification) {
	select {
	case w.notifications <- n:
	default:
		// Replace the unread snapshot, Run is the only sender
		select {
		case <-w.notifications:
		default:
		}
		w.notifications <- n
	}
}
