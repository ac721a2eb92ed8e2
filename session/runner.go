// Package session drives a snake.Game from a timer and fans its state out
// to renderers.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/linkedlist-snake/snake"
	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

// Option configures a Runner.
type Option func(*Runner)

// WithUnit sets the length of one speed unit. Speed is counted in
// milliseconds unless overridden.
func WithUnit(unit time.Duration) Option {
	return func(r *Runner) { r.unit = unit }
}

// WithRoundHook registers fn to receive every finished round. fn runs on
// the timer goroutine, outside the runner lock.
func WithRoundHook(fn func(structs.Round)) Option {
	return func(r *Runner) { r.onRound = fn }
}

// Runner owns a game and is safe for concurrent use. Every entry point
// takes the same lock, so a tick never interleaves with a direction change
// or a control action.
type Runner struct {
	mu      sync.Mutex
	game    *snake.Game
	unit    time.Duration
	timer   *time.Timer
	gen     uint64 // bumped whenever the pending tick must be discarded
	roundID string
	started time.Time
	subs    map[int]chan structs.Snapshot
	nextSub int
	onRound func(structs.Round)
	closed  bool
}

// New wraps game. The game should be idle.
func New(game *snake.Game, opts ...Option) *Runner {
	r := &Runner{
		game:    game,
		unit:    time.Millisecond,
		roundID: uuid.NewString(),
		subs:    make(map[int]chan structs.Snapshot),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the current state.
func (r *Runner) Snapshot() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Start begins or resumes play.
func (r *Runner) Start() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked()
	return r.snapshotLocked()
}

// Pause stops play, keeping the board as it is.
func (r *Runner) Pause() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauseLocked()
	return r.snapshotLocked()
}

// Toggle starts an idle game or pauses a running one.
func (r *Runner) Toggle() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game.Playing() {
		r.pauseLocked()
	} else {
		r.startLocked()
	}
	return r.snapshotLocked()
}

// Reset cancels any pending tick and puts a fresh idle game in place.
func (r *Runner) Reset() structs.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.game.Reset()
	r.roundID = uuid.NewString()
	r.started = time.Time{}
	log.Debug().Str("round", r.roundID).Msg("game reset")
	return r.publishLocked()
}

// SetDirection forwards a direction request to the game.
func (r *Runner) SetDirection(d structs.Direction) (bool, structs.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.game.SetDirection(d) {
		return false, r.snapshotLocked()
	}
	return true, r.publishLocked()
}

// Subscribe returns a channel that receives the state after every change,
// starting with the current one. Slow readers only see the latest frame.
// The returned func unsubscribes and closes the channel.
func (r *Runner) Subscribe() (<-chan structs.Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan structs.Snapshot, 1)
	if r.closed {
		close(ch)
		return ch, func() {}
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(sub)
			}
		})
	}
}

// Close stops the timer and closes every subscription.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.stopLocked()
	r.closed = true
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *Runner) startLocked() {
	if r.closed || !r.game.Start() {
		return
	}
	if r.started.IsZero() {
		r.started = time.Now()
	}
	log.Debug().Str("round", r.roundID).Msg("game started")
	r.scheduleLocked()
	r.publishLocked()
}

func (r *Runner) pauseLocked() {
	if !r.game.Pause() {
		return
	}
	r.stopLocked()
	log.Debug().Str("round", r.roundID).Msg("game paused")
	r.publishLocked()
}

// scheduleLocked arms a one-shot timer for the current speed. Each tick
// re-arms it, which picks up speed changes.
func (r *Runner) scheduleLocked() {
	if r.timer != nil {
		r.timer.Stop()
	}
	gen := r.gen
	interval := time.Duration(r.game.Speed()) * r.unit
	r.timer = time.AfterFunc(interval, func() { r.tick(gen) })
}

func (r *Runner) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *Runner) tick(gen uint64) {
	r.mu.Lock()
	if r.closed || gen != r.gen || !r.game.Playing() {
		// 过期的tick，状态已被重置或暂停
		r.mu.Unlock()
		return
	}

	out := r.game.Tick()
	snap := r.publishLocked()

	var round *structs.Round
	switch {
	case out.Fatal():
		r.timer = nil
		round = &structs.Round{
			ID:        r.roundID,
			Score:     snap.Score,
			Length:    snap.Length,
			Level:     snap.Level,
			Cause:     out.String(),
			StartedAt: r.started,
			EndedAt:   time.Now(),
		}
	case r.game.Playing():
		r.scheduleLocked()
	}
	hook := r.onRound
	r.mu.Unlock()

	if out == snake.Ate {
		log.Debug().Str("round", snap.RoundID).Int("score", snap.Score).Int("speed", snap.Speed).Msg("food eaten")
	}
	if round != nil {
		log.Info().Str("round", round.ID).Str("cause", round.Cause).Int("score", round.Score).Int("length", round.Length).Msg("game over")
		if hook != nil {
			hook(*round)
		}
	}
}

func (r *Runner) snapshotLocked() structs.Snapshot {
	s := r.game.Snapshot()
	s.RoundID = r.roundID
	return s
}

// publishLocked sends the current state to every subscriber, replacing
// any frame the subscriber has not read yet.
func (r *Runner) publishLocked() structs.Snapshot {
	s := r.snapshotLocked()
	for _, ch := range r.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
	return s
}
