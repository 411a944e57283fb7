package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"trait-attendance-backend/internal/intent"
	"trait-attendance-backend/internal/model"
	"trait-attendance-backend/internal/resolve"
	"trait-attendance-backend/internal/store"
)

// Direction is the physical direction of a card scan.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Notifier receives the ids of members whose status actually changed. No-op
// marks never reach it.
type Notifier interface {
	Dispatch(memberID int64)
}

// Engine turns parsed commands into attendance transitions and query answers.
// It owns no connections or caches; storage and resolver are injected and the
// roster is re-read on every request.
type Engine struct {
	store    store.Store
	resolver *resolve.Resolver
	notifier Notifier
	locks    memberLocks
}

// New creates an engine. notifier may be nil when status-change notifications
// are not wanted (tests, CLI runs).
func New(s store.Store, resolver *resolve.Resolver, notifier Notifier) *Engine {
	return &Engine{store: s, resolver: resolver, notifier: notifier}
}

// Apply is the attendance transition function. The returned bool is false
// when the command does not change the current status (idempotent no-op).
func Apply(current model.Status, cmd intent.Kind) (model.Status, bool) {
	switch cmd {
	case intent.KindMarkPresent:
		if current == model.StatusInside {
			return "", false
		}
		return model.StatusInside, true
	case intent.KindMarkAbsent:
		if current == model.StatusOutside {
			return "", false
		}
		return model.StatusOutside, true
	default:
		return "", false
	}
}

// MarkPresent records a member as inside. The reply is always a sentence,
// never an error.
func (e *Engine) MarkPresent(ctx context.Context, name, reason string) string {
	return e.mark(ctx, name, intent.KindMarkPresent, reason, model.SourceVoice)
}

// MarkAbsent records a member as outside, with an optional reason.
func (e *Engine) MarkAbsent(ctx context.Context, name, reason string) string {
	return e.mark(ctx, name, intent.KindMarkAbsent, reason, model.SourceVoice)
}

func (e *Engine) mark(ctx context.Context, name string, cmd intent.Kind, reason string, source model.Source) string {
	member, err := e.store.FindMemberByName(ctx, name)
	if err != nil {
		log.Printf("mark: member lookup failed: %v", err)
		return replyStorageFailure
	}
	if member == nil {
		return fmt.Sprintf("I don't know this member: %s.", name)
	}
	return e.transition(ctx, member, cmd, reason, source)
}

// HandleCardEvent is the card-scan entry point. It bypasses parsing and name
// resolution, looks the member up by card uid, and feeds the same transition
// path as voice marks.
func (e *Engine) HandleCardEvent(ctx context.Context, cardID string, direction Direction, reason string) string {
	member, err := e.store.FindMemberByCardID(ctx, cardID)
	if err != nil {
		log.Printf("card event: lookup failed: %v", err)
		return replyStorageFailure
	}
	if member == nil {
		return fmt.Sprintf("Unknown card: %s. Please register this card.", cardID)
	}

	cmd := intent.KindMarkAbsent
	if strings.EqualFold(string(direction), string(DirectionIn)) {
		cmd = intent.KindMarkPresent
	}
	return e.transition(ctx, member, cmd, reason, model.SourceCard)
}

// transition runs the read-current-status-then-append sequence under the
// member's lock, so two concurrent commands for the same member cannot both
// observe the same current status and double-log a transition.
func (e *Engine) transition(ctx context.Context, member *model.Member, cmd intent.Kind, reason string, source model.Source) string {
	unlock := e.locks.lock(member.ID)
	defer unlock()

	latest, err := e.store.LatestEventFor(ctx, member.ID)
	if err != nil {
		log.Printf("transition: latest event read failed: %v", err)
		return replyStorageFailure
	}
	current := model.StatusOutside
	if latest != nil {
		current = latest.Status
	}

	next, changed := Apply(current, cmd)
	if !changed {
		return fmt.Sprintf("%s is already %s.", displayName(member.Name), statusWord(current))
	}

	if err := e.store.AppendEvent(ctx, member.ID, next, source, reason); err != nil {
		log.Printf("transition: append failed: %v", err)
		return replyStorageFailure
	}
	if e.notifier != nil {
		e.notifier.Dispatch(member.ID)
	}

	reply := fmt.Sprintf("%s is marked %s and is now %s.", displayName(member.Name), markWord(next), statusWord(next))
	if reason = strings.TrimSpace(reason); reason != "" && next == model.StatusOutside {
		reply += fmt.Sprintf(" Reason: %s.", reason)
	}
	return reply
}

// memberLocks hands out one mutex per member id, created on first use.
type memberLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (l *memberLocks) lock(memberID int64) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := l.locks[memberID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[memberID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func statusWord(s model.Status) string {
	if s == model.StatusInside {
		return "inside"
	}
	return "outside"
}

func markWord(s model.Status) string {
	if s == model.StatusInside {
		return "present"
	}
	return "absent"
}

// displayName title-cases a canonical lower-case name for replies.
func displayName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
