package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"trait-attendance-backend/internal/model"
)

// WhoPresentToday lists the active members whose latest event today is
// INSIDE.
func (e *Engine) WhoPresentToday(ctx context.Context) string {
	present, _, err := e.partitionToday(ctx)
	if err != nil {
		log.Printf("who present: %v", err)
		return replyStorageFailure
	}
	if len(present) == 0 {
		return "No one is inside right now."
	}
	return "Present today: " + strings.Join(present, ", ") + "."
}

// WhoAbsentToday lists the active members who are not inside today. A member
// with no event today counts as absent (default-closed rule).
func (e *Engine) WhoAbsentToday(ctx context.Context) string {
	_, absent, err := e.partitionToday(ctx)
	if err != nil {
		log.Printf("who absent: %v", err)
		return replyStorageFailure
	}
	if len(absent) == 0 {
		return "Everyone is present."
	}
	return "Absent today: " + strings.Join(absent, ", ") + "."
}

// SummaryToday combines the present and absent sentences with the count form.
// All three derive from the same partition, so the totals can never disagree.
func (e *Engine) SummaryToday(ctx context.Context) string {
	present, absent, err := e.partitionToday(ctx)
	if err != nil {
		log.Printf("summary: %v", err)
		return replyStorageFailure
	}

	presentPart := "No one is inside right now."
	if len(present) > 0 {
		presentPart = "Present today: " + strings.Join(present, ", ") + "."
	}
	absentPart := "Everyone is present."
	if len(absent) > 0 {
		absentPart = "Absent today: " + strings.Join(absent, ", ") + "."
	}
	return fmt.Sprintf("%s %s In: %d. Out: %d.", presentPart, absentPart, len(present), len(absent))
}

// WhereIs reports a member's current status from their latest event overall
// (not day-scoped), with the reason when one was recorded.
func (e *Engine) WhereIs(ctx context.Context, name string) string {
	member, err := e.store.FindMemberByName(ctx, name)
	if err != nil {
		log.Printf("where is: %v", err)
		return replyStorageFailure
	}
	if member == nil {
		return fmt.Sprintf("I don't know this member: %s.", name)
	}

	latest, err := e.store.LatestEventFor(ctx, member.ID)
	if err != nil {
		log.Printf("where is: %v", err)
		return replyStorageFailure
	}
	current := model.StatusOutside
	reason := ""
	if latest != nil {
		current = latest.Status
		reason = latest.Reason
	}

	reply := fmt.Sprintf("%s is %s.", displayName(member.Name), statusWord(current))
	if reason != "" {
		reply += fmt.Sprintf(" Reason: %s.", reason)
	}
	return reply
}

// partitionToday splits the active roster into present and absent display
// names using today's events: latest event today wins, no event today means
// OUTSIDE. Always recomputed from the log; nothing is cached.
func (e *Engine) partitionToday(ctx context.Context) (present, absent []string, err error) {
	members, err := e.store.ListActiveMembers(ctx)
	if err != nil {
		return nil, nil, err
	}
	events, err := e.store.EventsOn(ctx, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	// EventsOn returns events in recording order, so the last write per
	// member is their latest status today.
	latest := make(map[int64]model.Status, len(members))
	for _, ev := range events {
		latest[ev.MemberID] = ev.Status
	}

	for _, m := range members {
		if latest[m.ID] == model.StatusInside {
			present = append(present, displayName(m.Name))
		} else {
			absent = append(absent, displayName(m.Name))
		}
	}
	return present, absent, nil
}
