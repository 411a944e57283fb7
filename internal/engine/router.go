package engine

import (
	"context"
	"fmt"
	"log"

	"trait-attendance-backend/internal/intent"
)

const (
	replyFallback       = "Sorry, I didn't understand that."
	replyStorageFailure = "Something went wrong. Please try again."
)

// HandleUtterance is the single inbound entry point for text commands:
// parse, resolve the name slot when the intent carries one, then dispatch.
// It never returns an error; every failure path is a reply sentence. An
// action is never partially applied: a mark intent whose name cannot be
// resolved stops before any storage write.
func (e *Engine) HandleUtterance(ctx context.Context, text string) string {
	cmd := intent.Parse(text)

	switch cmd.Kind {
	case intent.KindWhereIs:
		name, failReply := e.resolveName(ctx, cmd.Name)
		if failReply != "" {
			return failReply
		}
		return e.WhereIs(ctx, name)

	case intent.KindWhoPresent:
		return e.WhoPresentToday(ctx)

	case intent.KindWhoAbsent:
		return e.WhoAbsentToday(ctx)

	case intent.KindSummary:
		return e.SummaryToday(ctx)

	case intent.KindTraitInfo:
		return e.CenterInfo(ctx, cmd.Field)

	case intent.KindGuestWelcome:
		// Guest names live outside the roster; no roster resolution.
		return e.GuestWelcome(ctx, cmd.Name)

	case intent.KindProjectsList:
		return e.OngoingProjects(ctx)

	case intent.KindProjectDetails:
		if cmd.Title == "" {
			return replyFallback
		}
		return e.ProjectDetails(ctx, cmd.Title)

	case intent.KindMarkPresent:
		name, failReply := e.resolveName(ctx, cmd.Name)
		if failReply != "" {
			return failReply
		}
		return e.MarkPresent(ctx, name, "")

	case intent.KindMarkAbsent:
		name, failReply := e.resolveName(ctx, cmd.Name)
		if failReply != "" {
			return failReply
		}
		return e.MarkAbsent(ctx, name, "")

	default:
		return replyFallback
	}
}

// resolveName matches a spoken fragment against a fresh roster snapshot. The
// snapshot is re-read per request; membership changes between commands. A
// non-empty failReply short-circuits the caller.
func (e *Engine) resolveName(ctx context.Context, fragment string) (name, failReply string) {
	if fragment == "" {
		return "", replyFallback
	}
	names, err := e.store.ListActiveMemberNames(ctx)
	if err != nil {
		log.Printf("resolve: roster read failed: %v", err)
		return "", replyStorageFailure
	}
	resolved, _ := e.resolver.Resolve(fragment, names)
	if resolved == "" {
		return "", fmt.Sprintf("I couldn't find anyone named %s.", fragment)
	}
	return resolved, ""
}
