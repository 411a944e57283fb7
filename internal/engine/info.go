package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// CenterInfo answers questions about the center itself. field selects one
// attribute (vision, mission, location, contact); empty means the general
// description.
func (e *Engine) CenterInfo(ctx context.Context, field string) string {
	info, err := e.store.LatestCenterInfo(ctx)
	if err != nil {
		log.Printf("center info: %v", err)
		return replyStorageFailure
	}
	if info == nil {
		return "Center information is not available."
	}

	title := info.Title
	if title == "" {
		title = "The center"
	}

	switch field {
	case "vision":
		return fmt.Sprintf("%s vision: %s", title, orNotProvided(info.Vision))
	case "mission":
		return fmt.Sprintf("%s mission: %s", title, orNotProvided(info.Mission))
	case "location":
		return fmt.Sprintf("%s location: %s", title, orNotProvided(info.Location))
	case "contact":
		return fmt.Sprintf("%s contact email: %s", title, orNotProvided(info.ContactEmail))
	}

	parts := []string{title}
	if info.Description != "" {
		parts = append(parts, info.Description)
	}
	if info.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s.", info.Location))
	}
	if info.ContactEmail != "" {
		parts = append(parts, fmt.Sprintf("Contact: %s.", info.ContactEmail))
	}
	return strings.Join(parts, " ")
}

// GuestWelcome reads the welcome note for the named guest, or for the most
// recent guest when no name was given.
func (e *Engine) GuestWelcome(ctx context.Context, name string) string {
	guest, err := e.store.LatestGuest(ctx, name)
	if err != nil {
		log.Printf("guest welcome: %v", err)
		return replyStorageFailure
	}
	if guest == nil {
		return "Guest information is not available."
	}

	guestName := guest.Name
	if guestName == "" {
		guestName = "Guest"
	}
	note := guest.WelcomeNote
	if note == "" {
		note = "Welcome"
	}

	var extra []string
	if guest.Designation != "" {
		extra = append(extra, guest.Designation)
	}
	if guest.Organization != "" {
		extra = append(extra, guest.Organization)
	}
	if guest.VisitPurpose != "" {
		extra = append(extra, fmt.Sprintf("Purpose: %s", guest.VisitPurpose))
	}

	if len(extra) > 0 {
		return fmt.Sprintf("Welcome note for %s: %s. %s.", guestName, note, strings.Join(extra, ", "))
	}
	return fmt.Sprintf("Welcome note for %s: %s.", guestName, note)
}

// OngoingProjects lists the titles of projects currently marked ONGOING.
func (e *Engine) OngoingProjects(ctx context.Context) string {
	titles, err := e.store.OngoingProjectTitles(ctx)
	if err != nil {
		log.Printf("projects: %v", err)
		return replyStorageFailure
	}
	if len(titles) == 0 {
		return "There are no ongoing projects."
	}
	return "Ongoing projects: " + strings.Join(titles, ", ") + "."
}

// ProjectDetails describes the project whose title best contains the spoken
// fragment.
func (e *Engine) ProjectDetails(ctx context.Context, title string) string {
	project, err := e.store.FindProjectByTitle(ctx, title)
	if err != nil {
		log.Printf("project details: %v", err)
		return replyStorageFailure
	}
	if project == nil {
		return fmt.Sprintf("I couldn't find a project named %s.", title)
	}

	parts := []string{project.Title}
	if project.Description != "" {
		parts = append(parts, project.Description)
	}
	if project.Domain != "" {
		parts = append(parts, fmt.Sprintf("Domain: %s", project.Domain))
	}
	if project.Status != "" {
		parts = append(parts, fmt.Sprintf("Status: %s", project.Status))
	}
	if project.Mentor != "" {
		parts = append(parts, fmt.Sprintf("Mentor: %s", project.Mentor))
	}
	if project.StartDate != nil {
		parts = append(parts, fmt.Sprintf("Start date: %s", project.StartDate.Format("2006-01-02")))
	}
	if project.EndDate != nil {
		parts = append(parts, fmt.Sprintf("End date: %s", project.EndDate.Format("2006-01-02")))
	}
	return strings.Join(parts, ". ") + "."
}

func orNotProvided(s string) string {
	if s == "" {
		return "not provided."
	}
	return s
}
