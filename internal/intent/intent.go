package intent

import (
	"regexp"
	"strings"
)

// Kind is the closed enumeration of command intents.
type Kind string

const (
	KindWhereIs        Kind = "WHERE_IS"
	KindWhoPresent     Kind = "WHO_PRESENT"
	KindWhoAbsent      Kind = "WHO_ABSENT"
	KindSummary        Kind = "SUMMARY"
	KindTraitInfo      Kind = "TRAIT_INFO"
	KindGuestWelcome   Kind = "GUEST_WELCOME"
	KindProjectsList   Kind = "PROJECTS_LIST"
	KindProjectDetails Kind = "PROJECT_DETAILS"
	KindMarkPresent    Kind = "MARK_PRESENT"
	KindMarkAbsent     Kind = "MARK_ABSENT"
	KindUnknown        Kind = "UNKNOWN"
)

// ParsedCommand is the result of classifying one utterance. Slots not used by
// the intent are empty.
type ParsedCommand struct {
	Kind  Kind
	Name  string // name fragment for member/guest-bearing intents
	Field string // center-info field selector (vision, mission, location, contact)
	Title string // project title fragment
}

// stopWords are domain verbs and fillers stripped before a remainder is
// treated as a name fragment.
var stopWords = map[string]bool{
	"present": true, "absent": true, "mark": true, "is": true,
	"the": true, "a": true, "an": true, "student": true, "member": true,
	"inside": true, "outside": true, "in": true, "out": true,
	"who": true, "where": true, "as": true, "for": true,
	"please": true, "now": true, "set": true, "tell": true,
	"me": true, "about": true, "details": true, "of": true,
	"what": true, "show": true,
}

var whereIsRe = regexp.MustCompile(`where\s+is\s+([a-z]+)`)

type utterance struct {
	text   string
	tokens []string
}

// rule pairs a matcher with the intent it builds. Rules are evaluated in
// priority order, top to bottom; the first match wins. The order is load
// bearing: "who is absent" must be classified before the bare "absent"
// name-extraction rule gets a chance to see it.
type rule func(u utterance) (ParsedCommand, bool)

var rules = []rule{
	matchWhereIs,
	matchWhoPresent,
	matchWhoAbsent,
	matchSummary,
	matchTraitInfo,
	matchGuestWelcome,
	matchProjectsList,
	matchProjectDetails,
	matchMarkPresent,
	matchMarkAbsent,
}

// Parse classifies an utterance into exactly one ParsedCommand. It is total:
// any input, including the empty string, yields a result and never panics.
// Normalization is local to parsing; the caller's transcript is not touched.
func Parse(raw string) ParsedCommand {
	u := normalize(raw)
	for _, match := range rules {
		if cmd, ok := match(u); ok {
			return cmd
		}
	}
	return ParsedCommand{Kind: KindUnknown}
}

func normalize(raw string) utterance {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.NewReplacer(".", "", ",", "", "?", "", "!", "").Replace(t)
	return utterance{text: t, tokens: strings.Fields(t)}
}

func (u utterance) has(words ...string) bool {
	for _, tok := range u.tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func matchWhereIs(u utterance) (ParsedCommand, bool) {
	m := whereIsRe.FindStringSubmatch(u.text)
	if m == nil {
		return ParsedCommand{}, false
	}
	// "where is the trait center" is an info question, not a member lookup;
	// decline so the center-info rule can claim it.
	switch m[1] {
	case "the", "trait", "center", "everyone", "everybody":
		return ParsedCommand{}, false
	}
	return ParsedCommand{Kind: KindWhereIs, Name: m[1]}, true
}

func matchWhoPresent(u utterance) (ParsedCommand, bool) {
	if u.has("who") && u.has("present", "inside", "in", "here") {
		return ParsedCommand{Kind: KindWhoPresent}, true
	}
	return ParsedCommand{}, false
}

func matchWhoAbsent(u utterance) (ParsedCommand, bool) {
	if u.has("who") && u.has("absent", "outside", "out") {
		return ParsedCommand{Kind: KindWhoAbsent}, true
	}
	return ParsedCommand{}, false
}

func matchSummary(u utterance) (ParsedCommand, bool) {
	if u.has("summary") {
		return ParsedCommand{Kind: KindSummary}, true
	}
	return ParsedCommand{}, false
}

func matchTraitInfo(u utterance) (ParsedCommand, bool) {
	if !u.has("trait", "center") {
		return ParsedCommand{}, false
	}
	field := ""
	switch {
	case u.has("vision"):
		field = "vision"
	case u.has("mission"):
		field = "mission"
	case u.has("location", "located", "where"):
		field = "location"
	case u.has("contact", "email"):
		field = "contact"
	}
	return ParsedCommand{Kind: KindTraitInfo, Field: field}, true
}

func matchGuestWelcome(u utterance) (ParsedCommand, bool) {
	if !u.has("guest", "welcome") {
		return ParsedCommand{}, false
	}
	// Keyword-anchored: only text after "for" is a guest name, so framing
	// words ("read the welcome note") never leak into the slot.
	return ParsedCommand{Kind: KindGuestWelcome, Name: afterAnchor(u.tokens, "for")}, true
}

func matchProjectsList(u utterance) (ParsedCommand, bool) {
	if u.has("projects") || (u.has("project") && u.has("list", "ongoing", "all")) {
		return ParsedCommand{Kind: KindProjectsList}, true
	}
	return ParsedCommand{}, false
}

func matchProjectDetails(u utterance) (ParsedCommand, bool) {
	if !u.has("project") {
		return ParsedCommand{}, false
	}
	title := afterAnchor(u.tokens, "project")
	if title == "" {
		title = afterAnchor(u.tokens, "about")
	}
	if title == "" {
		return ParsedCommand{}, false
	}
	return ParsedCommand{Kind: KindProjectDetails, Title: title}, true
}

func matchMarkPresent(u utterance) (ParsedCommand, bool) {
	if !u.has("present", "inside") {
		return ParsedCommand{}, false
	}
	name := extractName(u.tokens)
	if name == "" {
		return ParsedCommand{}, false
	}
	return ParsedCommand{Kind: KindMarkPresent, Name: name}, true
}

func matchMarkAbsent(u utterance) (ParsedCommand, bool) {
	if !u.has("absent", "outside") {
		return ParsedCommand{}, false
	}
	name := extractName(u.tokens)
	if name == "" {
		return ParsedCommand{}, false
	}
	return ParsedCommand{Kind: KindMarkAbsent, Name: name}, true
}

// extractName drops the stop words and returns whatever remains, or "" when
// nothing does. Used when the utterance has no anchor keyword to cut on.
func extractName(tokens []string) string {
	var kept []string
	for _, tok := range tokens {
		if !stopWords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// afterAnchor returns the stop-word-stripped text following the last
// occurrence of the anchor token, or "" if the anchor is absent or trailing.
func afterAnchor(tokens []string, anchor string) string {
	idx := -1
	for i, tok := range tokens {
		if tok == anchor {
			idx = i
		}
	}
	if idx < 0 || idx+1 >= len(tokens) {
		return ""
	}
	var kept []string
	for _, tok := range tokens[idx+1:] {
		if !stopWords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
