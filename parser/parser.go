package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"attbot/models"
)

// Outcome classifies the result of parsing one raw embed.
type Outcome int

const (
	// OutcomeRecognized means the embed matched the vocabulary and yielded
	// at least one attendee.
	OutcomeRecognized Outcome = iota
	// OutcomeNotEvent means no field label matched the vocabulary. Not an
	// error; the caller skips the embed silently.
	OutcomeNotEvent
	// OutcomeMalformed means the vocabulary matched but no usable attendee
	// could be extracted. The record is still returned (with empty sets) so
	// reconciliation can decide whether it replaces anything.
	OutcomeMalformed
)

// Parser turns raw embeds into attendance records.
type Parser struct {
	vocab *Vocabulary
	now   func() time.Time
}

// New creates a parser with the given vocabulary. A nil vocabulary means the
// defaults.
func New(vocab *Vocabulary) *Parser {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Parser{vocab: vocab, now: time.Now}
}

type response struct {
	category models.Category
	display  string
}

// Parse converts one raw embed into an attendance record. It never fails on
// malformed text; at worst the record comes back with empty sets.
func (p *Parser) Parse(e models.RawEmbed) (models.AttendanceRecord, Outcome) {
	type matched struct {
		category models.Category
		body     string
	}
	var fields []matched
	for _, f := range e.Fields {
		if cat, ok := p.vocab.Match(f.Label); ok {
			fields = append(fields, matched{category: cat, body: f.Body})
		}
	}

	rec := models.AttendanceRecord{
		EventKey:       models.EventKey(e),
		Title:          strings.TrimSpace(e.Title),
		SourceAuthorID: e.AuthorID,
		ScannedAt:      p.now(),
		RawFieldCount:  len(fields),
	}

	if len(fields) == 0 {
		return rec, OutcomeNotEvent
	}

	// Last occurrence in document order wins when the same attendee shows up
	// in two categories. The description renders before the fields, so it is
	// processed first and any field assignment overrides it.
	responses := make(map[string]response)
	order := make([]string, 0)
	assign := func(id string, r response) {
		if _, ok := responses[id]; !ok {
			order = append(order, id)
		}
		responses[id] = r
	}

	for _, line := range strings.Split(e.Description, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		if id, display, ok := extractAttendee(line); ok {
			assign(id, response{category: models.CategoryAccepted, display: display})
		}
	}

	for _, f := range fields {
		for _, line := range strings.Split(f.body, "\n") {
			if id, display, ok := extractAttendee(line); ok {
				assign(id, response{category: f.category, display: display})
			}
		}
	}

	for _, id := range order {
		r := responses[id]
		a := models.Attendee{ID: id, DisplayName: r.display}
		switch r.category {
		case models.CategoryAccepted:
			rec.Accepted = append(rec.Accepted, a)
		case models.CategoryDeclined:
			rec.Declined = append(rec.Declined, a)
		default:
			rec.Tentative = append(rec.Tentative, a)
		}
	}
	sortAttendees(rec.Accepted)
	sortAttendees(rec.Declined)
	sortAttendees(rec.Tentative)

	if rec.TotalResponders() == 0 {
		return rec, OutcomeMalformed
	}
	return rec, OutcomeRecognized
}

var (
	mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)
	// list markers, numbering like "1." or "2)", quote markers
	decorationRe = regexp.MustCompile(`^(?:[-*>•‣▸]+|\d+[.)])\s*`)
	nameJunkRe   = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// extractAttendee trims one field line down to the attendee it names.
// Returns ok=false for garbage lines, which are dropped without failing the
// field.
func extractAttendee(line string) (id, display string, ok bool) {
	line = strings.TrimSpace(line)
	for {
		trimmed := decorationRe.ReplaceAllString(line, "")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == line {
			break
		}
		line = trimmed
	}
	if line == "" {
		return "", "", false
	}

	if m := mentionRe.FindStringSubmatch(line); m != nil {
		return m[1], line, true
	}

	// Strip leading emoji or symbol decoration before the name proper.
	line = strings.TrimSpace(strings.TrimLeftFunc(line, func(r rune) bool {
		return !isNameRune(r)
	}))
	if line == "" {
		return "", "", false
	}

	id = NormalizeName(line)
	if id == "" {
		return "", "", false
	}
	return id, line, true
}

func isNameRune(r rune) bool {
	return r == '<' || ('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') ||
		r > 0x7f && !isSymbolRune(r)
}

func isSymbolRune(r rune) bool {
	// Emoji and dingbat ranges the event bot uses as bullet decoration.
	return (r >= 0x1F000 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) ||
		r == 0xFE0F || (r >= 0x2190 && r <= 0x21FF)
}

// NormalizeName collapses a display name into the stable identifier used for
// aggregation: lowercase, punctuation removed, whitespace collapsed.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = nameJunkRe.ReplaceAllString(name, "")
	name = spaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func sortAttendees(list []models.Attendee) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
