// Package alpha imports Alpha Progression CSV exports as completed workouts.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/models"
)

var (
	// sessionHeaderRe matches: "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// exerciseHeaderRe matches: "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmup info"]
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// setDataRe matches: 1;115;8;1
	setDataRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// durationRe matches "1:02 hr" and "45 min".
	durationRe = regexp.MustCompile(`^(?:(\d+):(\d{2})\s*hr|(\d+)\s*min)$`)

	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

// parser accumulates workouts line by line. Warmup sets listed in exercise
// headers are not working sets and are dropped.
type parser struct {
	workouts []models.Workout
	cur      *models.Workout
	ex       *models.Exercise
	target   int
}

// Parse reads an Alpha Progression CSV export. Each session becomes a
// completed workout whose id is derived from its date and name.
func Parse(r io.Reader) ([]models.Workout, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := p.line(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.flushSession()
	return p.workouts, nil
}

func (p *parser) line(line string) error {
	switch {
	case line == "":
		p.flushSession()
	case columnHeaderRe.MatchString(line):
	case sessionHeaderRe.MatchString(line):
		m := sessionHeaderRe.FindStringSubmatch(line)
		p.flushSession()
		date, err := parseSessionDate(m[2])
		if err != nil {
			return fmt.Errorf("parsing session date %q: %w", m[2], err)
		}
		p.cur = &models.Workout{
			ID:        ingest.StableID("alpha|" + m[2] + "|" + m[1]),
			Date:      date,
			CreatedAt: date,
			FocusArea: focusArea(m[1]),
			Notes:     m[1],
			Duration:  parseDuration(m[3]),
			Status:    models.StatusCompleted,
		}
	case exerciseHeaderRe.MatchString(line):
		m := exerciseHeaderRe.FindStringSubmatch(line)
		if p.cur == nil {
			return fmt.Errorf("exercise without session: %q", line)
		}
		p.flushExercise()
		p.target, _ = strconv.Atoi(m[4])
		equipment := strings.TrimSpace(m[3])
		p.ex = &models.Exercise{
			ID:       models.NewID(),
			Name:     strings.TrimSpace(m[2]),
			Category: models.NormalizeCategory(equipment),
			Notes:    equipment,
			Sets:     []models.Set{},
		}
	case setDataRe.MatchString(line):
		m := setDataRe.FindStringSubmatch(line)
		if p.ex == nil {
			return fmt.Errorf("set data without exercise: %q", line)
		}
		reps, _ := strconv.Atoi(m[3])
		s := models.Set{
			Weight:    models.Measure{Actual: parseWeight(m[2])},
			Reps:      models.Measure{Actual: models.Num(float64(reps))},
			Completed: true,
		}
		if p.target > 0 {
			s.Reps.Planned = models.Num(float64(p.target))
		}
		p.ex.Sets = append(p.ex.Sets, s)
	}
	// Anything else is notes or metadata.
	return nil
}

func (p *parser) flushExercise() {
	if p.cur != nil && p.ex != nil {
		p.cur.Exercises = append(p.cur.Exercises, *p.ex)
	}
	p.ex = nil
}

func (p *parser) flushSession() {
	p.flushExercise()
	if p.cur != nil {
		p.workouts = append(p.workouts, *p.cur)
	}
	p.cur = nil
}

// parseSessionDate parses "2026-02-19 4:54" into a time.Time.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseDuration converts "1:02 hr" or "45 min" to minutes; anything else is 0.
func parseDuration(s string) int {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		return n
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min
}

// focusArea is the first segment of a session name, lowercased:
// "Legs · Day 2 · Week 4" -> "legs".
func focusArea(sessionName string) string {
	first, _, _ := strings.Cut(sessionName, " · ")
	return strings.ToLower(strings.TrimSpace(first))
}

// parseWeight handles European decimals and bodyweight-plus notation.
// "+35" is 35 added to bodyweight and counts as 35, "+0" is plain bodyweight.
func parseWeight(s string) models.Amount {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		w := parseEuropeanFloat(rest)
		if w == 0 {
			return models.Bodyweight()
		}
		return models.Num(w)
	}
	return models.Num(parseEuropeanFloat(s))
}

// parseEuropeanFloat converts a European decimal string to float64.
// "102,5" -> 102.5, "0,5" -> 0.5
func parseEuropeanFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
