package chatbot

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/alexisferrand/cockpit/internal/domain"
	"github.com/alexisferrand/cockpit/internal/repository"
)

// Accepts M-2026-002 as well as loose spellings like m2026-002 or
// "M 2026 002" and normalizes them to the canonical M-YYYY-NNN form.
var missionCodeInText = regexp.MustCompile(`(?i)\b(m)\s*[- ]?\s*(\d{4})\s*[- ]?\s*(\d{3})\b`)

// ExtractMissionCode pulls a mission code out of free text, or returns
// the empty string when none is present.
func ExtractMissionCode(text string) string {
	m := missionCodeInText.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "M-" + m[2] + "-" + m[3]
}

// Fuzzy match scoring. A candidate only wins with at least
// minMatchScore points, so one incidental word is never enough.
const (
	fullNameScore  = 10
	codeMatchScore = 10
	wordScore      = 2
	minMatchScore  = 4
	minWordLen     = 4
	minQuestionLen = 3
)

// genericNameWords never score: they appear in too many mission names
// to identify one.
var genericNameWords = map[string]bool{"mission": true}

// ResolveMission finds the visible mission a question is about, if any.
// An exact code match wins outright; otherwise mission names are scored
// against the question and the best candidate is returned when it
// clears the threshold.
func ResolveMission(ctx context.Context, missions repository.MissionRepo, missionIDs []string, question string) (*domain.Mission, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}

	visible := func(id string) bool {
		for _, mid := range missionIDs {
			if mid == id {
				return true
			}
		}
		return false
	}

	if code := ExtractMissionCode(question); code != "" {
		m, err := missions.GetByCode(ctx, code)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if m != nil && visible(m.ID) {
			return m, nil
		}
	}

	q := Normalize(question)
	if len(q) < minQuestionLen {
		return nil, nil
	}

	candidates, err := missions.ListByIDs(ctx, missionIDs)
	if err != nil {
		return nil, err
	}

	var best *domain.Mission
	bestScore := 0
	for _, m := range candidates {
		score := scoreMission(m, q)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	if bestScore < minMatchScore {
		return nil, nil
	}
	return best, nil
}

func scoreMission(m *domain.Mission, q string) int {
	name := Normalize(m.Name)
	code := Normalize(m.Code)

	score := 0
	if name != "" && strings.Contains(q, name) {
		score += fullNameScore
	}
	if code != "" && strings.Contains(q, code) {
		score += codeMatchScore
	}
	for _, w := range strings.Split(name, " ") {
		if len(w) < minWordLen || genericNameWords[w] {
			continue
		}
		if strings.Contains(q, w) {
			score += wordScore
		}
	}
	return score
}
