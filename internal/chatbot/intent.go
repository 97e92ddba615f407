package chatbot

import (
	"regexp"
	"strings"
)

// Intent is the question family a rule matched.
type Intent string

const (
	IntentHelp           Intent = "help"
	IntentProjectsRisk   Intent = "projects_risk"
	IntentWhoBusy        Intent = "who_busy"
	IntentTimeSplit      Intent = "time_split"
	IntentFinanceSummary Intent = "finance_summary"
	IntentStatusGlobal   Intent = "status_global"
)

// intentRule binds one intent to its trigger keywords. A keyword matches
// by substring on the normalized question.
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules are evaluated in order and the first match wins, so a
// question mixing families ("projets à risque cette semaine") resolves
// the same way every time. Keep help first and the status catch-all out
// of the list: status_global is the default for anything unmatched.
var intentRules = []intentRule{
	{IntentHelp, []string{"aide", "help", "que peux-tu", "exemple"}},
	{IntentProjectsRisk, []string{"à risque", "risque", "dérive", "overrun", "near limit", "alerte"}},
	{IntentWhoBusy, []string{"plus chargé", "surcharg", "qui est chargé", "busy", "charge"}},
	{IntentTimeSplit, []string{"répartition", "billable", "internal", "non billable", "catégorie"}},
	{IntentFinanceSummary, []string{"marge", "margin", "coût", "cout", "ca", "chiffre", "€", "eur", "finance"}},
	{IntentStatusGlobal, []string{"où en est", "statut", "global", "cette semaine", "this week"}},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// Normalize lowercases and collapses whitespace so keyword and name
// matching see one canonical form of the question.
func Normalize(q string) string {
	return whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(q)), " ")
}

// Classify maps a raw question to an intent. Empty questions ask for
// help; anything no rule matches is treated as a global status request.
func Classify(question string) Intent {
	q := Normalize(question)
	if q == "" {
		return IntentHelp
	}
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return IntentStatusGlobal
}
