package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_KeywordFamilies(t *testing.T) {
	cases := []struct {
		question string
		want     Intent
	}{
		{"", IntentHelp},
		{"   ", IntentHelp},
		{"aide", IntentHelp},
		{"que peux-tu faire ?", IntentHelp},
		{"Quels projets sont à risque ?", IntentProjectsRisk},
		{"y a-t-il des dérives ?", IntentProjectsRisk},
		{"overrun somewhere?", IntentProjectsRisk},
		{"Qui est le plus chargé ?", IntentWhoBusy},
		{"surcharge cette période ?", IntentWhoBusy},
		{"Répartition billable / internal ?", IntentTimeSplit},
		{"part non billable ?", IntentTimeSplit},
		{"Quelle est la marge ?", IntentFinanceSummary},
		{"synthèse finance", IntentFinanceSummary},
		{"Où en est-on cette semaine ?", IntentStatusGlobal},
		{"statut ?", IntentStatusGlobal},
		{"dis-moi quelque chose", IntentStatusGlobal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.question), "question: %q", tc.question)
	}
}

// A question mixing several keyword families must always resolve to the
// family highest in the rule order.
func TestClassify_FirstRuleWins(t *testing.T) {
	assert.Equal(t, IntentProjectsRisk, Classify("alerte sur la répartition billable ?"))
	assert.Equal(t, IntentProjectsRisk, Classify("risque sur la marge cette semaine ?"))
	assert.Equal(t, IntentWhoBusy, Classify("charge et répartition ?"))
	assert.Equal(t, IntentHelp, Classify("aide sur les risques"))
}

func TestClassify_Deterministic(t *testing.T) {
	q := "projets à risque cette semaine"
	first := Classify(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(q))
	}
}

func TestExtractMissionCode(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"où en est M-2026-002 ?", "M-2026-002"},
		{"statut m2026-002", "M-2026-002"},
		{"focus M 2026 002 svp", "M-2026-002"},
		{"m - 2026 - 002", "M-2026-002"},
		{"aucun code ici", ""},
		{"M-26-002 est trop court", ""},
		{"M-2026-02 aussi", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractMissionCode(tc.text), "text: %q", tc.text)
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "où en est la mission", Normalize("  Où   en\test  la  Mission  "))
	assert.Equal(t, "", Normalize("   "))
}
