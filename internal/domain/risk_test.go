package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelFor(t *testing.T) {
	cases := []struct {
		name     string
		sold     float64
		consumed float64
		want     RiskLevel
	}{
		{"nothing sold, nothing logged", 0, 0, RiskNoSoldLoad},
		{"nothing sold but hours logged", 0, 48, RiskNoSoldLoad},
		{"well under budget", 80, 8, RiskOK},
		{"just under the 90% threshold", 80, 71.9, RiskOK},
		{"exactly at 90%", 80, 72, RiskNearLimit},
		{"fully consumed", 80, 80, RiskNearLimit},
		{"over budget", 80, 80.5, RiskOverrun},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RiskLevelFor(tc.sold, tc.consumed))
		})
	}
}

func TestSeverityRank_OrdersLevels(t *testing.T) {
	assert.Greater(t, RiskOverrun.SeverityRank(), RiskNearLimit.SeverityRank())
	assert.Greater(t, RiskNearLimit.SeverityRank(), RiskNoSoldLoad.SeverityRank())
	assert.Greater(t, RiskNoSoldLoad.SeverityRank(), RiskOK.SeverityRank())
	assert.Equal(t, 0, RiskLevel("unknown").SeverityRank())
}
