package readings

import (
	"testing"

	"github.com/matryer/is"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

func TestClassifyScenarios(t *testing.T) {
	testCases := map[string]struct {
		temperature float64
		min, max    float64
		triggered   bool
		level       *types.AlertLevel
		status      types.ComplianceStatus
	}{
		"inside band":                     {35, 33, 40, false, nil, types.ComplianceStatusCompliant},
		"far above max":                   {45, 33, 40, true, types.AlertLevelCritical.Ptr(), types.ComplianceStatusNonCompliant},
		"deviation of exactly ten":        {43, 33, 40, true, types.AlertLevelHigh.Ptr(), types.ComplianceStatusWarning},
		"slightly above max":              {41.5, 33, 40, true, types.AlertLevelHigh.Ptr(), types.ComplianceStatusWarning},
		"below min dominated by far edge": {30, 33, 40, true, types.AlertLevelHigh.Ptr(), types.ComplianceStatusWarning},
		"on lower boundary":               {33, 33, 40, false, nil, types.ComplianceStatusCompliant},
		"on upper boundary":               {40, 33, 40, false, nil, types.ComplianceStatusCompliant},
		"narrow band medium":              {3, 0, 0.5, true, types.AlertLevelMedium.Ptr(), types.ComplianceStatusWarning},
		"narrow band low":                 {1, 0, 0.5, true, types.AlertLevelLow.Ptr(), types.ComplianceStatusWarning},
		"narrow band exactly two":         {2, 0, 0.5, true, types.AlertLevelLow.Ptr(), types.ComplianceStatusWarning},
		"narrow band exactly five":        {5, 0, 0.5, true, types.AlertLevelMedium.Ptr(), types.ComplianceStatusWarning},
		"freezer too warm":                {-8, -25, -18, true, types.AlertLevelCritical.Ptr(), types.ComplianceStatusNonCompliant},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			c := Classify(tc.temperature, tc.min, tc.max)

			is.Equal(c.AlertTriggered, tc.triggered)
			is.Equal(c.ComplianceStatus, tc.status)

			if tc.level == nil {
				is.True(c.AlertLevel == nil)
			} else {
				is.True(c.AlertLevel != nil)
				is.Equal(*c.AlertLevel, *tc.level)
			}
		})
	}
}

func TestClassifyInsideBandIsAlwaysCompliant(t *testing.T) {
	is := is.New(t)

	for temp := 2.0; temp <= 8.0; temp += 0.25 {
		c := Classify(temp, 2, 8)
		is.True(!c.AlertTriggered)
		is.True(c.AlertLevel == nil)
		is.Equal(c.ComplianceStatus, types.ComplianceStatusCompliant)
	}
}

func TestClassifyOnlyCriticalIsNonCompliant(t *testing.T) {
	is := is.New(t)

	for temp := -50.0; temp <= 200.0; temp += 0.5 {
		c := Classify(temp, 0, 4)
		if !c.AlertTriggered {
			continue
		}

		is.True(c.AlertLevel != nil)
		if *c.AlertLevel == types.AlertLevelCritical {
			is.Equal(c.ComplianceStatus, types.ComplianceStatusNonCompliant)
		} else {
			is.Equal(c.ComplianceStatus, types.ComplianceStatusWarning)
		}
	}
}

func TestClassifySeverityIsMonotonicInDeviation(t *testing.T) {
	is := is.New(t)

	previous := 0
	for temp := 5.0; temp <= 200.0; temp += 0.1 {
		c := Classify(temp, 0, 4)
		if !c.AlertTriggered {
			continue
		}

		rank := c.AlertLevel.Rank()
		is.True(rank >= previous)
		previous = rank
	}

	is.Equal(previous, types.AlertLevelCritical.Rank())
}

func TestClassifyIsDeterministic(t *testing.T) {
	is := is.New(t)

	first := Classify(41.5, 33, 40)
	second := Classify(41.5, 33, 40)

	is.Equal(first.AlertTriggered, second.AlertTriggered)
	is.Equal(*first.AlertLevel, *second.AlertLevel)
	is.Equal(first.ComplianceStatus, second.ComplianceStatus)
}
