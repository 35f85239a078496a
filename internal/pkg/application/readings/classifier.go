package readings

import (
	"math"

	"github.com/opsflow/temperature-compliance/pkg/types"
)

type Classification struct {
	AlertTriggered   bool
	AlertLevel       *types.AlertLevel
	ComplianceStatus types.ComplianceStatus
}

// Classify maps a temperature and its threshold band to an alert level and a
// compliance status. The deviation used for the level is the larger of the
// distances to either threshold, not the distance to the violated one.
// Only CRITICAL readings are NON_COMPLIANT.
func Classify(temperature, thresholdMin, thresholdMax float64) Classification {
	triggered := temperature < thresholdMin || temperature > thresholdMax
	if !triggered {
		return Classification{
			AlertTriggered:   false,
			ComplianceStatus: types.ComplianceStatusCompliant,
		}
	}

	deviation := math.Max(math.Abs(temperature-thresholdMin), math.Abs(temperature-thresholdMax))

	switch {
	case deviation > 10:
		return alert(types.AlertLevelCritical, types.ComplianceStatusNonCompliant)
	case deviation > 5:
		return alert(types.AlertLevelHigh, types.ComplianceStatusWarning)
	case deviation > 2:
		return alert(types.AlertLevelMedium, types.ComplianceStatusWarning)
	default:
		return alert(types.AlertLevelLow, types.ComplianceStatusWarning)
	}
}

func alert(level types.AlertLevel, status types.ComplianceStatus) Classification {
	return Classification{
		AlertTriggered:   true,
		AlertLevel:       level.Ptr(),
		ComplianceStatus: status,
	}
}
