package readings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/opsflow/temperature-compliance/pkg/types"
)

const (
	MinTemperature float64 = -50
	MaxTemperature float64 = 200
	MinHumidity    float64 = 0
	MaxHumidity    float64 = 100

	MaxSensorIDLength int = 64
)

var sensorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Submission is a validated and normalized reading submission.
type Submission struct {
	SensorID     string
	Temperature  float64
	Humidity     *float64
	ThresholdMin float64
	ThresholdMax float64
	RecordedAt   time.Time
}

// DecodeSubmission parses a JSON request body. Every field holding a value of
// the wrong JSON type is reported as a detail of a *ValidationError.
func DecodeSubmission(body []byte) (types.ReadingSubmission, error) {
	fields := map[string]json.RawMessage{}

	if err := json.Unmarshal(body, &fields); err != nil {
		verr := &ValidationError{}
		verr.add("", CodeInvalidJSON, "request body is not a valid JSON object")
		return types.ReadingSubmission{}, verr
	}

	raw := types.ReadingSubmission{}
	verr := &ValidationError{}

	targets := []struct {
		name string
		dst  any
	}{
		{"sensorId", &raw.SensorID},
		{"temperature", &raw.Temperature},
		{"humidity", &raw.Humidity},
		{"thresholdMin", &raw.ThresholdMin},
		{"thresholdMax", &raw.ThresholdMax},
		{"recordedAt", &raw.RecordedAt},
	}

	for _, t := range targets {
		value, ok := fields[t.name]
		if !ok {
			continue
		}

		err := json.Unmarshal(value, t.dst)
		if err == nil {
			continue
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			verr.add(t.name, CodeInvalidType, fmt.Sprintf("expected %s, got %s", typeErr.Type.String(), typeErr.Value))
		} else {
			verr.add(t.name, CodeInvalidType, err.Error())
		}
	}

	if !verr.empty() {
		return types.ReadingSubmission{}, verr
	}

	return raw, nil
}

// Validate checks a submission against the field constraints and returns the
// normalized form. A missing recordedAt defaults to now.
func Validate(raw types.ReadingSubmission, now time.Time) (Submission, error) {
	verr := &ValidationError{}
	s := Submission{}

	switch {
	case raw.SensorID == "":
		verr.add("sensorId", CodeRequired, "sensorId is required")
	case len(raw.SensorID) > MaxSensorIDLength:
		verr.add("sensorId", CodeTooLong, fmt.Sprintf("sensorId must be at most %d characters", MaxSensorIDLength))
	case !sensorIDPattern.MatchString(raw.SensorID):
		verr.add("sensorId", CodeInvalidFormat, "sensorId may only contain letters, digits, '-' and '_'")
	default:
		s.SensorID = raw.SensorID
	}

	if raw.Temperature == nil {
		verr.add("temperature", CodeRequired, "temperature is required")
	} else if !within(*raw.Temperature, MinTemperature, MaxTemperature) {
		verr.add("temperature", CodeOutOfRange, fmt.Sprintf("temperature must be between %g and %g", MinTemperature, MaxTemperature))
	} else {
		s.Temperature = *raw.Temperature
	}

	if raw.Humidity != nil {
		if !within(*raw.Humidity, MinHumidity, MaxHumidity) {
			verr.add("humidity", CodeOutOfRange, fmt.Sprintf("humidity must be between %g and %g", MinHumidity, MaxHumidity))
		} else {
			h := *raw.Humidity
			s.Humidity = &h
		}
	}

	thresholdsOK := true

	if raw.ThresholdMin == nil {
		verr.add("thresholdMin", CodeRequired, "thresholdMin is required")
		thresholdsOK = false
	} else if !finite(*raw.ThresholdMin) {
		verr.add("thresholdMin", CodeOutOfRange, "thresholdMin must be a finite number")
		thresholdsOK = false
	}

	if raw.ThresholdMax == nil {
		verr.add("thresholdMax", CodeRequired, "thresholdMax is required")
		thresholdsOK = false
	} else if !finite(*raw.ThresholdMax) {
		verr.add("thresholdMax", CodeOutOfRange, "thresholdMax must be a finite number")
		thresholdsOK = false
	}

	if thresholdsOK {
		if *raw.ThresholdMin > *raw.ThresholdMax {
			verr.add("thresholdMin", CodeInvalidRange, "thresholdMin must not be greater than thresholdMax")
		} else {
			s.ThresholdMin = *raw.ThresholdMin
			s.ThresholdMax = *raw.ThresholdMax
		}
	}

	if raw.RecordedAt == nil {
		s.RecordedAt = now.UTC()
	} else if t, _, err := ParseTimestamp(*raw.RecordedAt); err != nil {
		verr.add("recordedAt", CodeInvalidDate, "recordedAt must be an ISO-8601 timestamp")
	} else {
		s.RecordedAt = t
	}

	if !verr.empty() {
		return Submission{}, verr
	}

	return s, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 timestamps, timestamps without a zone
// (taken as UTC) and plain dates. The returned bool is true for plain dates.
func ParseTimestamp(value string) (time.Time, bool, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), false, nil
		}
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unable to parse %q as a timestamp", value)
	}

	return t.UTC(), true, nil
}

func within(v, min, max float64) bool {
	return !math.IsNaN(v) && v >= min && v <= max
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
