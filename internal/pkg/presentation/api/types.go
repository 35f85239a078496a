package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsflow/temperature-compliance/internal/pkg/application/readings"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

type ApiResponse struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data"`
	Pagination *types.Pagination `json:"pagination,omitempty"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

type ErrorResponse struct {
	Error   string                   `json:"error"`
	Details []types.ValidationDetail `json:"details,omitempty"`
}

func (r ErrorResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

const (
	errInvalidInput   string = "Invalid input data"
	errUnauthorized   string = "Unauthorized"
	errSensorNotFound string = "Sensor not found or access denied"
	errInternal       string = "Internal server error"
)

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func writeError(w http.ResponseWriter, code int, message string, details ...types.ValidationDetail) {
	writeJSON(w, code, ErrorResponse{Error: message, Details: details}.Byte())
}

// parseReadingFilter maps the query string of a GET to the temperature
// resource. Every malformed parameter is reported, not only the first.
func parseReadingFilter(q url.Values) (readings.ReadingFilter, *readings.ValidationError) {
	filter := readings.ReadingFilter{
		SensorID:   q.Get("sensorId"),
		LocationID: q.Get("locationId"),
	}

	verr := &readings.ValidationError{}

	if s := q.Get("startDate"); s != "" {
		t, _, err := readings.ParseTimestamp(s)
		if err != nil {
			verr.Details = append(verr.Details, detail("startDate", readings.CodeInvalidDate, err.Error()))
		} else {
			filter.StartDate = &t
		}
	}

	if s := q.Get("endDate"); s != "" {
		t, dateOnly, err := readings.ParseTimestamp(s)
		if err != nil {
			verr.Details = append(verr.Details, detail("endDate", readings.CodeInvalidDate, err.Error()))
		} else {
			// a plain date includes the whole day
			if dateOnly {
				t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			filter.EndDate = &t
		}
	}

	if s := q.Get("alertsOnly"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			verr.Details = append(verr.Details, detail("alertsOnly", readings.CodeInvalidType, "expected true or false"))
		} else {
			filter.AlertsOnly = b
		}
	}

	if i, d := intParam(q, "limit"); d != nil {
		verr.Details = append(verr.Details, *d)
	} else {
		filter.Limit = i
	}

	if i, d := intParam(q, "offset"); d != nil {
		verr.Details = append(verr.Details, *d)
	} else {
		filter.Offset = i
	}

	if len(verr.Details) > 0 {
		return filter, verr
	}

	return filter, nil
}

func intParam(q url.Values, name string) (*int, *types.ValidationDetail) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		d := detail(name, readings.CodeInvalidType, "expected an integer")
		return nil, &d
	}

	return &i, nil
}

func detail(path, code, message string) types.ValidationDetail {
	return types.ValidationDetail{Path: path, Code: code, Message: message}
}
