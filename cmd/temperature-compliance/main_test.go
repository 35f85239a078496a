package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/matryer/is"

	"github.com/opsflow/temperature-compliance/internal/pkg/application"
)

func TestSetup(t *testing.T) {
	is, server := setupTest(t)

	resp, _ := testRequest(is, server, http.MethodGet, "/health", "", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestMetricsAreExposed(t *testing.T) {
	is, server := setupTest(t)

	resp, body := testRequest(is, server, http.MethodGet, "/metrics", "", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "go_goroutines"))
}

func TestThatSubmitWithoutTokenReturns401(t *testing.T) {
	is, server := setupTest(t)

	resp, body := testRequest(is, server, http.MethodPost, "/api/v0/temperature", "", strings.NewReader(`{}`))

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
	is.Equal(body, `{"error":"Unauthorized"}`)
}

func TestThatSubmitForUnknownSensorReturns404(t *testing.T) {
	is, server := setupTest(t)

	resp, body := testRequest(is, server, http.MethodPost, "/api/v0/temperature", token(is), strings.NewReader(`{"sensorId":"nosuchsensor","temperature":4,"thresholdMin":0,"thresholdMax":5}`))

	is.Equal(resp.StatusCode, http.StatusNotFound)
	is.Equal(body, `{"error":"Sensor not found or access denied"}`)
}

func TestThatSubmitForSeededSensorReturns200(t *testing.T) {
	is, server := setupTest(t)

	resp, body := testRequest(is, server, http.MethodPost, "/api/v0/temperature", token(is), strings.NewReader(`{"sensorId":"sensor-fridge-01","temperature":5,"thresholdMin":0,"thresholdMax":4}`))

	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"alertLevel":"MEDIUM"`))
	is.True(strings.Contains(body, `"sensor":{"name":"Walk-in fridge"}`))
	is.True(strings.Contains(body, `"location":{"name":"Main kitchen"}`))
}

func TestThatConfiguredSecretRejectsUnsignedTokens(t *testing.T) {
	is, server := setupTestWithFlags(t, func(f flagMap) { f[jwtSecret] = "signing-secret" })

	resp, _ := testRequest(is, server, http.MethodPost, "/api/v0/temperature", token(is), strings.NewReader(`{"sensorId":"sensor-fridge-01","temperature":5,"thresholdMin":0,"thresholdMax":4}`))

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestAllowedOrigins(t *testing.T) {
	is := is.New(t)

	is.Equal(allowedOrigins("*"), []string{"*"})
	is.Equal(allowedOrigins(" https://a.example.com, ,https://b.example.com "), []string{"https://a.example.com", "https://b.example.com"})
	is.Equal(len(allowedOrigins("")), 0)
}

func setupTest(t *testing.T) (*is.I, *httptest.Server) {
	return setupTestWithFlags(t, func(flagMap) {})
}

func setupTestWithFlags(t *testing.T, override func(flagMap)) (*is.I, *httptest.Server) {
	is := is.New(t)
	ctx := context.Background()

	flags := defaultFlags()
	flags[devmode] = "true"
	override(flags)

	cfgFile, err := os.Open("../../assets/config/config.yaml")
	is.NoErr(err)

	cfg, err := parseExternalConfigFile(ctx, cfgFile)
	is.NoErr(err)

	// no webhook subscribers in tests
	cfg.Notifications = []application.Notification{}

	policies, err := os.Open("../../assets/config/authz.rego")
	is.NoErr(err)

	sensors, err := os.Open("../../assets/config/sensors.csv")
	is.NoErr(err)

	r, shutdown, err := initialize(ctx, flags, cfg, policies, sensors)
	is.NoErr(err)

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		shutdown()
	})

	return is, server
}

func token(is *is.I) string {
	ja := jwtauth.New("HS256", []byte("unverified"), nil)

	_, tokenString, err := ja.Encode(map[string]any{
		"sub":    "user-1",
		"tenant": "default",
		"scope":  "readings.read readings.write",
	})
	is.NoErr(err)

	return tokenString
}

func testRequest(is *is.I, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	is.NoErr(err)

	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	return resp, string(respBody)
}
