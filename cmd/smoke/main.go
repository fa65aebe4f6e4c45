package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase  string
	token    string
	client   = &http.Client{Timeout: 30 * time.Second}
	testDate string
	runID    string
)

func main() {
	fmt.Println("=== Health Export E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	testDate = time.Now().Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Token", testDevToken},
		{"Put Snapshot", testPutSnapshot},
		{"Get Settings", testGetSettings},
		{"Preview Export", testPreviewExport},
		{"Run Export (update)", testRunExport},
		{"Re-run Export (update)", testRerunExport},
		{"List Exports", testListExports},
		{"Get Export", testGetExport},
		{"Day PDF", testDayPDF},
		{"Range CSV", testRangeCSV},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := call("GET", "/healthz", nil, http.StatusOK)
	return err
}

// testDevToken fetches a dev token when SMOKE_TOKEN is empty. A 404 means
// the server runs without auth, which is fine.
func testDevToken() error {
	if token != "" {
		return nil
	}

	req, err := newRequest("POST", "/v1/auth/dev", map[string]string{"user_id": "smoke"})
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	token = result.AccessToken
	return nil
}

func testPutSnapshot() error {
	payload := map[string]interface{}{
		"date":     testDate,
		"sleep":    map[string]interface{}{"total_seconds": 27000, "deep_seconds": 5400},
		"activity": map[string]interface{}{"steps": 8000, "active_energy_kcal": 450},
		"heart":    map[string]interface{}{"resting_bpm": 58},
	}
	_, err := call("PUT", "/v1/snapshots/"+testDate, payload, http.StatusOK)
	return err
}

func testGetSettings() error {
	body, err := call("GET", "/v1/settings/export", nil, http.StatusOK)
	if err != nil {
		return err
	}

	var result struct {
		Settings struct {
			Format string `json:"format"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Settings.Format == "" {
		return fmt.Errorf("settings have no format")
	}
	return nil
}

func testPreviewExport() error {
	body, err := call("POST", "/v1/exports/preview", map[string]string{"date": testDate}, http.StatusOK)
	if err != nil {
		return err
	}

	var result struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Content == "" {
		return fmt.Errorf("empty preview")
	}
	return nil
}

type runResult struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	AppliedMode string `json:"applied_mode"`
	Status      string `json:"status"`
}

func runExport() (runResult, error) {
	var result runResult
	payload := map[string]string{"date": testDate, "format": "markdown", "write_mode": "update"}
	body, err := call("POST", "/v1/exports", payload, http.StatusCreated)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("decode failed: %w", err)
	}
	if result.Status != "ok" {
		return result, fmt.Errorf("run status=%s", result.Status)
	}
	return result, nil
}

func testRunExport() error {
	result, err := runExport()
	if err != nil {
		return err
	}
	runID = result.ID
	return nil
}

// testRerunExport checks that the second update merges into the file
// written by the first one.
func testRerunExport() error {
	result, err := runExport()
	if err != nil {
		return err
	}
	if result.AppliedMode != "update" {
		return fmt.Errorf("expected applied_mode=update on existing note, got %s", result.AppliedMode)
	}
	return nil
}

func testListExports() error {
	body, err := call("GET", "/v1/exports?limit=10", nil, http.StatusOK)
	if err != nil {
		return err
	}

	var result struct {
		Runs []runResult `json:"runs"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	for _, r := range result.Runs {
		if r.ID == runID {
			return nil
		}
	}
	return fmt.Errorf("run %s not in history", runID)
}

func testGetExport() error {
	if runID == "" {
		return fmt.Errorf("no run ID")
	}
	_, err := call("GET", "/v1/exports/"+runID, nil, http.StatusOK)
	return err
}

func testDayPDF() error {
	body, err := call("GET", "/v1/reports/day/"+testDate+".pdf", nil, http.StatusOK)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		return fmt.Errorf("response is not a PDF")
	}
	return nil
}

func testRangeCSV() error {
	body, err := call("GET", fmt.Sprintf("/v1/reports/range.csv?from=%s&to=%s", testDate, testDate), nil, http.StatusOK)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(body), "Date,") {
		return fmt.Errorf("unexpected csv header: %.40s", body)
	}
	return nil
}

// Helper functions

func newRequest(method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// call sends the request and returns the body when the status matches.
func call(method, path string, payload any, want int) ([]byte, error) {
	req, err := newRequest(method, path, payload)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
