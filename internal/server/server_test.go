package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/finance-suggest/internal/dashboard"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/testutil"
	"go.uber.org/zap"
)

const suggestionPayload = `{
  "now": "2025-11-20",
  "transactions": [
    {"amount": 3000, "category": "Food", "date": "2025-11-15"},
    {"amount": "1,500", "category": "entertainment", "date": "2025-10-01"},
    {"amount": 9000, "category": "rent", "date": "2025-11-01"},
    {"amount": 600, "category": "shopping", "date": "2025-06-01"}
  ],
  "goal": {"name": "Japan", "targetAmount": 12000, "currentSaved": 0, "targetDate": "2026-11-15"}
}`

const uploadCSV = `amount,category,date
3000,food,2025-11-15
1500,entertainment,2025-10-01
`

func newTestHandler(board *dashboard.Board) http.Handler {
	return NewHandler(zap.NewNop(), board, constants.DefaultMaxUploadSizeBytes, "test")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeSuggestions(t *testing.T, rr *httptest.ResponseRecorder) suggestionResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp suggestionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp["error"]
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write form data: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandleSuggestionsSuccess(t *testing.T) {
	rr := postJSON(t, newTestHandler(nil), "/api/suggestions", suggestionPayload)
	resp := decodeSuggestions(t, rr)

	if resp.Summary.TotalMonthlyAverage != 4500 {
		t.Errorf("TotalMonthlyAverage = %.2f, expected 4500", resp.Summary.TotalMonthlyAverage)
	}
	if _, ok := resp.Summary.CategoryMonthlyAverage["shopping"]; ok {
		t.Error("shopping is outside the window and should not be summarized")
	}

	expectedOrder := []string{"Travel", "food", "entertainment"}
	if len(resp.Suggestions) != len(expectedOrder) {
		t.Fatalf("expected %d suggestions, got %d: %+v", len(expectedOrder), len(resp.Suggestions), resp.Suggestions)
	}
	for i, id := range expectedOrder {
		if resp.Suggestions[i].ID() != id {
			t.Errorf("suggestions[%d] = %s, expected %s", i, resp.Suggestions[i].ID(), id)
		}
	}

	goal := testutil.FindSuggestion(resp.Suggestions, "Travel")
	if goal == nil || goal.Savings != 1000 {
		t.Fatalf("expected goal allocation of 1000, got %+v", goal)
	}
	if !strings.Contains(goal.Title, "Japan") {
		t.Errorf("goal title should name the goal, got %q", goal.Title)
	}
	if food := testutil.FindSuggestion(resp.Suggestions, "food"); food == nil || food.Savings != 200 {
		t.Errorf("expected food savings of 200, got %+v", food)
	}

	if resp.Overview.MonthlySavings != 1300 || resp.Overview.Progress != "3/3" {
		t.Errorf("Overview = %+v, expected 1300 monthly and 3/3", resp.Overview)
	}
	if resp.RequestID == "" {
		t.Error("expected request id in response")
	}
	if rr.Header().Get(RequestIDHeader) != resp.RequestID {
		t.Errorf("header request id %q does not match body %q", rr.Header().Get(RequestIDHeader), resp.RequestID)
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
}

func TestHandleSuggestionsDateOnlyNowIncludesThatDay(t *testing.T) {
	body := `{
  "now": "2024-06-01",
  "transactions": [
    {"amount": 3000, "category": "food", "date": "2024-06-01T09:30:00Z"},
    {"amount": 3000, "category": "food", "date": "2024-06-01"}
  ]
}`
	resp := decodeSuggestions(t, postJSON(t, newTestHandler(nil), "/api/suggestions", body))

	if got := resp.Summary.CategoryMonthlyAverage["food"]; got != 2000 {
		t.Errorf("food average = %.2f, expected 2000", got)
	}
	if food := testutil.FindSuggestion(resp.Suggestions, "food"); food == nil || food.Savings != 400 {
		t.Errorf("expected food savings of 400, got %+v", food)
	}
}

func TestHandleSuggestionsRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/suggestions", strings.NewReader(`{"now": "2025-11-20"}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	resp := decodeSuggestions(t, rr)
	if resp.RequestID != "abc-123" {
		t.Errorf("RequestID = %q, expected abc-123", resp.RequestID)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("expected no suggestions for empty input, got %d", len(resp.Suggestions))
	}
}

func TestHandleSuggestionsBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{name: "Malformed JSON", body: `{"transactions": [`, contains: "failed to decode request"},
		{name: "Unknown field", body: `{"scenario": "x"}`, contains: "failed to decode request"},
		{name: "Invalid now", body: `{"now": "yesterday"}`, contains: "invalid now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, newTestHandler(nil), "/api/suggestions", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			if msg := decodeError(t, rr); !strings.Contains(msg, tt.contains) {
				t.Errorf("expected error containing %q, got %q", tt.contains, msg)
			}
		})
	}
}

func TestHandleSuggestionsGoalWarnings(t *testing.T) {
	body := `{"now": "2025-11-20", "goal": {"name": "Bike", "targetAmount": 500, "currentSaved": 800}}`
	resp := decodeSuggestions(t, postJSON(t, newTestHandler(nil), "/api/suggestions", body))

	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "already reached") {
		t.Errorf("expected an already-reached warning, got %v", resp.Warnings)
	}
	if testutil.FindSuggestion(resp.Suggestions, "Travel") != nil {
		t.Error("a reached goal should not produce an allocation")
	}
}

func TestHandleSuggestionsMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions", nil)
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleUploadSuccess(t *testing.T) {
	body, contentType := multipartUpload(t, "history.csv", []byte(uploadCSV), map[string]string{
		"now":            "2025-11-20",
		"goalName":       "Japan",
		"goalTarget":     "12,000",
		"goalDate":       "2026-11-15",
		"currencySymbol": "$",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/suggestions/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	resp := decodeSuggestions(t, rr)
	if len(resp.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %+v", len(resp.Suggestions), resp.Suggestions)
	}
	goal := testutil.FindSuggestion(resp.Suggestions, "Travel")
	if goal == nil || goal.Savings != 1000 {
		t.Fatalf("expected goal allocation of 1000, got %+v", goal)
	}
	if !strings.Contains(goal.Title, "$1,000.00") {
		t.Errorf("expected dollar-formatted title, got %q", goal.Title)
	}
}

func TestHandleUploadExplicitFormat(t *testing.T) {
	yamlLedger := []byte("- amount: 3000\n  category: dining\n  date: 2025-11-15\n")
	body, contentType := multipartUpload(t, "export.txt", yamlLedger, map[string]string{
		"now":    "2025-11-20",
		"format": "yaml",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/suggestions/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	resp := decodeSuggestions(t, rr)
	if dining := testutil.FindSuggestion(resp.Suggestions, "dining"); dining == nil || dining.Savings != 200 {
		t.Errorf("expected dining savings of 200, got %+v", dining)
	}
}

func TestHandleUploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		contains string
	}{
		{
			name:     "Missing file",
			contains: "missing transactions file",
		},
		{
			name:     "Unknown extension",
			filename: "history.txt",
			content:  []byte(uploadCSV),
			contains: "cannot infer",
		},
		{
			name:     "Unsupported explicit format",
			filename: "history.csv",
			content:  []byte(uploadCSV),
			fields:   map[string]string{"format": "xlsx"},
			contains: "expected ledger format",
		},
		{
			name:     "CSV without amount column",
			filename: "history.csv",
			content:  []byte("category,date\nfood,2025-11-01\n"),
			contains: "failed to read transactions",
		},
		{
			name:     "Invalid goal target",
			filename: "history.csv",
			content:  []byte(uploadCSV),
			fields:   map[string]string{"goalName": "Japan", "goalTarget": "lots"},
			contains: "invalid goalTarget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.filename, tt.content, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/suggestions/upload", body)
			req.Header.Set("Content-Type", contentType)
			rr := httptest.NewRecorder()
			newTestHandler(nil).ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if msg := decodeError(t, rr); !strings.Contains(msg, tt.contains) {
				t.Errorf("expected error containing %q, got %q", tt.contains, msg)
			}
		})
	}
}

func TestHandleUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, 64, "test")

	body, contentType := multipartUpload(t, "history.csv", []byte(strings.Repeat("a", 128)), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/suggestions/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); !strings.Contains(msg, "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", msg)
	}
}

func TestDismissFlow(t *testing.T) {
	board := dashboard.NewBoard()
	handler := newTestHandler(board)

	rr := postJSON(t, handler, "/api/suggestions/dismiss", `{"id": "food"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("dismiss: expected status 200, got %d", rr.Code)
	}
	if !board.IsDismissed("food") {
		t.Fatal("food should be dismissed on the shared board")
	}

	resp := decodeSuggestions(t, postJSON(t, handler, "/api/suggestions", suggestionPayload))
	if testutil.FindSuggestion(resp.Suggestions, "food") != nil {
		t.Error("dismissed suggestion should be hidden")
	}
	if resp.Overview.Progress != "2/3" || resp.Overview.Dismissed != 1 {
		t.Errorf("Overview = %+v, expected 2/3 with 1 dismissed", resp.Overview)
	}
	if resp.Overview.MonthlySavings != 1100 {
		t.Errorf("MonthlySavings = %.2f, expected 1100", resp.Overview.MonthlySavings)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/suggestions/dismiss/food", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("restore: expected status 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/suggestions/dismiss/food", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second restore: expected status 404, got %d", rr.Code)
	}

	postJSON(t, handler, "/api/suggestions/dismiss", `{"id": "Travel"}`)
	postJSON(t, handler, "/api/suggestions/dismiss", `{"id": "entertainment"}`)

	req = httptest.NewRequest(http.MethodGet, "/api/suggestions/dismiss", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	var listed dismissedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode dismissed list: %v", err)
	}
	if len(listed.Dismissed) != 2 || listed.Dismissed[0] != "Travel" || listed.Dismissed[1] != "entertainment" {
		t.Errorf("Dismissed = %v, expected [Travel entertainment]", listed.Dismissed)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/suggestions/dismiss", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset: expected status 200, got %d", rr.Code)
	}
	if len(board.Dismissed()) != 0 {
		t.Errorf("reset should clear the board, got %v", board.Dismissed())
	}
}

func TestDismissRequiresID(t *testing.T) {
	rr := postJSON(t, newTestHandler(nil), "/api/suggestions/dismiss", `{"id": "  "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "missing suggestion id" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{version: "1.2.3", expected: "1.2.3"},
		{version: "  ", expected: "dev"},
	}

	for _, tt := range tests {
		handler := NewHandler(nil, nil, 0, tt.version)
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode version response: %v", err)
		}
		if resp["version"] != tt.expected {
			t.Errorf("version = %q, expected %q", resp["version"], tt.expected)
		}
	}
}
