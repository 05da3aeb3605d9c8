// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// TestGenerateETag tests ETag determinism
func TestGenerateETag(t *testing.T) {
	body := []byte(`{"status":"success"}`)

	first := generateETag(body)
	second := generateETag(body)
	if first != second {
		t.Errorf("same input produced %q and %q", first, second)
	}
	if other := generateETag([]byte(`{"status":"error"}`)); other == first {
		t.Errorf("different inputs produced the same tag %q", first)
	}
	// FNV-1a offset basis for empty input.
	if got := generateETag(nil); got != "811c9dc5" {
		t.Errorf("generateETag(nil) = %q, want 811c9dc5", got)
	}
}

// TestRespondJSON_Headers tests the response headers including the ETag
func TestRespondJSON_Headers(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, &models.APIResponse{Status: "success"})

	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q", got)
	}
	if got := w.Header().Get("ETag"); got != generateETag(w.Body.Bytes()) {
		t.Errorf("ETag = %q does not match body hash", got)
	}
}

// TestRespondSuccess_Envelope tests the success envelope shape
func TestRespondSuccess_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	respondSuccess(w, http.StatusCreated, map[string]int{"n": 1}, time.Now())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Error != nil {
		t.Errorf("error = %+v, want nil", resp.Error)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("metadata timestamp not set")
	}
}

// TestRespondSuperseded_Envelope tests the superseded envelope shape
func TestRespondSuperseded_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	respondSuperseded(w, time.Now())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Status != "superseded" {
		t.Errorf("status = %q, want superseded", resp.Status)
	}
	if resp.Data != nil {
		t.Errorf("data = %v, want nil", resp.Data)
	}
	if resp.Error != nil {
		t.Errorf("error = %+v, want nil", resp.Error)
	}
}

// TestRespondError_Envelope tests the error envelope shape
func TestRespondError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, http.StatusBadRequest, CodeValidationError, "Page must be positive", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Status != "error" {
		t.Errorf("status = %q, want error", resp.Status)
	}
	if resp.Data != nil {
		t.Errorf("data = %v, want nil", resp.Data)
	}
	if resp.Error == nil || resp.Error.Code != CodeValidationError || resp.Error.Message != "Page must be positive" {
		t.Errorf("error = %+v", resp.Error)
	}
}

// TestValidateRequest tests the validation wrapper
func TestValidateRequest(t *testing.T) {
	if apiErr := validateRequest(&listingRequest{Page: 1}); apiErr != nil {
		t.Errorf("valid request rejected: %+v", apiErr)
	}

	apiErr := validateRequest(&listingRequest{Page: 0})
	if apiErr == nil {
		t.Fatal("invalid request accepted")
	}
	if apiErr.Code != CodeValidationError {
		t.Errorf("code = %q, want %s", apiErr.Code, CodeValidationError)
	}
}

// TestGetIntParam tests query parameter parsing
func TestGetIntParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing uses default", "", 7},
		{"parses value", "page=3", 3},
		{"garbage uses default", "page=abc", 7},
		{"negative passes through", "page=-3", -3},
		{"zero passes through", "page=0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			if got := getIntParam(req, "page", 7); got != tt.want {
				t.Errorf("getIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestPathIntParam tests path segment parsing
func TestPathIntParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"positive id", "603", 603},
		{"zero invalid", "0", 0},
		{"negative invalid", "-1", 0},
		{"garbage invalid", "abc", 0},
		{"empty invalid", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/x", nil)
			if tt.value != "" {
				req.SetPathValue("id", tt.value)
			}
			if got := pathIntParam(req, "id"); got != tt.want {
				t.Errorf("pathIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestParseCommaSeparatedInts tests genre list parsing
func TestParseCommaSeparatedInts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"empty", "", nil},
		{"single", "28", []int{28}},
		{"multiple", "28,878,53", []int{28, 878, 53}},
		{"spaces trimmed", " 28 , 878 ", []int{28, 878}},
		{"garbage skipped", "28,x,878", []int{28, 878}},
		{"all garbage", "a,b", nil},
		{"negative kept for validation", "-5", []int{-5}},
		{"trailing comma", "28,", []int{28}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCommaSeparatedInts(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCommaSeparatedInts(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestBoolParam tests boolean query parameter parsing
func TestBoolParam(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"session=1", true},
		{"session=true", true},
		{"session=TRUE", true},
		{"session=yes", true},
		{"session=0", false},
		{"session=no", false},
		{"session=", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			if got := boolParam(req, "session"); got != tt.want {
				t.Errorf("boolParam(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// TestSanitizeLogValue tests control character escaping
func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"newline escaped", "a\nb", "a\\x0ab"},
		{"carriage return escaped", "a\rb", "a\\x0db"},
		{"delete escaped", "a\x7fb", "a\\x7fb"},
		{"unicode preserved", "héllo", "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogValue(tt.input); got != tt.want {
				t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func BenchmarkGenerateETag(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		generateETag(data)
	}
}
