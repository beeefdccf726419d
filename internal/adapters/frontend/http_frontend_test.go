package frontend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

func newTestHTTPFrontend() *HTTPFrontend {
	service := core.NewAnalysisService(nil, zap.NewNop(), false, 0, nil)
	advisory := core.NewAdvisoryService(nil, zap.NewNop())
	return NewHTTPFrontend(service, advisory, utils.NewTextProcessor(zap.NewNop()), zap.NewNop(),
		"127.0.0.1:0", []string{"*"}, 15*time.Second, 30*time.Second, 1<<20)
}

func TestHandleAnalyze(t *testing.T) {
	f := newTestHTTPFrontend()

	body := `{"content":"URGENT: verify your password at http://192.168.1.1/login","content_type":"email"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report core.AnalysisReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if report.Verdict == nil || report.Verdict.RiskLevel != core.RiskLevelCritical {
		t.Errorf("expected critical verdict, got %+v", report.Verdict)
	}
	if report.ProcessingID == "" {
		t.Error("expected a processing ID")
	}
}

func TestHandleAnalyzeRejectsUnknownContentType(t *testing.T) {
	f := newTestHTTPFrontend()

	body := `{"content":"hello","content_type":"carrier-pigeon"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handleAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAnalyzeRejectsMalformedBody(t *testing.T) {
	f := newTestHTTPFrontend()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	f.handleAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleFeatures(t *testing.T) {
	f := newTestHTTPFrontend()

	body := `{"content":"Check http://bit.ly/x2 now","content_type":"sms"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/features", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handleFeatures(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var features core.FeatureRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &features); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !features.HasShortener {
		t.Errorf("expected shortener flag in features, got %+v", features)
	}
}

func TestHandleAdviceRequiresQuestion(t *testing.T) {
	f := newTestHTTPFrontend()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/advice", strings.NewReader(`{"question":"  "}`))
	rec := httptest.NewRecorder()

	f.handleAdvice(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank question, got %d", rec.Code)
	}
}

func TestHandleAdviceFallback(t *testing.T) {
	f := newTestHTTPFrontend()

	body := `{"question":"Should I click this?","content":"win a prize at http://bit.ly/z","content_type":"sms"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advice", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handleAdvice(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var advice core.Advice
	if err := json.Unmarshal(rec.Body.Bytes(), &advice); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if advice.ModelUsed != "fallback" {
		t.Errorf("expected fallback advice without a configured client, got %s", advice.ModelUsed)
	}
	if advice.Text == "" {
		t.Error("expected advice text")
	}
}

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in      string
		want    core.ContentType
		wantErr bool
	}{
		{"email", core.ContentTypeEmail, false},
		{" URL ", core.ContentTypeURL, false},
		{"SMS", core.ContentTypeSMS, false},
		{"social", core.ContentTypeSocial, false},
		{"", "", true},
		{"webpage", "", true},
	}

	for _, tt := range tests {
		got, err := parseContentType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseContentType(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
