package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/resume"
	"github.com/resumesmartx/resumesmartx/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	lastReq   service.Request
	lastPDF   []byte
	lastField string
	lastMax   int
	resp      service.Response
	resumeErr error
}

func (f *fakeService) Search(_ context.Context, req service.Request) service.Response {
	f.lastReq = req
	return f.resp
}

func (f *fakeService) SearchResume(_ context.Context, pdf []byte, field string, max int) (service.Response, error) {
	f.lastPDF = pdf
	f.lastField = field
	f.lastMax = max
	return f.resp, f.resumeErr
}

func newTestRouter(svc JobService) *gin.Engine {
	return NewRouter(svc, Options{
		Providers: []string{"tavily", "serper"},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func placeholderResponse() service.Response {
	return service.Response{SearchResult: model.SearchResult{
		Provider: "fallback",
		Fallback: true,
		Listings: []model.JobListing{{Title: "Sample Data Scientist", Company: "Sample Company", Location: "India", ApplyLink: "https://www.example.com/apply"}},
	}}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	newTestRouter(&fakeService{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Status    string   `json:"status"`
		Providers []string `json:"providers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || len(body.Providers) != 2 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestSearchJobs_Success(t *testing.T) {
	svc := &fakeService{resp: service.Response{
		SearchResult: model.SearchResult{
			Query:    "Go, SQL",
			Provider: "tavily",
			Listings: []model.JobListing{{Title: "Go Developer Job", Company: "Acme", Location: "India", ApplyLink: "https://acme.example/1"}},
		},
		Skills: []string{"Go", "SQL"},
	}}

	w := httptest.NewRecorder()
	body := `{"skills":["Go","SQL"],"job_field":"Backend","max_results":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.lastReq.JobField != "Backend" || svc.lastReq.MaxResults != 3 || len(svc.lastReq.Skills) != 2 {
		t.Errorf("request not forwarded: %+v", svc.lastReq)
	}

	var got struct {
		Query    string             `json:"query"`
		Provider string             `json:"provider"`
		Fallback bool               `json:"fallback"`
		Listings []model.JobListing `json:"listings"`
		Skills   []string           `json:"skills"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Fallback || got.Provider != "tavily" || len(got.Listings) != 1 || got.Listings[0].ApplyLink != "https://acme.example/1" {
		t.Errorf("unexpected response: %+v", got)
	}
	if len(got.Skills) != 2 {
		t.Errorf("skills = %v", got.Skills)
	}
}

func TestSearchJobs_FallbackIsStill200(t *testing.T) {
	svc := &fakeService{resp: placeholderResponse()}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search", strings.NewReader(`{"query":""}`))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"fallback":true`) {
		t.Errorf("body missing fallback flag: %s", w.Body.String())
	}
}

func TestSearchJobs_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"skills":`},
		{name: "negative max", body: `{"query":"go","max_results":-1}`},
		{name: "wrong type", body: `{"skills":"go"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			newTestRouter(&fakeService{}).ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func multipartRequest(t *testing.T, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		fw, err := mw.CreateFormFile("resume", "resume.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/search/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSearchResume_Success(t *testing.T) {
	svc := &fakeService{resp: placeholderResponse()}
	pdf := []byte("%PDF-1.4 fake")

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, multipartRequest(t, pdf, map[string]string{
		"job_field":   "Data Science",
		"max_results": "5",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(svc.lastPDF, pdf) {
		t.Errorf("pdf bytes not forwarded")
	}
	if svc.lastField != "Data Science" || svc.lastMax != 5 {
		t.Errorf("field = %q, max = %d", svc.lastField, svc.lastMax)
	}
}

func TestSearchResume_MissingFile(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(&fakeService{}).ServeHTTP(w, multipartRequest(t, nil, map[string]string{"job_field": "Go"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchResume_InvalidMaxResults(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(&fakeService{}).ServeHTTP(w, multipartRequest(t, []byte("%PDF-1.4"), map[string]string{"max_results": "ten"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchResume_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("read resume: %w", resume.ErrNotPDF), want: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("read resume: %w", resume.ErrTooLarge), want: http.StatusRequestEntityTooLarge},
		{err: errors.New("parse pdf: bad xref"), want: http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			svc := &fakeService{resumeErr: tc.err}
			newTestRouter(svc).ServeHTTP(w, multipartRequest(t, []byte("hello"), nil))

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := NewRouter(&fakeService{}, Options{
		AllowedOrigins: []string{"https://app.example.com"},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
