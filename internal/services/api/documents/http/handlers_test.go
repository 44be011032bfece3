package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	phttp "bluebird/internal/platform/net/http"
	"bluebird/internal/services/api/documents/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	upload domain.UploadInput
	body   string
}

func (f *fakeSvc) List(context.Context, domain.ListInput) (domain.ListResult, error) {
	return domain.ListResult{Items: []domain.Document{}, Page: 1, PageSize: 50}, nil
}
func (f *fakeSvc) Get(_ context.Context, id int64) (domain.Document, error) {
	return domain.Document{ID: id}, nil
}
func (f *fakeSvc) Recent(context.Context) ([]domain.Document, error) { return []domain.Document{}, nil }
func (f *fakeSvc) SubmitTranscript(context.Context, domain.AnalysisInput) (domain.AnalysisResult, error) {
	return domain.AnalysisResult{ID: 42, Status: "running"}, nil
}
func (f *fakeSvc) SubmitFile(_ context.Context, in domain.UploadInput, file io.Reader) (domain.AnalysisResult, error) {
	b, _ := io.ReadAll(file)
	f.upload, f.body = in, string(b)
	return domain.AnalysisResult{ID: 1, Status: "running"}, nil
}
func (f *fakeSvc) SendFeedback(context.Context, domain.FeedbackInput) (domain.FeedbackResult, error) {
	return domain.FeedbackResult{Success: true}, nil
}

func router(s *fakeSvc) stdhttp.Handler {
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), s)
	return m
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(fw, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload_PassesFileThrough(t *testing.T) {
	s := &fakeSvc{}
	body, ct := multipartBody(t, map[string]string{"name": "Call 12", "type": "file"}, "notes.pdf", "%PDF")
	req := httptest.NewRequest("POST", "/analyses/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router(s).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
	if s.upload.Name != "Call 12" || s.upload.Type != "FILE" || s.upload.Filename != "notes.pdf" || s.body != "%PDF" {
		t.Fatalf("upload=%+v body=%q", s.upload, s.body)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	body, ct := multipartBody(t, map[string]string{"name": "x"}, "", "")
	req := httptest.NewRequest("POST", "/analyses/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router(&fakeSvc{}).ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("code=%d", rec.Code)
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	req := httptest.NewRequest("POST", "/analyses/upload", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router(&fakeSvc{}).ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("code=%d", rec.Code)
	}
}

func TestSubmit_Created(t *testing.T) {
	req := httptest.NewRequest("POST", "/analyses", bytes.NewBufferString(`{"name":"Q1 Review","transcript":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router(&fakeSvc{}).ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestFeedback_RejectsUnknownType(t *testing.T) {
	req := httptest.NewRequest("POST", "/feedback", bytes.NewBufferString(`{"occurrence_id":1,"feedback_type":"meh"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router(&fakeSvc{}).ServeHTTP(rec, req)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("code=%d", rec.Code)
	}
}
