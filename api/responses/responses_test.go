package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/articles-api/pkg/envelope"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
)

type article struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
}

type articlesData struct {
	Articles article `json:"articles"`
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, http.StatusCreated, envelope.Success(3, "created", articlesData{Articles: article{ID: 7, Subject: "s"}}))

	if got := w.Code; got != http.StatusCreated {
		t.Fatalf("expected status 201 but got %d", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if body["resultCode"] != "S-3" || body["msg"] != "created" {
		t.Fatalf("unexpected envelope %v", body)
	}
	data := body["data"].(map[string]any)["articles"].(map[string]any)
	if data["id"].(float64) != 7 {
		t.Fatalf("unexpected payload %v", data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	cases := []struct {
		err        error
		status     int
		resultCode string
		msg        string
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "subject is required"), http.StatusBadRequest, "F-1", "subject is required"},
		{pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"), http.StatusUnauthorized, "F-2", "missing credentials"},
		{pkgerrors.New(pkgerrors.CodeForbidden, ""), http.StatusForbidden, "F-3", "access denied"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "article not found"), http.StatusNotFound, "F-4", "article not found"},
		{pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts"), http.StatusTooManyRequests, "F-7", "too many attempts"},
		{pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "db: insert article"), http.StatusServiceUnavailable, "F-8", "dependency unavailable"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: expected status %d got %d", tc.err, tc.status, w.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["resultCode"] != tc.resultCode || body["msg"] != tc.msg {
			t.Fatalf("%v: unexpected envelope %v", tc.err, body)
		}
		if _, ok := body["data"]; ok {
			t.Fatalf("failure envelope must omit data: %v", body)
		}
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("pq: password authentication failed"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"resultCode":"F-9"`) {
		t.Fatalf("expected F-9 envelope, got %s", body)
	}
	if strings.Contains(body, "password") {
		t.Fatalf("internal details leaked: %s", body)
	}
}

func TestWriteErrorStatusOverridesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorStatus(context.Background(), nil, w, http.StatusMethodNotAllowed, pkgerrors.New(pkgerrors.CodeValidation, "method not allowed"))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"resultCode":"F-1"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestWriteErrorLogsChain(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	w := httptest.NewRecorder()
	WriteError(context.Background(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("boom"), "explode"))

	out := buf.String()
	if !strings.Contains(out, "request.error") || !strings.Contains(out, "boom") {
		t.Fatalf("expected logged error chain, got %s", out)
	}
	if !strings.Contains(out, `"result_code":"F-9"`) {
		t.Fatalf("expected result code in log, got %s", out)
	}
}

func TestFailureEnvelopeNilError(t *testing.T) {
	env, status := FailureEnvelope(nil)
	if status != http.StatusInternalServerError || env.ResultCode != "F-9" {
		t.Fatalf("unexpected mapping %v %d", env, status)
	}
}
