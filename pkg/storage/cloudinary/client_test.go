package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lu-foet/notes-api/pkg/config"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		cloudName:  "demo",
		apiKey:     "key123",
		apiSecret:  "secret456",
		folder:     "lu-foet-notes",
		now:        func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestSignSortsParams(t *testing.T) {
	c := testClient("")
	got := c.sign(map[string]string{
		"timestamp": "1700000000",
		"public_id": "lu-foet-notes/cse-3-dbms",
		"folder":    "lu-foet-notes",
	})

	sum := sha1.Sum([]byte("folder=lu-foet-notes&public_id=lu-foet-notes/cse-3-dbms&timestamp=1700000000" + "secret456"))
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}
}

func TestUploadSendsSignedMultipart(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotForm = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotForm[key] = values[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/raw/upload/v1/lu-foet-notes/cse-3-dbms","public_id":"lu-foet-notes/cse-3-dbms","bytes":42}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.Upload(context.Background(), strings.NewReader("%PDF-1.4 fake"), "cse-3-dbms")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if gotPath != "/demo/raw/upload" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotForm["api_key"] != "key123" {
		t.Fatalf("api key missing from form: %v", gotForm)
	}
	if gotForm["folder"] != "lu-foet-notes" || gotForm["public_id"] != "cse-3-dbms" {
		t.Fatalf("signed params missing: %v", gotForm)
	}
	wantSig := c.sign(map[string]string{
		"folder":    "lu-foet-notes",
		"public_id": "cse-3-dbms",
		"timestamp": gotForm["timestamp"],
	})
	if gotForm["signature"] != wantSig {
		t.Fatalf("signature mismatch: got %s want %s", gotForm["signature"], wantSig)
	}
	if result.PublicID != "lu-foet-notes/cse-3-dbms" {
		t.Fatalf("unexpected public id %s", result.PublicID)
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid signature"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), strings.NewReader("x"), "doc")
	if err == nil || !strings.Contains(err.Error(), "Invalid signature") {
		t.Fatalf("expected api error message, got %v", err)
	}
}

func TestDestroyTreatsNotFoundAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/raw/destroy" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"not found"}`))
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Destroy(context.Background(), "lu-foet-notes/gone"); err != nil {
		t.Fatalf("destroy should be idempotent: %v", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), config.CloudinaryConfig{CloudName: "demo"}, nil)
	if err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}
