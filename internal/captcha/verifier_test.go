package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostFormValue("secret") != "shh" {
			t.Errorf("expected secret to be forwarded, got %q", r.PostFormValue("secret"))
		}
		if r.PostFormValue("response") != "challenge-token" {
			t.Errorf("expected challenge token, got %q", r.PostFormValue("response"))
		}
		if r.PostFormValue("remoteip") != "203.0.113.9" {
			t.Errorf("expected remote ip, got %q", r.PostFormValue("remoteip"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, "shh")

	ok, err := v.Verify(context.Background(), "challenge-token", "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected positive verdict")
	}
}

func TestVerify_NegativeVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, "shh")

	ok, err := v.Verify(context.Background(), "bad-token", "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected negative verdict")
	}
}

func TestVerify_EmptyTokenIsNegativeNotError(t *testing.T) {
	v := NewHTTPVerifier("http://unused.invalid", "shh")

	ok, err := v.Verify(context.Background(), "", "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected negative verdict for empty token")
	}
}

func TestVerify_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, "shh")

	if _, err := v.Verify(context.Background(), "challenge-token", "203.0.113.9"); err == nil {
		t.Fatal("expected error for provider failure")
	}
}
