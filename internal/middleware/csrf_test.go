package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFIssuesCookieOnGet(t *testing.T) {
	inner, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/admin/challenges", nil)
	rr := httptest.NewRecorder()
	CSRF(inner).ServeHTTP(rr, req)

	if !*called {
		t.Fatal("GET should pass through")
	}
	c := csrfCookie(rr)
	if c == nil || len(c.Value) != csrfTokenLength*2 {
		t.Fatalf("cookie = %+v", c)
	}
	if c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie flags = %+v", c)
	}
}

func TestCSRFReusesExistingCookie(t *testing.T) {
	inner, _ := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rr := httptest.NewRecorder()
	CSRF(inner).ServeHTTP(rr, req)

	if csrfCookie(rr) != nil {
		t.Error("existing cookie should not be replaced")
	}
	if GetCSRFToken(req) != "existing" {
		t.Errorf("GetCSRFToken = %q", GetCSRFToken(req))
	}
	if GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)) != "" {
		t.Error("no cookie should give an empty token")
	}
}

func TestCSRFUnsafeMethods(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		header   string
		form     string
		wantCode int
	}{
		{"POST without token", http.MethodPost, "", "", http.StatusForbidden},
		{"PUT wrong token", http.MethodPut, "wrong", "", http.StatusForbidden},
		{"DELETE with header", http.MethodDelete, "tok", "", http.StatusOK},
		{"PATCH with header", http.MethodPatch, "tok", "", http.StatusOK},
		{"POST with form field", http.MethodPost, "", "tok", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			var req *http.Request
			if tt.form != "" {
				req = httptest.NewRequest(tt.method, "/admin/challenges", strings.NewReader(url.Values{CSRFFormField: {tt.form}}.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(tt.method, "/admin/challenges", nil)
			}
			req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			CSRF(inner).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if *called != (tt.wantCode == http.StatusOK) {
				t.Errorf("called = %v", *called)
			}
			if tt.wantCode == http.StatusForbidden && decodeBody(t, rr)["error"] != "CSRF token mismatch" {
				t.Error("expected JSON error body")
			}
		})
	}
}

func TestCSRFSafeMethodsPassThrough(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			inner, called := okHandler()
			rr := httptest.NewRecorder()
			CSRF(inner).ServeHTTP(rr, httptest.NewRequest(method, "/admin", nil))
			if !*called {
				t.Errorf("%s should not require a token", method)
			}
		})
	}
}
