// pkg/checker/http_test.go
package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/vouch/pkg/types"
)

func httpDef(url string) CheckerDef {
	return CheckerDef{
		Name:        "test_api_key",
		Description: "test checker",
		HTTP: HTTPDef{
			Method:       "GET",
			URL:          url,
			Auth:         AuthDef{Type: "bearer"},
			SuccessCodes: []int{200},
			FailureCodes: []int{401, 403},
		},
	}
}

func TestHTTPChecker_SuccessCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := NewHTTPChecker(httpDef(server.URL), server.Client())
	assert.NoError(t, err)

	outcome, err := c.Check(context.Background(), "sk-secret")
	assert.NoError(t, err)
	assert.Equal(t, types.StatusValid, outcome.Status)
}

func TestHTTPChecker_FailureCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, _ := NewHTTPChecker(httpDef(server.URL), server.Client())

	outcome, err := c.Check(context.Background(), "sk-secret")
	assert.NoError(t, err)
	assert.Equal(t, types.StatusInvalid, outcome.Status)
}

func TestHTTPChecker_UndeclaredCodeIsInconclusive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, _ := NewHTTPChecker(httpDef(server.URL), server.Client())

	outcome, err := c.Check(context.Background(), "sk-secret")
	assert.NoError(t, err)
	assert.Equal(t, types.StatusError, outcome.Status)
}

func TestHTTPChecker_PatternGatesProbe(t *testing.T) {
	probed := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = true
	}))
	defer server.Close()

	def := httpDef(server.URL)
	def.Pattern = `^sk_live_[0-9a-zA-Z]{24}$`
	c, err := NewHTTPChecker(def, server.Client())
	assert.NoError(t, err)

	outcome, err := c.Check(context.Background(), "does-not-match")
	assert.NoError(t, err)
	assert.Equal(t, types.StatusInvalid, outcome.Status)
	assert.False(t, probed, "shape mismatch must not hit the network")
}

func TestHTTPChecker_AuthTypes(t *testing.T) {
	var gotAuth, gotHeader, gotQuery string
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotHeader = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.Query().Get("key")
		gotUser, gotPass, _ = r.BasicAuth()
	}))
	defer server.Close()

	run := func(auth AuthDef) {
		def := httpDef(server.URL)
		def.HTTP.Auth = auth
		c, err := NewHTTPChecker(def, server.Client())
		assert.NoError(t, err)
		_, err = c.Check(context.Background(), "s3cret")
		assert.NoError(t, err)
	}

	run(AuthDef{Type: "token"})
	assert.Equal(t, "token s3cret", gotAuth)

	run(AuthDef{Type: "header", HeaderName: "X-Api-Key"})
	assert.Equal(t, "s3cret", gotHeader)

	run(AuthDef{Type: "query", QueryParam: "key"})
	assert.Equal(t, "s3cret", gotQuery)

	run(AuthDef{Type: "basic", Username: "api"})
	assert.Equal(t, "api", gotUser)
	assert.Equal(t, "s3cret", gotPass)
}

func TestHTTPChecker_UnsupportedAuthType(t *testing.T) {
	def := httpDef("http://unused.invalid")
	def.HTTP.Auth = AuthDef{Type: "hmac"}
	c, err := NewHTTPChecker(def, nil)
	assert.NoError(t, err)

	_, err = c.Check(context.Background(), "s3cret")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported auth type")
}

func TestHTTPChecker_BadPattern(t *testing.T) {
	def := httpDef("http://unused.invalid")
	def.Pattern = "([unclosed"
	_, err := NewHTTPChecker(def, nil)
	assert.Error(t, err)
}
