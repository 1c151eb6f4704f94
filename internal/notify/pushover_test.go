package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"trollfaceiv/mebot/internal/config"
)

func TestPushoverPush(t *testing.T) {
	var gotUser, gotToken, gotMessage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		gotUser = r.FormValue("user")
		gotToken = r.FormValue("token")
		gotMessage = r.FormValue("message")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewPushover(&config.PushConfig{
		User:  "user-key",
		Token: "app-token",
		URL:   server.URL,
	})

	p.Push("hello there")

	assert.Equal(t, "user-key", gotUser)
	assert.Equal(t, "app-token", gotToken)
	assert.Equal(t, "hello there", gotMessage)
}

func TestPushoverPushFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewPushover(&config.PushConfig{User: "u", Token: "t", URL: server.URL})

	// Must not panic or block; errors are logged only.
	p.Push("this will be rejected")
}

func TestPushoverPushUnreachableIsSwallowed(t *testing.T) {
	p := NewPushover(&config.PushConfig{User: "u", Token: "t", URL: "http://127.0.0.1:1"})
	p.Push("nobody is listening")
}

func TestFromConfig(t *testing.T) {
	assert.IsType(t, Discard{}, FromConfig(&config.PushConfig{}))
	assert.IsType(t, Discard{}, FromConfig(&config.PushConfig{User: "u"}))
	assert.IsType(t, &Pushover{}, FromConfig(&config.PushConfig{User: "u", Token: "t", URL: "http://x"}))
}
