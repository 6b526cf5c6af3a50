package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adopta-api/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RelativePathAndJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	c, err := httpclient.New(srv.URL+"/", httpclient.WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.BaseURL())

	var out map[string]string
	err = c.Do(context.Background(), httpclient.Request{
		Method: http.MethodPost,
		Path:   "v1/echo",
		Header: map[string]string{"X-Api-Key": "k"},
		Body:   map[string]string{"msg": "hola"},
		Into:   &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "hola", out["echo"])
}

func TestDo_Non2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := httpclient.New(srv.URL)
	require.NoError(t, err)

	err = c.Do(context.Background(), httpclient.Request{Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpclient.StatusOf(err))

	var he *httpclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "nope", he.Body)
}

func TestDo_RelativePathWithoutBase(t *testing.T) {
	c, err := httpclient.New("")
	require.NoError(t, err)

	err = c.Do(context.Background(), httpclient.Request{Path: "/x"})
	require.Error(t, err)
	assert.Zero(t, httpclient.StatusOf(err))
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial refused")
}

func TestDo_TransportError(t *testing.T) {
	c, err := httpclient.New("http://upstream.local", httpclient.WithTransport(failingTransport{}))
	require.NoError(t, err)

	err = c.Do(context.Background(), httpclient.Request{Path: "/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial refused")
	assert.Zero(t, httpclient.StatusOf(err))
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"not a url", "ftp://host/x", "/relative"} {
		_, err := httpclient.New(raw)
		assert.Error(t, err, raw)
	}

	var nilClient *httpclient.Client
	assert.ErrorIs(t, nilClient.Do(context.Background(), httpclient.Request{}), httpclient.ErrNilClient)
}
