package lpdb

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/lpdb-go/pkg/cache/memory"
	"github.com/r9s-ai/lpdb-go/pkg/conditions"
	"github.com/r9s-ai/lpdb-go/pkg/httpclient/httpclienttest"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

func newTestClient(t *testing.T, doer *httpclienttest.FakeDoer, mutate ...func(*Options)) *Client {
	t.Helper()
	opts := Options{APIKey: "test-api-key", HTTPClient: doer, UserAgent: "lpdb-test"}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := New(Options{APIKey: "  "})
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("default base url", func(t *testing.T) {
		c, err := New(Options{APIKey: "k"})
		require.NoError(t, err)
		require.Equal(t, DefaultBaseURL, c.BaseURL())
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c, err := New(Options{APIKey: "k", BaseURL: "https://custom.api.com/v3/"})
		require.NoError(t, err)
		require.Equal(t, "https://custom.api.com/v3", c.BaseURL())
	})

	t.Run("invalid scheme", func(t *testing.T) {
		_, err := New(Options{APIKey: "k", BaseURL: "ftp://example.com"})
		require.Error(t, err)
	})
}

func TestExecute_RequestShape(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[{"id":"1","name":"Player"}]}`))
	c := newTestClient(t, doer)

	resp, err := c.Endpoint(schema.Player).Wiki("dota2").Limit(10).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Result, 1)
	require.Equal(t, "Player", resp.Result[0]["name"])

	reqs := doer.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, http.MethodGet, reqs[0].Method)
	require.Equal(t, "https://api.liquipedia.net/api/v3/player?limit=10&wiki=dota2", reqs[0].URL.String())
	require.Equal(t, "Apikey test-api-key", reqs[0].Header.Get("Authorization"))
	require.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
	require.Equal(t, "lpdb-test", reqs[0].Header.Get("User-Agent"))
}

func TestExecute_APIError(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusForbidden, `{"error":["bad key"]}`))
		c := newTestClient(t, doer)

		_, err := c.Endpoint(schema.Player).Wiki("dota2").Execute(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.Status)
		require.Equal(t, "API request failed with status 403", apiErr.Error())
		require.Equal(t, map[string]any{"error": []any{"bad key"}}, apiErr.Data)
		require.Equal(t, []string{"bad key"}, apiErr.Errors())
	})

	t.Run("non json body", func(t *testing.T) {
		doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewStringResponse(http.StatusBadGateway, `<html>bad gateway</html>`))
		c := newTestClient(t, doer)

		_, err := c.Endpoint(schema.Team).Execute(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadGateway, apiErr.Status)
		require.Equal(t, map[string]any{}, apiErr.Data)
		require.Nil(t, apiErr.Errors())
	})

	t.Run("error string", func(t *testing.T) {
		e := newAPIError(http.StatusTooManyRequests, map[string]any{"error": "slow down"})
		require.Equal(t, []string{"slow down"}, e.Errors())
	})
}

func TestExecute_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	doer := httpclienttest.NewFakeDoer(t).QueueError(boom)
	c := newTestClient(t, doer)

	_, err := c.Endpoint(schema.Player).Execute(context.Background())
	require.ErrorIs(t, err, boom)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr), "transport failures must not be APIError")
	require.Contains(t, err.Error(), "lpdb: GET https://api.liquipedia.net/api/v3/player")
}

func TestExecute_DecodeError(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewStringResponse(http.StatusOK, `not json`))
	c := newTestClient(t, doer)

	_, err := c.Endpoint(schema.Player).Execute(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
	require.Contains(t, err.Error(), "decode /player response")
}

func TestExecute_Cache(t *testing.T) {
	mem, err := memory.New(16)
	require.NoError(t, err)

	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.NewJSONResponse(http.StatusForbidden, `{"error":["bad key"]}`),
		httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[{"name":"a"}]}`),
	)
	c := newTestClient(t, doer, func(o *Options) {
		o.Cache = mem
		o.CacheTTL = time.Minute
	})
	ctx := context.Background()

	_, err = c.Endpoint(schema.Player).Wiki("dota2").Execute(ctx)
	require.Error(t, err)

	for i := 0; i < 2; i++ {
		resp, err := c.Endpoint(schema.Player).Wiki("dota2").Execute(ctx)
		require.NoError(t, err)
		require.Equal(t, "a", resp.Result[0]["name"])
	}
	require.Len(t, doer.Requests(), 2, "errors are not cached, successes are")
	require.Equal(t, 1, mem.Len())
}

func TestExecute_DebugOut(t *testing.T) {
	var buf bytes.Buffer
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[]}`))
	c := newTestClient(t, doer, func(o *Options) { o.DebugOut = &buf })

	_, err := c.Endpoint(schema.Player).Execute(context.Background())
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "debug upstream_request method=GET url=https://api.liquipedia.net/api/v3/player")
	require.Contains(t, out, `debug upstream_response method=GET url=https://api.liquipedia.net/api/v3/player status=200 body={"result":[]}`)
	require.NotContains(t, out, "test-api-key")
}

func TestFetch_HTTPTest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Apikey k" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":["bad key"]}`))
			return
		}
		if r.URL.Path != "/api/v3/tournament" || r.URL.Query().Get("order") != "startdate DESC" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[{"name":"TI","prizepool":40000000}],"warning":["limit capped"]}`))
	}))
	defer srv.Close()

	c, err := New(Options{APIKey: "k", BaseURL: srv.URL + "/api/v3", HTTPClient: srv.Client()})
	require.NoError(t, err)

	type tournament struct {
		Name      string  `json:"name"`
		PrizePool float64 `json:"prizepool"`
	}
	resp, err := Fetch[tournament](context.Background(), c.Endpoint(schema.Tournament).Wiki("dota2").Order("startdate DESC"))
	require.NoError(t, err)
	require.Equal(t, []tournament{{Name: "TI", PrizePool: 40000000}}, resp.Result)
	require.Equal(t, []string{"limit capped"}, resp.Warning)

	bad, err := New(Options{APIKey: "nope", BaseURL: srv.URL + "/api/v3", HTTPClient: srv.Client()})
	require.NoError(t, err)
	_, err = bad.Endpoint(schema.Tournament).Execute(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestExecute_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	c, err := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Endpoint(schema.Player).Execute(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExecuteRaw(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.NewJSONResponse(http.StatusOK, `{"result":[]}`))
	c := newTestClient(t, doer)
	body, err := c.Endpoint(schema.Player).Where(conditions.Where("id", conditions.Equals, "Miracle-")).ExecuteRaw(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"result":[]}`, string(body))
	require.True(t, strings.HasSuffix(doer.Requests()[0].URL.RawQuery, "conditions=%5B%5Bid%3A%3AMiracle-%5D%5D"))
}
