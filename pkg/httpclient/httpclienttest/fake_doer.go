package httpclienttest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/r9s-ai/lpdb-go/pkg/httpclient"
)

// FakeDoer implements httpclient.HTTPDoer with a queue of canned replies.
type FakeDoer struct {
	t testing.TB

	mu        sync.Mutex
	responses []reply
	requests  []*http.Request
}

type reply struct {
	resp *http.Response
	err  error
}

// NewFakeDoer returns a FakeDoer that answers each Do call with the next response.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.responses = append(f.responses, reply{resp: r})
	}
	return f
}

// QueueError makes a later Do call fail with err, after the already queued replies.
func (f *FakeDoer) QueueError(err error) *FakeDoer {
	f.mu.Lock()
	f.responses = append(f.responses, reply{err: err})
	f.mu.Unlock()
	return f
}

// Do records the request and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		f.t.Fatalf("fake http client has no responses left for request %s %s", req.Method, req.URL.String())
		return nil, io.ErrUnexpectedEOF
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.resp, r.err
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// NewStringResponse builds a minimal http.Response with the given status and body.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewJSONResponse is NewStringResponse with a JSON content type.
func NewJSONResponse(status int, body string) *http.Response {
	resp := NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

var _ httpclient.HTTPDoer = (*FakeDoer)(nil)
