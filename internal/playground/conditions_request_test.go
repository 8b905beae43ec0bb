package playground

import (
	"net/http"
	"strings"
	"testing"

	"github.com/r9s-ai/lpdb-go/pkg/httpclient/httpclienttest"
)

func TestConditionsEndpoint(t *testing.T) {
	r := newTestRouter(t, httpclienttest.NewFakeDoer(t), nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "single",
			body: `{"terms":[{"field":"pagename","operator":"::","value":"Caliste"}]}`,
			want: "[[pagename::Caliste]]",
		},
		{
			name: "and or",
			body: `{"terms":[{"field":"a","operator":"::","value":1},{"connective":"or","field":"b","operator":"::>","value":2}]}`,
			want: "[[a::1]] OR [[b::>2]]",
		},
		{
			name: "values",
			body: `{"terms":[{"field":"tier","operator":"::","value":1},{"connective":"AND","field":"region","operator":"::","values":["EU","NA"],"inner":"OR"}]}`,
			want: "[[tier::1]] AND ([[region::EU]] OR [[region::NA]])",
		},
		{
			name: "nested group",
			body: `{"terms":[{"field":"z","operator":"::","value":3},{"connective":"AND","group":{"terms":[{"field":"x","operator":"::","value":1},{"connective":"OR","field":"y","operator":"::","value":2}]}}]}`,
			want: "[[z::3]] AND ([[x::1]] OR [[y::2]])",
		},
		{
			name: "raw",
			body: `{"terms":[{"raw":"[[a::1]] OR [[b::2]]"},{"connective":"AND","field":"c","operator":"::!","value":"x"}]}`,
			want: "([[a::1]] OR [[b::2]]) AND [[c::!x]]",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/v1/conditions", tc.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if got := decodeBody(t, w)["conditions"]; got != tc.want {
				t.Fatalf("conditions=%q want %q", got, tc.want)
			}
		})
	}
}

func TestConditionsEndpoint_Errors(t *testing.T) {
	r := newTestRouter(t, httpclienttest.NewFakeDoer(t), nil)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "invalid json", body: `{"terms":`, wantErr: "invalid json"},
		{name: "no terms", body: `{"terms":[]}`, wantErr: "at least one term"},
		{name: "bad operator", body: `{"terms":[{"field":"a","operator":"==","value":1}]}`, wantErr: "invalid operator"},
		{name: "bad connective", body: `{"terms":[{"connective":"XOR","field":"a","operator":"::","value":1}]}`, wantErr: "must be AND or OR"},
		{name: "empty values", body: `{"terms":[{"field":"a","operator":"::","values":[]}]}`, wantErr: "no values to group"},
		{name: "missing value", body: `{"terms":[{"field":"a","operator":"::"}]}`, wantErr: "one of value"},
		{name: "empty group", body: `{"terms":[{"group":{"terms":[]}}]}`, wantErr: "terms[0].group"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/v1/conditions", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			msg, _ := decodeBody(t, w)["error"].(string)
			if !strings.Contains(msg, tc.wantErr) {
				t.Fatalf("error=%q want substring %q", msg, tc.wantErr)
			}
		})
	}
}
