package atlassian

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient() *Client {
	return NewClient("https://issues.example.org", &http.Client{}, nil)
}

func TestClientNewRequest(t *testing.T) {
	t.Parallel()

	client := newTestClient()

	t.Run("json body", func(t *testing.T) {
		req, err := client.NewRequest(
			context.Background(),
			http.MethodPost,
			"/rest/api/3/search",
			map[string]string{"jql": "project=DOG"},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := req.URL.String(); got != "https://issues.example.org/rest/api/3/search" {
			t.Fatalf("unexpected url: %s", got)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content-type: %s", got)
		}
		if got := req.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("unexpected accept: %s", got)
		}
		var body map[string]string
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["jql"] != "project=DOG" {
			t.Fatalf("unexpected body: %#v", body)
		}
	})

	t.Run("no body", func(t *testing.T) {
		req, err := client.NewRequest(context.Background(), http.MethodGet, "/rest/api/3/serverInfo", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := req.Header.Get("Content-Type"); got != "" {
			t.Fatalf("expected no content-type, got %s", got)
		}
		if req.Body != nil {
			t.Fatalf("expected no body")
		}
	})
}

func TestClientDoSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient()
	client.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/rest/api/3/serverInfo" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"version":"9.0.0"}`)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}))

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/rest/api/3/serverInfo", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	var out struct {
		Version string `json:"version"`
	}
	if err := client.Do(req, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.Version != "9.0.0" {
		t.Fatalf("unexpected version: %s", out.Version)
	}
}

func TestClientDoJSONError(t *testing.T) {
	t.Parallel()

	client := newTestClient()
	client.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader(`{"errorMessages":["bad jql"],"message":"boom"}`)),
			Header:     http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
		}, nil
	}))

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	err = client.Do(req, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if msgs := apiErr.Messages(); len(msgs) != 1 || msgs[0] != "bad jql" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestClientDoNonJSONError(t *testing.T) {
	t.Parallel()

	client := newTestClient()
	client.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("<html>gateway</html>")),
			Header:     http.Header{"Content-Type": []string{"text/html"}},
		}, nil
	}))

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	err = client.Do(req, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if msgs := apiErr.Messages(); msgs != nil {
		t.Fatalf("expected no messages for non-JSON body, got %v", msgs)
	}
}

func TestClientDoDecodeFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient()
	client.SetTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"issues"`)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}))

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	var out struct{}
	if err := client.Do(req, &out); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  Error
		want string
	}{
		{"error messages win", Error{StatusCode: 400, Message: "boom", ErrorMessages: []string{"nope"}}, "atlassian: 400 nope"},
		{"message fallback", Error{StatusCode: 500, Message: "boom"}, "atlassian: 500 boom"},
		{"status only", Error{StatusCode: 404}, "atlassian: 404"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}
