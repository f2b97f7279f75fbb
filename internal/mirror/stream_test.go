package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	stream "github.com/GetStream/stream-chat-go/v7"

	"github.com/sakif/gossip/internal/apperror"
)

// fakeStream spins up an httptest server speaking just enough of the Stream
// Chat wire protocol for the SDK client under test. Every request is recorded
// so tests can assert on the paths, query payloads, and bodies that actually
// went over the wire.
type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
}

type fakeStream struct {
	srv       *httptest.Server
	requests  []recordedRequest
	userFound bool
}

func newFakeStream(t *testing.T, userFound bool) *fakeStream {
	t.Helper()
	f := &fakeStream{userFound: userFound}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.requests = append(f.requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
		})

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/users" && r.Method == http.MethodGet:
			if f.userFound {
				io.WriteString(w, `{"users":[{"id":"ada_x_com"}]}`)
			} else {
				io.WriteString(w, `{"users":[]}`)
			}
		case r.URL.Path == "/users" && r.Method == http.MethodPost:
			io.WriteString(w, `{"users":{"ada_x_com":{"id":"ada_x_com"}}}`)
		case strings.HasSuffix(r.URL.Path, "/query"):
			io.WriteString(w, `{"channel":{"id":"chat-ada_x_com","type":"messaging","cid":"messaging:chat-ada_x_com"}}`)
		case strings.HasSuffix(r.URL.Path, "/message"):
			io.WriteString(w, `{"message":{"id":"m-1","text":"hello"}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

// newTestMirror points a real SDK client at the fake server. Any key/secret
// pair works — the fake never verifies the request signature.
func newTestMirror(t *testing.T, f *fakeStream) *StreamMirror {
	t.Helper()
	client, err := stream.NewClient("test-key", "test-secret")
	if err != nil {
		t.Fatalf("creating stream client: %v", err)
	}
	client.BaseURL = f.srv.URL
	return &StreamMirror{client: client}
}

func TestUserExists_Found(t *testing.T) {
	f := newFakeStream(t, true)
	m := newTestMirror(t, f)

	exists, err := m.UserExists(context.Background(), "ada_x_com")
	if err != nil {
		t.Fatalf("UserExists() error = %v", err)
	}
	if !exists {
		t.Error("UserExists() = false, want true")
	}

	if len(f.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(f.requests))
	}
	req := f.requests[0]
	if req.path != "/users" || req.method != http.MethodGet {
		t.Errorf("registry query hit %s %s, want GET /users", req.method, req.path)
	}
	// The exact-ID filter travels in the payload query param.
	if !strings.Contains(req.query, "ada_x_com") {
		t.Errorf("query payload %q does not filter on the user ID", req.query)
	}
}

func TestUserExists_NotFound(t *testing.T) {
	f := newFakeStream(t, false)
	m := newTestMirror(t, f)

	exists, err := m.UserExists(context.Background(), "stranger")
	if err != nil {
		t.Fatalf("UserExists() error = %v", err)
	}
	if exists {
		t.Error("UserExists() = true, want false")
	}
}

func TestUpsertUser(t *testing.T) {
	f := newFakeStream(t, false)
	m := newTestMirror(t, f)

	if err := m.UpsertUser(context.Background(), "ada_x_com", "Ada", "ada@x.com"); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	if len(f.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(f.requests))
	}
	req := f.requests[0]
	if req.path != "/users" || req.method != http.MethodPost {
		t.Errorf("upsert hit %s %s, want POST /users", req.method, req.path)
	}
	for _, want := range []string{"ada_x_com", "Ada", "ada@x.com"} {
		if !strings.Contains(req.body, want) {
			t.Errorf("upsert body missing %q: %s", want, req.body)
		}
	}
}

// SendReply must ensure the deterministic channel chat-<userId> and post the
// text into it as the fixed system sender.
func TestSendReply(t *testing.T) {
	f := newFakeStream(t, true)
	m := newTestMirror(t, f)

	if err := m.SendReply(context.Background(), "ada_x_com", "hello"); err != nil {
		t.Fatalf("SendReply() error = %v", err)
	}

	if len(f.requests) != 2 {
		t.Fatalf("requests = %d, want 2 (channel ensure + message send)", len(f.requests))
	}

	ensure := f.requests[0]
	if ensure.path != "/channels/messaging/chat-ada_x_com/query" {
		t.Errorf("channel ensure path = %q, want /channels/messaging/chat-ada_x_com/query", ensure.path)
	}
	// The channel is created by, and display-named after, the system sender.
	if !strings.Contains(ensure.body, SenderID) {
		t.Errorf("channel ensure body missing sender %q: %s", SenderID, ensure.body)
	}

	send := f.requests[1]
	if send.path != "/channels/messaging/chat-ada_x_com/message" {
		t.Errorf("message path = %q, want /channels/messaging/chat-ada_x_com/message", send.path)
	}
	if !strings.Contains(send.body, "hello") {
		t.Errorf("message body missing the reply text: %s", send.body)
	}
	if !strings.Contains(send.body, SenderID) {
		t.Errorf("message not attributed to %q: %s", SenderID, send.body)
	}
}

func TestUserExists_ProviderDown(t *testing.T) {
	// Point the client at a server that is already closed.
	f := newFakeStream(t, true)
	m := newTestMirror(t, f)
	f.srv.Close()

	_, err := m.UserExists(context.Background(), "ada_x_com")
	if err == nil {
		t.Fatal("UserExists() expected error for unreachable provider")
	}
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}
