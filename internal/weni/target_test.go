package weni

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentprobe/agentprobe/internal/credentials"
	"github.com/agentprobe/agentprobe/internal/errors"
	"github.com/agentprobe/agentprobe/internal/urn"
)

const broadcastFrame = `{"type":"preview","message":{"type":"preview","content":{"type":"broadcast","message":"Test response from Weni agent"}}}`

// previewServer fakes the platform: a preview POST endpoint plus the preview
// WebSocket on the same host.
type previewServer struct {
	*httptest.Server
	postStatus  int
	socket      func(*websocket.Conn)
	posts       atomic.Int32
	socketOpens atomic.Int32
	lastToken   atomic.Value
}

func newPreviewServer(t *testing.T) *previewServer {
	t.Helper()
	ps := &previewServer{postStatus: http.StatusOK}
	upgrader := websocket.Upgrader{}

	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/ws/preview/"):
			ps.socketOpens.Add(1)
			ps.lastToken.Store(r.URL.Query().Get("Token"))
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			if ps.socket != nil {
				ps.socket(conn)
			} else {
				// Hold the connection open until the client hangs up.
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						return
					}
				}
			}
		case strings.HasPrefix(r.URL.Path, "/api/"):
			ps.posts.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(ps.postStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ps.Server.Close)
	return ps
}

func (ps *previewServer) target(t *testing.T, timeout time.Duration) *Target {
	t.Helper()
	target, err := New(Options{
		ProjectUUID: "test-project-uuid",
		BearerToken: "test-bearer-token",
		Language:    "pt-BR",
		Timeout:     timeout,
		BaseURL:     ps.URL,
		HTTPClient:  ps.Client(),
	})
	require.NoError(t, err)
	return target
}

func sendFrames(frames ...string) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Keep the connection up; the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

func TestNewWithEnvironmentVariables(t *testing.T) {
	t.Setenv(credentials.EnvProjectUUID, "test-project-uuid")
	t.Setenv(credentials.EnvBearerToken, "test-bearer-token")

	target, err := New(Options{Language: "pt-BR", Timeout: 10 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, "pt-BR", target.Language())
	assert.Equal(t, 10*time.Second, target.Timeout())
	assert.True(t, urn.Valid(target.ContactURN()))
	assert.Contains(t, target.APIEndpoint(), "test-project-uuid")
}

func TestNewDefaults(t *testing.T) {
	target, err := New(Options{
		ProjectUUID: "test-project-uuid",
		BearerToken: "test-bearer-token",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguage, target.Language())
	assert.Equal(t, DefaultTimeout, target.Timeout())
	assert.Equal(t, DefaultBaseURL+"/api/test-project-uuid/preview/", target.APIEndpoint())
}

func TestNewMissingCredentials(t *testing.T) {
	t.Setenv(credentials.EnvProjectUUID, "")
	t.Setenv(credentials.EnvBearerToken, "")

	cache := credentials.Cache(emptyCache{})
	_, err := New(Options{Cache: cache})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.Contains(t, err.Error(), "weni_project_uuid")
}

type emptyCache struct{}

func (emptyCache) Token() string       { return "" }
func (emptyCache) ProjectUUID() string { return "" }

func TestInvokeReturnsMatchedAnswer(t *testing.T) {
	ps := newPreviewServer(t)
	ps.socket = sendFrames(
		`{"type":"preview","message":{"type":"typing"}}`,
		`{"type":"preview","message":{"type":"preview","content":{"type":"trace","message":"thinking"}}}`,
		broadcastFrame,
	)

	target := ps.target(t, 5*time.Second)
	result, err := target.Invoke(context.Background(), "Test prompt")
	require.NoError(t, err)

	assert.Equal(t, "Test response from Weni agent", result.Response)
	assert.Equal(t, target.ContactURN(), result.Data["contact_urn"])
	assert.Equal(t, target.ContactURN(), result.Data["session_id"])
	assert.Equal(t, "pt-BR", result.Data["language"])
	assert.Equal(t, int32(1), ps.posts.Load())
	assert.Equal(t, "test-bearer-token", ps.lastToken.Load())
}

func TestInvokeTimesOutWithoutAnswer(t *testing.T) {
	ps := newPreviewServer(t)

	target := ps.target(t, 150*time.Millisecond)
	started := time.Now()
	_, err := target.Invoke(context.Background(), "Test prompt")
	elapsed := time.Since(started)

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.Contains(t, err.Error(), "No response received")
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestInvokeSurfacesChannelError(t *testing.T) {
	ps := newPreviewServer(t)
	ps.socket = func(conn *websocket.Conn) {
		conn.Close() // drop the connection before any answer
	}

	target := ps.target(t, 5*time.Second)
	started := time.Now()
	_, err := target.Invoke(context.Background(), "Test prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrChannel)
	assert.Contains(t, err.Error(), "WebSocket error occurred")
	// The channel failure must not wait out the deadline.
	assert.Less(t, time.Since(started), 4*time.Second)
}

func TestInvokeFailsFastOnDispatchError(t *testing.T) {
	ps := newPreviewServer(t)
	ps.postStatus = http.StatusInternalServerError

	target := ps.target(t, 10*time.Second)
	started := time.Now()
	_, err := target.Invoke(context.Background(), "Test prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpstream)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestInvokeDispatchAuthErrors(t *testing.T) {
	ps := newPreviewServer(t)
	ps.postStatus = http.StatusUnauthorized

	target := ps.target(t, 5*time.Second)
	_, err := target.Invoke(context.Background(), "Test prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuthentication)
}

func TestSequentialInvokesUseFreshConnections(t *testing.T) {
	ps := newPreviewServer(t)
	ps.socket = sendFrames(broadcastFrame)

	target := ps.target(t, 5*time.Second)

	first, err := target.Invoke(context.Background(), "First prompt")
	require.NoError(t, err)
	second, err := target.Invoke(context.Background(), "Second prompt")
	require.NoError(t, err)

	// Same adapter identity across calls, but one connection per call.
	assert.Equal(t, first.Data["contact_urn"], second.Data["contact_urn"])
	assert.Equal(t, int32(2), ps.socketOpens.Load())
	assert.Equal(t, int32(2), ps.posts.Load())
}

func TestInvokeRespectsContextCancellation(t *testing.T) {
	ps := newPreviewServer(t)

	target := ps.target(t, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	_, err := target.Invoke(ctx, "Test prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(started), 3*time.Second)
}

func TestSendPromptAlone(t *testing.T) {
	ps := newPreviewServer(t)

	target := ps.target(t, 5*time.Second)
	require.NoError(t, target.SendPrompt(context.Background(), "Test prompt"))
	assert.Equal(t, int32(1), ps.posts.Load())
	assert.Equal(t, int32(0), ps.socketOpens.Load())
}

func TestPreviewSocketURL(t *testing.T) {
	u, err := previewSocketURL("https://nexus.weni.ai", "test-project-uuid", "test-bearer-token")
	require.NoError(t, err)
	assert.Equal(t, "wss://nexus.weni.ai/ws/preview/test-project-uuid/?Token=test-bearer-token", u)

	u, err = previewSocketURL("http://127.0.0.1:8080", "p", "t")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "ws://127.0.0.1:8080/ws/preview/p/"))

	_, err = previewSocketURL("ftp://example.com", "p", "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}
