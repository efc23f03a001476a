package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"social-lab/client"
	"social-lab/internal"
	"social-lab/protocol"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseWsSuite struct {
	suite.Suite
	Config Config

	baseURL string
	log     *slog.Logger
	cancel  context.CancelFunc
	server  *httptest.Server
	app     *internal.App
	db      *badger.DB
}

// SetupSuite loads the environment configuration and starts a local server when
// no SERVER_URL is given.
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.log = logs.GetLoggerFromLevel(slog.LevelWarn)

	if s.Config.ServerURL != "" {
		s.baseURL = strings.TrimRight(s.Config.ServerURL, "/")
		return
	}

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.app, err = internal.NewApp(ctx, internal.Config{
		Host:                 "127.0.0.1",
		LogLevel:             "WARN",
		NodeID:               "e2e",
		JWTSecret:            uuid.NewString(),
		AuthTokenDuration:    time.Hour,
		BufferSize:           1000,
		ConnectionBufferSize: 256,
		SinkTimeout:          time.Second,
		MetricInterval:       time.Second,
		LatencyThreshold:     time.Second,
		FeedConcurrency:      8,
		CharReplacement:      "*",
		MediaBaseURL:         "https://cdn.example.com/media",
		SessionRateLimit:     100,
		SessionRateBurst:     100,
		AuthRateLimit:        100,
		AuthRateBurst:        100,
	}, s.db, s.log)
	s.Require().NoError(err)
	s.app.Start(ctx)
	s.server = httptest.NewServer(s.app.Router)
	s.baseURL = s.server.URL
}

func (s *BaseWsSuite) TearDownSuite() {
	if s.server == nil {
		return
	}
	s.server.Close()
	s.cancel()
	s.app.Stop()
	_ = s.db.Close()
}

// Step prints a colorized header for a scenario step.
func (s *BaseWsSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Dump logs v as JSON when E2E_DEBUG_JSON is enabled.
func (s *BaseWsSuite) Dump(label string, v any) {
	if !s.Config.DebugJSON {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	s.Require().NoError(err)
	s.T().Logf("%s:\n%s", label, data)
}

// Viewer registers a fresh account and opens a session for it.
func (s *BaseWsSuite) Viewer(name string) *client.Session {
	email := fmt.Sprintf("%s-%s@example.com", strings.ToLower(name), uuid.NewString()[:8])
	body, err := json.Marshal(protocol.Credentials{Email: email, Password: s.Config.Password, DisplayName: name})
	s.Require().NoError(err)

	start := time.Now()
	resp, err := http.Post(s.baseURL+"/auth/register", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	s.T().Logf("POST /auth/register [%d] in %v", resp.StatusCode, time.Since(start))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var token protocol.SessionToken
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&token))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := client.Dial(ctx, "ws"+strings.TrimPrefix(s.baseURL, "http")+"/ws", token.Token, s.log)
	s.Require().NoError(err, "Failed to open a session for "+name)
	s.T().Cleanup(func() { _ = session.Close() })
	return session
}

// WithTimeout runs fn with a bounded context.
func (s *BaseWsSuite) WithTimeout(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fn(ctx)
}
