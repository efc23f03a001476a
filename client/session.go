// Package client is a connected viewer: it keeps a projection of the subjects
// the viewer observes in sync with the server and runs optimistic toggles
// against it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/projection"
	"social-lab/protocol"
	"social-lab/toggle"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

const resyncQueueSize = 64

type pendingCall struct {
	// apply runs on the reader goroutine, before any later frame is read.
	apply func(protocol.Frame) error
	done  chan error
}

type Session struct {
	conn        *ws.Conn
	accountID   string
	view        *projection.View
	coordinator *toggle.Coordinator
	log         *slog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]*pendingCall
	closed   bool
	feedReq  *protocol.Request
	opened   map[string]struct{}
	gaps     chan string
	done     chan struct{}
	finished chan struct{}
}

// Dial opens a session on url ("ws://host/ws") authenticated with token.
func Dial(ctx context.Context, url, token string, log *slog.Logger) (*Session, error) {
	accountID, err := accountFromToken(token)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := ws.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrTransportUnavailable, err)
	}

	s := &Session{
		conn:      conn,
		accountID: accountID,
		log:       log.With("account_id", accountID),
		pending:   make(map[string]*pendingCall),
		opened:    make(map[string]struct{}),
		gaps:      make(chan string, resyncQueueSize),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
	s.view = projection.NewView(accountID, log, s.onGap)
	s.coordinator = toggle.NewCoordinator(&remoteAuthority{session: s}, s.view, log)

	go s.readLoop()
	go s.resyncLoop()
	return s, nil
}

// accountFromToken reads the subject of a token the server will verify.
func accountFromToken(token string) (string, error) {
	claims := &auth.CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrUnauthenticated, err)
	}
	if claims.UserID == "" {
		return "", errors.ErrUnauthenticated
	}
	return claims.UserID, nil
}

func (s *Session) AccountID() string { return s.accountID }

func (s *Session) View() *projection.View { return s.view }

func (s *Session) ToggleState(subjectID string, kind domain.ToggleKind) domain.ToggleState {
	return s.coordinator.State(s.accountID, subjectID, kind)
}

// Close ends the session and fails every pending request.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.writeMu.Lock()
	_ = s.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(time.Second))
	s.writeMu.Unlock()
	err := s.conn.Close()
	<-s.finished
	return err
}

// Done is closed once the connection is gone.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) readLoop() {
	defer close(s.finished)
	defer s.shutdown()

	for {
		var frame protocol.Frame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.log.Debug("Session reader stopped", "error", err)
			return
		}
		switch frame.Type {
		case protocol.FrameEvent:
			if frame.Event != nil {
				s.view.Apply(*frame.Event)
			}
		case protocol.FrameResponse:
			s.resolve(frame)
		}
	}
}

func (s *Session) resolve(frame protocol.Frame) {
	s.mu.Lock()
	call, ok := s.pending[frame.ID]
	delete(s.pending, frame.ID)
	s.mu.Unlock()
	if !ok {
		return
	}
	if frame.Error != nil {
		call.done <- errors.FromCode(frame.Error.Code, frame.Error.Message)
		return
	}
	var err error
	if call.apply != nil {
		err = call.apply(frame)
	}
	call.done <- err
}

// shutdown fails every request still waiting for an answer.
func (s *Session) shutdown() {
	s.mu.Lock()
	s.closed = true
	calls := s.pending
	s.pending = make(map[string]*pendingCall)
	s.mu.Unlock()

	for _, call := range calls {
		call.done <- errors.ErrTransportUnavailable
	}
	close(s.done)
}

// call sends req and waits for its response. apply, when set, handles the
// response data on the reader goroutine.
func (s *Session) call(ctx context.Context, req protocol.Request, apply func(protocol.Frame) error) error {
	req.ID = uuid.NewString()
	pc := &pendingCall{apply: apply, done: make(chan error, 1)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrTransportUnavailable
	}
	s.pending[req.ID] = pc
	s.mu.Unlock()

	s.writeMu.Lock()
	err := s.conn.WriteJSON(req)
	s.writeMu.Unlock()
	if err != nil {
		s.forget(req.ID)
		return fmt.Errorf("%w: %v", errors.ErrTransportUnavailable, err)
	}

	select {
	case err = <-pc.done:
		return err
	case <-ctx.Done():
		s.forget(req.ID)
		return ctx.Err()
	}
}

func (s *Session) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// into decodes the response data into out.
func into(out any) func(protocol.Frame) error {
	return func(f protocol.Frame) error {
		if len(f.Data) == 0 {
			return nil
		}
		return json.Unmarshal(f.Data, out)
	}
}

func (s *Session) onGap(subjectID string) {
	select {
	case s.gaps <- subjectID:
	default:
	}
}

// resyncLoop refetches the observed subjects when a gap is detected.
// Gaps queued during a refetch are folded into it.
func (s *Session) resyncLoop() {
	for {
		select {
		case <-s.done:
			return
		case subjectID := <-s.gaps:
			s.log.Info("Sequence gap detected, resyncing", "subject_id", subjectID)
			s.drainGaps()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Resync(ctx); err != nil {
				s.log.Warn("Resync failed", "error", err)
			}
			cancel()
		}
	}
}

func (s *Session) drainGaps() {
	for {
		select {
		case <-s.gaps:
		default:
			return
		}
	}
}
