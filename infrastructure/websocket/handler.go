// Package websocket exposes the services over HTTP: JSON routes for identity
// and one websocket session per connected viewer.
package websocket

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"social-lab/auth"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/observability"
	"social-lab/protocol"
	"social-lab/services"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"
)

// Subscriptions is the part of the bus a session needs.
type Subscriptions interface {
	Subscribe(subscriberID, subjectID string, sink contract.EventSink)
	Unsubscribe(subscriberID, subjectID string)
	Disconnect(subscriberID string)
}

type Handler struct {
	authService services.IAuthService
	social      *services.SocialService
	identity    *auth.Identity
	bus         Subscriptions
	stats       *observability.StatsTracker
	upgrader    ws.Upgrader
	cfg         Config
	log         *slog.Logger
}

func NewHandler(
	authService services.IAuthService,
	social *services.SocialService,
	identity *auth.Identity,
	bus Subscriptions,
	stats *observability.StatsTracker,
	cfg Config,
	log *slog.Logger,
) *Handler {
	return &Handler{
		authService: authService,
		social:      social,
		identity:    identity,
		bus:         bus,
		stats:       stats,
		upgrader: ws.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		cfg: cfg,
		log: log,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var creds protocol.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, stderrors.Join(errors.ErrInvalidInput, err))
		return
	}
	session, err := h.authService.Register(creds.Email, creds.Password, creds.DisplayName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, protocol.SessionToken{Token: session.Token.String(), AccountID: session.AccountID})
}

func (h *Handler) Login(c *gin.Context) {
	var creds protocol.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, stderrors.Join(errors.ErrInvalidInput, err))
		return
	}
	session, err := h.authService.Login(creds.Email, creds.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, protocol.SessionToken{Token: session.Token.String(), AccountID: session.AccountID})
}

// Connect authenticates the viewer, upgrades the connection and blocks until the
// session ends. Every subscription of the session is dropped on the way out.
func (h *Handler) Connect(c *gin.Context) {
	bearer := c.GetHeader("Authorization")
	if bearer == "" {
		bearer = c.Query("token")
	}
	accountID, err := h.identity.Resolve(bearer)
	if err != nil {
		h.fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade the websocket", "error", err)
		return
	}

	session := newSession(conn, accountID, h.stats, h.cfg, h.log)
	h.stats.SessionOpened()
	session.log.Info("Viewer session opened")
	defer func() {
		h.bus.Disconnect(session.id)
		h.stats.SessionClosed()
		session.log.Info("Viewer session closed")
	}()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go session.writeLoop()
	session.readLoop(ctx, h.dispatch)
}

func (h *Handler) dispatch(ctx context.Context, s *Session, req protocol.Request) protocol.Frame {
	data, err := h.handle(ctx, s, req)
	if err != nil {
		s.log.Debug("Request failed", "op", req.Op, "subject_id", req.SubjectID, "error", err)
		return protocol.Failure(req.ID, errors.Code(err), err.Error())
	}
	frame, err := protocol.Response(req.ID, data)
	if err != nil {
		return protocol.Failure(req.ID, errors.Code(err), err.Error())
	}
	return frame
}

func (h *Handler) handle(ctx context.Context, s *Session, req protocol.Request) (any, error) {
	viewer := s.accountID
	switch req.Op {
	case protocol.OpProfile:
		// Subscribe before the snapshot: no event can fall between the two
		h.bus.Subscribe(s.id, req.SubjectID, s)
		profile, err := h.social.Profile(ctx, viewer, req.SubjectID)
		if err != nil {
			h.bus.Unsubscribe(s.id, req.SubjectID)
		}
		return profile, err
	case protocol.OpFeed:
		posts, next, err := h.social.FeedPage(req.Cursor)
		if err != nil {
			return nil, err
		}
		return h.feedPage(ctx, s, posts, next), nil
	case protocol.OpAuthorFeed:
		posts, next, err := h.social.AuthorPage(req.SubjectID, req.Cursor)
		if err != nil {
			return nil, err
		}
		return h.feedPage(ctx, s, posts, next), nil
	case protocol.OpOpenPost:
		h.bus.Subscribe(s.id, req.SubjectID, s)
		entry, err := h.social.Post(ctx, viewer, req.SubjectID)
		if err != nil {
			if !s.observing(req.SubjectID) {
				h.bus.Unsubscribe(s.id, req.SubjectID)
			}
			return nil, err
		}
		s.pin(req.SubjectID)
		return entry, nil
	case protocol.OpUnsubscribe:
		// A post still on the current feed page stays observed
		if !s.unpin(req.SubjectID) {
			h.bus.Unsubscribe(s.id, req.SubjectID)
		}
		return struct{}{}, nil
	case protocol.OpFollow:
		return h.social.Follow(ctx, viewer, req.SubjectID)
	case protocol.OpUnfollow:
		return h.social.Unfollow(ctx, viewer, req.SubjectID)
	case protocol.OpLike:
		return h.social.Like(ctx, viewer, req.SubjectID)
	case protocol.OpUnlike:
		return h.social.Unlike(ctx, viewer, req.SubjectID)
	case protocol.OpComment:
		comment, ack, err := h.social.Comment(ctx, domain.NewComment{PostID: req.SubjectID, AuthorID: viewer, Text: req.Text})
		return protocol.CommentResult{Comment: comment, Ack: ack}, err
	case protocol.OpComments:
		return h.social.Comments(ctx, req.SubjectID)
	case protocol.OpPost:
		return h.social.CreatePost(ctx, domain.NewPost{
			AuthorID:    viewer,
			Text:        req.Text,
			Description: req.Description,
			Category:    req.Category,
			ImageRefs:   req.ImageRefs,
		})
	case protocol.OpFollowers:
		return h.social.Followers(ctx, req.SubjectID)
	case protocol.OpFollowing:
		return h.social.Following(ctx, req.SubjectID)
	case protocol.OpUpdateProfile:
		if req.Profile == nil {
			return nil, errors.ErrInvalidInput
		}
		return h.social.UpdateProfile(ctx, viewer, *req.Profile)
	case protocol.OpSearch:
		return h.social.Search(ctx, viewer, req.Query)
	default:
		return nil, errors.ErrUnknownOperation
	}
}

// feedPage subscribes the session to every post of the page before reading
// counters, then drops the posts of the previous page that are no longer shown.
func (h *Handler) feedPage(ctx context.Context, s *Session, posts []domain.Post, next *string) protocol.FeedPage {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		h.bus.Subscribe(s.id, p.ID, s)
		ids = append(ids, p.ID)
	}
	for _, postID := range s.showFeed(ids) {
		h.bus.Unsubscribe(s.id, postID)
	}
	return protocol.FeedPage{Entries: h.social.Enrich(ctx, s.accountID, posts), Next: next}
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), protocol.Error{Code: errors.Code(err), Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrUnauthenticated), stderrors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrUserAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrInvalidPassword), stderrors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case stderrors.Is(err, errors.ErrAccountNotFound), stderrors.Is(err, errors.ErrPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
