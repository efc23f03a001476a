package internal

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/auth"
	"social-lab/feed"
	"social-lab/graph"
	natsinfra "social-lab/infrastructure/nats"
	"social-lab/infrastructure/websocket"
	"social-lab/media"
	"social-lab/moderation"
	"social-lab/observability"
	"social-lab/repositories"
	"social-lab/runtime"
	"social-lab/runtime/workers"
	"social-lab/search"
	"social-lab/services"
	"social-lab/sink"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/samber/lo"
)

// App is the fully wired server: storage, graph, bus, services and routes.
type App struct {
	Node   string
	Router *gin.Engine
	Bus    *runtime.EventBus
	Graph  *graph.Graph
	Stats  *observability.StatsTracker
	Social *services.SocialService
	Auth   services.IAuthService

	log      *slog.Logger
	changes  *services.ChangeFeed
	replica  *services.Replica
	index    *search.Index
	natsConn *nats.Conn
	wg       sync.WaitGroup
}

// NewApp wires every component on db and warms the relationship graph.
func NewApp(ctx context.Context, config Config, db *badger.DB, log *slog.Logger) (*App, error) {
	node := config.NodeID
	if node == "" {
		node = uuid.NewString()
	}
	log = log.With("node", node)

	censoredChar, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	censored, err := moderation.NewEmbeddedLoader().LoadAll("censored")
	if err != nil {
		return nil, fmt.Errorf("censored words loading failed: %w", err)
	}
	log.Info("Censored words loaded", "words", len(censored.Words), "languages", censored.Languages)
	moderator, err := moderation.NewModerator(censored.Words, censoredChar, log)
	if err != nil {
		return nil, fmt.Errorf("moderator init failed: %w", err)
	}

	accounts := repositories.NewAccountRepository(db)
	posts := repositories.NewPostRepository(db, log, lo.ToPtr(config.PageSize()))
	relationships := repositories.NewRelationshipRepository(db)
	resolver := media.NewResolver(config.MediaBaseURL)
	directory := services.NewDirectory(accounts, resolver)

	bus := runtime.NewEventBus(log, workers.NewSupervisor(log), runtime.NewRegistry(),
		config.BufferSize, config.SinkTimeout)
	relationGraph := graph.NewGraph(relationships, directory, bus, node, log)
	if err = relationGraph.Warm(ctx); err != nil {
		return nil, fmt.Errorf("graph warm-up failed: %w", err)
	}

	index, err := search.Open(config.SearchIndexPath, log)
	if err != nil {
		return nil, err
	}
	if err = rebuildIndex(index, accounts, posts); err != nil {
		_ = index.Close()
		return nil, err
	}
	changes := services.NewChangeFeed(index)

	aggregator := feed.NewAggregator(directory, relationGraph, config.EnrichmentConcurrency(), log)
	social := services.NewSocialService(accounts, posts, relationships, relationGraph,
		aggregator, directory, moderator, resolver, changes, index, config.SearchPageSize(), log)

	issuer := auth.NewIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(accounts, issuer, changes, log)

	stats := observability.NewStatsTracker(log, config.MetricInterval)
	bus.Add(sink.NewActivitySink(log, stats, config.LatencyThreshold))
	bus.AddWorker(stats, workers.NewChannelCapacityWorker(log,
		[]workers.NamedChannel{{Name: "event_bus", Channel: bus.Queue()}}, config.MetricInterval))

	app := &App{
		Node:    node,
		Bus:     bus,
		Graph:   relationGraph,
		Stats:   stats,
		Social:  social,
		Auth:    authService,
		log:     log,
		changes: changes,
		replica: services.NewReplica(accounts, posts, relationGraph, index, log),
		index:   index,
	}

	if config.NatsURL != "" {
		nc, err := nats.Connect(config.NatsURL, nats.Name("social-lab-"+node))
		if err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("nats connection failed: %w", err)
		}
		app.natsConn = nc
		app.Replicate(nc, config.NatsSubject)
		log.Info("Replication enabled", "url", config.NatsURL, "subject", config.NatsSubject)
	}

	wsConfig := websocket.DefaultConfig()
	wsConfig.ConnectionBufferSize = config.ConnectionBufferSize
	wsConfig.RateLimit = config.SessionRateLimit
	wsConfig.RateBurst = config.SessionRateBurst
	wsConfig.AuthRateLimit = config.AuthRateLimit
	wsConfig.AuthRateBurst = config.AuthRateBurst
	handler := websocket.NewHandler(authService, social, auth.NewIdentity(issuer), bus, stats, wsConfig, log)
	app.Router = websocket.NewRouter(handler, log)

	return app, nil
}

// Replicate ships the writes committed here to the other nodes on subject and
// applies theirs. Must be called before Start.
func (a *App) Replicate(conn natsinfra.Conn, subject string) {
	a.changes.Add(natsinfra.NewReplicator(conn, subject, a.Node, a.log))
	a.Bus.AddWorker(natsinfra.NewSubscriber(conn, subject, a.Node, a.replica, a.log))
}

func rebuildIndex(index *search.Index, accounts repositories.IAccountRepository, posts repositories.IPostRepository) error {
	storedAccounts, err := accounts.ListAccounts()
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	storedPosts, err := posts.ListPosts()
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	return index.Rebuild(storedAccounts, storedPosts)
}

// Start runs the bus and its workers in the background.
func (a *App) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Bus.Start(ctx)
	}()
}

// Stop cancels the workers and waits for them.
func (a *App) Stop() {
	a.Bus.Stop()
	a.wg.Wait()
	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Warn("NATS drain failed", "error", err)
		}
	}
	if err := a.index.Close(); err != nil {
		a.log.Warn("Search index close failed", "error", err)
	}
	a.log.Info("Application stopped")
}
