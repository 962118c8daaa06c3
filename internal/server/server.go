package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/YuthikaAnvitha/cyber-quest/internal/api"
	"github.com/YuthikaAnvitha/cyber-quest/internal/event"
	"github.com/YuthikaAnvitha/cyber-quest/internal/pool"
	"github.com/YuthikaAnvitha/cyber-quest/internal/session"
	"github.com/YuthikaAnvitha/cyber-quest/internal/store"
	pgstore "github.com/YuthikaAnvitha/cyber-quest/internal/store/postgres"
	redisstore "github.com/YuthikaAnvitha/cyber-quest/internal/store/redis"
	"github.com/YuthikaAnvitha/cyber-quest/internal/telemetry"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	Store struct {
		// Backend selects the session store: postgres (default) or redis.
		// URL and Key are required: for postgres, URL is the DSN and Key
		// the credential injected into it; for redis, URL is the address
		// and Key the password.
		Backend string
		URL     string
		Key     string
		Prefix  string
	}

	Quiz struct {
		PoolPath    string
		DurationMin int
	}

	Web struct {
		Templates string
		Static    string
	}
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		pool     *pool.Pool
		redis    redis.UniversalClient
		postgres *pgxpool.Pool
		store    store.Store
	}

	service struct {
		session *session.Service
	}

	http *http.Server
}

func Init(c Config) (*Server, error) {
	if c.Store.URL == "" || c.Store.Key == "" {
		return nil, fmt.Errorf("server: store url and store key are required")
	}

	s := &Server{c: c}

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.initService()
	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	var err error
	s.infra.pool, err = pool.Load(s.c.Quiz.PoolPath)
	if err != nil {
		return fmt.Errorf("question pool: %w", err)
	}

	switch s.c.Store.Backend {
	case "redis":
		if err := s.initRedis(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	default:
		if err := s.initPostgres(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	return nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cc, err := pgxpool.ParseConfig(s.c.Store.URL)
	if err != nil {
		return err
	}
	cc.ConnConfig.Password = s.c.Store.Key

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}

	if err := db.Ping(ctx); err != nil {
		return err
	}

	st := pgstore.New(db)
	if err := st.Init(ctx); err != nil {
		return err
	}

	s.infra.postgres = db
	s.infra.store = st
	return nil
}

func (s *Server) initRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{s.c.Store.URL},
		Password: s.c.Store.Key,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		return err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return err
	}

	prefix := s.c.Store.Prefix
	if prefix == "" {
		prefix = "cyberquest"
	}

	s.infra.redis = r
	s.infra.store = redisstore.New(r, prefix)
	return nil
}

func (s *Server) initService() {
	s.service.session = session.NewService(session.Config{
		Store:       s.infra.store,
		Pool:        s.infra.pool,
		EventBus:    s.eb,
		DurationMin: s.c.Quiz.DurationMin,
	})

	telemetry.ObserveSessions(s.eb)
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery())

	if s.c.Web.Templates != "" {
		e.LoadHTMLGlob(s.c.Web.Templates)
		e.GET("/", func(c *gin.Context) {
			c.HTML(http.StatusOK, "index.html", nil)
		})
	}
	if s.c.Web.Static != "" {
		e.Static("/static", s.c.Web.Static)
	}

	api.New(api.Config{
		Router:  e,
		Session: s.service.session,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()

	if s.infra.postgres != nil {
		s.infra.postgres.Close()
	}
	if s.infra.redis != nil {
		if err := s.infra.redis.Close(); err != nil {
			slog.ErrorContext(ctx, "server: close redis failed", "error", err)
		}
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}
