package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"clarity/internal/cache"
	"clarity/internal/scoring"
	"clarity/internal/services"
)

// CacheConfig sizes the response caches.
type CacheConfig struct {
	Size            int
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultCacheConfig matches the config package defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size:            256,
		TTL:             30 * time.Second,
		CleanupInterval: time.Minute,
	}
}

type Server struct {
	http.Server
	ledger     *services.LedgerService
	dashboards *services.DashboardService

	rateLimiter *rateLimiter
	metrics     *metrics

	dashboardCache *cache.LRUCache[services.Dashboard]
	insightsCache  *cache.LRUCache[[]scoring.Insight]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once

	// now is swappable so handler tests run against fixed data
	now func() time.Time
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, dashboards *services.DashboardService, cacheCfg CacheConfig) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ledger:         ledger,
		dashboards:     dashboards,
		rateLimiter:    newRateLimiter(),
		metrics:        newMetrics(),
		dashboardCache: cache.NewLRUCache[services.Dashboard](cacheCfg.Size, cacheCfg.TTL),
		insightsCache:  cache.NewLRUCache[[]scoring.Insight](cacheCfg.Size, cacheCfg.TTL),
		cacheManager:   cache.NewManager(),
		now:            time.Now,
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.insightsCache)
	s.cacheManager.StartCleanup(cacheCfg.CleanupInterval)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("GET /api/snapshot", s.withMiddleware(s.handleSnapshot))

	mux.HandleFunc("GET /api/institutions", s.withMiddleware(s.handleListInstitutions))
	mux.HandleFunc("PUT /api/institutions", s.withMiddleware(s.handleUpsertInstitution))

	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("PUT /api/accounts", s.withMiddleware(s.handleUpsertAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withMiddleware(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/subscriptions", s.withMiddleware(s.handleListSubscriptions))
	mux.HandleFunc("PUT /api/subscriptions", s.withMiddleware(s.handleUpsertSubscription))
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.withMiddleware(s.handleDeleteSubscription))

	mux.HandleFunc("GET /api/debts", s.withMiddleware(s.handleListDebts))
	mux.HandleFunc("PUT /api/debts", s.withMiddleware(s.handleUpsertDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.withMiddleware(s.handleDeleteDebt))

	return s
}

// invalidateViewCaches drops every cached dashboard and insight view.
// Called after any data mutation.
func (s *Server) invalidateViewCaches() {
	s.dashboardCache.DeletePrefix("")
	s.insightsCache.DeletePrefix("")
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
