package router

import (
	"net/http"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/domain/sightings"
	"regresa/internal/matching"
	"regresa/internal/middleware"
	"regresa/internal/platform/logger"
	"regresa/internal/platform/metrics"
	"regresa/internal/ports/auth"
	"regresa/internal/stats"
	"regresa/internal/store"

	_ "regresa/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si es nil se usa un store en memoria.
	Store *store.Handle

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Oracle nil = matching deshabilitado (image-match devuelve []).
	Oracle matching.Oracle
	Match  matching.Options

	Swagger bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	h := opts.Store
	if h == nil {
		h = store.Memory()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log, m))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Services por módulo
	matchSvc := matches.NewService(h.Matches)
	lostSvc := lostpets.NewService(h.LostPets, matchSvc)
	sightSvc := sightings.NewService(h.Sightings, matchSvc)
	statsSvc := stats.NewService(lostSvc, sightSvc)

	pipeline := matching.NewPipeline(matching.Deps{
		Candidates: lostSvc,
		Sightings:  sightSvc,
		Recorder:   matchSvc,
		Oracle:     opts.Oracle,
		Logger:     log,
		Metrics:    m,
	}, opts.Match)

	// Rutas por módulo
	lostpets.RegisterRoutes(r, lostSvc, log)
	sightings.RegisterRoutes(r, sightSvc, pipeline, log)
	matches.RegisterRoutes(r, matchSvc, lostSvc, sightSvc, log)
	stats.RegisterRoutes(r, statsSvc, log)

	return r
}
