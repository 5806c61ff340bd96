package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/auth"
	"github.com/mind-engage/creditmap/internal/config"
	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/metrics"
	"github.com/mind-engage/creditmap/internal/rbac"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/storage"
)

// Deps is everything the router mounts. Samples, History and Metrics are
// optional; their routes are skipped when nil.
type Deps struct {
	Config   config.Config
	Board    *dashboard.Board
	Blobs    storage.BlobStore
	Samples  *samples.Store
	History  *history.Repo
	Metrics  *metrics.Metrics
	Auth     *auth.AuthService
	Accounts auth.Accounts
	Log      *zap.Logger
}

func NewRouter(d Deps) chi.Router {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	b := d.Board

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", PageHandler(b, log))
	r.Get("/map.svg", SVGHandler(b, dashboard.WidgetMap))
	r.Get("/scatter.svg", SVGHandler(b, dashboard.WidgetScatter))
	r.Get("/gauges/{kind}.svg", SVGHandler(b, ""))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/states", ListStatesHandler(b))
		ar.Get("/states/{name}", GetStateHandler(b))
		ar.Post("/tooltip", TooltipHandler(b))
		ar.Post("/predict/loan", PredictLoanHandler(b, log))
		ar.Post("/predict/credit", PredictCreditHandler(b, log))
		ar.Post("/forms/loan/history", LoanHistoryHandler())
		ar.Post("/scatter/generate", GenerateScatterHandler(b, log))
		if d.Samples != nil {
			ar.Get("/samples", SamplesHandler(d.Samples))
		}
	})

	if d.Blobs != nil {
		r.Route("/assets", func(ar chi.Router) {
			MountAssets(ar, d.Blobs)
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !b.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	if d.Auth == nil {
		return r
	}
	if d.Config.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Accounts))
	}

	// JWT -> role in context -> RBAC
	r.Route("/admin", func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermDatasetsReload)).
			Post("/reload", ReloadHandler(b, log))
		pr.With(rbac.Require(rbac.PermDatasetsUpload)).
			Put("/datasets/*", UploadDatasetHandler(d.Blobs, log))
		pr.With(rbac.Require(rbac.PermSnapshotsCreate)).
			Post("/snapshots", SnapshotHandler(b, d.Blobs, log))
		pr.With(rbac.Require(rbac.PermSnapshotsView)).
			Get("/snapshots", ListSnapshotsHandler(d.Blobs))
		pr.With(rbac.Require(rbac.PermExport)).
			Get("/export/{dataset}.parquet", ExportHandler(b, d.Samples, d.History, log))
		if d.History != nil {
			pr.With(rbac.Require(rbac.PermPredictionsView)).
				Get("/predictions", ListPredictionsHandler(d.History))
		}
	})
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
