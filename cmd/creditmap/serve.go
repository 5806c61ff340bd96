package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/creditmap/internal/api/http"
	"github.com/mind-engage/creditmap/internal/auth"
	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/metrics"
	"github.com/mind-engage/creditmap/internal/predict"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/theme"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and its JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (HTTP_ADDR)")
	_ = v.BindPFlag("http_addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := openDB(openCtx)
	cancel()
	if err != nil {
		return err
	}
	defer dbh.Close()

	bs, err := openBlobs()
	if err != nil {
		return err
	}
	th, err := theme.Load(cfg.ThemeFile)
	if err != nil {
		return err
	}

	m := metrics.New()
	pc := predict.New(predict.Config{
		LoanURL:    cfg.LoanPredictURL,
		CreditURL:  cfg.CreditPredictURL,
		SamplesURL: cfg.SamplesURL,
		Timeout:    cfg.PredictTimeout,
	}, nil)

	// samples come from the sample service when configured, else from the
	// local table seeded from the sample dataset
	store := samples.NewStore(dbh)
	var src dashboard.SampleSource = pc
	if cfg.SamplesURL == "" {
		if err := seedIfEmpty(ctx, store, blobSource(bs)); err != nil {
			logger.Warn("sample seed failed", zap.Error(err))
		}
		src = store
	}
	repo := history.NewRepo(dbh)

	b, err := dashboard.New(dashboard.Options{
		Loader:    newLoader(bs),
		Theme:     th,
		Predictor: pc,
		Samples:   src,
		History:   repo,
		Metrics:   m,
		Log:       logger,
	})
	if err != nil {
		return err
	}
	// a failed first load still serves; /readyz reports 503 until a reload works
	if err := b.Load(ctx); err != nil {
		logger.Error("initial dataset load", zap.Error(err))
	}

	accounts := auth.Accounts{}
	if cfg.AdminPassHash != "" {
		accounts[cfg.AdminUser] = auth.Account{PassHash: cfg.AdminPassHash, Role: "admin"}
	}
	r := api.NewRouter(api.Deps{
		Config:   cfg,
		Board:    b,
		Blobs:    bs,
		Samples:  store,
		History:  repo,
		Metrics:  m,
		Auth:     auth.NewAuthService(cfg.AuthHMACSecret),
		Accounts: accounts,
		Log:      logger,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if cfg.WatchDatasets {
		files := localDatasets(bs)
		g.Go(func() error {
			logger.Info("watching datasets", zap.Strings("files", files))
			return b.Watch(gctx, files, cfg.WatchDebounce)
		})
	}
	return g.Wait()
}
