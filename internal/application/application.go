package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/config"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/database"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/handler"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/kafka"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/router"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/searchindex"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/service"
	"go.uber.org/zap"
)

// API is the HTTP application.
type API struct {
	cfg      *config.Config
	log      *zap.Logger
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI wires config -> database -> service -> handlers -> router. The
// schema is migrated before the server accepts traffic, so tables exist on
// first start.
func NewAPI(cfg *config.Config, log *zap.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(cfg, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	ticketSvc := service.NewTicketService(db)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, log)
	searchClient := searchindex.NewClient(cfg.SearchServiceURL, log)
	ticketHandler := handler.NewTicketHandler(ticketSvc, producer, searchClient, log)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(ticketHandler, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		log:      log,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info("HTTP server listening",
		zap.String("addr", a.httpSrv.Addr),
		zap.String("swagger", base+"/swagger"),
		zap.String("health", base+"/health"),
		zap.String("api", base+"/tickets/"),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		a.log.Warn("kafka close", zap.Error(err))
	}
	return nil
}
