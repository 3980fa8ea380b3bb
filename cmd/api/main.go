package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"riverhawk_quote_backend/internal/catalog"
	catalogrepo "riverhawk_quote_backend/internal/catalog/repository"
	"riverhawk_quote_backend/internal/email"
	"riverhawk_quote_backend/internal/events"
	apphttp "riverhawk_quote_backend/internal/http"
	"riverhawk_quote_backend/internal/http/router"
	"riverhawk_quote_backend/internal/notification"
	"riverhawk_quote_backend/internal/quotes"
	"riverhawk_quote_backend/internal/quotes/agent"
	quoteports "riverhawk_quote_backend/internal/quotes/ports"
	"riverhawk_quote_backend/platform/config"
	"riverhawk_quote_backend/platform/logger"
	"riverhawk_quote_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	catalogIndex, err := loadCatalog(cfg, log)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		panic("failed to load catalog: " + err.Error())
	}
	log.Info("catalog loaded", "products", catalogIndex.Len())

	val := validator.New()
	eventBus := events.NewInMemoryBus(log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	notificationModule := notification.NewModule(log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(catalogIndex, val, log)

	advisor := initAdvisor(cfg, log)
	quotesModule := quotes.NewModule(
		catalogIndex,
		catalogModule.Service(),
		advisor,
		cfg.GetAdvisorTimeout(),
		val,
		log,
	)
	quotesModule.SetEventBus(eventBus)
	quotesModule.SetMailer(email.NewSMTPSender(cfg))
	if !cfg.IsEmailEnabled() {
		log.Warn("SMTP not configured; quote emails will be generated but not sent")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   catalogModule,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			quotesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// loadCatalog builds the catalog index from CATALOG_PATH when set, falling
// back to the embedded seed catalog.
func loadCatalog(cfg config.CatalogConfig, log *logger.Logger) (*catalogrepo.Repo, error) {
	if path := cfg.GetCatalogPath(); path != "" {
		log.Info("loading catalog from file", "path", path)
		return catalogrepo.LoadFile(path)
	}
	return catalogrepo.LoadSeed()
}

// initAdvisor wires the LLM clarification advisor when an API key is
// configured. A nil advisor means the deterministic fallback template is
// used for every clarifying question.
func initAdvisor(cfg config.AdvisorConfig, log *logger.Logger) quoteports.QuestionAdvisor {
	if !cfg.IsAdvisorEnabled() {
		log.Warn("MOONSHOT_API_KEY not configured; clarifying questions use the fallback template")
		return nil
	}

	clarifier, err := agent.NewClarifier(cfg.GetMoonshotAPIKey())
	if err != nil {
		log.Error("failed to create clarification advisor, using fallback template", "error", err)
		return nil
	}
	log.Info("clarification advisor enabled")
	return clarifier
}
