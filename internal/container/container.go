package container

import (
	"context"
	"fmt"
	"log"

	"rxcheck/adapters/llm"
	"rxcheck/adapters/postgres"
	"rxcheck/adapters/rdkit"
	"rxcheck/app"
	"rxcheck/internal"
	"rxcheck/internal/config"
	"rxcheck/internal/migration"
	"rxcheck/internal/usage"
	"rxcheck/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (nil when no database is configured)
	RunRepo   ports.ValidationRunRepository
	UsageRepo ports.LLMUsageRepository

	// Collaborators
	Toolkit   ports.ChemistryToolkit
	LLMClient ports.LLMClient

	// Services
	UsageService *usage.Service
	Escalation   *app.DiagnosticEscalation
	Validation   *app.ReactionValidationService
	Batch        *app.BatchService
}

// New creates a container wired without persistence. A missing model
// credential fails here.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
		Toolkit: rdkit.NewClient(rdkit.Config{
			BaseURL: cfg.Toolkit.URL,
			Timeout: cfg.Toolkit.Timeout,
			Release: true,
		}),
	}

	client, err := llm.NewClient(cfg.EscalationConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	c.LLMClient = client

	if err := c.wireServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// InitWithDatabase enables the run ledger and usage accounting
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = db
	c.RunRepo = postgres.NewValidationRunRepository(db)
	c.UsageRepo = postgres.NewLLMUsageRepository(db)

	if err := c.wireServices(); err != nil {
		return err
	}
	log.Printf("Container initialized successfully with database connection")
	return nil
}

// wireServices (re)builds the pipeline from the current collaborators
func (c *Container) wireServices() error {
	if c.UsageRepo != nil {
		c.UsageService = usage.NewService(c.UsageRepo)
	}

	escalation, err := app.NewDiagnosticEscalation(c.Config.EscalationConfig(), c.LLMClient, c.UsageService)
	if err != nil {
		return fmt.Errorf("failed to create diagnostic escalation: %w", err)
	}
	c.Escalation = escalation

	opts := []app.Option{
		app.WithForwardEngineMessage(c.Config.Pipeline.ForwardEngineMessage),
		app.WithLogger(c.Logger),
	}
	if c.RunRepo != nil {
		opts = append(opts, app.WithRunRepository(c.RunRepo))
	}
	c.Validation = app.NewReactionValidationService(c.Toolkit, c.Escalation, opts...)
	c.Batch = app.NewBatchService(c.Validation, c.Config.Pipeline.BatchConcurrency, c.Logger)
	return nil
}

// Shutdown flushes pending usage writes and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.UsageService.Flush()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("Timeout waiting for usage writes to flush")
	}

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
