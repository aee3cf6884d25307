package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/wordcard/internal/archive"
	"codeberg.org/snonux/wordcard/internal/batch"
	"codeberg.org/snonux/wordcard/internal/cli"
	"codeberg.org/snonux/wordcard/internal/generator"
	"codeberg.org/snonux/wordcard/internal/history"
	"codeberg.org/snonux/wordcard/internal/models"
	"codeberg.org/snonux/wordcard/internal/render"
	"codeberg.org/snonux/wordcard/internal/server"
	"codeberg.org/snonux/wordcard/internal/session"
	"codeberg.org/snonux/wordcard/internal/spell"
	"codeberg.org/snonux/wordcard/internal/table"
	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// shutdownTimeout bounds how long running requests may take after a signal
const shutdownTimeout = 10 * time.Second

// Processor handles the main application logic
type Processor struct {
	flags    *cli.Flags
	settings cli.Settings
	logger   *zap.Logger

	history  *history.Log
	ctrl     *session.Controller
	sessions *session.Store
}

// NewProcessor creates a processor from the resolved settings. gen replaces
// the configured generator when not nil.
func NewProcessor(flags *cli.Flags, settings cli.Settings, logger *zap.Logger, gen generator.Generator) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	wordTable, err := table.Open(settings.StorePath)
	if err != nil {
		return nil, fmt.Errorf("word table: %w", err)
	}
	historyTable, err := table.Open(settings.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("print history: %w", err)
	}

	if gen == nil {
		gen = newGenerator(settings, logger)
	}

	speller := spell.NewCorrector()
	if settings.SpellMaxResults > 0 {
		speller.MaxResults = settings.SpellMaxResults
	}
	if settings.SpellThreshold > 0 && settings.SpellThreshold <= 1 {
		speller.Threshold = settings.SpellThreshold
	}

	log := history.New(historyTable, logger)
	ctrl := session.NewController(session.Config{
		Words:     wordstore.New(wordTable, logger),
		Speller:   speller,
		Generator: gen,
		Renderer: render.New(render.Options{
			CardsPerPage: settings.CardsPerPage,
			ReviewRows:   settings.ReviewRows,
			Seed:         settings.Seed,
		}),
		History:     log,
		Logger:      logger,
		AutoCorrect: settings.AutoCorrect,
	})

	return &Processor{
		flags:    flags,
		settings: settings,
		logger:   logger,
		history:  log,
		ctrl:     ctrl,
		sessions: session.NewStore(settings.SessionTTL, 0),
	}, nil
}

// newGenerator builds the configured provider. Without an API key known
// words still resolve; generation requests fail with ErrNoAPIKey.
func newGenerator(settings cli.Settings, logger *zap.Logger) generator.Generator {
	gen, err := generator.New(&generator.Config{
		Provider:        settings.Provider,
		APIKey:          settings.APIKey,
		Model:           settings.Model,
		BaseURL:         settings.BaseURL,
		Timeout:         settings.Timeout,
		BreakerFailures: settings.BreakerFailures,
		BreakerCooldown: settings.BreakerCooldown,
	})
	if err != nil {
		if errors.Is(err, generator.ErrNoAPIKey) {
			fmt.Fprintln(os.Stderr, "Warning: no API key configured, unknown words cannot be generated")
		} else {
			fmt.Fprintf(os.Stderr, "Warning: word generator disabled: %v\n", err)
		}
		logger.Warn("Word generator unavailable", zap.Error(err))
		return generator.Unavailable(err)
	}
	logger.Debug("Word generator ready",
		zap.String("provider", gen.Name()),
		zap.String("model", settings.Model))
	return gen
}

// ProcessBatch resolves the words of the batch file for one student and
// writes the print deck into the output directory
func (p *Processor) ProcessBatch(ctx context.Context) (string, error) {
	words, err := batch.ReadWordFile(p.flags.BatchFile)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", fmt.Errorf("no words found in %s", p.flags.BatchFile)
	}

	sess := session.NewSession("batch")
	id := session.Identity{Class: p.flags.Class, Name: p.flags.Name, ListNum: p.flags.ListNum}
	if err := p.ctrl.SetIdentity(sess, id); err != nil {
		return "", fmt.Errorf("batch mode needs --class, --name and --list: %w", err)
	}

	fmt.Printf("Resolving %d words for %s\n", len(words), sess.Identity)
	result, err := p.ctrl.Submit(ctx, sess, strings.Join(words, " "))
	if err != nil {
		return "", err
	}

	for _, c := range result.Corrections {
		fmt.Printf("  Corrected '%s' to '%s'\n", c.From, c.To)
	}
	for _, c := range result.Suggestions {
		fmt.Printf("  Possible typo '%s' (did you mean '%s'?)\n", c.From, c.To)
	}
	if len(result.Generated) > 0 {
		fmt.Printf("  Generated: %s\n", strings.Join(result.Generated, ", "))
	}
	if result.GenerationErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: generation failed: %v\n", result.GenerationErr)
	}
	if len(result.Unresolved) > 0 {
		fmt.Printf("  Not found: %s\n", strings.Join(result.Unresolved, ", "))
	}

	deck, err := p.ctrl.Download(sess)
	if errors.Is(err, session.ErrEmptyList) {
		return "", fmt.Errorf("none of the %d words could be resolved", len(words))
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.flags.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputFile := filepath.Join(p.flags.OutputDir, deck.Filename)
	if err := os.WriteFile(outputFile, []byte(deck.HTML), 0644); err != nil {
		return "", fmt.Errorf("failed to write card deck: %w", err)
	}

	var ankiFile string
	if p.flags.Anki {
		export, err := p.ctrl.ExportAnki(sess)
		if err != nil {
			return "", err
		}
		ankiFile = filepath.Join(p.flags.OutputDir, export.Filename)
		if err := os.WriteFile(ankiFile, export.Data, 0644); err != nil {
			return "", fmt.Errorf("failed to write Anki export: %w", err)
		}
	}

	// Print summary
	fmt.Printf("\n=== Batch Summary ===\n")
	fmt.Printf("Requested: %d\n", result.Requested)
	fmt.Printf("Found: %d\n", len(result.Found))
	fmt.Printf("Corrected: %d\n", len(result.Corrections))
	fmt.Printf("Generated: %d\n", len(result.Generated))
	if len(result.Unresolved) > 0 {
		fmt.Printf("Unresolved: %d\n", len(result.Unresolved))
	}
	fmt.Printf("Cards: %d\n", len(deck.Words))
	fmt.Printf("Card deck written to: %s\n", outputFile)
	if ankiFile != "" {
		fmt.Printf("Anki export written to: %s\n", ankiFile)
	}
	fmt.Printf("=====================\n")

	return outputFile, nil
}

// RunServer serves the web interface until ctx is cancelled
func (p *Processor) RunServer(ctx context.Context) error {
	srv := server.New(server.Config{
		Controller: p.ctrl,
		Sessions:   p.sessions,
		Logger:     p.logger,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Printf("Serving on http://%s\n", p.settings.Addr)
		return srv.Listen(p.settings.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		p.logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ListModels prints the chat models of the configured endpoint
func (p *Processor) ListModels(ctx context.Context) error {
	if p.settings.Provider == generator.ProviderGemini {
		return fmt.Errorf("--list-models supports OpenAI-compatible endpoints only")
	}
	lister := models.NewLister(p.settings.APIKey, p.settings.BaseURL)
	return lister.ListAvailableModels(ctx, os.Stdout)
}

// ArchiveHistory moves the print history log into the archive directory
func (p *Processor) ArchiveHistory() error {
	_, err := archive.ArchiveHistory(p.history.Path())
	return err
}
