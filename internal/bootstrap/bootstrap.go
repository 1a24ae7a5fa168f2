package bootstrap

import (
	"fmt"
	"net/http"

	httpadapter "github.com/documind/docrouter/internal/adapters/http"
	"github.com/documind/docrouter/internal/config"
	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/ports"
	"github.com/documind/docrouter/internal/core/usecase"
	"github.com/documind/docrouter/internal/infrastructure/capability/gemini"
	"github.com/documind/docrouter/internal/infrastructure/inspect"
	"github.com/documind/docrouter/internal/infrastructure/queue/nats"
	"github.com/documind/docrouter/internal/infrastructure/resilience"
	"github.com/documind/docrouter/internal/infrastructure/storage/localfs"
	"github.com/documind/docrouter/internal/infrastructure/store/memory"
	"github.com/documind/docrouter/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Handler    http.Handler
	Queue      ports.MessageQueue
	ClassifyUC ports.ClassificationService

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	m := metrics.New("docrouter")

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
		RetryMaxBackoff:     cfg.RetryMaxBackoff,
		BreakerEnabled:      true,
	})

	storage, err := localfs.New(cfg.BlobPath)
	if err != nil {
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	taxonomy, err := gemini.LoadTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	classifier := gemini.New(cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiAPIKey, taxonomy, gemini.Options{
		Timeout:  cfg.GeminiTimeout,
		Executor: executor,
	})

	docStore := memory.NewDocumentStore()
	ruleStore := memory.NewRuleStore()
	if cfg.SeedRules {
		seedRules(ruleStore)
	}

	classifyUC := usecase.NewClassifyDocumentUseCase(
		inspect.NewPDFInspector(),
		storage,
		queue,
		classifier,
		docStore,
		m.Pipeline("docrouter"),
	)
	ruleUC := usecase.NewRuleUseCase(ruleStore, docStore)
	exportUC := usecase.NewExportUseCase(docStore)

	router := httpadapter.NewRouter(classifyUC, ruleUC, docStore, exportUC, m, httpadapter.Options{
		MaxUploadBytes:   cfg.MaxUploadBytes,
		RateLimitRPS:     cfg.APIRateLimitRPS,
		RateLimitBurst:   cfg.APIRateLimitBurst,
		MaxConcurrent:    cfg.APIMaxConcurrent,
		BackpressureWait: cfg.APIBackpressureWait,
	})

	return &App{
		Config:     cfg,
		Handler:    router.Handler(),
		Queue:      queue,
		ClassifyUC: classifyUC,
		closeFn:    queue.Close,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// seedRules installs the reference rule set for demos.
func seedRules(store *memory.RuleStore) {
	seeds := []domain.RedistributionRule{
		{
			Name:          "Nóminas y Seguros Sociales",
			Theme:         domain.ThemeRRHHModelA,
			TargetAddress: "nominas@empresa.com",
			Keywords:      []string{"TC1", "Seguridad Social", "Recibo de Salarios"},
			Enabled:       true,
		},
		{
			Name:          "Sanciones de Tráfico",
			Theme:         domain.ThemeSanction,
			TargetAddress: "legal@empresa.com",
			Keywords:      []string{"DGT", "Multa", "Exceso Velocidad", "Matrícula"},
			Enabled:       true,
		},
	}
	for _, rule := range seeds {
		if _, err := store.Add(rule); err != nil {
			return
		}
	}
}
