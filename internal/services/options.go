package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/app/pav/jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/app/pav/propagation"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/get_value"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_groups"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_values"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/memstore"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/spanstore"
	"github.com/light-bringer/pav-service/internal/app/pav/runner"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/cleanup_jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/clear_asset_references"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/create_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/inherit_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/remove_not_inherited"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/save_hierarchy"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/unlink_child"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/unlink_group"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/i18n"
	httphandler "github.com/light-bringer/pav-service/internal/transport/http"
)

// Repositories groups the storage of one backend.
type Repositories struct {
	UnitOfWork  committer.UnitOfWork
	Values      contracts.ValueRepository
	Attributes  contracts.AttributeRepository
	ClassAttrs  contracts.ClassificationAttributeRepository
	Units       contracts.UnitRepository
	EnumOptions contracts.EnumOptionRepository
	Channels    contracts.ChannelRepository
	Products    contracts.ProductRepository
	Hierarchy   contracts.HierarchyRepository
	Jobs        contracts.JobRepository
	Notes       contracts.NoteSink
	Files       contracts.FileMover
}

// MemoryRepositories returns the repositories of an in-memory store.
func MemoryRepositories(mem *memstore.Store) Repositories {
	return Repositories{
		UnitOfWork:  mem,
		Values:      mem.ValueRepo(),
		Attributes:  mem.AttributeRepo(),
		ClassAttrs:  mem.ClassificationAttributeRepo(),
		Units:       mem.UnitRepo(),
		EnumOptions: mem.EnumOptionRepo(),
		Channels:    mem.ChannelRepo(),
		Products:    mem.ProductRepo(),
		Hierarchy:   mem.HierarchyRepo(),
		Jobs:        mem.JobRepo(),
		Notes:       mem.NoteSink(),
		Files:       mem.FileMover(),
	}
}

// SpannerRepositories returns the Spanner backed repositories.
func SpannerRepositories(client *spanner.Client) Repositories {
	return Repositories{
		UnitOfWork:  committer.NewCommitter(client),
		Values:      spanstore.NewValueRepo(),
		Attributes:  spanstore.NewAttributeRepo(),
		ClassAttrs:  spanstore.ClassificationAttributeRepo{},
		Units:       spanstore.UnitRepo{},
		EnumOptions: spanstore.EnumOptionRepo{},
		Channels:    spanstore.ChannelRepo{},
		Products:    spanstore.NewProductRepo(),
		Hierarchy:   spanstore.NewHierarchyRepo(),
		Jobs:        spanstore.NewJobRepo(),
		Notes:       spanstore.NewNoteSink(),
		Files:       spanstore.FileMover{},
	}
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Memory        *memstore.Store

	Repos    Repositories
	Catalog  *i18n.Catalog
	Logger   *zap.Logger
	Usecases httphandler.Usecases

	Runner      *runner.Runner
	CleanupJobs *cleanup_jobs.Interactor
}

// NewServiceOptions creates the repositories of the configured backend and
// wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		mem := memstore.New()
		opts := Wire(MemoryRepositories(mem), cfg, clock.NewRealClock(), logger)
		opts.Memory = mem
		return opts, nil

	case config.BackendSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts := Wire(SpannerRepositories(client), cfg, clock.NewRealClock(), logger)
		opts.SpannerClient = client
		return opts, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Wire builds every component over repos.
func Wire(repos Repositories, cfg *config.Config, clk clock.Clock, logger *zap.Logger) *ServiceOptions {
	uow := repos.UnitOfWork
	completeness := cfg.CompletenessEnabled

	// 1. Core components
	resolver := inheritance.NewResolver(repos.Values, repos.Products, repos.Hierarchy, repos.ClassAttrs)
	store := valuestore.New(valuestore.Deps{
		UnitOfWork:  uow,
		Values:      repos.Values,
		Attributes:  repos.Attributes,
		ClassAttrs:  repos.ClassAttrs,
		Units:       repos.Units,
		EnumOptions: repos.EnumOptions,
		Channels:    repos.Channels,
		Products:    repos.Products,
		Notes:       repos.Notes,
		Files:       repos.Files,
		Overrides:   resolver,
		Clock:       clk,
		Logger:      logger,
	})
	queue := jobs.NewQueue(repos.Jobs, clk)
	engine := propagation.NewEngine(queue, resolver, repos.Hierarchy, propagation.Policy{
		RelationInheritance:  cfg.Inheritance.RelationInheritance,
		UninheritedRelations: cfg.Inheritance.UninheritedRelations,
	})
	preparer := presentation.NewPreparer(repos.Attributes, repos.Channels, resolver)

	// 2. Command use cases
	update := update_value.NewInteractor(uow, repos.Values, store, engine, completeness, logger)
	inherit := inherit_value.NewInteractor(uow, repos.Values, resolver, update)
	create := create_value.NewInteractor(uow, store, resolver, engine, inherit, completeness, logger)
	remove := delete_value.NewInteractor(uow, repos.Values, store, engine, logger)

	uc := httphandler.Usecases{
		CreateValue:          create,
		UpdateValue:          update,
		DeleteValue:          remove,
		InheritValue:         inherit,
		SaveHierarchy:        save_hierarchy.NewInteractor(uow, repos.Hierarchy, repos.Products, clk),
		UnlinkChild:          unlink_child.NewInteractor(uow, repos.Hierarchy, repos.Products),
		UnlinkGroup:          unlink_group.NewInteractor(uow, repos.Values, repos.Attributes, remove, logger),
		RemoveNotInherited:   remove_not_inherited.NewInteractor(uow, repos.Values, repos.Attributes, store, logger),
		ClearAssetReferences: clear_asset_references.NewInteractor(uow, repos.Products, logger),

		// 3. Query use cases
		GetValue:   get_value.NewQuery(uow, repos.Values, preparer),
		ListValues: list_values.NewQuery(uow, repos.Products, repos.Values, preparer),
		ListGroups: list_groups.NewQuery(uow, repos.Products, repos.Values, repos.Attributes, preparer),
		ListJobs:   list_jobs.NewQuery(uow, repos.Jobs),
	}

	// 4. Background work
	jobRunner := runner.New(runner.Deps{
		UnitOfWork: uow,
		Jobs:       repos.Jobs,
		Products:   repos.Products,
		Create:     create,
		Update:     update,
		Delete:     remove,
		Clock:      clk,
		Logger:     logger,
	}, runner.Config{
		BatchSize:     cfg.Runner.BatchSize,
		PollInterval:  cfg.Runner.PollInterval,
		RatePerSecond: cfg.Runner.RatePerSecond,
		Burst:         cfg.Runner.Burst,
	})

	return &ServiceOptions{
		Repos:       repos,
		Catalog:     i18n.MustLoad(),
		Logger:      logger,
		Usecases:    uc,
		Runner:      jobRunner,
		CleanupJobs: cleanup_jobs.NewInteractor(uow, repos.Jobs, clk, logger),
	}
}

// Handler returns the HTTP handler over the wired use cases.
func (s *ServiceOptions) Handler() *httphandler.Handler {
	return httphandler.NewHandler(s.Usecases, s.Catalog, s.Logger)
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
