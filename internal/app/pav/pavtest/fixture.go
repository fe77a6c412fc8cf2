// Package pavtest wires the value pipeline over the in-memory backend for
// tests.
package pavtest

import (
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/app/pav/jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/propagation"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/memstore"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/create_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/inherit_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
)

// Start is the initial time of the fixture clock.
var Start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Fixture is a fully wired pipeline.
type Fixture struct {
	Mem      *memstore.Store
	Clock    *clock.MockClock
	Store    *valuestore.Store
	Resolver *inheritance.Resolver
	Queue    *jobs.Queue
	Engine   *propagation.Engine

	Create  *create_value.Interactor
	Update  *update_value.Interactor
	Delete  *delete_value.Interactor
	Inherit *inherit_value.Interactor
}

type options struct {
	policy       propagation.Policy
	completeness bool
	logger       *zap.Logger
}

// Option customizes a Fixture.
type Option func(*options)

// WithPolicy sets the inheritance policy. The default enables cascades.
func WithPolicy(p propagation.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithCompleteness disables the required value check.
func WithCompleteness() Option {
	return func(o *options) { o.completeness = true }
}

// WithLogger sets the logger of every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a fixture over an empty store.
func New(opts ...Option) *Fixture {
	o := options{
		policy: propagation.Policy{RelationInheritance: true},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	mem := memstore.New()
	clk := clock.NewTickingClock(Start, time.Second)

	resolver := inheritance.NewResolver(mem.ValueRepo(), mem.ProductRepo(), mem.HierarchyRepo(), mem.ClassificationAttributeRepo())
	store := valuestore.New(valuestore.Deps{
		UnitOfWork:  mem,
		Values:      mem.ValueRepo(),
		Attributes:  mem.AttributeRepo(),
		ClassAttrs:  mem.ClassificationAttributeRepo(),
		Units:       mem.UnitRepo(),
		EnumOptions: mem.EnumOptionRepo(),
		Channels:    mem.ChannelRepo(),
		Products:    mem.ProductRepo(),
		Notes:       mem.NoteSink(),
		Files:       mem.FileMover(),
		Overrides:   resolver,
		Clock:       clk,
		Logger:      o.logger,
	})
	queue := jobs.NewQueue(mem.JobRepo(), clk)
	engine := propagation.NewEngine(queue, resolver, mem.HierarchyRepo(), o.policy)

	update := update_value.NewInteractor(mem, mem.ValueRepo(), store, engine, o.completeness, o.logger)
	inherit := inherit_value.NewInteractor(mem, mem.ValueRepo(), resolver, update)

	return &Fixture{
		Mem:      mem,
		Clock:    clk,
		Store:    store,
		Resolver: resolver,
		Queue:    queue,
		Engine:   engine,
		Create:   create_value.NewInteractor(mem, store, resolver, engine, inherit, o.completeness, o.logger),
		Update:   update,
		Delete:   delete_value.NewInteractor(mem, mem.ValueRepo(), store, engine, o.logger),
		Inherit:  inherit,
	}
}

// Products seeds products named after their ids.
func (f *Fixture) Products(ids ...string) {
	for _, id := range ids {
		f.Mem.PutProduct(&domain.Product{ID: id, Name: "Product " + id})
	}
}

// Attribute seeds an attribute of type t.
func (f *Fixture) Attribute(id string, t domain.AttributeType) *domain.Attribute {
	a := &domain.Attribute{ID: id, Name: id, Type: t}
	f.Mem.PutAttribute(a)
	return a
}

// Varchar seeds a live Global main-language varchar value.
func (f *Fixture) Varchar(id, productID, attributeID, value string) *domain.Value {
	v := &domain.Value{
		ID:            id,
		ProductID:     productID,
		AttributeID:   attributeID,
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr(value),
	}
	f.Mem.PutValue(v)
	return v
}

// JobsOf returns the jobs of the given entity type.
func (f *Fixture) JobsOf(entityType string) []*domain.Job {
	var out []*domain.Job
	for _, j := range f.Mem.Jobs() {
		if j.EntityType == entityType {
			out = append(out, j)
		}
	}
	return out
}
