// Package service contains the purchase planning orchestration.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/adamistheanswer/pokebay/config"
	"github.com/adamistheanswer/pokebay/internal/domain/model"
	"github.com/adamistheanswer/pokebay/internal/metrics"
	"github.com/adamistheanswer/pokebay/internal/optimize"
	"github.com/adamistheanswer/pokebay/internal/provider/market"
)

// ErrUpstream is returned when a required upstream provider call fails.
var ErrUpstream = errors.New("upstream provider failure")

// ItemProvider resolves a set of card numbers into catalog items.
type ItemProvider interface {
	Items(ctx context.Context, setID string, numbers []string) ([]model.Item, error)
}

// Exporter writes a finished plan to an artifact and returns its path.
type Exporter interface {
	Export(plan *model.Plan) (string, error)
}

// RunRecorder persists a record of a completed planning run.
type RunRecorder interface {
	Create(ctx context.Context, record *model.RunRecord) error
}

// PlanParams carries per-request overrides of the planner defaults.
type PlanParams struct {
	SetID               string
	Numbers             []string
	ShippingPolicy      string
	UnsatisfiablePolicy string
}

// PlanService defines the planning operation exposed to the HTTP layer.
type PlanService interface {
	Plan(ctx context.Context, params PlanParams) (*model.Plan, error)
}

// Planner resolves items, gathers offers concurrently, builds and solves the
// selection program, and decodes the result into a purchase plan.
type Planner struct {
	catalog  ItemProvider
	offers   market.OfferProvider
	engine   optimize.Engine
	exporter Exporter
	runs     RunRecorder
	cfg      config.PlannerConfig
}

// NewPlanner creates a Planner. The exporter and run recorder are optional;
// nil disables the corresponding side effect.
func NewPlanner(catalog ItemProvider, offers market.OfferProvider, engine optimize.Engine, exporter Exporter, runs RunRecorder, cfg config.PlannerConfig) *Planner {
	return &Planner{
		catalog:  catalog,
		offers:   offers,
		engine:   engine,
		exporter: exporter,
		runs:     runs,
		cfg:      cfg,
	}
}

// Plan computes the cheapest way to buy every requested card.
func (p *Planner) Plan(ctx context.Context, params PlanParams) (*model.Plan, error) {
	start := time.Now()
	plan, err := p.plan(ctx, params)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = statusOf(err)
	}
	metrics.RecordPlan(duration, status)
	p.record(ctx, params, plan, err, duration)
	return plan, err
}

func (p *Planner) plan(ctx context.Context, params PlanParams) (*model.Plan, error) {
	shippingStr := params.ShippingPolicy
	if shippingStr == "" {
		shippingStr = p.cfg.ShippingPolicy
	}
	shipping, err := optimize.ParseShippingPolicy(shippingStr)
	if err != nil {
		return nil, err
	}

	unsatisfiableStr := params.UnsatisfiablePolicy
	if unsatisfiableStr == "" {
		unsatisfiableStr = p.cfg.UnsatisfiablePolicy
	}
	unsatisfiable, err := optimize.ParseUnsatisfiablePolicy(unsatisfiableStr)
	if err != nil {
		return nil, err
	}

	items, err := p.catalog.Items(ctx, params.SetID, params.Numbers)
	if err != nil {
		return nil, fmt.Errorf("resolve items for set %s: %w: %v", params.SetID, ErrUpstream, err)
	}

	withOffers, err := p.gatherOffers(ctx, items)
	if err != nil {
		return nil, err
	}

	program, excluded, err := optimize.BuildProgram(withOffers, shipping)
	if err != nil {
		return nil, err
	}
	if len(excluded) > 0 && unsatisfiable == optimize.PolicyAbort {
		names := make([]string, len(excluded))
		for i, it := range excluded {
			names[i] = it.ID
		}
		sort.Strings(names)
		return nil, fmt.Errorf("no offers for items %v: %w", names, optimize.ErrUnsatisfiable)
	}

	solveCtx := ctx
	if p.cfg.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.cfg.SolveTimeout)
		defer cancel()
	}

	solveStart := time.Now()
	result, err := p.engine.Solve(solveCtx, program)
	metrics.RecordSolve(time.Since(solveStart))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", optimize.ErrSolver, err)
	}

	plan, err := optimize.DecodeSolution(program, result, p.cfg.CostTolerance)
	if err != nil {
		return nil, err
	}
	plan.Unsatisfiable = excluded

	if p.exporter != nil {
		path, err := p.exporter.Export(plan)
		if err != nil {
			// Export failure does not invalidate the plan itself.
			log.Error().Err(err).Msg("plan export failed")
		} else {
			plan.ArtifactPath = path
		}
	}
	return plan, nil
}

// gatherOffers fetches offers for every item with bounded concurrency.
// A failed fetch degrades that item to zero offers rather than failing
// the whole run.
func (p *Planner) gatherOffers(ctx context.Context, items []model.Item) ([]model.ItemOffers, error) {
	result := make([]model.ItemOffers, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())
	for i, item := range items {
		g.Go(func() error {
			offers, err := p.offers.Offers(gctx, item)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("item_id", item.ID).Msg("offer fetch failed, item treated as unavailable")
				result[i] = model.ItemOffers{Item: item}
				return nil
			}
			result[i] = model.ItemOffers{Item: item, Offers: offers}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Planner) concurrency() int {
	if p.cfg.FetchConcurrency > 0 {
		return p.cfg.FetchConcurrency
	}
	return 1
}

func (p *Planner) record(ctx context.Context, params PlanParams, plan *model.Plan, planErr error, duration time.Duration) {
	if p.runs == nil {
		return
	}

	record := &model.RunRecord{
		Timestamp:  time.Now(),
		SetID:      params.SetID,
		ItemCount:  len(params.Numbers),
		Status:     "ok",
		DurationMs: duration.Milliseconds(),
	}
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		record.RequestID = rid
	}
	if planErr != nil {
		record.Status = statusOf(planErr)
		record.Error = planErr.Error()
	}
	if plan != nil {
		record.TotalCost = plan.TotalCost
		record.PurchaseCount = len(plan.Purchases)
		record.VendorCount = len(plan.Vendors)
		record.ArtifactPath = plan.ArtifactPath
		for _, it := range plan.Unsatisfiable {
			record.Unsatisfiable = append(record.Unsatisfiable, it.ID)
		}
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.runs.Create(persistCtx, record); err != nil {
		log.Error().Err(err).Msg("failed to persist run record")
	}
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, optimize.ErrUnsatisfiable):
		return "unsatisfiable"
	case errors.Is(err, optimize.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}

type contextKey string

// requestIDKey carries the request ID from the HTTP layer into run records.
const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request ID for run records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
