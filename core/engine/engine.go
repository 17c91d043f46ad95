// Package engine orchestrates the three-stage compilation pipeline:
// lower, flatten, partition. CLI and any future API surface are thin
// wrappers around this package.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"modelica-dae/core/dae"
	"modelica-dae/core/flatten"
	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/core/lower"
	"modelica-dae/internal/errors"
	"modelica-dae/internal/logging"
)

// Phase identifies a pipeline stage, in strict execution order.
type Phase int

const (
	PhaseLower Phase = iota
	PhaseFlatten
	PhasePartition
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLower:
		return "lower"
	case PhaseFlatten:
		return "flatten"
	case PhasePartition:
		return "partition"
	default:
		return "unknown"
	}
}

// Pipeline runs the lower, flatten, partition stages in strict order.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a Pipeline. A nil logger falls back to the package's
// global logger.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Logger
	}
	return &Pipeline{logger: logger}
}

// Request is the input to a single compilation.
type Request struct {
	// StoredDefinition is the grammar-level parse tree produced by an
	// external Modelica parser.
	StoredDefinition *grammar.StoredDefinition

	// ModelClassPath is the dotted path (navigating nested classes) of
	// the class to flatten and partition.
	ModelClassPath string
}

// Result is the output of a single compilation.
type Result struct {
	Lowered *ir.StoredDefinition
	Flat    *ir.ClassDefinition
	Dae     *dae.Dae
	Stats   Stats
}

// Stats carries basic timing and size information about the run, useful
// for diagnostics.
type Stats struct {
	ClassesLowered int
	LowerDuration  time.Duration
	TotalDuration  time.Duration
}

// Run executes lower, flatten, partition in order, stopping at the first
// error and reporting which phase produced it. Lowering each of the
// request's independent top-level classes runs concurrently; flatten and
// partition run once, sequentially, over the result.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	return p.RunTo(ctx, req, PhasePartition)
}

// RunTo executes the pipeline up to and including the last phase, leaving
// the later Result fields nil. A flatten-only caller is not failed by a
// partition-stage error this way.
func (p *Pipeline) RunTo(ctx context.Context, req *Request, last Phase) (*Result, error) {
	start := time.Now()

	lowered, lowerDuration, err := p.runLower(ctx, req.StoredDefinition)
	if err != nil {
		return nil, fmt.Errorf("%s phase failed: %w", PhaseLower, err)
	}
	result := &Result{
		Lowered: lowered,
		Stats: Stats{
			ClassesLowered: len(req.StoredDefinition.Classes),
			LowerDuration:  lowerDuration,
		},
	}
	if last == PhaseLower {
		result.Stats.TotalDuration = time.Since(start)
		return result, nil
	}

	fclass, err := p.runFlatten(ctx, lowered, req.ModelClassPath)
	if err != nil {
		return nil, fmt.Errorf("%s phase failed: %w", PhaseFlatten, err)
	}
	result.Flat = fclass
	if last == PhaseFlatten {
		result.Stats.TotalDuration = time.Since(start)
		return result, nil
	}

	partitioned, err := p.runPartition(ctx, fclass)
	if err != nil {
		return nil, fmt.Errorf("%s phase failed: %w", PhasePartition, err)
	}
	result.Dae = partitioned
	result.Stats.TotalDuration = time.Since(start)
	return result, nil
}

// classResult pairs a lowered class with its position in the stored
// definition's declaration order, so concurrent lowering can be merged
// back into a deterministic OrderedMap afterward.
type classResult struct {
	index int
	name  string
	class *ir.ClassDefinition
}

func (p *Pipeline) runLower(ctx context.Context, sd *grammar.StoredDefinition) (*ir.StoredDefinition, time.Duration, error) {
	start := time.Now()
	results := make([]classResult, len(sd.Classes))

	eg, gctx := errgroup.WithContext(ctx)
	for i, cd := range sd.Classes {
		i, cd := i, cd
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Aborted(PhaseLower.String())
			}
			lowered, err := lower.ClassDefinition(cd)
			if err != nil {
				return err
			}
			results[i] = classResult{index: i, name: lowered.Name.Text, class: lowered}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, time.Since(start), err
	}

	out := ir.NewStoredDefinition()
	out.Within = sd.Within
	for _, r := range results {
		out.Classes.Set(r.name, r.class)
	}

	p.logger.Debug("lowered classes", zap.Int("count", len(sd.Classes)))
	return out, time.Since(start), nil
}

func (p *Pipeline) runFlatten(ctx context.Context, def *ir.StoredDefinition, modelClassPath string) (*ir.ClassDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Aborted(PhaseFlatten.String())
	}
	fclass, err := flatten.Flatten(def, modelClassPath)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("flattened class", zap.String("class", modelClassPath),
		zap.Int("components", fclass.Components.Len()))
	return fclass, nil
}

func (p *Pipeline) runPartition(ctx context.Context, fclass *ir.ClassDefinition) (*dae.Dae, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Aborted(PhasePartition.String())
	}
	d, err := dae.Partition(fclass)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("partitioned class",
		zap.Int("x", len(d.X)), zap.Int("y", len(d.Y)), zap.Int("z", len(d.Z)), zap.Int("m", len(d.M)))
	return d, nil
}
