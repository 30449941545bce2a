package build

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/assetpipe/pkg/logger"
	"github.com/fulmenhq/assetpipe/pkg/pipeline"
)

// Skip records a group that produced no new artifact.
type Skip struct {
	Collection string
	Group      pipeline.Group
	Reason     string
}

// Report summarizes BuildOutstanding.
type Report struct {
	Built   []*Result
	Skipped []Skip
}

// BuildOutstanding builds every group that has assets in the named
// collections, or in all collections when none are named. Collections are
// built in parallel. Not-required groups are skipped; hard failures are
// joined into the returned error.
func (b *Builder) BuildOutstanding(ctx context.Context, env *pipeline.Environment, names ...string) (*Report, error) {
	collections, err := selectCollections(env, names)
	if err != nil {
		return nil, err
	}

	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		report = &Report{}
		errs   []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, col := range collections {
		col := col
		g.Go(func() error {
			for _, group := range pipeline.Groups {
				if gctx.Err() != nil {
					return nil
				}
				if len(col.Assets(group)) == 0 {
					continue
				}
				res, err := b.Build(col, group)
				mu.Lock()
				switch {
				case err == nil:
					report.Built = append(report.Built, res)
				case errors.Is(err, ErrBuildNotRequired):
					report.Skipped = append(report.Skipped, Skip{Collection: col.Name(), Group: group, Reason: "unchanged"})
				case errors.Is(err, pipeline.ErrNoAssetsCompiled):
					report.Skipped = append(report.Skipped, Skip{Collection: col.Name(), Group: group, Reason: "no compilable assets"})
				default:
					logger.Error("build failed", logger.String("collection", col.Name()), logger.String("group", group.String()), logger.Err(err))
					errs = append(errs, fmt.Errorf("%s %s: %w", col.Name(), group, err))
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	return report, errors.Join(errs...)
}

func selectCollections(env *pipeline.Environment, names []string) ([]*pipeline.Collection, error) {
	if len(names) == 0 {
		return env.All(), nil
	}
	out := make([]*pipeline.Collection, 0, len(names))
	for _, name := range names {
		col, ok := env.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownCollection, name)
		}
		out = append(out, col)
	}
	return out, nil
}
