package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"contactbase/internal"
	"contactbase/internal/dataset"
	"contactbase/internal/util"
)

type columnStep struct {
	step   internal.Step
	source string
	kind   internal.FieldKind
}

// normalizeColumn adds Cleaned_<source> and fills it for every row with a
// value in source. Rows without a value keep a null derived cell.
func (p *Pipeline) normalizeColumn(ctx context.Context, ds *dataset.Dataset, s columnStep) ([]internal.Warning, []internal.RowError, error) {
	src, ok := ds.Column(s.source)
	if !ok {
		return []internal.Warning{internal.MissingColumnWarning(s.step, s.source)}, nil, nil
	}
	derived := DerivedColumn(s.source)
	dst, err := ds.AddColumn(derived)
	if err != nil {
		return nil, nil, err
	}

	pending := make([]int, 0, ds.Len())
	for i := range ds.Rows {
		if v := ds.Value(i, src); v != nil && *v != "" {
			pending = append(pending, i)
		}
	}
	p.log.Info("normalizing column", "step", s.step, "column", s.source, "rows", len(pending), "workers", p.settings.Workers)

	var (
		mu        sync.Mutex
		rowErrors []internal.RowError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.settings.Workers, 1))
	for _, i := range pending {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := p.normalizer.Normalize(gctx, *ds.Value(i, src), s.kind)
			if err == nil {
				ds.Set(i, dst, util.StringPtr(out))
				return nil
			}
			if p.settings.FailurePolicy == internal.SkipRow && errors.Is(err, internal.ErrExternalService) {
				p.log.Warn("normalization failed, row skipped", "row", i, "column", derived, "err", err)
				mu.Lock()
				rowErrors = append(rowErrors, internal.RowError{Row: i, Column: derived, Err: err})
				mu.Unlock()
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(rowErrors, func(a, b int) bool { return rowErrors[a].Row < rowErrors[b].Row })
	return nil, rowErrors, nil
}
