package pipeline

import (
	"context"
	"time"

	"contactbase/internal"
	"contactbase/internal/config"
	"contactbase/internal/dataset"
	"contactbase/internal/logger"
	"contactbase/internal/normalizer"
)

type Settings struct {
	Columns       Columns
	Workers       int
	FailurePolicy internal.FailurePolicy
}

func SettingsFromConfig(cfg config.Config) (Settings, error) {
	policy, err := internal.ParseFailurePolicy(cfg.NormalizeFailurePolicy)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Columns:       ColumnsFromConfig(cfg),
		Workers:       max(cfg.NormalizeWorkers, 1),
		FailurePolicy: policy,
	}, nil
}

type Pipeline struct {
	normalizer normalizer.Normalizer
	settings   Settings
	log        logger.Logger
}

func NewPipeline(n normalizer.Normalizer, settings Settings, log logger.Logger) *Pipeline {
	if settings.Columns == (Columns{}) {
		settings.Columns = DefaultColumns()
	}
	if settings.Workers <= 0 {
		settings.Workers = 1
	}
	if settings.FailurePolicy == "" {
		settings.FailurePolicy = internal.FailFast
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{normalizer: n, settings: settings, log: log}
}

type Result struct {
	Dataset     *dataset.Dataset
	RowsRemoved int
	Warnings    []internal.Warning
	// RowErrors is only filled under the skip failure policy.
	RowErrors []internal.RowError
}

// Process filters ds in place and then adds the requested derived columns.
// RowsRemoved only reflects the filter stage; normalization never drops rows.
func (p *Pipeline) Process(ctx context.Context, ds *dataset.Dataset, opts internal.ProcessingOptions) (Result, error) {
	start := time.Now()
	initial := ds.Len()

	warnings := FilterRows(ds, opts, p.settings.Columns)
	res := Result{Dataset: ds, RowsRemoved: initial - ds.Len(), Warnings: warnings}
	p.log.Info("filter stage done", "rows_in", initial, "rows_out", ds.Len(), "removed", res.RowsRemoved)

	steps := make([]columnStep, 0, 2)
	if opts.NormalizeCompanyNames {
		steps = append(steps, columnStep{step: internal.StepCleanCompanyName, source: p.settings.Columns.Company, kind: internal.CompanyName})
	}
	if opts.NormalizeJobTitles {
		steps = append(steps, columnStep{step: internal.StepCleanJobTitle, source: p.settings.Columns.JobTitle, kind: internal.JobTitle})
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		stepWarnings, rowErrors, err := p.normalizeColumn(ctx, ds, s)
		if err != nil {
			return Result{}, err
		}
		res.Warnings = append(res.Warnings, stepWarnings...)
		res.RowErrors = append(res.RowErrors, rowErrors...)
	}

	for _, w := range res.Warnings {
		p.log.Warn(w.Message, "step", w.Step, "column", w.Column)
	}
	p.log.Info("processing done", "rows", ds.Len(), "removed", res.RowsRemoved, "row_errors", len(res.RowErrors), "totalMs", time.Since(start).Milliseconds())
	return res, nil
}
