package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"contactbase/internal"
	"contactbase/internal/dataset"
)

type FileRequest struct {
	InputPath  string
	OutputPath string
	Options    internal.ProcessingOptions
	Read       dataset.ReadOptions
}

type FileResult struct {
	RunID       string
	OutputPath  string
	Rows        int
	RowsRemoved int
	Warnings    []internal.Warning
	RowErrors   []internal.RowError
}

// ProcessFile reads the input, runs the pipeline and writes the output.
// Nothing is written when any step fails or ctx is cancelled.
func (p *Pipeline) ProcessFile(ctx context.Context, req FileRequest) (FileResult, error) {
	runID := uuid.NewString()
	run := &Pipeline{normalizer: p.normalizer, settings: p.settings, log: p.log.With("run_id", runID)}

	ds, err := LoadDataset(req.InputPath, req.Read)
	if err != nil {
		return FileResult{}, err
	}
	run.log.Info("input loaded", "input", req.InputPath, "rows", ds.Len(), "columns", len(ds.Columns))

	res, err := run.Process(ctx, ds, req.Options)
	if err != nil {
		return FileResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}

	if err := ExportDataset(res.Dataset, req.OutputPath); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", req.OutputPath, err)
	}
	run.log.Info("output written", "output", req.OutputPath, "rows", res.Dataset.Len())

	return FileResult{
		RunID:       runID,
		OutputPath:  req.OutputPath,
		Rows:        res.Dataset.Len(),
		RowsRemoved: res.RowsRemoved,
		Warnings:    res.Warnings,
		RowErrors:   res.RowErrors,
	}, nil
}

func LoadDataset(path string, opts dataset.ReadOptions) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.Read(f, dataset.FormatFromPath(path), opts)
}
