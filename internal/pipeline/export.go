package pipeline

import (
	"os"
	"path/filepath"

	"contactbase/internal/dataset"
)

// ExportDataset writes ds to outputPath in the format implied by its
// extension. The file only appears once it is completely written.
func ExportDataset(ds *dataset.Dataset, outputPath string) (err error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := dataset.Write(tmp, ds, dataset.FormatFromPath(outputPath)); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), outputPath)
}
