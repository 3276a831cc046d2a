package pipeline

import (
	"contactbase/internal"
	"contactbase/internal/config"
	"contactbase/internal/dataset"
	"contactbase/internal/util"
)

// Columns names the expected input columns.
type Columns struct {
	Email      string
	Salutation string
	Company    string
	JobTitle   string
}

func DefaultColumns() Columns {
	return Columns{
		Email:      "E-Mail-Adresse",
		Salutation: "Anrede",
		Company:    "Firmenname",
		JobTitle:   "Jobtitel",
	}
}

func ColumnsFromConfig(cfg config.Config) Columns {
	def := DefaultColumns()
	return Columns{
		Email:      util.FirstNonEmpty(cfg.ColumnEmail, def.Email),
		Salutation: util.FirstNonEmpty(cfg.ColumnSalutation, def.Salutation),
		Company:    util.FirstNonEmpty(cfg.ColumnCompany, def.Company),
		JobTitle:   util.FirstNonEmpty(cfg.ColumnJobTitle, def.JobTitle),
	}
}

func DerivedColumn(source string) string {
	return "Cleaned_" + source
}

// FilterRows drops duplicate e-mails (keeping the first) and rows without a
// salutation, in that order. Survivors keep their input order. A missing
// column turns its step into a no-op and yields one warning.
func FilterRows(ds *dataset.Dataset, opts internal.ProcessingOptions, cols Columns) []internal.Warning {
	var warnings []internal.Warning

	if opts.DeduplicateByEmail {
		if idx, ok := ds.Column(cols.Email); ok {
			dedupeBy(ds, idx)
		} else {
			warnings = append(warnings, internal.MissingColumnWarning(internal.StepDeduplicate, cols.Email))
		}
	}

	if opts.RequireSalutation {
		if idx, ok := ds.Column(cols.Salutation); ok {
			ds.Filter(func(row dataset.Row) bool { return row[idx] != nil })
		} else {
			warnings = append(warnings, internal.MissingColumnWarning(internal.StepSalutation, cols.Salutation))
		}
	}

	return warnings
}

// dedupeBy keeps the first row per distinct value of column idx. Missing
// values count as one shared value.
func dedupeBy(ds *dataset.Dataset, idx int) int {
	seen := map[string]struct{}{}
	seenNull := false
	return ds.Filter(func(row dataset.Row) bool {
		v := row[idx]
		if v == nil {
			if seenNull {
				return false
			}
			seenNull = true
			return true
		}
		if _, ok := seen[*v]; ok {
			return false
		}
		seen[*v] = struct{}{}
		return true
	})
}
