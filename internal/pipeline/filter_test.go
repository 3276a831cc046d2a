package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbase/internal"
	"contactbase/internal/dataset"
)

func sp(v string) *string { return &v }

func buildDataset(t *testing.T, columns []string, rows ...dataset.Row) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(columns)
	for _, r := range rows {
		require.NoError(t, ds.Append(r))
	}
	return ds
}

func column(t *testing.T, ds *dataset.Dataset, name string) []*string {
	t.Helper()
	idx, ok := ds.Column(name)
	require.True(t, ok, "column %s missing", name)
	out := make([]*string, 0, ds.Len())
	for _, row := range ds.Rows {
		out = append(out, row[idx])
	}
	return out
}

func contacts(t *testing.T) *dataset.Dataset {
	return buildDataset(t, []string{"E-Mail-Adresse", "Anrede", "Firmenname", "Jobtitel"},
		dataset.Row{sp("a@x.com"), sp("Herr"), sp("ATLAS Media GmbH"), sp("CEO")},
		dataset.Row{sp("b@x.com"), nil, sp("HIT Feinkost Spezialitäten"), nil},
		dataset.Row{sp("a@x.com"), sp("Frau"), nil, sp("CTO")},
		dataset.Row{sp("c@x.com"), sp("Frau"), sp("Kontor Nord AG"), sp("Leiter Vertrieb")},
		dataset.Row{nil, sp("Herr"), nil, nil},
		dataset.Row{sp("b@x.com"), sp("Herr"), nil, nil},
		dataset.Row{nil, sp("Frau"), nil, nil},
	)
}

func TestFilterRowsDedupeAndSalutation(t *testing.T) {
	ds := buildDataset(t, []string{"email", "salutation"},
		dataset.Row{sp("a@x.com"), sp("Herr")},
		dataset.Row{sp("a@x.com"), sp("Frau")},
		dataset.Row{sp("b@x.com"), nil},
	)
	cols := Columns{Email: "email", Salutation: "salutation"}

	warnings := FilterRows(ds, internal.ProcessingOptions{DeduplicateByEmail: true, RequireSalutation: true}, cols)

	assert.Empty(t, warnings)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, dataset.Row{sp("a@x.com"), sp("Herr")}, ds.Rows[0])
}

func TestFilterRowsDedupeKeepsFirstInOrder(t *testing.T) {
	ds := contacts(t)

	warnings := FilterRows(ds, internal.ProcessingOptions{DeduplicateByEmail: true}, DefaultColumns())

	assert.Empty(t, warnings)
	assert.Equal(t, []*string{sp("a@x.com"), sp("b@x.com"), sp("c@x.com"), nil}, column(t, ds, "E-Mail-Adresse"))
	assert.Equal(t, []*string{sp("Herr"), nil, sp("Frau"), sp("Herr")}, column(t, ds, "Anrede"))
}

func TestFilterRowsDedupeIsIdempotent(t *testing.T) {
	once := contacts(t)
	FilterRows(once, internal.ProcessingOptions{DeduplicateByEmail: true}, DefaultColumns())

	twice := once.Clone()
	FilterRows(twice, internal.ProcessingOptions{DeduplicateByEmail: true}, DefaultColumns())

	assert.Equal(t, once.Rows, twice.Rows)
}

func TestFilterRowsWithoutDedupeOnlyDropsMissingSalutation(t *testing.T) {
	ds := contacts(t)
	initial := ds.Len()
	missing := 0
	for _, v := range column(t, ds, "Anrede") {
		if v == nil {
			missing++
		}
	}

	FilterRows(ds, internal.ProcessingOptions{RequireSalutation: true}, DefaultColumns())

	assert.Equal(t, initial-missing, ds.Len())
	for _, v := range column(t, ds, "Anrede") {
		assert.NotNil(t, v)
	}
}

func TestFilterRowsMissingColumnsWarn(t *testing.T) {
	ds := buildDataset(t, []string{"Firmenname"},
		dataset.Row{sp("ATLAS Media GmbH")},
		dataset.Row{sp("ATLAS Media GmbH")},
		dataset.Row{nil},
	)

	warnings := FilterRows(ds, internal.ProcessingOptions{DeduplicateByEmail: true, RequireSalutation: true}, DefaultColumns())

	assert.Equal(t, 3, ds.Len())
	require.Len(t, warnings, 2)
	assert.Equal(t, internal.MissingColumnWarning(internal.StepDeduplicate, "E-Mail-Adresse"), warnings[0])
	assert.Equal(t, internal.MissingColumnWarning(internal.StepSalutation, "Anrede"), warnings[1])
	assert.Equal(t, "Column 'Anrede' not found.", warnings[1].Message)
}

func TestFilterRowsNoOptionsIsNoop(t *testing.T) {
	ds := contacts(t)
	before := ds.Clone()

	assert.Empty(t, FilterRows(ds, internal.ProcessingOptions{}, DefaultColumns()))
	assert.Equal(t, before.Rows, ds.Rows)
}

func TestColumnsFromConfigFallsBack(t *testing.T) {
	cols := ColumnsFromConfig(configWithColumns("", "Salutation", "", "Title"))
	assert.Equal(t, Columns{Email: "E-Mail-Adresse", Salutation: "Salutation", Company: "Firmenname", JobTitle: "Title"}, cols)
	assert.Equal(t, "Cleaned_Title", DerivedColumn(cols.JobTitle))
}
