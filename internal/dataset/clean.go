package dataset

import (
	"strings"

	"github.com/go-gota/gota/series"
)

// Clean strips prefix from every label, leaving only the category name
// (e.g. "Iris-setosa" becomes "setosa"). Repeated leading copies of the
// prefix are removed too, so applying Clean twice gives the same table as
// applying it once. It returns the number of labels that changed.
func Clean(t *Table, prefix string) int {
	if prefix == "" {
		return 0
	}

	labels := t.Labels()
	changed := 0
	for i, label := range labels {
		cleaned := StripPrefix(label, prefix)
		if cleaned != label {
			labels[i] = cleaned
			changed++
		}
	}
	if changed == 0 {
		return 0
	}

	t.df = t.df.Mutate(series.New(labels, series.String, t.schema.Label))
	return changed
}

// StripPrefix removes every leading occurrence of prefix from label.
func StripPrefix(label, prefix string) string {
	if prefix == "" {
		return label
	}
	for strings.HasPrefix(label, prefix) {
		label = label[len(prefix):]
	}
	return label
}
