package intent

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// LabelReport holds per-label precision, recall, and F1.
type LabelReport struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a classification report over a labeled example set.
// Confusion[i][j] counts examples of label i predicted as label j.
type Report struct {
	Labels    []string      `json:"labels"`
	Accuracy  float64       `json:"accuracy"`
	PerLabel  []LabelReport `json:"per_label"`
	Confusion [][]int       `json:"confusion"`
	Skipped   int           `json:"skipped"`
}

// Evaluate classifies every example and builds a report. Examples whose label
// is outside the classifier's label space are counted as skipped.
func Evaluate(ctx context.Context, c *Classifier, examples []Example) (*Report, error) {
	labels := c.Labels()
	k := labels.Len()

	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}

	report := &Report{Labels: labels.Labels(), Confusion: confusion}

	var total, correct int
	for _, ex := range examples {
		want, ok := labels.Index(ex.Label)
		if !ok {
			report.Skipped++
			continue
		}

		got, _, err := c.Infer(ctx, ex.Text)
		if err != nil {
			return nil, fmt.Errorf("evaluate %q: %w", ex.Text, err)
		}
		gi, _ := labels.Index(got)

		confusion[want][gi]++
		total++
		if gi == want {
			correct++
		}
	}

	if total > 0 {
		report.Accuracy = float64(correct) / float64(total)
	}

	for i := range k {
		var tp, predicted, actual int
		for j := range k {
			predicted += confusion[j][i]
			actual += confusion[i][j]
		}
		tp = confusion[i][i]

		lr := LabelReport{Label: report.Labels[i], Support: actual}
		if predicted > 0 {
			lr.Precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			lr.Recall = float64(tp) / float64(actual)
		}
		if lr.Precision+lr.Recall > 0 {
			lr.F1 = 2 * lr.Precision * lr.Recall / (lr.Precision + lr.Recall)
		}
		report.PerLabel = append(report.PerLabel, lr)
	}

	return report, nil
}

// WriteText renders the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "label\tprecision\trecall\tf1\tsupport\t")
	for _, l := range r.PerLabel {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\t%d\t\n", l.Label, l.Precision, l.Recall, l.F1, l.Support)
	}
	fmt.Fprintf(tw, "accuracy\t\t\t%.3f\t\t\n", r.Accuracy)
	return tw.Flush()
}
