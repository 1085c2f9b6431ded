// Package report aggregates fit results across a batch of portraits into
// summary statistics, for regression-checking positioning behavior over a
// corpus.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"idphoto/internal/facefit"
)

// Sample is one processed portrait. Err records a detect or decode
// failure; such samples count against the success rate but contribute no
// measurements.
type Sample struct {
	Path   string         `json:"path"`
	Result facefit.Result `json:"result"`
	Err    string         `json:"error,omitempty"`
}

// Stats summarizes one measurement across the batch.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Summary is the aggregated batch outcome.
type Summary struct {
	Count       int     `json:"count"`
	Positioned  int     `json:"positioned"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`

	Scale         Stats `json:"scale"`
	HeadHeight    Stats `json:"head_height_px"`
	EyeFromBottom Stats `json:"eye_from_bottom_px"`

	Samples []Sample `json:"samples,omitempty"`
}

// Summarize aggregates the samples. Failed samples and fallback results
// are excluded from the measurement statistics.
func Summarize(samples []Sample) Summary {
	s := Summary{Count: len(samples), Samples: samples}

	var scales, heads, eyes []float64
	for _, smp := range samples {
		if smp.Err != "" {
			s.Failed++
			continue
		}
		if !smp.Result.PositioningSuccess {
			continue
		}
		s.Positioned++
		scales = append(scales, smp.Result.ScaleFactor)
		heads = append(heads, smp.Result.AchievedHeadHeightPx)
		eyes = append(eyes, smp.Result.AchievedEyeFromBottomPx)
	}
	if s.Count > 0 {
		s.SuccessRate = float64(s.Positioned) / float64(s.Count)
	}
	s.Scale = describe(scales)
	s.HeadHeight = describe(heads)
	s.EyeFromBottom = describe(eyes)
	return s
}

func describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Stats{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Min:    sorted[0],
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// WriteTable prints the summary as an aligned table.
func (s Summary) WriteTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "samples\t%d\n", s.Count)
	fmt.Fprintf(tw, "positioned\t%d\n", s.Positioned)
	fmt.Fprintf(tw, "failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "success rate\t%.1f%%\n", s.SuccessRate*100)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "measure\tmean\tstddev\tmin\tq25\tmedian\tq75\tmax")
	writeStatsRow(tw, "scale", s.Scale, "%.3f")
	writeStatsRow(tw, "head px", s.HeadHeight, "%.1f")
	writeStatsRow(tw, "eye px", s.EyeFromBottom, "%.1f")
	tw.Flush()
}

func writeStatsRow(w io.Writer, name string, st Stats, f string) {
	fmt.Fprintf(w, "%s\t"+f+"\t"+f+"\t"+f+"\t"+f+"\t"+f+"\t"+f+"\t"+f+"\n",
		name, st.Mean, st.StdDev, st.Min, st.Q25, st.Median, st.Q75, st.Max)
}

// SaveJSON writes the full summary, samples included, to path.
func (s Summary) SaveJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
