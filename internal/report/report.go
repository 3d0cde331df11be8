package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"rulematch/internal/app"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

// WriteSummary prints one row per part of the report.
func WriteSummary(w io.Writer, rep *app.Report) {
	table := newTable(w, []string{"PART", "RULES", "NORMALIZED", "BINARY", "SYNTHETIC", "MATCHED"})
	for _, p := range []*app.Part{rep.Base, rep.Overridden} {
		if p == nil {
			continue
		}
		table.Append([]string{
			p.Name,
			fmt.Sprint(p.RulesIn),
			fmt.Sprint(p.RulesOut),
			fmt.Sprint(p.BinaryAlts),
			fmt.Sprint(p.Stats.SyntheticRules),
			fmt.Sprintf("%d/%d", p.Count, len(rep.Candidates)),
		})
	}
	table.Render()
}

// WriteMatches prints every candidate with its outcome under each part.
func WriteMatches(w io.Writer, rep *app.Report) {
	header := []string{"CANDIDATE"}
	parts := []*app.Part{}
	for _, p := range []*app.Part{rep.Base, rep.Overridden} {
		if p != nil {
			header = append(header, strings.ToUpper(p.Name))
			parts = append(parts, p)
		}
	}
	table := newTable(w, header)
	for i, c := range rep.Candidates {
		row := []string{c}
		for _, p := range parts {
			row = append(row, outcome(p.Matched[i]))
		}
		table.Append(row)
	}
	table.Render()
}

func outcome(ok bool) string {
	if ok {
		return "match"
	}
	return "no match"
}

// WriteMetrics prints the rulematch_* series gathered from g.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	table := newTable(w, []string{"METRIC", "LABELS", "VALUE"})
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "rulematch_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			table.Append([]string{mf.GetName(), labels(m), value(mf.GetType(), m)})
		}
	}
	table.Render()
	return nil
}

func labels(m *dto.Metric) string {
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func value(typ dto.MetricType, m *dto.Metric) string {
	switch typ {
	case dto.MetricType_COUNTER:
		return fmt.Sprint(m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprint(m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%.6fs", h.GetSampleCount(), h.GetSampleSum())
	}
	return ""
}
