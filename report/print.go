package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/indexbeat/sim"
)

// Money formats a dollar value to cents.
func Money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Pct formats a percentage to two places.
func Pct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// Print writes a plain-text report of s.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Strategy vs Buy-and-Hold: %s\n", s.Ticker)
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Initial:       %s\n", Money(s.Initial))
	if !s.Created.IsZero() {
		fmt.Fprintf(w, "Created:       %s\n", s.Created.Format(time.RFC3339))
	}

	for _, h := range s.Horizons {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s years\n", h.Label())
		fmt.Fprintln(w, "--------------------------------------------------")
		if h.Err != nil {
			fmt.Fprintf(w, "FAILED:        %v\n", h.Err)
			continue
		}
		fmt.Fprintf(w, "Period:        %s to %s\n", h.StartDate.Format("2006-01-02"), h.EndDate.Format("2006-01-02"))
		fmt.Fprintf(w, "Baseline:      %s (%s)\n", Money(h.BaselineFinal), Pct(h.BaselineChange))
		fmt.Fprintf(w, "Strategy:      %s (%s)\n", Money(h.StrategyFinal), Pct(h.StrategyChange))
		fmt.Fprintf(w, "Transactions:  %d\n", h.Transactions)
		fmt.Fprintf(w, "Difference:    %s\n", Pct(h.Difference))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Horizons:      %d ok, %d failed\n", s.Succeeded, len(s.Horizons)-s.Succeeded)
	if s.Succeeded > 0 {
		fmt.Fprintf(w, "Mean Diff:     %s\n", Pct(s.MeanDifference))
	}
	fmt.Fprintln(w)
}

// PrintTrades lists transactions one per line, as "Selling at 401.20, 2024-03-04".
func PrintTrades(w io.Writer, label string, trades []sim.Transaction) {
	fmt.Fprintf(w, "%s years: %d transactions\n", label, len(trades))
	for _, tr := range trades {
		verb := "Buying"
		if tr.Side == sim.Sell {
			verb = "Selling"
		}
		fmt.Fprintf(w, "  %s at %s, %s\n", verb, decimal.NewFromFloat(tr.Price).StringFixed(2), tr.Date.Format("2006-01-02"))
	}
}

var orgFuncs = template.FuncMap{
	"money": Money,
	"pct":   Pct,
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

const orgTemplate = `* BACKTEST: {{.Ticker}} strategy vs buy-and-hold
:PROPERTIES:
:TICKER:      {{.Ticker}}
:INITIAL:     {{money .Initial}}
:HORIZONS:    {{len .Horizons}}
:SUCCEEDED:   {{.Succeeded}}
:MEAN_DIFF:   {{if .Succeeded}}{{pct .MeanDifference}}{{else}}(none){{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Results
| Years | Start | End | Baseline | Baseline % | Strategy | Strategy % | Trades | Diff % |
|-------+-------+-----+----------+------------+----------+------------+--------+--------|
{{- range .Horizons }}
{{- if .Err }}
| {{.Label}} | | | | | | | | failed |
{{- else }}
| {{.Label}} | {{date .StartDate}} | {{date .EndDate}} | {{money .BaselineFinal}} | {{pct .BaselineChange}} | {{money .StrategyFinal}} | {{pct .StrategyChange}} | {{.Transactions}} | {{pct .Difference}} |
{{- end }}
{{- end }}
{{- if .Failed }}

** Failures
{{- range .Failed }}
- {{.Label}} years: {{.Err}}
{{- end }}
{{- end }}
`

var org = template.Must(template.New("org").Funcs(orgFuncs).Parse(orgTemplate))

// WriteOrg renders s as an Org-mode section.
func WriteOrg(w io.Writer, s Summary) error {
	return org.Execute(w, s)
}
