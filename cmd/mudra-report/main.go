// Command mudra-report renders an offline HTML report for a recorded
// control session: per-intent counts, a per-minute activity timeline,
// and summary statistics over confidences and event pacing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ayusman/mudra/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "path to the event database (default ~/.mudra/mudra.db)")
	session := flag.String("session", "", "session to report on (default most recent)")
	outPath := flag.String("out", "mudra-report.html", "output HTML file")
	flag.Parse()

	if *dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		*dbPath = filepath.Join(home, ".mudra", "mudra.db")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	id := *session
	if id == "" {
		sessions, err := st.Events().Sessions()
		if err != nil {
			log.Fatalf("Failed to list sessions: %v", err)
		}
		if len(sessions) == 0 {
			log.Fatal("No recorded sessions")
		}
		id = sessions[0]
	}

	events, err := st.Events().ListBySession(id)
	if err != nil {
		log.Fatalf("Failed to load events: %v", err)
	}
	if len(events) == 0 {
		log.Fatalf("No events recorded for session %s", id)
	}

	report := buildReport(id, events)
	printSummary(report)

	if err := renderHTML(report, *outPath); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	fmt.Printf("Report written to %s\n", *outPath)
}

// printSummary writes the aggregate numbers to stdout.
func printSummary(r *Report) {
	fmt.Printf("Session %s: %d events over %s\n",
		r.SessionID, r.Total, r.End.Sub(r.Start).Round(time.Second))
	for _, ic := range r.Intents {
		fmt.Printf("  %-16s %d\n", ic.Intent, ic.Count)
	}
	fmt.Printf("Confidence: mean %.2f, stddev %.2f, median %.2f, p90 %.2f\n",
		r.Confidence.Mean, r.Confidence.StdDev, r.Confidence.Median, r.Confidence.P90)
	if r.Gaps.N > 0 {
		fmt.Printf("Event gap:  mean %.1fs, stddev %.1fs, median %.1fs, p90 %.1fs\n",
			r.Gaps.Mean, r.Gaps.StdDev, r.Gaps.Median, r.Gaps.P90)
	}
}

// renderHTML writes the standalone chart page for the report.
func renderHTML(r *Report, path string) error {
	page := components.NewPage()
	page.AddCharts(intentBarChart(r), timelineChart(r))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

// intentBarChart plots per-intent event counts.
func intentBarChart(r *Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mudra Session Report"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Events by intent",
			Subtitle: fmt.Sprintf("session %s, %d events", r.SessionID, r.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(r.Intents))
	items := make([]opts.BarData, 0, len(r.Intents))
	for _, ic := range r.Intents {
		names = append(names, ic.Intent)
		items = append(items, opts.BarData{Value: ic.Count})
	}
	bar.SetXAxis(names).
		AddSeries("events", items,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// timelineChart plots per-minute event counts.
func timelineChart(r *Report) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Events per minute"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)

	minutes := make([]string, 0, len(r.Timeline))
	items := make([]opts.LineData, 0, len(r.Timeline))
	for _, b := range r.Timeline {
		minutes = append(minutes, b.Minute.Format("15:04"))
		items = append(items, opts.LineData{Value: b.Count})
	}
	line.SetXAxis(minutes).
		AddSeries("events", items).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
