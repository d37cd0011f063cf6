package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cloudproxy/internal/journal"
	"cloudproxy/internal/outcome"
	"cloudproxy/internal/staging"
)

type reportColumn struct {
	title    string
	numeric  bool
	maxWidth int
}

// report is what an operator command prints: a table for people and a JSON
// payload for --json.
type report struct {
	columns []reportColumn
	rows    []table.Row
	footer  table.Row
	payload any
}

func (r report) write(cmd *cobra.Command, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r.payload)
	}
	_, err := fmt.Fprintln(out, r.render())
	return err
}

func (r report) render() string {
	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(r.columns))
	configs := make([]table.ColumnConfig, len(r.columns))
	for i, col := range r.columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			AlignFooter:      align,
			WidthMax:         col.maxWidth,
			WidthMaxEnforcer: truncate,
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(r.rows)
	if len(r.footer) > 0 {
		tw.AppendFooter(r.footer)
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

type historyEntryJSON struct {
	ID            int64  `json:"id"`
	CorrelationID string `json:"correlation_id"`
	Outcome       string `json:"outcome"`
	ExitCode      int    `json:"exit_code"`
	FinalState    string `json:"final_state"`
	InputPath     string `json:"input_path,omitempty"`
	OutputPath    string `json:"output_path,omitempty"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at"`
	DurationMS    int64  `json:"duration_ms"`
	Error         string `json:"error,omitempty"`
}

func historyReport(entries []journal.Entry) report {
	r := report{
		columns: []reportColumn{
			{title: "Finished"},
			{title: "Correlation ID"},
			{title: "Outcome"},
			{title: "State"},
			{title: "Duration", numeric: true},
			{title: "Error", maxWidth: 60},
		},
		rows: make([]table.Row, 0, len(entries)),
	}
	payload := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		r.rows = append(r.rows, table.Row{
			e.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			e.CorrelationID,
			outcomeLabel(e.Outcome),
			e.FinalState,
			e.Duration.Round(time.Millisecond).String(),
			strings.TrimSpace(e.ErrorMessage),
		})
		payload = append(payload, historyEntryJSON{
			ID:            e.ID,
			CorrelationID: e.CorrelationID,
			Outcome:       e.Outcome.String(),
			ExitCode:      e.Outcome.ExitCode(),
			FinalState:    e.FinalState,
			InputPath:     e.InputPath,
			OutputPath:    e.OutputPath,
			StartedAt:     e.StartedAt.UTC().Format(time.RFC3339Nano),
			FinishedAt:    e.FinishedAt.UTC().Format(time.RFC3339Nano),
			DurationMS:    e.Duration.Milliseconds(),
			Error:         e.ErrorMessage,
		})
	}
	r.payload = payload
	return r
}

// statsReport lists outcomes in exit-code order with a total footer. The JSON
// payload maps outcome names to counts.
func statsReport(stats map[outcome.Outcome]int) report {
	outcomes := make([]outcome.Outcome, 0, len(stats))
	for o := range stats {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })

	r := report{
		columns: []reportColumn{
			{title: "Outcome"},
			{title: "Code", numeric: true},
			{title: "Cycles", numeric: true},
		},
		rows: make([]table.Row, 0, len(outcomes)),
	}
	payload := make(map[string]int, len(stats))
	total := 0
	for _, o := range outcomes {
		r.rows = append(r.rows, table.Row{outcomeLabel(o), strconv.Itoa(o.ExitCode()), strconv.Itoa(stats[o])})
		payload[o.String()] = stats[o]
		total += stats[o]
	}
	r.footer = table.Row{"Total", "", strconv.Itoa(total)}
	r.payload = payload
	return r
}

type stagingListJSON struct {
	Roots []string           `json:"roots"`
	Files []stagingEntryJSON `json:"files"`
}

type stagingEntryJSON struct {
	Store         string    `json:"store"`
	CorrelationID string    `json:"correlation_id"`
	Path          string    `json:"path"`
	ModifiedAt    time.Time `json:"modified_at"`
	SizeBytes     int64     `json:"size_bytes"`
}

func stagingReport(store *staging.Store, files []staging.FileInfo) report {
	r := report{
		columns: []reportColumn{
			{title: "Correlation ID"},
			{title: "Store"},
			{title: "Modified", numeric: true},
			{title: "Size", numeric: true},
		},
		rows: make([]table.Row, 0, len(files)),
	}
	payload := stagingListJSON{Roots: store.Roots(), Files: make([]stagingEntryJSON, 0, len(files))}
	var totalSize int64
	for _, f := range files {
		label := storeLabel(store, f.Root)
		totalSize += f.Size
		r.rows = append(r.rows, table.Row{f.Name, label, humanize.Time(f.ModTime), humanize.Bytes(uint64(f.Size))})
		payload.Files = append(payload.Files, stagingEntryJSON{
			Store:         label,
			CorrelationID: f.Name,
			Path:          f.Path,
			ModifiedAt:    f.ModTime,
			SizeBytes:     f.Size,
		})
	}
	r.footer = table.Row{"Total", fmt.Sprintf("%d files", len(files)), "", humanize.Bytes(uint64(totalSize))}
	r.payload = payload
	return r
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
