package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwulff/waveline/internal/db"
	"github.com/jwulff/waveline/internal/waveform"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *db.Store) error {
				projects, err := store.Projects()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects")
					return nil
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{
						p.ID,
						p.Name,
						formatMs(p.DurationMs),
						p.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Duration", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var window float64

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a project's segments with suggested voice alignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *db.Store) error {
				doc, err := ctx.loadDocument(store)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), inspectDocument(doc, window))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&window, "window", waveform.DefaultSearchWindow, "Voice search window in seconds")
	return cmd
}

// inspectDocument renders the segment table. The Voice column shows the
// region alignment would move each segment to, or "-" when the analyzer
// finds none.
func inspectDocument(doc *db.Document, window float64) string {
	buf := doc.Waveform.Buffer()

	rows := make([][]string, 0, doc.Snapshot.Len())
	for _, seg := range doc.Snapshot.SortedByStart() {
		voice := "-"
		if !buf.Empty() {
			r, ok := waveform.FindVoiceRegion(buf, float64(seg.StartMs)/1000, float64(seg.EndMs)/1000, window)
			if ok {
				voice = formatMs(int64(math.Round(r.Start*1000))) + "-" + formatMs(int64(math.Round(r.End*1000)))
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(seg.ID),
			strconv.Itoa(seg.Track),
			formatMs(seg.StartMs),
			formatMs(seg.EndMs),
			voice,
			seg.Text,
		})
	}

	status := "none"
	if w := doc.Waveform; w != nil {
		status = "ready"
		if w.Generating {
			status = fmt.Sprintf("generating %.0f%%", w.Progress)
		}
	}

	header := fmt.Sprintf("%s (%s)  %d segments  duration %s  waveform %s\n",
		doc.Project.Name, doc.Project.ID, doc.Snapshot.Len(), formatMs(doc.Snapshot.DurationMs), status)
	if len(rows) == 0 {
		return header
	}
	return header + renderTable(
		[]string{"ID", "Track", "Start", "End", "Voice", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	) + "\n"
}

func formatMs(ms int64) string {
	ms = max(ms, 0)
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}
