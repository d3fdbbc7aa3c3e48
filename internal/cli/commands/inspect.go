package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdoi/internal/cli/output"
	"github.com/leapstack-labs/leapdoi/internal/report"
	"github.com/leapstack-labs/leapdoi/internal/workbook"
	"github.com/leapstack-labs/leapdoi/pkg/core"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var combinedPath, schedulePath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Preview the inputs without generating a report",
		Long: `Load and validate the input workbooks and summarise them: record and
owner counts, tracts, rows per interest type and the schedule's allocation table.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format

Use --output to override: auto, text, markdown, json`,
		Example: `  leapdoi inspect --combined combined.xlsx
  leapdoi inspect --combined combined.xlsx --schedule schedule.xlsx -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, combinedPath, schedulePath)
		},
	}
	cmd.Flags().StringVar(&combinedPath, "combined", "", "Combined ownership workbook")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "Schedule workbook (optional)")
	_ = cmd.MarkFlagRequired("combined")
	return cmd
}

func runInspect(cmd *cobra.Command, combinedPath, schedulePath string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	combined, err := workbook.Open(combinedPath)
	if err != nil {
		return fmt.Errorf("failed to open combined workbook: %w", err)
	}
	defer func() { _ = combined.Close() }()

	var schedule workbook.Source
	if schedulePath != "" {
		wb, err := workbook.Open(schedulePath)
		if err != nil {
			return fmt.Errorf("failed to open schedule workbook: %w", err)
		}
		defer func() { _ = wb.Close() }()
		schedule = wb
	}

	p, err := cc.Engine.Preview(cmd.Context(), combined, schedule)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(p)
	}
	inspectText(r, combinedPath, p)
	return nil
}

func inspectText(r *output.Renderer, path string, p *report.Preview) {
	r.Header(1, "Combined Data")
	r.KeyValue("File", path)
	r.KeyValue("Sheet", p.Sheet)
	r.KeyValue("Records", fmt.Sprint(p.Records))
	r.KeyValue("Owners", fmt.Sprint(p.Owners))
	r.KeyValue("Tracts", fmt.Sprintf("%d (%s)", len(p.Tracts), strings.Join(p.Tracts, ", ")))
	if p.Other > 0 {
		r.KeyValue("Other types", fmt.Sprint(p.Other))
	}
	r.Println("")

	rows := make([][]string, 0, len(core.InterestTypes))
	for _, t := range core.InterestTypes {
		rows = append(rows, []string{string(t), fmt.Sprint(p.ByType[string(t)])})
	}
	r.Header(2, "Rows by Interest Type")
	r.Table([]string{"Type", "Rows"}, rows, 1)

	if p.Allocations != nil {
		rows = rows[:0]
		for _, a := range p.Allocations {
			rows = append(rows, []string{a.Tract, a.Legal, a.Acres, a.Factor})
		}
		r.Header(2, "Tract Allocation")
		r.Table([]string{"Tract", "Legal Description", "Acres", "Allocation"}, rows, 2, 3)
		r.KeyValue("Allocation total", p.AllocationTotal)
	}

	for _, w := range p.Warnings {
		r.Warning(w.String())
	}
}
