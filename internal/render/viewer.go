package render

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/review"
	"github.com/sourceplane/imagewizard/internal/steps"
	"github.com/sourceplane/imagewizard/internal/validators"
)

// ReviewText renders review sections as one table per section
func ReviewText(sections []review.Section) string {
	if len(sections) == 0 {
		return "Nothing to review"
	}

	var sb strings.Builder
	for i, section := range sections {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetTitle(section.Title)
		for _, item := range section.Items {
			t.AppendRow(table.Row{item.Term, item.Description})
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
		if i < len(sections)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// StepsText renders step navigation in wizard order
func StepsText(list []steps.Step, result steps.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Invalid", "Disable next", "Disable step"})
	for _, step := range list {
		v := result[step.ID]
		t.AppendRow(table.Row{string(step.ID), mark(step.Invalid), mark(v.DisableNext), mark(v.DisableStep)})
	}
	return t.Render() + "\n"
}

// FieldErrorsText renders validation errors, or a success line when empty
func FieldErrorsText(errs []validators.FieldError) string {
	if len(errs) == 0 {
		return "✓ All fields valid\n"
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Problem"})
	for _, e := range errs {
		t.AppendRow(table.Row{e.Field, e.Message})
	}
	return t.Render() + "\n"
}

// HistoryText renders import records newest first
func HistoryText(records []*history.Record) string {
	if len(records) == 0 {
		return "No imports recorded\n"
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "When", "File", "Status", "Blueprint / Reason"})
	for _, rec := range records {
		detail := rec.BlueprintName
		if rec.Status != history.StatusSuccess {
			detail = string(rec.Reason)
		} else if rec.IsOnPrem {
			detail += " (on-premises)"
		}
		t.AppendRow(table.Row{rec.ID, humanize.Time(rec.CreatedAt), rec.Filename, rec.Status, detail})
	}
	return t.Render() + "\n"
}

func mark(b bool) string {
	if b {
		return "✗"
	}
	return "-"
}
