package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/storage"
	"github.com/valter-silva-au/taskfn/pkg/models"
	"gopkg.in/yaml.v3"
)

// Style definitions.
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	effortStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// renderer writes task lists and summaries in one output format.
type renderer struct {
	w      io.Writer
	format models.OutputFormat
	color  bool
}

func newRenderer(w io.Writer, format models.OutputFormat, color bool) *renderer {
	return &renderer{w: w, format: format, color: color}
}

func (r *renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Tasks renders a task list.
func (r *renderer) Tasks(list models.TaskList) error {
	switch r.format {
	case models.FormatJSON:
		tasks := list.Tasks()
		if tasks == nil {
			tasks = []models.Task{}
		}
		return r.writeJSON(tasks)
	case models.FormatYAML:
		return storage.EncodeTaskList(r.w, list)
	default:
		return r.taskTable(list)
	}
}

// Summary renders per-tag effort totals with tags in ascending order.
func (r *renderer) Summary(totals map[string]int) error {
	switch r.format {
	case models.FormatJSON:
		return r.writeJSON(totals)
	case models.FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(totals); err != nil {
			return fmt.Errorf("encoding summary as YAML: %w", err)
		}
		return enc.Close()
	default:
		return r.summaryTable(totals)
	}
}

func (r *renderer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting output as JSON: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

func (r *renderer) taskTable(list models.TaskList) error {
	if list.Len() == 0 {
		_, err := fmt.Fprintln(r.w, "No tasks.")
		return err
	}

	rows := make([][5]string, list.Len())
	widths := [5]int{len("ID"), len("TITLE"), len("TAGS"), len("EFFORT"), len("DONE")}
	for i := 0; i < list.Len(); i++ {
		t := list.At(i)
		done := "[ ]"
		if t.Done {
			done = "[x]"
		}
		rows[i] = [5]string{
			strconv.Itoa(t.ID),
			t.Title,
			strings.Join(t.Tags, ", "),
			strconv.Itoa(t.Effort),
			done,
		}
		for c, cell := range rows[i] {
			if n := lipgloss.Width(cell); n > widths[c] {
				widths[c] = n
			}
		}
	}

	header := strings.Join([]string{
		pad("ID", widths[0]), pad("TITLE", widths[1]), pad("TAGS", widths[2]), pad("EFFORT", widths[3]), "DONE",
	}, "  ")
	if _, err := fmt.Fprintln(r.w, r.paint(tableHeaderStyle, header)); err != nil {
		return err
	}

	for i, row := range rows {
		doneCell := r.paint(pendingStyle, row[4])
		if list.At(i).Done {
			doneCell = r.paint(doneStyle, row[4])
		}
		line := fmt.Sprintf("%s  %s  %s  %s  %s",
			pad(row[0], widths[0]),
			pad(row[1], widths[1]),
			r.paint(tagStyle, pad(row[2], widths[2])),
			r.paint(effortStyle, pad(row[3], widths[3])),
			doneCell,
		)
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) summaryTable(totals map[string]int) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(r.w, "No tags.")
		return err
	}

	tags := core.SortedTags(totals)
	width := len("TAG")
	for _, tag := range tags {
		if n := lipgloss.Width(tag); n > width {
			width = n
		}
	}

	header := fmt.Sprintf("%-*s  %s", width, "TAG", "EFFORT")
	if _, err := fmt.Fprintln(r.w, r.paint(tableHeaderStyle, header)); err != nil {
		return err
	}
	for _, tag := range tags {
		line := fmt.Sprintf("%s  %s",
			r.paint(tagStyle, pad(tag, width)),
			r.paint(effortStyle, strconv.Itoa(totals[tag])))
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
