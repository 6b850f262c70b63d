// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the taskfn transformations as MCP tools. Every tool takes the task list in
// its input and returns the transformed list; the server keeps no task state.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
	"github.com/valter-silva-au/taskfn/pkg/models"
)

// Server wraps the transformations and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	eventLog    observability.EventLog
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server. eventLog and metricsCalc may be nil if
// observability is disabled.
func NewServer(eventLog observability.EventLog, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		eventLog:    eventLog,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskfn", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskPayload struct {
	ID     int      `json:"id" jsonschema:"caller-assigned task id; uniqueness is not enforced"`
	Title  string   `json:"title" jsonschema:"task title"`
	Tags   []string `json:"tags,omitempty" jsonschema:"ordered tags, duplicates allowed"`
	Done   bool     `json:"done,omitempty" jsonschema:"whether the task is complete"`
	Effort *int     `json:"effort,omitempty" jsonschema:"integer effort, defaults to 1"`
}

type taskOutput struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
	Done   bool     `json:"done"`
	Effort int      `json:"effort"`
}

type tasksInput struct {
	Tasks []taskPayload `json:"tasks" jsonschema:"the task list to operate on, in order"`
}

type tasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addTaskInput struct {
	Tasks []taskPayload `json:"tasks" jsonschema:"the task list to append to"`
	Task  taskPayload   `json:"task" jsonschema:"the task to append"`
}

type minEffortInput struct {
	Tasks     []taskPayload `json:"tasks" jsonschema:"the task list to filter"`
	MinEffort int           `json:"min_effort" jsonschema:"keep tasks whose effort is at least this value"`
}

type prefixInput struct {
	Tasks  []taskPayload `json:"tasks" jsonschema:"the task list to retitle"`
	Prefix string        `json:"prefix" jsonschema:"text prepended verbatim to every title"`
}

type tagInput struct {
	Tasks []taskPayload `json:"tasks" jsonschema:"the task list to update"`
	Tag   string        `json:"tag" jsonschema:"tasks carrying this tag are marked done"`
}

type pipelineInput struct {
	Tasks []taskPayload `json:"tasks" jsonschema:"the task list to run the pipeline over"`
	Steps []string      `json:"steps" jsonschema:"ordered steps: sort, min-effort=N, tag=T, prefix=P, complete=T, pending, done"`
}

type summaryOutput struct {
	Totals map[string]int `json:"totals"`
	Tags   []string       `json:"tags"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	Operations       int            `json:"operations"`
	OperationsByType map[string]int `json:"operations_by_type"`
	TasksIn          int            `json:"tasks_in"`
	TasksOut         int            `json:"tasks_out"`
	Errors           int            `json:"errors"`
	ErrorsByType     map[string]int `json:"errors_by_type,omitempty"`
	Warnings         int            `json:"warnings"`
	EventCount       int            `json:"event_count"`
	OldestEvent      string         `json:"oldest_event,omitempty"`
	NewestEvent      string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Append a task to the end of a task list. Duplicate ids are allowed.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "sort_tasks",
		Description: "Sort tasks by title, case-insensitively. Tasks with equal titles keep their order.",
	}, s.handleSortTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "filter_min_effort",
		Description: "Keep only tasks whose effort is at least min_effort, preserving order.",
	}, s.handleFilterMinEffort)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "prefix_titles",
		Description: "Prepend a prefix to every task title.",
	}, s.handlePrefixTitles)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_with_tag",
		Description: "Mark every task carrying the given tag as done. Other tasks are unchanged.",
	}, s.handleCompleteWithTag)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "summarize_effort",
		Description: "Total effort per tag. A task adds its full effort to each of its tags.",
	}, s.handleSummarizeEffort)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "run_pipeline",
		Description: "Apply a sequence of steps to a task list.",
	}, s.handleRunPipeline)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated operation metrics from the event log.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, tasksOutput, error) {
	list := payloadToList(input.Tasks)
	out := core.AddTask(list, payloadToTask(input.Task))
	s.record(observability.EventTaskAdded, list, out, map[string]any{"id": input.Task.ID})
	return nil, listToOutput(out), nil
}

func (s *Server) handleSortTasks(_ context.Context, _ *gomcp.CallToolRequest, input tasksInput) (*gomcp.CallToolResult, tasksOutput, error) {
	list := payloadToList(input.Tasks)
	out := core.SortTasksByTitle(list)
	s.record(observability.EventTasksSorted, list, out, nil)
	return nil, listToOutput(out), nil
}

func (s *Server) handleFilterMinEffort(_ context.Context, _ *gomcp.CallToolRequest, input minEffortInput) (*gomcp.CallToolResult, tasksOutput, error) {
	list := payloadToList(input.Tasks)
	out := core.FilterTasks(list, core.MakeMinEffortPredicate(input.MinEffort))
	s.record(observability.EventTasksFiltered, list, out, map[string]any{"min_effort": input.MinEffort})
	return nil, listToOutput(out), nil
}

func (s *Server) handlePrefixTitles(_ context.Context, _ *gomcp.CallToolRequest, input prefixInput) (*gomcp.CallToolResult, tasksOutput, error) {
	list := payloadToList(input.Tasks)
	out := core.MapTasks(list, core.MakeTitlePrefixer(input.Prefix))
	s.record(observability.EventTasksMapped, list, out, map[string]any{"prefix": input.Prefix})
	return nil, listToOutput(out), nil
}

func (s *Server) handleCompleteWithTag(_ context.Context, _ *gomcp.CallToolRequest, input tagInput) (*gomcp.CallToolResult, tasksOutput, error) {
	if input.Tag == "" {
		return s.fail("complete_with_tag", errors.New("tag is required")), tasksOutput{Tasks: []taskOutput{}}, nil
	}
	list := payloadToList(input.Tasks)
	out := core.CompleteAllWithTag(list, input.Tag)
	s.record(observability.EventTasksCompleted, list, out, map[string]any{"tag": input.Tag})
	return nil, listToOutput(out), nil
}

func (s *Server) handleSummarizeEffort(_ context.Context, _ *gomcp.CallToolRequest, input tasksInput) (*gomcp.CallToolResult, summaryOutput, error) {
	list := payloadToList(input.Tasks)
	totals := core.SummarizeEffortByTag(list)
	s.record(observability.EventTasksSummarized, list, list, map[string]any{"tags": len(totals)})
	return nil, summaryOutput{Totals: totals, Tags: core.SortedTags(totals)}, nil
}

func (s *Server) handleRunPipeline(_ context.Context, _ *gomcp.CallToolRequest, input pipelineInput) (*gomcp.CallToolResult, tasksOutput, error) {
	p, err := core.ParsePipeline(input.Steps)
	if err != nil {
		return s.fail("run_pipeline", fmt.Errorf("parsing pipeline: %w", err)), tasksOutput{Tasks: []taskOutput{}}, nil
	}
	list := payloadToList(input.Tasks)
	out := p.Apply(list)
	s.record(observability.EventPipelineRun, list, out, map[string]any{"steps": p.Steps()})
	return nil, listToOutput(out), nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := ParseSince(sinceStr)
	if err != nil {
		return s.fail("get_metrics", fmt.Errorf("parsing since duration: %w", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return s.fail("get_metrics", fmt.Errorf("calculating metrics: %w", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		Operations:       metrics.Operations,
		OperationsByType: metrics.OperationsByType,
		TasksIn:          metrics.TasksIn,
		TasksOut:         metrics.TasksOut,
		Errors:           metrics.Errors,
		ErrorsByType:     metrics.ErrorsByType,
		Warnings:         metrics.Warnings,
		EventCount:       metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

// record logs an operation event. Logging failures never fail a tool call.
func (s *Server) record(eventType string, in, out models.TaskList, extra map[string]any) {
	if s.eventLog == nil {
		return
	}
	if extra == nil {
		extra = map[string]any{}
	}
	extra["source"] = "mcp"
	_ = s.eventLog.Write(observability.OperationEvent(eventType, in.Len(), out.Len(), extra))
}

// fail records a tool.failed event and returns err as an error result.
func (s *Server) fail(tool string, err error) *gomcp.CallToolResult {
	if s.eventLog != nil {
		extra := map[string]any{"tool": tool, "source": "mcp"}
		_ = s.eventLog.Write(observability.ErrorEvent(observability.EventToolFailed, err, extra))
	}
	return errorResult(err.Error())
}

func payloadToTask(p taskPayload) models.Task {
	opts := []models.TaskOption{models.WithTags(p.Tags...), models.WithDone(p.Done)}
	if p.Effort != nil {
		opts = append(opts, models.WithEffort(*p.Effort))
	}
	return models.NewTask(p.ID, p.Title, opts...)
}

func payloadToList(ps []taskPayload) models.TaskList {
	tasks := make([]models.Task, len(ps))
	for i, p := range ps {
		tasks[i] = payloadToTask(p)
	}
	return models.NewTaskList(tasks...)
}

func listToOutput(l models.TaskList) tasksOutput {
	out := tasksOutput{
		Tasks: make([]taskOutput, l.Len()),
		Count: l.Len(),
	}
	for i := 0; i < l.Len(); i++ {
		t := l.At(i)
		out.Tasks[i] = taskOutput{
			ID:     t.ID,
			Title:  t.Title,
			Tags:   t.Tags,
			Done:   t.Done,
			Effort: t.Effort,
		}
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		OperationsByType: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// ParseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func ParseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must not be negative", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
