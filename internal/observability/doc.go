// Package observability records what taskfn did. Every CLI and MCP operation
// over a task list appends one event to a JSON Lines (JSONL) log, and metrics
// are derived on demand by reading that log back.
package observability
