package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ToolSpec represents the static specification of a tool (name, description,
// parameters). Specs are immutable and carry no runtime dependencies, so a
// single instance can back schema generation for every registry.
type ToolSpec interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
}

// ToolExecutor handles the actual execution of a tool with specific runtime
// dependencies.
type ToolExecutor interface {
	Execute(ctx context.Context, params map[string]interface{}) *ToolResult
}

// ToolFactory creates tool executors with specific runtime dependencies.
// The factory receives the registry so tools can reach other registered tools.
type ToolFactory func(registry *Registry) ToolExecutor

// ToolCall represents a tool call from the LLM
type ToolCall struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result"`
	Error  string      `json:"error,omitempty"`

	// Execution metadata for summaries and diagnostics
	ExecutionMetadata *ExecutionMetadata `json:"execution_metadata,omitempty"`
}

// ExecutionMetadata captures detailed information about tool execution
type ExecutionMetadata struct {
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`

	// Output statistics
	OutputSizeBytes int `json:"output_size_bytes,omitempty"`
	OutputLineCount int `json:"output_line_count,omitempty"`

	ToolType  string `json:"tool_type,omitempty"`
	ErrorType string `json:"error_type,omitempty"` // "not_found", "permission", "invalid_parameter", ...
}

type registryEntry struct {
	spec     ToolSpec
	executor ToolExecutor
}

// Registry manages available tools
type Registry struct {
	entries map[string]*registryEntry
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
	}
}

// RegisterSpec adds a tool spec with a factory to the registry
func (r *Registry) RegisterSpec(spec ToolSpec, factory ToolFactory) {
	r.entries[spec.Name()] = &registryEntry{
		spec:     spec,
		executor: factory(r),
	}
}

// GetExecutor retrieves a tool executor by name
func (r *Registry) GetExecutor(name string) (ToolExecutor, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.executor, true
}

// ListSpecs returns all registered tool specs
func (r *Registry) ListSpecs() []ToolSpec {
	result := make([]ToolSpec, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.spec)
	}
	return result
}

// Execute executes a tool call
func (r *Registry) Execute(ctx context.Context, call *ToolCall) *ToolResult {
	entry, ok := r.entries[call.Name]
	if !ok {
		return &ToolResult{
			ID:    call.ID,
			Error: "tool not found: " + call.Name,
		}
	}

	result := entry.executor.Execute(ctx, call.Parameters)
	if result == nil {
		return &ToolResult{
			ID:    call.ID,
			Error: "tool returned nil result",
		}
	}

	result.ID = call.ID
	return result
}

// ToJSONSchema converts tools to JSON schema format for LLM
func (r *Registry) ToJSONSchema() []map[string]interface{} {
	schemas := make([]map[string]interface{}, 0, len(r.entries))
	for _, entry := range r.entries {
		schemas = append(schemas, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        entry.spec.Name(),
				"description": entry.spec.Description(),
				"parameters":  entry.spec.Parameters(),
			},
		})
	}
	return schemas
}

// CalculateOutputStats computes statistics for output content
func CalculateOutputStats(content string) (bytes int, lines int) {
	if content == "" {
		return 0, 0
	}
	bytes = len(content)
	lines = strings.Count(content, "\n") + 1
	return bytes, lines
}

// Helper function to get string parameter
func GetStringParam(params map[string]interface{}, key string, defaultVal string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// Helper function to get int parameter
func GetIntParam(params map[string]interface{}, key string, defaultVal int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return defaultVal
}
