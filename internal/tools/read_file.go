package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linescout/linescout/internal/logger"
	"github.com/linescout/linescout/internal/reader"
	"github.com/linescout/linescout/internal/session"
)

// ReadFileSpec is the static specification of the read_file tool. The
// configured limits are substituted into the description at load time so
// the agent knows the page size before its first call.
type ReadFileSpec struct {
	limits reader.Limits
}

func NewReadFileSpec(limits reader.Limits) *ReadFileSpec {
	return &ReadFileSpec{limits: limits}
}

func (s *ReadFileSpec) Name() string {
	return ToolNameReadFile
}

func (s *ReadFileSpec) Description() string {
	return fmt.Sprintf(
		"Read a text file from the filesystem (format: [padded line number][space][line]). "+
			"Returns at most %d lines per call; lines longer than %d characters are shortened with a trailing %q. "+
			"Malformed UTF-8 is replaced, never fatal. Batch multiple reads in one turn where possible. "+
			"Use %s for directories, %s for content search and %s to inspect non-text files.",
		s.limits.MaxLines, s.limits.MaxLineLength, reader.EllipsisMarker,
		ToolNameListDir, ToolNameSearchFiles, ToolNameShell,
	)
}

func (s *ReadFileSpec) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to read (absolute, or relative to the working directory)",
			},
			"line_offset": map[string]interface{}{
				"type":        "integer",
				"description": "Number of lines to skip before reading (0-indexed, optional, default 0)",
			},
			"n_lines": map[string]interface{}{
				"type":        "integer",
				"description": fmt.Sprintf("Number of lines to return (optional, default and maximum %d)", s.limits.MaxLines),
			},
		},
		"required": []string{"path"},
	}
}

// ReadFileExecutor handles the actual execution of the read_file tool.
type ReadFileExecutor struct {
	reader  *reader.Reader
	session *session.Session
}

// NewReadFileExecutor creates a new executor for the read_file tool.
func NewReadFileExecutor(r *reader.Reader, sess *session.Session) *ReadFileExecutor {
	return &ReadFileExecutor{
		reader:  r,
		session: sess,
	}
}

// NewReadFileFactory creates a factory for the read_file tool executor.
func NewReadFileFactory(r *reader.Reader, sess *session.Session) ToolFactory {
	return func(reg *Registry) ToolExecutor {
		return NewReadFileExecutor(r, sess)
	}
}

func (e *ReadFileExecutor) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	start := time.Now()

	path := GetStringParam(params, "path", "")
	if path == "" {
		return e.errorResult(start, "path is required", "invalid_parameter")
	}

	request := reader.Request{Path: path}

	if _, ok := params["line_offset"]; ok {
		offset := GetIntParam(params, "line_offset", -1)
		if offset < 0 {
			return e.errorResult(start, "line_offset must be a non-negative integer", "invalid_parameter")
		}
		request.LineOffset = offset
	}

	if _, ok := params["n_lines"]; ok {
		nLines := GetIntParam(params, "n_lines", 0)
		if nLines <= 0 {
			return e.errorResult(start, "n_lines must be a positive integer", "invalid_parameter")
		}
		request.NLines = nLines
	}

	logger.Debug("read_file: path=%s, line_offset=%d, n_lines=%d", path, request.LineOffset, request.NLines)

	result, err := e.reader.Read(ctx, request)
	if err != nil {
		logger.Warn("read_file: %v", err)
		return e.errorResult(start, err.Error(), readErrorType(err))
	}

	content := renderReadResult(path, result, e.reader.Limits().MaxLines)

	// Track file as read in session
	if e.session != nil {
		e.session.TrackFileRead(path, content)
	}

	logger.Info("read_file: successfully read %s (%d lines, %d truncated, capped=%t, eof=%t)",
		path, len(result.Lines), result.TruncatedLines, result.Capped, result.EndOfFile)

	sizeBytes, lineCount := CalculateOutputStats(content)
	end := time.Now()

	return &ToolResult{
		Result: map[string]interface{}{
			"path":            path,
			"content":         content,
			"lines":           len(result.Lines),
			"truncated_lines": result.TruncatedLines,
			"capped":          result.Capped,
			"end_of_file":     result.EndOfFile,
			"format":          "[padded line number] [line]",
		},
		ExecutionMetadata: &ExecutionMetadata{
			StartTime:       &start,
			EndTime:         &end,
			DurationMs:      end.Sub(start).Milliseconds(),
			OutputSizeBytes: sizeBytes,
			OutputLineCount: lineCount,
			ToolType:        ToolNameReadFile,
		},
	}
}

func (e *ReadFileExecutor) errorResult(start time.Time, message, errorType string) *ToolResult {
	end := time.Now()
	return &ToolResult{
		Error: message,
		ExecutionMetadata: &ExecutionMetadata{
			StartTime:  &start,
			EndTime:    &end,
			DurationMs: end.Sub(start).Milliseconds(),
			ToolType:   ToolNameReadFile,
			ErrorType:  errorType,
		},
	}
}

// readErrorType maps reader errors to metadata error classes
func readErrorType(err error) string {
	switch {
	case errors.Is(err, reader.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, reader.ErrNotFound):
		return "not_found"
	case errors.Is(err, reader.ErrPermissionDenied):
		return "permission"
	default:
		return "unknown"
	}
}

// renderReadResult assembles the text block returned to the agent: a file
// content marker, the line format notice, the numbered window and trailing
// notices for capping and continuation.
func renderReadResult(path string, result *reader.Result, maxLines int) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[File content: %s]", path))
	parts = append(parts, "[Line format: [padded line number] [line]]")

	if numbered := formatNumberedLines(result.Lines); numbered != "" {
		parts = append(parts, numbered)
	}

	if result.Capped {
		parts = append(parts, fmt.Sprintf("\n[... output capped at %d lines. Use line_offset to continue reading]", maxLines))
	} else if !result.EndOfFile {
		parts = append(parts, "\n[... more lines follow. Use line_offset to continue reading]")
	}

	return strings.Join(parts, "\n")
}

// formatNumberedLines prefixes each line with its right-aligned 1-based
// line number, padded to the width of the window's last line number.
func formatNumberedLines(lines []reader.Line) string {
	if len(lines) == 0 {
		return ""
	}

	width := len(fmt.Sprintf("%d", lines[len(lines)-1].Number))
	formatted := make([]string, len(lines))

	for i, line := range lines {
		formatted[i] = fmt.Sprintf("%*d %s", width, line.Number, line.Text)
	}

	return strings.Join(formatted, "\n")
}
