// Package reader implements bounded, line-oriented file reads for the
// read_file tool. Reads are windowed by a line offset and line count,
// capped by configured limits, and tolerate malformed UTF-8 by
// substituting the Unicode replacement character instead of failing.
package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/linescout/linescout/internal/consts"
	"github.com/linescout/linescout/internal/fs"
)

var (
	// ErrInvalidParameter indicates an out-of-range request parameter
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotFound indicates the path does not exist or is not a regular file
	ErrNotFound = errors.New("not found or not a regular file")
	// ErrPermissionDenied indicates the filesystem denied read access
	ErrPermissionDenied = errors.New("permission denied")
)

const (
	// EllipsisMarker is appended to lines shortened to the maximum line length
	EllipsisMarker = "..."

	// replacementMarker substitutes byte sequences that do not decode as UTF-8
	replacementMarker = "�"
)

// Limits bounds the output volume of a single read
type Limits struct {
	MaxLines      int
	MaxLineLength int
}

// DefaultLimits returns the process-wide default limits
func DefaultLimits() Limits {
	return Limits{
		MaxLines:      consts.MaxLinesPerRead,
		MaxLineLength: consts.MaxLineLengthPerRead,
	}
}

// Request describes one bounded read
type Request struct {
	Path string
	// LineOffset is the 0-based index of the first line to return
	LineOffset int
	// NLines is the number of lines requested; 0 means the maximum page size
	NLines int
}

// Line is one rendered line with its 1-based line number in the source file
type Line struct {
	Number int
	Text   string
}

// Result is the outcome of one bounded read. Limit overruns are reported
// here rather than as errors so the caller can adjust its next request.
type Result struct {
	Lines          []Line
	TruncatedLines int  // lines shortened to MaxLineLength
	Capped         bool // requested NLines exceeded MaxLines
	EndOfFile      bool // the window reaches the last line of the file
}

// Reader performs bounded reads against a filesystem. It holds no mutable
// state and is safe for concurrent use.
type Reader struct {
	fs     fs.FileSystem
	limits Limits
}

// New creates a Reader with the given limits. Non-positive limit fields
// fall back to the defaults.
func New(filesystem fs.FileSystem, limits Limits) *Reader {
	if limits.MaxLines <= 0 {
		limits.MaxLines = consts.MaxLinesPerRead
	}
	if limits.MaxLineLength <= 0 {
		limits.MaxLineLength = consts.MaxLineLengthPerRead
	}
	return &Reader{fs: filesystem, limits: limits}
}

// Limits returns the configured limits
func (r *Reader) Limits() Limits {
	return r.limits
}

// Read reads one window of lines from the file at req.Path. Malformed
// encoding and limit overruns degrade the result instead of failing it;
// only bad parameters and filesystem failures return errors.
func (r *Reader) Read(ctx context.Context, req Request) (*Result, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: path is required", ErrInvalidParameter)
	}
	if req.LineOffset < 0 {
		return nil, fmt.Errorf("%w: line_offset must be >= 0, got %d", ErrInvalidParameter, req.LineOffset)
	}
	if req.NLines < 0 {
		return nil, fmt.Errorf("%w: n_lines must be > 0, got %d", ErrInvalidParameter, req.NLines)
	}

	info, err := r.fs.Stat(ctx, req.Path)
	if err != nil {
		return nil, pathError(req.Path, err)
	}
	if !info.IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
	}

	file, err := r.fs.Open(ctx, req.Path)
	if err != nil {
		return nil, pathError(req.Path, err)
	}
	defer file.Close()

	nLines := req.NLines
	capped := false
	if nLines == 0 {
		nLines = r.limits.MaxLines
	} else if nLines > r.limits.MaxLines {
		nLines = r.limits.MaxLines
		capped = true
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, consts.BufferSize64KB), consts.BufferSize10MB)

	result := &Result{Capped: capped}
	lineNumber := 0

	for len(result.Lines) < nLines && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			// Abandon the read; partial results are discarded
			return nil, err
		}

		lineNumber++
		if lineNumber <= req.LineOffset {
			continue
		}

		text := strings.ToValidUTF8(scanner.Text(), replacementMarker)
		text, truncated := truncateLine(text, r.limits.MaxLineLength)
		if truncated {
			result.TruncatedLines++
		}

		result.Lines = append(result.Lines, Line{Number: lineNumber, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, pathError(req.Path, err)
	}

	// The window ends at EOF if no further line can be read
	if !scanner.Scan() && scanner.Err() == nil {
		result.EndOfFile = true
	}

	return result, nil
}

// pathError maps filesystem errors onto the reader's error taxonomy
func pathError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}
}

// truncateLine shortens text to max characters, appending the ellipsis
// marker when it was longer. Counted in runes, not bytes.
func truncateLine(text string, max int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}
	return string(runes[:max]) + EllipsisMarker, true
}
