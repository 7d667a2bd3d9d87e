package reader

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linescout/linescout/internal/fs"
)

func newTestReader(t *testing.T, limits Limits, files map[string][]byte) *Reader {
	t.Helper()
	mockFS := fs.NewMockFS()
	for path, data := range files {
		mockFS.WriteFile(path, data)
	}
	return New(mockFS, limits)
}

func TestReadEntireFile(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"main.go": []byte("package main\n\nfunc main() {}\n"),
	})

	result, err := r.Read(context.Background(), Request{Path: "main.go"})
	require.NoError(t, err)

	require.Len(t, result.Lines, 3)
	assert.Equal(t, Line{Number: 1, Text: "package main"}, result.Lines[0])
	assert.Equal(t, Line{Number: 2, Text: ""}, result.Lines[1])
	assert.Equal(t, Line{Number: 3, Text: "func main() {}"}, result.Lines[2])
	assert.True(t, result.EndOfFile)
	assert.False(t, result.Capped)
	assert.Zero(t, result.TruncatedLines)
}

func TestReadWindow(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, "line")
	}
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"ten.txt": []byte(strings.Join(lines, "\n")),
	})

	result, err := r.Read(context.Background(), Request{Path: "ten.txt", LineOffset: 5, NLines: 3})
	require.NoError(t, err)

	require.Len(t, result.Lines, 3)
	assert.Equal(t, 6, result.Lines[0].Number)
	assert.Equal(t, 7, result.Lines[1].Number)
	assert.Equal(t, 8, result.Lines[2].Number)
	assert.False(t, result.EndOfFile)
}

func TestReadWindowReachingEnd(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"four.txt": []byte("a\nb\nc\nd"),
	})

	result, err := r.Read(context.Background(), Request{Path: "four.txt", LineOffset: 2, NLines: 5})
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, 3, result.Lines[0].Number)
	assert.Equal(t, 4, result.Lines[1].Number)
	assert.True(t, result.EndOfFile)
}

func TestReadCapsRequestedLines(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "x")
	}
	r := newTestReader(t, Limits{MaxLines: 5, MaxLineLength: 100}, map[string][]byte{
		"twenty.txt": []byte(strings.Join(lines, "\n")),
	})

	result, err := r.Read(context.Background(), Request{Path: "twenty.txt", NLines: 10})
	require.NoError(t, err)

	assert.Len(t, result.Lines, 5)
	assert.True(t, result.Capped)
	assert.False(t, result.EndOfFile)
}

func TestReadDefaultPageSizeIsNotCapped(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "x")
	}
	r := newTestReader(t, Limits{MaxLines: 5, MaxLineLength: 100}, map[string][]byte{
		"twenty.txt": []byte(strings.Join(lines, "\n")),
	})

	result, err := r.Read(context.Background(), Request{Path: "twenty.txt"})
	require.NoError(t, err)

	// The default page size hits the limit without the caller asking for
	// more, so the cap flag stays clear.
	assert.Len(t, result.Lines, 5)
	assert.False(t, result.Capped)
}

func TestReadTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("a", 25)
	r := newTestReader(t, Limits{MaxLines: 100, MaxLineLength: 10}, map[string][]byte{
		"long.txt": []byte("short\n" + long + "\nshort"),
	})

	result, err := r.Read(context.Background(), Request{Path: "long.txt"})
	require.NoError(t, err)

	require.Len(t, result.Lines, 3)
	assert.Equal(t, "short", result.Lines[0].Text)
	assert.Equal(t, strings.Repeat("a", 10)+EllipsisMarker, result.Lines[1].Text)
	assert.Equal(t, 1, result.TruncatedLines)
}

func TestReadTruncatesByRunesNotBytes(t *testing.T) {
	long := strings.Repeat("ä", 8)
	r := newTestReader(t, Limits{MaxLines: 100, MaxLineLength: 5}, map[string][]byte{
		"umlaut.txt": []byte(long),
	})

	result, err := r.Read(context.Background(), Request{Path: "umlaut.txt"})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, strings.Repeat("ä", 5)+EllipsisMarker, result.Lines[0].Text)
}

func TestReadReplacesInvalidUTF8(t *testing.T) {
	content := append([]byte("valid "), 0xff, 0xfe)
	content = append(content, []byte(" tail\nnext line")...)
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"bin.log": content,
	})

	result, err := r.Read(context.Background(), Request{Path: "bin.log"})
	require.NoError(t, err)

	require.Len(t, result.Lines, 2)
	assert.Contains(t, result.Lines[0].Text, "�")
	assert.Contains(t, result.Lines[0].Text, "valid ")
	assert.Contains(t, result.Lines[0].Text, " tail")
	assert.Equal(t, "next line", result.Lines[1].Text)
}

func TestReadOffsetPastEndOfFile(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"small.txt": []byte("one\ntwo"),
	})

	result, err := r.Read(context.Background(), Request{Path: "small.txt", LineOffset: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Lines)
	assert.True(t, result.EndOfFile)
}

func TestReadEmptyFile(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"empty.txt": {},
	})

	result, err := r.Read(context.Background(), Request{Path: "empty.txt"})
	require.NoError(t, err)

	assert.Empty(t, result.Lines)
	assert.True(t, result.EndOfFile)
}

func TestReadErrors(t *testing.T) {
	mockFS := fs.NewMockFS()
	mockFS.WriteFile("dir/file.txt", []byte("content"))
	mockFS.WriteFile("denied.txt", []byte("secret"))
	mockFS.Deny("denied.txt")
	r := New(mockFS, DefaultLimits())

	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{"missing file", Request{Path: "missing.txt"}, ErrNotFound},
		{"directory", Request{Path: "dir"}, ErrNotFound},
		{"permission denied", Request{Path: "denied.txt"}, ErrPermissionDenied},
		{"empty path", Request{}, ErrInvalidParameter},
		{"negative offset", Request{Path: "dir/file.txt", LineOffset: -1}, ErrInvalidParameter},
		{"negative n_lines", Request{Path: "dir/file.txt", NLines: -2}, ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Read(context.Background(), tt.request)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestReadIsIdempotent(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"stable.txt": []byte("alpha\nbeta\ngamma"),
	})

	request := Request{Path: "stable.txt", LineOffset: 1, NLines: 2}
	first, err := r.Read(context.Background(), request)
	require.NoError(t, err)
	second, err := r.Read(context.Background(), request)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests returned different results:\n%+v\n%+v", first, second)
	}
}

func TestReadCancelledContext(t *testing.T) {
	r := newTestReader(t, DefaultLimits(), map[string][]byte{
		"file.txt": []byte("one\ntwo\nthree"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Read(ctx, Request{Path: "file.txt"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestNewAppliesDefaultLimits(t *testing.T) {
	r := New(fs.NewMockFS(), Limits{})
	assert.Equal(t, DefaultLimits(), r.Limits())
}
