package consts

// File read limits
const (
	// MaxLinesPerRead is the maximum number of lines that can be returned from a single read
	MaxLinesPerRead = 2000
	// MaxLineLengthPerRead is the maximum number of characters per returned line before truncation
	MaxLineLengthPerRead = 2000
)

// Buffer sizes for scanning file content
const (
	// BufferSize64KB is 64 kilobytes
	BufferSize64KB = 64 * 1024
	// BufferSize10MB is 10 megabytes, the largest single line the scanner accepts
	BufferSize10MB = 10 * 1024 * 1024
)
