package irc

import (
	"bytes"
	"strings"
)

// Chunker splits outgoing text into lines that fit within an IRC message.
// Complete lines are emitted as soon as they are written; long lines are
// broken on the last space before the limit.
type Chunker struct {
	emit         func(string)
	buffer       *bytes.Buffer
	maxChunkSize int
}

// NewChunker creates a chunker that hands each finished line to emit.
func NewChunker(emit func(string), maxChunkSize int) *Chunker {
	if maxChunkSize <= 0 {
		maxChunkSize = 350
	}
	return &Chunker{
		emit:         emit,
		buffer:       &bytes.Buffer{},
		maxChunkSize: maxChunkSize,
	}
}

// Write adds content to the buffer and emits every complete line or
// oversized chunk it can.
func (c *Chunker) Write(content string) {
	c.buffer.WriteString(content)

	for {
		data := c.buffer.Bytes()
		nl := bytes.IndexByte(data, '\n')

		switch {
		case nl >= 0 && nl <= c.maxChunkSize:
			line := strings.TrimRight(string(data[:nl]), "\r")
			c.buffer.Next(nl + 1)
			if strings.TrimSpace(line) != "" {
				c.emit(line)
			}
		case c.buffer.Len() > c.maxChunkSize:
			if chunk := c.extractBestSplitChunk(); chunk != "" {
				c.emit(chunk)
			}
		default:
			return
		}
	}
}

func (c *Chunker) extractBestSplitChunk() string {
	data := c.buffer.Bytes()
	end := min(c.maxChunkSize, len(data))

	if idx := bytes.LastIndexByte(data[:end], ' '); idx > 0 {
		chunk := string(data[:idx])
		c.buffer.Next(idx + 1)
		return chunk
	}

	chunk := string(data[:end])
	c.buffer.Next(end)
	return chunk
}

// Flush emits any remaining buffer content.
func (c *Chunker) Flush() {
	if rest := strings.TrimSpace(c.buffer.String()); rest != "" {
		c.emit(c.buffer.String())
	}
	c.buffer.Reset()
}

// Split breaks text into IRC sized lines.
func Split(text string, maxChunkSize int) []string {
	var lines []string
	chunker := NewChunker(func(line string) { lines = append(lines, line) }, maxChunkSize)
	chunker.Write(text)
	chunker.Flush()
	return lines
}
