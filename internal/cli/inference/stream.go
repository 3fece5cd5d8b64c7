package inference

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/types"
)

const (
	dataPrefix = "data:"
	doneMarker = "[DONE]"

	// maxLineSize bounds a single stream record
	maxLineSize = 1024 * 1024
)

// ParseStream reads newline-delimited stream records from r and calls emit
// with the text of every chunk, in arrival order. It returns nil at the
// [DONE] marker or end of input, and stops early when emit returns false.
// Records that are not valid JSON are skipped.
func ParseStream(r io.Reader, emit func(fragment string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, dataPrefix) {
			line = strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		}
		if line == doneMarker {
			return nil
		}

		fragment, ok := chunkText(line)
		if !ok {
			continue
		}
		if !emit(fragment) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	return nil
}

// chunkText extracts the text of a chat chunk (choices[0].delta.content) or
// of a completion chunk (choices[0].text). ok is false when there is none or
// the record is not a chunk.
func chunkText(record string) (string, bool) {
	var chunk types.ChatStreamChunk
	if err := sonic.UnmarshalString(record, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}

	choice := chunk.Choices[0]
	if choice.Delta.Content != "" {
		return choice.Delta.Content, true
	}
	if choice.Text != "" {
		return choice.Text, true
	}
	return "", false
}
