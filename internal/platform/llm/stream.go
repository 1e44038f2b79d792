package llm

import (
	"bufio"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"
)

const (
	eventPrefix   = "data: "
	eventSentinel = "[DONE]"

	maxEventLine = 1 << 20
)

type generateChunk struct {
	Content string `json:"content"`
}

// Stream is a lazy, single-pass sequence of generated text chunks.
// Each call to Next reads from the network until a chunk is available,
// the [DONE] sentinel is seen, or the body ends.
//
//	stream, err := client.Generate(ctx, prompt)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//		fmt.Print(stream.Current())
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current string
	err     error
	done    bool
}

func newStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	return &Stream{body: body, scanner: scanner}
}

// Next advances to the next non-empty chunk. It returns false once the stream
// has finished or failed; check Err to tell the two apart.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if line == "" || !strings.HasPrefix(line, eventPrefix) {
			continue
		}

		data := line[len(eventPrefix):]
		if data == eventSentinel {
			s.finish(nil)
			return false
		}

		var chunk generateChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// malformed events are dropped
			continue
		}
		if chunk.Content == "" {
			continue
		}

		s.current = chunk.Content
		return true
	}

	s.finish(s.scanner.Err())
	return false
}

// Current returns the chunk produced by the last successful call to Next.
func (s *Stream) Current() string {
	return s.current
}

// Err returns the first read error encountered, if any.
// Reaching the sentinel or the end of the body is not an error.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying connection. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.finish(nil)
	return nil
}

// Collect drains the stream into a slice and closes it.
func (s *Stream) Collect() ([]string, error) {
	defer s.Close()

	var chunks []string
	for s.Next() {
		chunks = append(chunks, s.Current())
	}
	return chunks, s.Err()
}

func (s *Stream) finish(err error) {
	s.done = true
	s.current = ""
	if err != nil && s.err == nil {
		s.err = err
	}
	_ = s.body.Close()
}
