package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	recordPrefix     = "data: "
	terminatorRecord = "[DONE]"
	readChunkSize    = 4096
)

var (
	// ErrStreamTruncated is returned when the transport closes before the
	// terminator record was observed.
	ErrStreamTruncated = errors.New("completion: stream ended before terminator")
	// ErrResponseParse is returned when the accumulated content does not
	// parse as one JSON document once the terminator arrives.
	ErrResponseParse = errors.New("completion: response is not valid JSON")
)

// Reassembler reconstructs a chunked chat-completion response into a single
// JSON document. A record boundary may fall anywhere inside a network read,
// so unconsumed trailing bytes are carried between reads. Each instance owns
// its accumulator state; create one per stream.
type Reassembler struct {
	partial string
	buffer  strings.Builder
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Content returns the text accumulated from all deltas so far.
func (r *Reassembler) Content() string {
	return r.buffer.String()
}

// Consume reads event records from stream until the terminator record,
// concatenating each record's content delta in arrival order. Records that
// do not parse as provider frames are skipped; onRecord fires once per
// well-formed record. On the terminator the accumulated content is
// unmarshalled into out. A transport close before the terminator yields
// ErrStreamTruncated; a terminal parse failure yields ErrResponseParse.
func (r *Reassembler) Consume(ctx context.Context, stream io.Reader, out any, onRecord func()) error {
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := stream.Read(buf)
		if n > 0 {
			lines := strings.Split(r.partial+string(buf[:n]), "\n")
			r.partial = lines[len(lines)-1]
			for _, line := range lines[:len(lines)-1] {
				done, err := r.consumeRecord(strings.TrimSuffix(line, "\r"), out, onRecord)
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return ErrStreamTruncated
			}
			return fmt.Errorf("read stream: %w", readErr)
		}
	}
}

func (r *Reassembler) consumeRecord(line string, out any, onRecord func()) (done bool, err error) {
	if !strings.HasPrefix(line, recordPrefix) {
		return false, nil
	}
	data := line[len(recordPrefix):]
	if data == terminatorRecord {
		if err := json.Unmarshal([]byte(r.buffer.String()), out); err != nil {
			return false, fmt.Errorf("%w: %s", ErrResponseParse, err)
		}
		return true, nil
	}

	var frame openai.ChatCompletionStreamResponse
	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		// Keep-alive or garbled record; only the terminal parse is fatal.
		return false, nil
	}
	if len(frame.Choices) > 0 {
		r.buffer.WriteString(frame.Choices[0].Delta.Content)
	}
	if onRecord != nil {
		onRecord()
	}
	return false, nil
}
