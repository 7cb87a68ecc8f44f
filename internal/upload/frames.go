package upload

import (
	"bytes"
	"strings"
)

// assembler turns an arbitrary sequence of byte chunks into complete event
// payloads. Frames are blank-line-terminated; a frame's payload is the
// concatenation of its "data:" lines. The assembler works on raw bytes and
// only slices at newline boundaries, so multi-byte characters split across
// chunk reads are reassembled naturally before any string conversion.
type assembler struct {
	buf        []byte
	terminated bool
}

// push appends a chunk and returns the payloads of every frame completed by
// it, in arrival order. Frames with no data lines yield nothing (comment or
// keep-alive frames).
func (a *assembler) push(chunk []byte) []string {
	if a.terminated {
		return nil
	}
	a.buf = append(a.buf, chunk...)

	var payloads []string
	for {
		sep := bytes.Index(a.buf, []byte("\n\n"))
		if sep == -1 {
			return payloads
		}
		frame := string(a.buf[:sep])
		a.buf = a.buf[sep+2:]

		if payload, ok := framePayload(frame); ok {
			payloads = append(payloads, payload)
		}
	}
}

// terminate drops any buffered partial frame; subsequent pushes are
// ignored. Called when the reader stops on a finished event or error so a
// stray trailing chunk can never surface as a late payload.
func (a *assembler) terminate() {
	a.terminated = true
	a.buf = nil
}

func framePayload(frame string) (string, bool) {
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data = append(data, strings.TrimSpace(line[len("data:"):]))
	}
	if len(data) == 0 {
		return "", false
	}
	return strings.Join(data, "\n"), true
}
