package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"mynote-cli/internal/logger"
)

// Read consumes a progress stream and invokes onEvent once per complete
// frame. It returns when a finished event arrives (remaining bytes are left
// unread), on end of stream, on context cancellation, or with a
// *ProtocolError if a frame fails to parse. No events are delivered after
// any of those.
func Read(ctx context.Context, r io.Reader, onEvent func(ProcessEvent)) error {
	var asm assembler
	defer asm.terminate()

	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			for _, payload := range asm.push(buf[:n]) {
				var evt ProcessEvent
				if jerr := json.Unmarshal([]byte(payload), &evt); jerr != nil {
					return &ProtocolError{Frame: payload, Err: jerr}
				}
				onEvent(evt)
				if evt.Finished {
					logger.Debug("upload stream finished", map[string]interface{}{"code": string(evt.Code)})
					return nil
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// A cancelled request surfaces as a read error on the body;
			// report the cancellation, not the transport noise.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}
