// Package upload drives the PDF upload flow: it builds the multipart
// request and parses the streamed progress events the server emits while
// converting the document. The reader never touches the entity store; the
// caller refreshes navigation after a terminal event.
package upload

import "fmt"

type Code string

const (
	CodeUploadDone Code = "UPLOAD_DONE"
	CodeOcrDone    Code = "OCR_DONE"
	CodeOcrSkipped Code = "OCR_SKIPPED"
	CodeAiDone     Code = "AI_DONE"
	CodeComplete   Code = "COMPLETE"
	CodeError      Code = "ERROR"
)

type Mode string

const (
	// ModeFull runs the whole pipeline: images, OCR, AI analysis.
	ModeFull Mode = "FULL"
	// ModeSimple skips OCR.
	ModeSimple Mode = "SIMPLE"
)

// ProcessEvent is one progress frame from the upload stream. NoteID is nil
// until the server has created the note. Finished is true exactly on the
// terminal event (COMPLETE or ERROR).
type ProcessEvent struct {
	Code     Code   `json:"code"`
	Message  string `json:"message"`
	NoteID   *int64 `json:"noteId"`
	Finished bool   `json:"finished"`
	Mode     Mode   `json:"mode"`
}

func (e ProcessEvent) Err() bool {
	return e.Code == CodeError
}

// ProtocolError means a frame arrived that could not be parsed as a
// progress event. It is terminal: the read loop stops rather than guessing
// at the rest of the stream.
type ProtocolError struct {
	Frame string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed progress frame %q: %v", e.Frame, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
