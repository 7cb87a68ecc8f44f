package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"mynote-cli/internal/api"
)

// Request describes one PDF upload. Exactly one of NewCategoryName (with
// CreateNewCategory) or ExistingCategoryID must be set.
type Request struct {
	File     io.Reader
	FileName string

	NoteTitle  string
	TocPrompt  string
	PagePrompt string

	// SaveAsDefault stores the prompts on the category for future uploads.
	SaveAsDefault bool

	Mode Mode

	CreateNewCategory  bool
	NewCategoryName    string
	ExistingCategoryID int64
}

func (r *Request) validate() error {
	if r.File == nil || strings.TrimSpace(r.FileName) == "" {
		return errors.New("upload: file is required")
	}
	if strings.TrimSpace(r.NoteTitle) == "" {
		return errors.New("upload: note title is required")
	}
	if r.CreateNewCategory {
		if strings.TrimSpace(r.NewCategoryName) == "" {
			return errors.New("upload: newCategoryName is required when creating a category")
		}
	} else if r.ExistingCategoryID == 0 {
		return errors.New("upload: existingCategoryId is required")
	}
	return nil
}

// form builds the multipart body the process-stream endpoint expects.
func (r *Request) form() (io.Reader, string, error) {
	mode := r.Mode
	if mode == "" {
		mode = ModeFull
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", r.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r.File); err != nil {
		return nil, "", fmt.Errorf("upload: read file: %w", err)
	}

	fields := map[string]string{
		"originalFileName":  r.FileName,
		"noteTitle":         r.NoteTitle,
		"mode":              string(mode),
		"createNewCategory": strconv.FormatBool(r.CreateNewCategory),
	}
	if r.TocPrompt != "" {
		fields["tocPrompt"] = r.TocPrompt
	}
	if r.PagePrompt != "" {
		fields["pagePrompt"] = r.PagePrompt
	}
	if r.SaveAsDefault {
		fields["saveAsDefault"] = "true"
	}
	if r.CreateNewCategory {
		fields["newCategoryName"] = r.NewCategoryName
	} else {
		fields["existingCategoryId"] = strconv.FormatInt(r.ExistingCategoryID, 10)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Start uploads the document and streams progress events to onEvent until
// the terminal event, stream end, or context cancellation.
func Start(ctx context.Context, c *api.Client, req Request, onEvent func(ProcessEvent)) error {
	if err := req.validate(); err != nil {
		return err
	}
	body, contentType, err := req.form()
	if err != nil {
		return err
	}
	rc, err := c.Stream(ctx, "POST", "/notes/upload/process-stream", contentType, body)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer rc.Close()
	return Read(ctx, rc, onEvent)
}
