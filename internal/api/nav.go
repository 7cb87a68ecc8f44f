package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mynote-cli/internal/model"
)

// NavSnapshot is the combined categories + notes-by-category payload as it
// comes off the wire: both maps are keyed by stringified ids. Normalization
// to numeric-keyed maps happens in internal/normalize.
type NavSnapshot struct {
	Categories      map[string]*model.Category     `json:"categories"`
	NotesByCategory map[string][]model.NoteSummary `json:"notesByCategory"`
}

// TocItemWire is a TOC entry as served by the backend, with the page range
// under its legacy startIndex/endIndex names.
type TocItemWire struct {
	ID          int64  `json:"id"`
	IndexNumber int    `json:"indexNumber"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// RawLogin is the login response before normalization. UserID arrives as a
// string from some backend versions, hence json.Number.
type RawLogin struct {
	UserName string      `json:"userName"`
	UserID   json.Number `json:"userId"`
	Token    string      `json:"token"`
	Role     model.Role  `json:"role"`
	Nav      NavSnapshot `json:"nav"`
}

type noteWire struct {
	ID               int64     `json:"id"`
	CategoryID       int64     `json:"categoryId"`
	UserSeqNo        int64     `json:"userSeqNo"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	OriginalFilename string    `json:"originalFilename"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type noteDetailWire struct {
	Note noteWire         `json:"note"`
	Toc  []TocItemWire    `json:"toc"`
	Page []model.PageItem `json:"page"`
}

// FetchNav returns the full navigation snapshot for a user.
func (c *Client) FetchNav(ctx context.Context, userID int64) (*NavSnapshot, error) {
	var out NavSnapshot
	in := map[string]int64{"userId": userID}
	if err := c.do(ctx, "POST", "/notes/upload/nav", in, &out); err != nil {
		return nil, fmt.Errorf("fetch nav: %w", err)
	}
	return &out, nil
}

// FetchTocMap returns the TOC wire map for every note of the session user.
func (c *Client) FetchTocMap(ctx context.Context) (map[string][]TocItemWire, error) {
	var out map[string][]TocItemWire
	if err := c.do(ctx, "GET", "/notes/toc", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch toc map: %w", err)
	}
	return out, nil
}

// FetchNoteDetail returns the full note projection for a userSeqNo. The TOC
// slice is passed through unsorted; callers normalize it.
func (c *Client) FetchNoteDetail(ctx context.Context, userSeqNo int64) (model.NoteDetail, []TocItemWire, error) {
	var out noteDetailWire
	if err := c.do(ctx, "GET", fmt.Sprintf("/notes/%d", userSeqNo), nil, &out); err != nil {
		return model.NoteDetail{}, nil, fmt.Errorf("fetch note %d: %w", userSeqNo, err)
	}
	detail := model.NoteDetail{
		ID:               out.Note.ID,
		CategoryID:       out.Note.CategoryID,
		UserSeqNo:        out.Note.UserSeqNo,
		Title:            out.Note.Title,
		Description:      out.Note.Description,
		OriginalFilename: out.Note.OriginalFilename,
		CreatedAt:        out.Note.CreatedAt,
		UpdatedAt:        out.Note.UpdatedAt,
		PageItems:        out.Page,
	}
	return detail, out.Toc, nil
}
