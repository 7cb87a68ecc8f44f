package api

import (
	"context"
	"fmt"
)

func (c *Client) RenameNoteTitle(ctx context.Context, userSeqNo int64, title string) error {
	in := map[string]string{"title": title}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/%d/title", userSeqNo), in, nil); err != nil {
		return fmt.Errorf("rename note %d: %w", userSeqNo, err)
	}
	return nil
}

func (c *Client) UpdateNoteDescription(ctx context.Context, userSeqNo int64, description string) error {
	in := map[string]string{"description": description}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/%d/description", userSeqNo), in, nil); err != nil {
		return fmt.Errorf("update description of note %d: %w", userSeqNo, err)
	}
	return nil
}

func (c *Client) DeleteNote(ctx context.Context, userSeqNo int64) error {
	if err := c.do(ctx, "DELETE", fmt.Sprintf("/notes/%d", userSeqNo), nil, nil); err != nil {
		return fmt.Errorf("delete note %d: %w", userSeqNo, err)
	}
	return nil
}

func (c *Client) RenameTocTitle(ctx context.Context, tocID int64, title string) error {
	in := map[string]string{"title": title}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/toc/%d/rename", tocID), in, nil); err != nil {
		return fmt.Errorf("rename toc %d: %w", tocID, err)
	}
	return nil
}

func (c *Client) UpdateTocBody(ctx context.Context, tocID int64, body string) error {
	in := map[string]string{"body": body}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/toc/%d/rebody", tocID), in, nil); err != nil {
		return fmt.Errorf("update toc body %d: %w", tocID, err)
	}
	return nil
}

func (c *Client) UpdatePageText(ctx context.Context, pageID int64, text string) error {
	in := map[string]string{"extractedText": text}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/pages/%d/text", pageID), in, nil); err != nil {
		return fmt.Errorf("update page text %d: %w", pageID, err)
	}
	return nil
}

func (c *Client) RenameCategory(ctx context.Context, categoryID int64, name string) error {
	in := map[string]string{"name": name}
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/notes/categories/%d", categoryID), in, nil); err != nil {
		return fmt.Errorf("rename category %d: %w", categoryID, err)
	}
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID int64) error {
	if err := c.do(ctx, "DELETE", fmt.Sprintf("/notes/categories/%d", categoryID), nil, nil); err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	return nil
}

// CategoryPrompts are the stored default AI prompts for a category, offered
// as prefill when uploading into it.
type CategoryPrompts struct {
	TocPrompt  string `json:"prompt1"`
	PagePrompt string `json:"prompt2"`
}

func (c *Client) FetchCategoryPrompts(ctx context.Context, categoryID int64) (CategoryPrompts, error) {
	var out CategoryPrompts
	if err := c.do(ctx, "GET", fmt.Sprintf("/notes/categories/%d/prompts", categoryID), nil, &out); err != nil {
		return CategoryPrompts{}, fmt.Errorf("fetch prompts for category %d: %w", categoryID, err)
	}
	return out, nil
}
