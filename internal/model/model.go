package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// LoginUser is the authenticated identity kept in the store and persisted
// in the session file between runs.
type LoginUser struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Token    string `json:"token"`
}

type Category struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	NoteCount int    `json:"noteCount"`
}

// NoteSummary is the navigation projection of a note. UserSeqNo is the
// per-user stable number used in URLs and detail lookups; ID stays the
// global identity.
type NoteSummary struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	CategoryID int64     `json:"categoryId"`
	UserSeqNo  int64     `json:"userSeqNo"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type TocItem struct {
	ID          int64  `json:"id"`
	IndexNumber int    `json:"indexNumber"`
	StartPage   int    `json:"startPage"`
	EndPage     int    `json:"endPage"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

type PageItem struct {
	ID            int64  `json:"id"`
	PageNumber    int    `json:"pageNumber"`
	ImageURL      string `json:"imageUrl"`
	ExtractedText string `json:"extractedText"`

	// AdminPath is only populated for admin sessions.
	AdminPath string `json:"adminPath,omitempty"`
}

// NoteDetail is the full note projection returned by the detail endpoint.
type NoteDetail struct {
	ID               int64      `json:"id"`
	CategoryID       int64      `json:"categoryId"`
	UserSeqNo        int64      `json:"userSeqNo"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	OriginalFilename string     `json:"originalFilename"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	TocItems         []TocItem  `json:"tocItems"`
	PageItems        []PageItem `json:"pageItems"`
}
