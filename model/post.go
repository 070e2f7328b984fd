package model

import "time"

// Post is the generic persisted row behind events, djs, locals, pages and attachments.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Type      PostType  `db:"post_type" json:"post_type"`
	Title     string    `db:"post_title" json:"post_title"`
	Content   string    `db:"post_content" json:"post_content"`
	Status    Status    `db:"post_status" json:"post_status"`
	Author    int64     `db:"post_author" json:"post_author"`
	Parent    int64     `db:"post_parent" json:"post_parent,omitempty"`
	MenuOrder int       `db:"menu_order" json:"menu_order"`
	GUID      string    `db:"guid" json:"guid,omitempty"`
	MimeType  string    `db:"post_mime_type" json:"post_mime_type,omitempty"`
	Date      time.Time `db:"post_date" json:"post_date"`
	Modified  time.Time `db:"post_modified" json:"post_modified"`
}

type Term struct {
	ID       int64  `db:"term_id" json:"term_id"`
	Taxonomy string `db:"taxonomy" json:"taxonomy"`
	Name     string `db:"name" json:"name"`
	Slug     string `db:"slug" json:"slug"`
	Parent   int64  `db:"parent" json:"parent,omitempty"`
}

// UploadedFile is the per-file answer of the upload endpoint.
type UploadedFile struct {
	URL       string `json:"url,omitempty"`
	File      string `json:"file,omitempty"`
	Type      string `json:"type,omitempty"`
	Extension string `json:"extension,omitempty"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Error     string `json:"error,omitempty"`
}
