package model

import "time"

// Attachment is a file attached to an issue. Content is held inline when no
// blob store is configured; otherwise ObjectKey locates it in the bucket.
type Attachment struct {
	ID              int64     `json:"id"`
	IssueID         int64     `json:"issue_id"`
	FileName        string    `json:"file_name"`
	ContentType     string    `json:"content_type"`
	Size            int64     `json:"size"`
	Description     string    `json:"description,omitempty"`
	CreatorUserName string    `json:"creator_username"`
	Checksum        string    `json:"checksum"`
	ObjectKey       string    `json:"object_key,omitempty"`
	Content         []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Revision links an issue to a source-control change.
type Revision struct {
	ID           int64     `json:"id"`
	IssueID      int64     `json:"issue_id"`
	Revision     int       `json:"revision"`
	Repository   string    `json:"repository"`
	Author       string    `json:"author"`
	RevisionDate string    `json:"revision_date"`
	Message      string    `json:"message"`
	Changeset    string    `json:"changeset,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
