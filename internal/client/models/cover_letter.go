package models

import "fmt"

// CoverLetter is held by the State Store only for the current view; the
// remote service is its durable home.
type CoverLetter struct {
	ID             int64     `json:"id,omitempty"`
	UserID         int64     `json:"user_id,omitempty"`
	Title          string    `json:"title,omitempty"`
	JobTitle       string    `json:"job_title"`
	CompanyName    string    `json:"company_name"`
	JobDescription string    `json:"job_description"`
	Content        string    `json:"content"`
	CreatedAt      Timestamp `json:"created_at,omitzero"`
	UpdatedAt      Timestamp `json:"updated_at,omitzero"`
}

// CoverLetterList is the body returned by GET /cover-letters/user/{id}.
type CoverLetterList struct {
	Total int           `json:"total"`
	Items []CoverLetter `json:"items"`
}

// GenerateRequest is the body of POST /cover-letters/generate.
type GenerateRequest struct {
	UserID         int64  `json:"user_id"`
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
	Title          string `json:"title"`
}

// CoverLetterUpdate is the body of PUT /cover-letters/{id}; nil fields are
// left untouched by the server.
type CoverLetterUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// MaxCoverLetterContent mirrors the server-side limit on letter content.
const MaxCoverLetterContent = 1500

// LetterTitle builds "Cover Letter for JOB" with " at COMPANY" appended
// when a company is known.
func LetterTitle(jobTitle, companyName string) string {
	if companyName == "" {
		return fmt.Sprintf("Cover Letter for %s", jobTitle)
	}
	return fmt.Sprintf("Cover Letter for %s at %s", jobTitle, companyName)
}

func (c *CoverLetter) Clone() *CoverLetter {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// Preview returns the first n runes of the content followed by "..." when
// the content is longer.
func (c CoverLetter) Preview(n int) string {
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[:n]) + "..."
}
