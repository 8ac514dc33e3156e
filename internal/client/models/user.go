package models

// User is the authenticated person. ID is zero until the server has
// created the account.
type User struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at,omitzero"`
	UpdatedAt Timestamp `json:"updated_at,omitzero"`
}

// UserInput is the body of POST /users/.
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) HasID() bool {
	return u != nil && u.ID != 0
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
