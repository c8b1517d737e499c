package client

import (
	"time"
)

type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Color       string  `json:"color"`
	Description *string `json:"description,omitempty"`
}

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Blog) CategoryKey() string { return b.Category }

func (b Blog) SearchFields() []string {
	fields := []string{b.Title, b.Content, b.Category}
	return append(fields, b.Tags...)
}

type Tool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Link        string    `json:"link"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	UsersLabel  string    `json:"users_label"`
	Featured    bool      `json:"featured"`
	Embeddable  bool      `json:"embeddable"`
	Sandbox     []string  `json:"sandbox"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t Tool) CategoryKey() string { return t.Category }

func (t Tool) SearchFields() []string {
	return []string{t.Name, t.Description, t.Category}
}

type ContactForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}
