package models

import "time"

type Role struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

const (
	RoleAdministrator = "Administrator"
	RoleUser          = "User"
)

const (
	ProviderPassword  = "password"
	ProviderFederated = "federated"
)

// User is both the auth identity and the stored profile document. Federated
// accounts carry no password hash; Provider records how the identity signs in.
type User struct {
	ID           string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash *string   `json:"-"`
	DisplayName  string    `gorm:"not null" json:"display_name"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Country      *string   `json:"country,omitempty"`
	Provider     string    `gorm:"not null;default:password" json:"provider"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session backs token revocation: every issued JWT has a jti row here, and
// sign-out marks it revoked so the token stops working before it expires.
type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type BlogCategory struct {
	ID          string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Color       string    `json:"color"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlogPost struct {
	ID           string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Slug         string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Excerpt      string     `json:"excerpt"`
	CategorySlug string     `gorm:"index;not null" json:"category"`
	Tags         StringList `gorm:"type:jsonb;default:'[]'::jsonb" json:"tags"`
	Published    bool       `gorm:"index;not null;default:false" json:"published"`
	AuthorID     *string    `gorm:"type:uuid" json:"author_id,omitempty"`
	Views        int64      `gorm:"not null;default:0" json:"views"`
	Likes        int64      `gorm:"not null;default:0" json:"likes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Tool is the single authoritative directory entry. Embeddable tools carry
// their own iframe sandbox/permission allow-lists, applied verbatim by
// clients when rendering the embed.
type Tool struct {
	ID          string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `json:"image_url"`
	Link        string     `gorm:"not null" json:"link"`
	Category    string     `gorm:"index;not null" json:"category"`
	Rating      float64    `json:"rating"`
	UsersLabel  string     `json:"users_label"`
	Featured    bool       `gorm:"not null;default:false" json:"featured"`
	Embeddable  bool       `gorm:"not null;default:false" json:"embeddable"`
	Sandbox     StringList `gorm:"type:jsonb;default:'[]'::jsonb" json:"sandbox"`
	Permissions StringList `gorm:"type:jsonb;default:'[]'::jsonb" json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type NewsletterSubscription struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Status    string    `gorm:"not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	UserID    *string   `gorm:"type:uuid" json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"type:uuid" json:"user_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
