package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	LoginMethodEmail  = "email"
	LoginMethodGoogle = "google"
	LoginMethodApple  = "apple"
)

// User is a portal account. Email/password accounts carry a bcrypt hash,
// OAuth accounts carry the provider subject in GoogleID or AppleID.
type User struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	GoogleID                 *string    `gorm:"size:255;uniqueIndex" json:"-"`
	AppleID                  *string    `gorm:"size:255;uniqueIndex" json:"-"`
	Name                     string     `gorm:"size:255" json:"name"`
	Email                    string     `gorm:"size:320;not null;uniqueIndex:users_email_idx" json:"email"`
	PasswordHash             string     `gorm:"size:255" json:"-"`
	LoginMethod              string     `gorm:"size:20;not null;default:'email'" json:"loginMethod"`
	Role                     string     `gorm:"size:20;not null;default:'user'" json:"role"`
	Avatar                   string     `gorm:"type:text" json:"avatar,omitempty"`
	TermsAccepted            bool       `gorm:"not null;default:true" json:"termsAccepted"`
	SubscribedToEmails       bool       `gorm:"not null;default:true" json:"subscribedToEmails"`
	TermsAcceptedAt          *time.Time `json:"termsAcceptedAt,omitempty"`
	Language                 string     `gorm:"size:10;not null;default:'en'" json:"language"`
	EmailVerified            *time.Time `json:"emailVerified,omitempty"`
	EmailVerificationCode    string     `gorm:"size:64" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	Phone                    string     `gorm:"size:20" json:"phone,omitempty"`
	Country                  string     `gorm:"size:100" json:"country,omitempty"`
	City                     string     `gorm:"size:100" json:"city,omitempty"`
	Address                  string     `gorm:"type:text" json:"address,omitempty"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
	LastSignedIn             time.Time  `json:"lastSignedIn"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
