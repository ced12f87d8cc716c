package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the persisted account document in the users collection.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName          string             `bson:"fullName" json:"fullName"`
	Nickname          string             `bson:"nickname" json:"nickname"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"` // bcrypt hash, never exposed
	ProfilePic        string             `bson:"profilePic" json:"profilePic"`
	Role              string             `bson:"role" json:"role"`
	IsPrivate         bool               `bson:"isPrivate" json:"isPrivate"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
	DeletionStartedAt *time.Time         `bson:"deletion_started_at,omitempty" json:"-"`
	PasswordChangedAt *time.Time         `bson:"password_changed_at,omitempty" json:"-"`
}

// UserProfile is the public view of a user returned by the profile endpoints.
type UserProfile struct {
	ID         string    `json:"id" example:"665f1c2e9b1e8a3d4c5b6a70"`
	FullName   string    `json:"fullName" example:"John Doe"`
	Nickname   string    `json:"nickname" example:"johndoe"`
	Email      string    `json:"email" example:"johndoe@example.com"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Role       string    `json:"role" example:"user"`
	IsPrivate  bool      `json:"isPrivate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:         u.ID.Hex(),
		FullName:   u.FullName,
		Nickname:   u.Nickname,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		Role:       u.Role,
		IsPrivate:  u.IsPrivate,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// RegisterRequest is the body of POST /api/user/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=3,max=50" example:"John Doe"`
	Nickname string `json:"nickname" validate:"required,min=3,max=20" example:"johndoe"`
	Email    string `json:"email" validate:"required,email" example:"johndoe@example.com"`
	Password string `json:"password" validate:"required,password" example:"password123"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

// UpdateProfileParams defines the fields allowed for profile updates.
// Pointers distinguish "not provided" from the zero value.
type UpdateProfileParams struct {
	FullName   *string `json:"fullName,omitempty" validate:"omitempty,min=3,max=50"`
	Nickname   *string `json:"nickname,omitempty" validate:"omitempty,min=3,max=20"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	ProfilePic *string `json:"profilePic,omitempty" validate:"omitempty,max=2048"`
	IsPrivate  *bool   `json:"isPrivate,omitempty"`
}

func (p UpdateProfileParams) Empty() bool {
	return p.FullName == nil && p.Nickname == nil && p.Email == nil && p.ProfilePic == nil && p.IsPrivate == nil
}

// ChangePasswordRequest is the body of PUT /api/user/profile/password.
type ChangePasswordRequest struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}
