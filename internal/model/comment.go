package model

import "time"

// CommentBodyMaxLength bounds Comment.Body in characters.
const CommentBodyMaxLength = 1000

// Comment is a message left on a listing. Comments are immutable once posted.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// OwnerKey returns the id of the comment's author.
func (c *Comment) OwnerKey() uint { return c.UserID }

// ResourceName identifies comments in authorization messages.
func (c *Comment) ResourceName() string { return "comment" }
