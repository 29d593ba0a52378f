package post

import (
	"time"

	"github.com/gofrs/uuid"

	"welbex/internal/core/attachment"
	"welbex/internal/core/user"
)

type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text;not null"`
	Image     *string   `gorm:"size:512"`
	Video     *string   `gorm:"size:512"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	User      user.User `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Attach stores ref in the slot matching kind and returns the reference it replaced, if any.
func (p *Post) Attach(kind attachment.Kind, ref string) (replaced *string) {
	switch kind {
	case attachment.KindImage:
		replaced, p.Image = p.Image, &ref
	case attachment.KindVideo:
		replaced, p.Video = p.Video, &ref
	}
	return replaced
}

// Attachments lists the references currently held by the post.
func (p *Post) Attachments() []string {
	var refs []string
	for _, ref := range []*string{p.Image, p.Video} {
		if ref != nil && *ref != "" {
			refs = append(refs, *ref)
		}
	}
	return refs
}
