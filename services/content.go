package services

import (
	"errors"
	"time"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

type ContentKind string

const (
	ContentComment ContentKind = "comment"
	ContentPost    ContentKind = "post"
	ContentUser    ContentKind = "user"
)

// ParseContentKind accepts the API names for reportable content.
// "creator_post" is an alias for post.
func ParseContentKind(s string) (ContentKind, bool) {
	switch s {
	case "comment":
		return ContentComment, true
	case "post", "creator_post":
		return ContentPost, true
	case "user":
		return ContentUser, true
	}
	return "", false
}

// ContentDetails is what moderators see next to a report.
type ContentDetails struct {
	AuthorID string `json:"author_id"`
	Content  string `json:"content,omitempty"`
	IsHidden bool   `json:"is_hidden"`
}

type hideRequest struct {
	By     string
	At     time.Time
	Reason string
}

// contentType describes how moderation reaches one kind of reportable
// content. A nil hide means the kind cannot be hidden.
type contentType struct {
	lookup func(tx *gorm.DB, id string) (*ContentDetails, error)
	hide   func(tx *gorm.DB, id string, req hideRequest) error
}

var contentTypes = map[ContentKind]contentType{
	ContentComment: {
		lookup: func(tx *gorm.DB, id string) (*ContentDetails, error) {
			var c models.Comment
			if err := tx.Select("id", "user_id", "content", "is_hidden").First(&c, "id = ?", id).Error; err != nil {
				return nil, err
			}
			return &ContentDetails{AuthorID: c.UserID, Content: c.Content, IsHidden: c.IsHidden}, nil
		},
		hide: func(tx *gorm.DB, id string, req hideRequest) error {
			return hideRow(tx.Model(&models.Comment{}), id, req)
		},
	},
	ContentPost: {
		lookup: func(tx *gorm.DB, id string) (*ContentDetails, error) {
			var p models.CreatorPost
			if err := tx.Preload("Creator").First(&p, "id = ?", id).Error; err != nil {
				return nil, err
			}
			if p.Creator == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return &ContentDetails{AuthorID: p.Creator.UserID, Content: p.Content, IsHidden: p.IsHidden}, nil
		},
		hide: func(tx *gorm.DB, id string, req hideRequest) error {
			return hideRow(tx.Model(&models.CreatorPost{}), id, req)
		},
	},
	ContentUser: {
		// Accounts live with the auth provider; the content id is the author.
		lookup: func(tx *gorm.DB, id string) (*ContentDetails, error) {
			return &ContentDetails{AuthorID: id}, nil
		},
	},
}

func hideRow(q *gorm.DB, id string, req hideRequest) error {
	res := q.Where("id = ?", id).Updates(map[string]interface{}{
		"is_hidden":     true,
		"hidden_by":     req.By,
		"hidden_at":     req.At,
		"hidden_reason": req.Reason,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// lookupContent resolves a report's target, mapping a missing row to NotFound.
func lookupContent(tx *gorm.DB, kind ContentKind, id string) (*ContentDetails, error) {
	ct, ok := contentTypes[kind]
	if !ok {
		return nil, ValidationError("Invalid content type")
	}
	details, err := ct.lookup(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Reported content not found")
		}
		return nil, StoreError("Failed to load reported content", err)
	}
	return details, nil
}
