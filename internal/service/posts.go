package service

import (
	"context"
	"strings"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/audit"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/media"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/fundloop/fundloop/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPosts returns posts newest first, optionally by one author.
func (s *Service) ListPosts(ctx context.Context, filter PostFilter) (*List[models.Post], error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}
	return paginate[models.Post](q, filter.Page, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Author", s.users).Order("created_at DESC")
	})
}

// GetPost returns a post with its author.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author", s.users).Take(&post, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "post")
	}
	return &post, nil
}

// CreatePost publishes a post, uploading its image first when one is given.
func (s *Service) CreatePost(ctx context.Context, actor Actor, req CreatePostRequest, image *Upload) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if image != nil && media.Classify(image.ContentType) != media.TypeImage {
		return nil, apierr.Invalid("request validation failed", apierr.Violation{
			Field: "image", Rule: "image", Message: "image must be an image",
		})
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.currency
	}
	post := models.Post{
		AuthorID:   actor.ID,
		Title:      req.Title,
		Body:       req.Body,
		GoalAmount: req.GoalAmount,
		Currency:   currency,
	}

	if image != nil {
		res, err := s.media.Upload(ctx, image.Reader, media.UploadOptions{
			Folder:      "posts",
			Filename:    image.Filename,
			ContentType: image.ContentType,
		})
		if err != nil {
			return nil, collaboratorError(err)
		}
		post.ImageID = res.ID
		post.ImageType = string(res.Type)
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if post.ImageID != "" {
			s.discard(ctx, post.ImageID)
		}
		return nil, err
	}

	return s.GetPost(ctx, post.ID)
}

// canModify reports whether actor may change a record authored by authorID.
func canModify(actor Actor, authorID uuid.UUID) bool {
	return actor.ID == authorID || actor.Can(permission.ModerateContent)
}

// UpdatePost edits a post. Only its author or a moderator may do so.
func (s *Service) UpdatePost(ctx context.Context, actor Actor, id uuid.UUID, req UpdatePostRequest) (*models.Post, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var post models.Post
		if err := db.LockForUpdate(tx, &post, "post", "id = ?", id); err != nil {
			return err
		}
		if !canModify(actor, post.AuthorID) {
			return apierr.Forbidden()
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			updates["body"] = *req.Body
		}
		if req.GoalAmount != nil {
			updates["goal_amount"] = *req.GoalAmount
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if actor.ID != post.AuthorID {
			return audit.LogAction(tx, actor.ID, audit.ActionModeratePost, audit.PostResource(id), map[string]interface{}{
				"operation": "update",
				"fields":    updatedFields(updates),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, id)
}

func updatedFields(updates map[string]interface{}) []string {
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	return fields
}

// DeletePost deletes a post and its hosted image. Only its author or a
// moderator may do so.
func (s *Service) DeletePost(ctx context.Context, actor Actor, id uuid.UUID) error {
	var imageID string
	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var post models.Post
		if err := db.LockForUpdate(tx, &post, "post", "id = ?", id); err != nil {
			return err
		}
		if !canModify(actor, post.AuthorID) {
			return apierr.Forbidden()
		}
		imageID = post.ImageID

		if err := tx.Delete(&models.Post{}, "id = ?", id).Error; err != nil {
			return err
		}
		if actor.ID != post.AuthorID {
			return audit.LogAction(tx, actor.ID, audit.ActionModeratePost, audit.PostResource(id), map[string]interface{}{
				"operation": "delete",
				"author_id": post.AuthorID,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if imageID != "" {
		s.discard(ctx, imageID)
	}
	return nil
}

// ListComments returns a post's comments oldest first.
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID, page Page) (*List[models.Comment], error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID)
	return paginate[models.Comment](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Author", s.users).Order("created_at ASC")
	})
}

func (s *Service) postExists(ctx context.Context, id uuid.UUID) error {
	var post models.Post
	err := s.db.WithContext(ctx).Select("id").Take(&post, "id = ?", id).Error
	return notFound(err, "post")
}

// CreateComment adds a comment to a post. The post is checked and the
// comment written in one transaction, so a post deleted in between yields
// NotFound and no comment.
func (s *Service) CreateComment(ctx context.Context, actor Actor, postID uuid.UUID, req CommentRequest) (*models.Comment, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: postID, AuthorID: actor.ID, Body: req.Body}
	var post models.Post
	err := db.MutateExisting(ctx, s.db, &post, "post", []any{"id = ?", postID}, func(tx *gorm.DB) error {
		s.checked(tx)
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	var created models.Comment
	if err := s.db.WithContext(ctx).Preload("Author", s.users).Take(&created, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteComment deletes a comment. Only its author or a moderator may do so.
func (s *Service) DeleteComment(ctx context.Context, actor Actor, id uuid.UUID) error {
	return db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var comment models.Comment
		if err := db.LockForUpdate(tx, &comment, "comment", "id = ?", id); err != nil {
			return err
		}
		if !canModify(actor, comment.AuthorID) {
			return apierr.Forbidden()
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
			return err
		}
		if actor.ID != comment.AuthorID {
			return audit.LogAction(tx, actor.ID, audit.ActionModerateComment, audit.CommentResource(id), map[string]interface{}{
				"post_id":   comment.PostID,
				"author_id": comment.AuthorID,
			})
		}
		return nil
	})
}

// React sets the caller's reaction to a post, replacing any previous one.
func (s *Service) React(ctx context.Context, actor Actor, postID uuid.UUID, req ReactRequest) (*models.Reaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	reaction := models.Reaction{PostID: postID, UserID: actor.ID, Kind: models.ReactionKind(req.Kind)}
	var post models.Post
	err := db.MutateExisting(ctx, s.db, &post, "post", []any{"id = ?", postID}, func(tx *gorm.DB) error {
		s.checked(tx)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
		}).Create(&reaction).Error
	})
	if err != nil {
		return nil, err
	}

	var stored models.Reaction
	if err := s.db.WithContext(ctx).Take(&stored, "post_id = ? AND user_id = ?", postID, actor.ID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Unreact removes the caller's reaction. Removing a missing reaction is a no-op.
func (s *Service) Unreact(ctx context.Context, actor Actor, postID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, actor.ID).
		Delete(&models.Reaction{}).Error
}

// ReactionSummary counts a post's reactions by kind. Every kind is present.
func (s *Service) ReactionSummary(ctx context.Context, postID uuid.UUID) (*ReactionSummary, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}

	var rows []struct {
		Kind  models.ReactionKind
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("kind, COUNT(*) AS count").
		Where("post_id = ?", postID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &ReactionSummary{
		PostID: postID,
		Counts: map[models.ReactionKind]int64{
			models.ReactionLike:      0,
			models.ReactionLove:      0,
			models.ReactionSupport:   0,
			models.ReactionCelebrate: 0,
		},
	}
	for _, r := range rows {
		summary.Counts[r.Kind] = r.Count
		summary.Total += r.Count
	}
	return summary, nil
}
