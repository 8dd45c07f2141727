package service

import (
	"context"
	"strings"
	"time"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateChat starts a chat between the caller and the given members.
// Unknown members yield NotFound.
func (s *Service) CreateChat(ctx context.Context, actor Actor, req CreateChatRequest) (*models.Chat, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	ids := []uuid.UUID{actor.ID}
	seen := map[uuid.UUID]bool{actor.ID: true}
	for _, raw := range req.MemberIDs {
		id := uuid.MustParse(raw) // validated above
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	chat := models.Chat{Title: req.Title, CreatorID: actor.ID}
	err := db.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var members []models.User
		if err := tx.Where("id IN ?", ids).Find(&members).Error; err != nil {
			return err
		}
		if len(members) != len(ids) {
			return apierr.NotFound("user")
		}
		s.checked(tx)

		chat.Members = members
		return tx.Omit("Members.*").Create(&chat).Error
	})
	if err != nil {
		return nil, err
	}

	return s.getChat(ctx, chat.ID)
}

func (s *Service) getChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.WithContext(ctx).Preload("Members", s.users).Take(&chat, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "chat")
	}
	return &chat, nil
}

// ListChats returns the caller's chats, most recently active first.
func (s *Service) ListChats(ctx context.Context, actor Actor, page Page) (*List[models.Chat], error) {
	q := s.db.WithContext(ctx).Model(&models.Chat{}).
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", actor.ID)
	return paginate[models.Chat](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Select("chats.*").Preload("Members", s.users).Order("chats.updated_at DESC")
	})
}

func isMember(tx *gorm.DB, chatID, userID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Table("chat_members").Where("chat_id = ? AND user_id = ?", chatID, userID).Count(&n).Error
	return n > 0, err
}

// ListMessages returns a chat's messages oldest first. Only members may
// read them.
func (s *Service) ListMessages(ctx context.Context, actor Actor, chatID uuid.UUID, page Page) (*List[models.Message], error) {
	tx := s.db.WithContext(ctx)
	var chat models.Chat
	if err := tx.Take(&chat, "id = ?", chatID).Error; err != nil {
		return nil, notFound(err, "chat")
	}
	member, err := isMember(tx, chatID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apierr.Forbidden()
	}

	q := tx.Model(&models.Message{}).Where("chat_id = ?", chatID)
	return paginate[models.Message](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Sender", s.users).Order("created_at ASC")
	})
}

// PostMessage sends a message to a chat. Existence and membership are
// checked in the same transaction as the write.
func (s *Service) PostMessage(ctx context.Context, actor Actor, chatID uuid.UUID, req MessageRequest) (*models.Message, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	msg := models.Message{ChatID: chatID, SenderID: actor.ID, Body: req.Body}
	var chat models.Chat
	err := db.MutateExisting(ctx, s.db, &chat, "chat", []any{"id = ?", chatID}, func(tx *gorm.DB) error {
		member, err := isMember(tx, chatID, actor.ID)
		if err != nil {
			return err
		}
		if !member {
			return apierr.Forbidden()
		}
		s.checked(tx)

		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).Where("id = ?", chatID).Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}

	var created models.Message
	if err := s.db.WithContext(ctx).Preload("Sender", s.users).Take(&created, "id = ?", msg.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}
