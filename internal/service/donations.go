package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/payment"
	"github.com/fundloop/fundloop/internal/validate"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donate starts a donation to a post. The donor's payment customer is
// created on first use. The payment intent is opened while the post is
// locked and the donation is recorded as pending in that transaction. An
// intent whose donation is not committed is cancelled.
func (s *Service) Donate(ctx context.Context, actor Actor, postID uuid.UUID, req DonationRequest) (*DonationResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}

	var donor models.User
	if err := s.db.WithContext(ctx).Take(&donor, "id = ?", actor.ID).Error; err != nil {
		return nil, notFound(err, "user")
	}

	customerID, err := s.ensureCustomer(ctx, &donor)
	if err != nil {
		return nil, collaboratorError(err)
	}

	var (
		post     models.Post
		intent   payment.Intent
		donation models.Donation
	)
	err = db.MutateExisting(ctx, s.db, &post, "post", []any{"id = ?", postID}, func(tx *gorm.DB) error {
		s.checked(tx)

		var err error
		intent, err = s.payments.CreatePaymentIntent(ctx, customerID, req.Amount, post.Currency)
		if err != nil {
			return collaboratorError(err)
		}

		donation = models.Donation{
			PostID:          postID,
			DonorID:         actor.ID,
			Amount:          req.Amount,
			Currency:        post.Currency,
			PaymentIntentID: intent.ID,
			Status:          models.DonationPending,
		}
		return tx.Create(&donation).Error
	})
	if err != nil {
		if intent.ID != "" {
			s.cancelIntent(intent.ID)
		}
		return nil, err
	}

	return &DonationResult{Donation: &donation, ClientSecret: intent.ClientSecret}, nil
}

func (s *Service) cancelIntent(id string) {
	// The request context may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.payments.CancelPaymentIntent(ctx, id); err != nil {
		slog.Warn("Failed to cancel orphaned payment intent", "intent", id, "error", err)
	}
}

// ListDonations returns a post's donations newest first.
func (s *Service) ListDonations(ctx context.Context, postID uuid.UUID, page Page) (*List[models.Donation], error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Model(&models.Donation{}).Where("post_id = ?", postID)
	return paginate[models.Donation](q, page, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Donor", s.users).Order("created_at DESC")
	})
}
