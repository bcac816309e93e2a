package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo repo.ReviewRepository
	userRepo   repo.UserRepository
	idGen      IDGenerator
	clock      Clock
}

func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	userRepo repo.UserRepository,
	idGen IDGenerator,
	clock Clock,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		idGen:      idGen,
		clock:      clock,
	}
}

type CreateReviewInput struct {
	ProductID string
	Rating    int
	Comment   string
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	items, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return []model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ReviewUsecase) Create(ctx context.Context, userID string, in CreateReviewInput) (model.Review, error) {
	if userID == "" {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID == "" {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid rating")
	}

	//投稿者名のスナップショット用にユーザーを引く
	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rv := model.Review{
		ID:        u.idGen.NewID(),
		ProductID: in.ProductID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: u.clock.Now(),
	}
	if err := u.reviewRepo.Create(ctx, rv); err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rv, nil
}
