package storage

import (
	"context"
	"errors"

	"github.com/safestay/shelter-bot/internal/models"
)

var (
	// ErrAdNotFound is returned when an ad id does not exist or is not
	// owned by the requesting user.
	ErrAdNotFound = errors.New("ad not found")

	// ErrAlreadyReported is returned when a user reports the same ad twice.
	ErrAlreadyReported = errors.New("ad already reported by this user")

	// ErrInvalidField is returned for field names outside the editable set,
	// before any statement is executed.
	ErrInvalidField = errors.New("field is not editable")
)

type Storage interface {
	// UpsertUser inserts the user or refreshes username and names in place.
	UpsertUser(ctx context.Context, user *models.User) error

	// CreateAd inserts a new ad and returns its assigned id.
	CreateAd(ctx context.Context, ad *models.Ad) (int64, error)

	// PublishAd upserts the owner and inserts the ad in one transaction.
	// Either both rows are written or neither is.
	PublishAd(ctx context.Context, user *models.User, ad *models.Ad) (int64, error)

	// ListAds returns all ads ordered by availability date ascending.
	ListAds(ctx context.Context) ([]*models.Ad, error)

	// ListAdsByOwner returns the ads owned by userID.
	ListAdsByOwner(ctx context.Context, userID int64) ([]*models.Ad, error)

	// ListAdsByArea returns ads in the given area ordered by availability
	// date ascending.
	ListAdsByArea(ctx context.Context, area models.Area) ([]*models.Ad, error)

	// UpdateAdField sets one field on an ad. The update is scoped by both
	// ad id and owner id; ErrAdNotFound means no such ad or not the owner.
	UpdateAdField(ctx context.Context, adID, ownerID int64, field models.Field, value any) error

	// DeleteAd removes an ad scoped by owner; ErrAdNotFound means no such
	// ad or not the owner.
	DeleteAd(ctx context.Context, adID, ownerID int64) error

	// DeleteAdAnyOwner removes an ad regardless of owner (moderation path).
	// Deleting an ad that is already gone is a no-op.
	DeleteAdAnyOwner(ctx context.Context, adID int64) error

	// AddReport records a report. Returns ErrAlreadyReported for a repeat
	// report by the same user and ErrAdNotFound when the ad is gone.
	AddReport(ctx context.Context, adID, userID int64) error

	// HasReport reports whether userID already reported adID.
	HasReport(ctx context.Context, adID, userID int64) (bool, error)

	// CountReports returns the number of distinct reports against adID.
	CountReports(ctx context.Context, adID int64) (int, error)

	Close() error
}
