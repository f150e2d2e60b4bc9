package storage

import (
	"context"
	"testing"

	"github.com/safestay/shelter-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAd(userID int64, date string) *models.Ad {
	return &models.Ad{
		UserID:        userID,
		Name:          "Dana",
		Phone:         "0501234567",
		Area:          models.AreaNorth,
		City:          "Haifa",
		Capacity:      4,
		DateAvailable: date,
	}
}

func publish(t *testing.T, s *MemoryStorage, userID int64, date string) int64 {
	t.Helper()
	id, err := s.PublishAd(context.Background(), &models.User{ID: userID, FirstName: "Dana"}, newTestAd(userID, date))
	require.NoError(t, err)
	return id
}

func TestPublishAdWritesUserAndAd(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-02")
	assert.Equal(t, int64(1), id)

	ads, err := s.ListAdsByOwner(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, int64(10), ads[0].UserID)
	assert.Equal(t, "2099-01-02", ads[0].DateAvailable)
}

func TestCreateAdRequiresUserRow(t *testing.T) {
	s := NewMemoryStorage()

	_, err := s.CreateAd(context.Background(), newTestAd(99, "2099-01-02"))
	assert.Error(t, err)
}

func TestListAdsOrderedByDate(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	publish(t, s, 10, "2099-03-01")
	publish(t, s, 10, "2099-01-01")
	publish(t, s, 11, "2099-02-01")

	ads, err := s.ListAds(ctx)
	require.NoError(t, err)
	require.Len(t, ads, 3)
	assert.Equal(t, "2099-01-01", ads[0].DateAvailable)
	assert.Equal(t, "2099-02-01", ads[1].DateAvailable)
	assert.Equal(t, "2099-03-01", ads[2].DateAvailable)
}

func TestListAdsByArea(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")
	publish(t, s, 10, "2099-01-02")
	require.NoError(t, s.UpdateAdField(ctx, id, 10, models.FieldArea, string(models.AreaSouth)))

	ads, err := s.ListAdsByArea(ctx, models.AreaSouth)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, models.AreaSouth, ads[0].Area)
}

func TestUpdateAdFieldScopedByOwner(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")

	err := s.UpdateAdField(ctx, id, 77, models.FieldCity, "Eilat")
	assert.ErrorIs(t, err, ErrAdNotFound)

	ads, err := s.ListAdsByOwner(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Haifa", ads[0].City)

	require.NoError(t, s.UpdateAdField(ctx, id, 10, models.FieldCity, "Eilat"))
	ads, err = s.ListAdsByOwner(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Eilat", ads[0].City)
}

func TestUpdateAdFieldRejectsUnknownField(t *testing.T) {
	s := NewMemoryStorage()
	id := publish(t, s, 10, "2099-01-01")

	err := s.UpdateAdField(context.Background(), id, 10, models.Field("phone; DROP TABLE ads"), "x")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestDeleteAdScopedByOwner(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")

	assert.ErrorIs(t, s.DeleteAd(ctx, id, 77), ErrAdNotFound)

	require.NoError(t, s.DeleteAd(ctx, id, 10))
	ads, err := s.ListAds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ads)

	assert.ErrorIs(t, s.DeleteAd(ctx, id, 10), ErrAdNotFound)
}

func TestDeleteAdAnyOwnerIsIdempotent(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")

	require.NoError(t, s.DeleteAdAnyOwner(ctx, id))
	require.NoError(t, s.DeleteAdAnyOwner(ctx, id))
}

func TestReports(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")

	require.NoError(t, s.AddReport(ctx, id, 20))
	assert.ErrorIs(t, s.AddReport(ctx, id, 20), ErrAlreadyReported)

	has, err := s.HasReport(ctx, id, 20)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.HasReport(ctx, id, 21)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.AddReport(ctx, id, 21))
	count, err := s.CountReports(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.ErrorIs(t, s.AddReport(ctx, 404, 20), ErrAdNotFound)
}

func TestReportsClearedWithAd(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	id := publish(t, s, 10, "2099-01-01")
	require.NoError(t, s.AddReport(ctx, id, 20))
	require.NoError(t, s.DeleteAdAnyOwner(ctx, id))

	count, err := s.CountReports(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count)
}
