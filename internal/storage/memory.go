package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/safestay/shelter-bot/internal/models"
)

// MemoryStorage keeps everything in process memory. It backs tests and the
// use_in_memory config mode; contents are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	users   map[int64]*models.User
	ads     map[int64]*models.Ad
	reports map[int64]map[int64]*models.Report // ad id -> reporter id
	nextID  int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:   make(map[int64]*models.User),
		ads:     make(map[int64]*models.Ad),
		reports: make(map[int64]map[int64]*models.Report),
		nextID:  1,
	}
}

func (s *MemoryStorage) UpsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStorage) CreateAd(ctx context.Context, ad *models.Ad) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createAdLocked(ad)
}

func (s *MemoryStorage) createAdLocked(ad *models.Ad) (int64, error) {
	if _, exists := s.users[ad.UserID]; !exists {
		return 0, fmt.Errorf("no user row for owner %d", ad.UserID)
	}

	ad.ID = s.nextID
	ad.CreatedAt = time.Now()
	s.nextID++

	stored := *ad
	s.ads[ad.ID] = &stored
	return ad.ID, nil
}

func (s *MemoryStorage) PublishAd(ctx context.Context, user *models.User, ad *models.Ad) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[user.ID] = &u
	return s.createAdLocked(ad)
}

func (s *MemoryStorage) ListAds(ctx context.Context) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(ad *models.Ad) bool { return true }), nil
}

func (s *MemoryStorage) ListAdsByOwner(ctx context.Context, userID int64) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(ad *models.Ad) bool { return ad.UserID == userID }), nil
}

func (s *MemoryStorage) ListAdsByArea(ctx context.Context, area models.Area) ([]*models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(ad *models.Ad) bool { return ad.Area == area }), nil
}

// collect returns matching ads ordered by availability date ascending.
// YYYY-MM-DD strings sort correctly lexicographically.
func (s *MemoryStorage) collect(match func(*models.Ad) bool) []*models.Ad {
	var ads []*models.Ad
	for _, ad := range s.ads {
		if match(ad) {
			copied := *ad
			ads = append(ads, &copied)
		}
	}
	sort.Slice(ads, func(i, j int) bool {
		if ads[i].DateAvailable != ads[j].DateAvailable {
			return ads[i].DateAvailable < ads[j].DateAvailable
		}
		return ads[i].ID < ads[j].ID
	})
	return ads
}

func (s *MemoryStorage) UpdateAdField(ctx context.Context, adID, ownerID int64, field models.Field, value any) error {
	if !field.Valid() {
		return ErrInvalidField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ad, exists := s.ads[adID]
	if !exists || ad.UserID != ownerID {
		return ErrAdNotFound
	}

	switch field {
	case models.FieldName:
		ad.Name = fmt.Sprint(value)
	case models.FieldPhone:
		ad.Phone = fmt.Sprint(value)
	case models.FieldArea:
		ad.Area = models.Area(fmt.Sprint(value))
	case models.FieldCity:
		ad.City = fmt.Sprint(value)
	case models.FieldCapacity:
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("capacity value %v is not an integer", value)
		}
		ad.Capacity = n
	case models.FieldDate:
		ad.DateAvailable = fmt.Sprint(value)
	}

	return nil
}

func (s *MemoryStorage) DeleteAd(ctx context.Context, adID, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, exists := s.ads[adID]
	if !exists || ad.UserID != ownerID {
		return ErrAdNotFound
	}

	delete(s.ads, adID)
	delete(s.reports, adID)
	return nil
}

func (s *MemoryStorage) DeleteAdAnyOwner(ctx context.Context, adID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ads, adID)
	delete(s.reports, adID)
	return nil
}

func (s *MemoryStorage) AddReport(ctx context.Context, adID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ads[adID]; !exists {
		return ErrAdNotFound
	}

	byUser, exists := s.reports[adID]
	if !exists {
		byUser = make(map[int64]*models.Report)
		s.reports[adID] = byUser
	}
	if _, exists := byUser[userID]; exists {
		return ErrAlreadyReported
	}

	byUser[userID] = &models.Report{
		AdID:       adID,
		UserID:     userID,
		ReportedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStorage) HasReport(ctx context.Context, adID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.reports[adID][userID]
	return exists, nil
}

func (s *MemoryStorage) CountReports(ctx context.Context, adID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.reports[adID]), nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
