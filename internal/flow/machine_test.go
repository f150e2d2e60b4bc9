package flow

import (
	"context"
	"testing"
	"time"

	"github.com/safestay/shelter-bot/internal/models"
	"github.com/safestay/shelter-bot/internal/session"
	"github.com/safestay/shelter-bot/internal/storage"
	"github.com/safestay/shelter-bot/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMachine() (*Machine, *session.Store, *storage.MemoryStorage) {
	sessions := session.NewStore()
	store := storage.NewMemoryStorage()
	return NewMachine(sessions, store, zap.NewNop()), sessions, store
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(validate.DateLayout)
}

var poster = &models.User{ID: 10, Username: "dana", FirstName: "Dana", LastName: "Levi"}

// runCreation drives the whole creation flow with valid inputs.
func runCreation(t *testing.T, m *Machine) {
	t.Helper()
	ctx := context.Background()

	m.StartPostAd(poster.ID)

	for _, text := range []string{"Dana", "0501234567"} {
		replies, err := m.HandleText(ctx, poster, text)
		require.NoError(t, err)
		require.Len(t, replies, 1)
	}

	replies := m.SelectArea(poster.ID, models.AreaNorth)
	require.Len(t, replies, 1)

	for _, text := range []string{"Haifa", "4", tomorrow()} {
		replies, err := m.HandleText(ctx, poster, text)
		require.NoError(t, err)
		require.Len(t, replies, 1)
	}
}

func TestCreationFlowPublishesAd(t *testing.T) {
	m, sessions, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)

	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	require.Len(t, ads, 1)

	ad := ads[0]
	assert.Equal(t, "Dana", ad.Name)
	assert.Equal(t, "0501234567", ad.Phone)
	assert.Equal(t, models.AreaNorth, ad.Area)
	assert.Equal(t, "Haifa", ad.City)
	assert.Equal(t, 4, ad.Capacity)
	assert.Equal(t, tomorrow(), ad.DateAvailable)

	// Session is cleared on completion.
	assert.Equal(t, session.StepIdle, sessions.Get(poster.ID).Step)
}

func TestCreationStepRepromptsOnInvalidInput(t *testing.T) {
	m, sessions, _ := newTestMachine()
	ctx := context.Background()

	m.StartPostAd(poster.ID)

	tests := []struct {
		bad     string
		wantMsg string
		good    string
	}{
		{"Dana99", msgInvalidName, "Dana"},
		{"123", msgInvalidPhone, "0501234567"},
	}

	for _, tt := range tests {
		before := sessions.Get(poster.ID)

		replies, err := m.HandleText(ctx, poster, tt.bad)
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, tt.wantMsg, replies[0].Text)

		// Same step, draft untouched.
		assert.Equal(t, before, sessions.Get(poster.ID))

		_, err = m.HandleText(ctx, poster, tt.good)
		require.NoError(t, err)
	}

	m.SelectArea(poster.ID, models.AreaCenter)

	_, err := m.HandleText(ctx, poster, "Tel-Aviv")
	require.NoError(t, err)

	for _, bad := range []string{"0", "101", "many"} {
		replies, err := m.HandleText(ctx, poster, bad)
		require.NoError(t, err)
		assert.Equal(t, msgInvalidCapacity, replies[0].Text)
		assert.Equal(t, session.StepCapacity, sessions.Get(poster.ID).Step)
	}

	_, err = m.HandleText(ctx, poster, "4")
	require.NoError(t, err)

	for _, bad := range []string{"2000-01-01", "not-a-date"} {
		replies, err := m.HandleText(ctx, poster, bad)
		require.NoError(t, err)
		assert.Equal(t, msgInvalidDate, replies[0].Text)
		assert.Equal(t, session.StepDate, sessions.Get(poster.ID).Step)
	}
}

func TestAreaButtonIgnoredOutsideAreaStep(t *testing.T) {
	m, sessions, _ := newTestMachine()

	assert.Nil(t, m.SelectArea(poster.ID, models.AreaNorth))

	m.StartPostAd(poster.ID)
	assert.Nil(t, m.SelectArea(poster.ID, models.AreaNorth))
	assert.Equal(t, session.StepName, sessions.Get(poster.ID).Step)
}

func TestTextIgnoredWhileIdle(t *testing.T) {
	m, _, store := newTestMachine()

	replies, err := m.HandleText(context.Background(), poster, "hello")
	require.NoError(t, err)
	assert.Nil(t, replies)

	ads, err := store.ListAds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestEditFlowUpdatesField(t *testing.T) {
	m, sessions, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)
	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	adID := ads[0].ID

	m.StartEdit(poster.ID, adID)
	replies := m.SelectField(poster.ID, models.FieldCity)
	require.Len(t, replies, 1)
	assert.Equal(t, msgAskEditValue, replies[0].Text)

	replies, err = m.HandleText(ctx, poster, "Eilat")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, msgAdUpdated, replies[0].Text)

	ads, err = store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eilat", ads[0].City)
	assert.Equal(t, session.StepIdle, sessions.Get(poster.ID).Step)
}

func TestEditAreaOffersButtonsAndAcceptsValue(t *testing.T) {
	m, _, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)
	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	adID := ads[0].ID

	m.StartEdit(poster.ID, adID)
	replies := m.SelectField(poster.ID, models.FieldArea)
	require.Len(t, replies, 1)
	assert.Equal(t, msgAskEditArea, replies[0].Text)
	assert.NotEmpty(t, replies[0].Choices)

	replies, err = m.SetValue(ctx, poster, string(models.AreaSouth))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, msgAdUpdated, replies[0].Text)

	ads, err = store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AreaSouth, ads[0].Area)
}

func TestEditRepromptsOnInvalidValue(t *testing.T) {
	m, sessions, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)
	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	adID := ads[0].ID

	m.StartEdit(poster.ID, adID)
	m.SelectField(poster.ID, models.FieldCapacity)

	replies, err := m.HandleText(ctx, poster, "200")
	require.NoError(t, err)
	assert.Equal(t, msgInvalidCapacity, replies[0].Text)
	assert.Equal(t, session.StepEditValue, sessions.Get(poster.ID).Step)

	replies, err = m.HandleText(ctx, poster, "8")
	require.NoError(t, err)
	assert.Equal(t, msgAdUpdated, replies[0].Text)

	ads, err = store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, ads[0].Capacity)
}

func TestEditRejectedForNonOwner(t *testing.T) {
	m, sessions, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)
	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	adID := ads[0].ID

	intruder := &models.User{ID: 77, FirstName: "Noa"}
	m.StartEdit(intruder.ID, adID)
	m.SelectField(intruder.ID, models.FieldPhone)

	replies, err := m.HandleText(ctx, intruder, "0549999999")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, MsgAdNotOwned, replies[0].Text)
	assert.Equal(t, session.StepIdle, sessions.Get(intruder.ID).Step)

	// The ad is untouched.
	ads, err = store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)
	assert.Equal(t, "0501234567", ads[0].Phone)
}

func TestEditWithoutTargetFailsCleanly(t *testing.T) {
	m, sessions, _ := newTestMachine()
	ctx := context.Background()

	sessions.Put(poster.ID, session.Session{Step: session.StepEditValue, EditField: models.FieldCity})

	replies, err := m.HandleText(ctx, poster, "Eilat")
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, msgNoEditTarget, replies[0].Text)
	assert.Equal(t, session.StepIdle, sessions.Get(poster.ID).Step)
}

func TestSetValueIgnoredOutsideEditFlow(t *testing.T) {
	m, _, _ := newTestMachine()

	replies, err := m.SetValue(context.Background(), poster, "מרכז")
	require.NoError(t, err)
	assert.Nil(t, replies)
}

func TestNewEntryOverwritesStaleSession(t *testing.T) {
	m, sessions, store := newTestMachine()
	ctx := context.Background()

	runCreation(t, m)
	ads, err := store.ListAdsByOwner(ctx, poster.ID)
	require.NoError(t, err)

	// Abandon an edit flow mid-way, then start a fresh creation.
	m.StartEdit(poster.ID, ads[0].ID)
	m.SelectField(poster.ID, models.FieldPhone)

	m.StartPostAd(poster.ID)
	sess := sessions.Get(poster.ID)
	assert.Equal(t, session.StepName, sess.Step)
	assert.Zero(t, sess.EditAdID)
	assert.Empty(t, sess.EditField)
}
