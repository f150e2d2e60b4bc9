// Package flow implements the conversation state machine behind ad
// creation and editing. Transitions over typed steps are pure; the
// Machine applies their storage effects, so the whole flow is testable
// without a live chat connection.
package flow

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/safestay/shelter-bot/internal/models"
	"github.com/safestay/shelter-bot/internal/session"
	"github.com/safestay/shelter-bot/internal/storage"
	"github.com/safestay/shelter-bot/internal/validate"
	"go.uber.org/zap"
)

type Machine struct {
	sessions *session.Store
	store    storage.Storage
	logger   *zap.Logger
}

func NewMachine(sessions *session.Store, store storage.Storage, logger *zap.Logger) *Machine {
	return &Machine{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// StartPostAd enters the creation flow, overwriting any stale session.
func (m *Machine) StartPostAd(userID int64) []Reply {
	m.sessions.Put(userID, session.Session{Step: session.StepName})
	return []Reply{textReply(msgAskName)}
}

// StartEdit enters the edit flow for one ad. Ownership is not checked
// here; the eventual update matches zero rows for a non-owner.
func (m *Machine) StartEdit(userID, adID int64) []Reply {
	m.sessions.Put(userID, session.Session{Step: session.StepEditField, EditAdID: adID})
	return []Reply{{Text: msgAskEditField, Choices: FieldKeyboard()}}
}

// SelectField records which field the edit flow targets.
func (m *Machine) SelectField(userID int64, field models.Field) []Reply {
	sess := m.sessions.Get(userID)
	if sess.Step != session.StepEditField {
		return nil
	}

	sess.EditField = field
	sess.Step = session.StepEditValue
	m.sessions.Put(userID, sess)

	if field == models.FieldArea {
		return []Reply{{Text: msgAskEditArea, Choices: searchAreaKeyboard(prefixValue)}}
	}
	return []Reply{textReply(msgAskEditValue)}
}

// SelectArea answers the creation-flow area question.
func (m *Machine) SelectArea(userID int64, area models.Area) []Reply {
	sess := m.sessions.Get(userID)
	if sess.Step != session.StepArea {
		return nil
	}

	sess.Draft.Area = area
	sess.Step = session.StepCity
	m.sessions.Put(userID, sess)
	return []Reply{textReply(msgAskCity)}
}

// SetValue answers the edit-value question from a button press.
func (m *Machine) SetValue(ctx context.Context, user *models.User, value string) ([]Reply, error) {
	sess := m.sessions.Get(user.ID)
	if sess.Step != session.StepEditValue {
		return nil, nil
	}
	return m.applyEdit(ctx, user, sess, value)
}

// HandleText routes free-text input to the step that expects it. Text
// arriving while no step expects it is ignored.
func (m *Machine) HandleText(ctx context.Context, user *models.User, text string) ([]Reply, error) {
	sess := m.sessions.Get(user.ID)
	text = strings.TrimSpace(text)

	switch sess.Step {
	case session.StepName, session.StepPhone, session.StepCity, session.StepCapacity, session.StepDate:
		return m.advanceCreation(ctx, user, sess, text)
	case session.StepEditValue:
		return m.applyEdit(ctx, user, sess, text)
	default:
		m.logger.Debug("ignoring text outside a flow",
			zap.Int64("user_id", user.ID),
			zap.Stringer("step", sess.Step))
		return nil, nil
	}
}

func (m *Machine) advanceCreation(ctx context.Context, user *models.User, sess session.Session, text string) ([]Reply, error) {
	next, reply, publish := advanceCreate(sess, text)
	if !publish {
		m.sessions.Put(user.ID, next)
		return []Reply{reply}, nil
	}

	ad := &models.Ad{
		UserID:        user.ID,
		Name:          next.Draft.Name,
		Phone:         next.Draft.Phone,
		Area:          next.Draft.Area,
		City:          next.Draft.City,
		Capacity:      next.Draft.Capacity,
		DateAvailable: next.Draft.DateAvailable,
	}

	adID, err := m.store.PublishAd(ctx, user, ad)
	if err != nil {
		// Keep the session so the user can resend the date and retry;
		// the caller tells them something went wrong.
		m.sessions.Put(user.ID, sess)
		return nil, err
	}

	m.logger.Info("ad published",
		zap.Int64("ad_id", adID),
		zap.Int64("user_id", user.ID),
		zap.String("area", string(ad.Area)))

	m.sessions.Clear(user.ID)
	return []Reply{reply}, nil
}

// advanceCreate is the pure creation-flow transition: it validates one
// input against the current step and returns the next session state, the
// reply to send, and whether the completed draft should be published.
// Invalid input re-prompts and leaves the session untouched.
func advanceCreate(sess session.Session, text string) (session.Session, Reply, bool) {
	switch sess.Step {
	case session.StepName:
		if !validate.Text(text) {
			return sess, textReply(msgInvalidName), false
		}
		sess.Draft.Name = text
		sess.Step = session.StepPhone
		return sess, textReply(msgAskPhone), false

	case session.StepPhone:
		if !validate.Phone(text) {
			return sess, textReply(msgInvalidPhone), false
		}
		sess.Draft.Phone = text
		sess.Step = session.StepArea
		return sess, Reply{Text: msgAskArea, Choices: AreaKeyboard()}, false

	case session.StepCity:
		if !validate.Text(text) {
			return sess, textReply(msgInvalidCity), false
		}
		sess.Draft.City = text
		sess.Step = session.StepCapacity
		return sess, textReply(msgAskCapacity), false

	case session.StepCapacity:
		n, err := strconv.Atoi(text)
		if err != nil || !validate.Capacity(n) {
			return sess, textReply(msgInvalidCapacity), false
		}
		sess.Draft.Capacity = n
		sess.Step = session.StepDate
		return sess, textReply(msgAskDate), false

	case session.StepDate:
		if !validate.Date(text) {
			return sess, textReply(msgInvalidDate), false
		}
		sess.Draft.DateAvailable = text
		return sess, Reply{Text: msgAdPublished, Choices: BackToMenuRow()}, true
	}

	return sess, Reply{}, false
}

// applyEdit validates the new value for the targeted field and issues the
// owner-scoped single-field update. Validation failure re-prompts in
// place; a non-owned or missing ad is rejected explicitly.
func (m *Machine) applyEdit(ctx context.Context, user *models.User, sess session.Session, raw string) ([]Reply, error) {
	if sess.EditAdID == 0 {
		m.sessions.Clear(user.ID)
		return []Reply{textReply(msgNoEditTarget)}, nil
	}

	var value any
	switch sess.EditField {
	case models.FieldPhone:
		if !validate.Phone(raw) {
			return []Reply{textReply(msgInvalidPhone)}, nil
		}
		value = raw
	case models.FieldCapacity:
		n, err := strconv.Atoi(raw)
		if err != nil || !validate.Capacity(n) {
			return []Reply{textReply(msgInvalidCapacity)}, nil
		}
		value = n
	case models.FieldDate:
		if !validate.Date(raw) {
			return []Reply{textReply(msgInvalidDate)}, nil
		}
		value = raw
	case models.FieldArea:
		if !models.Area(raw).Valid() {
			return []Reply{{Text: msgAskEditArea, Choices: searchAreaKeyboard(prefixValue)}}, nil
		}
		value = raw
	default:
		value = raw
	}

	err := m.store.UpdateAdField(ctx, sess.EditAdID, user.ID, sess.EditField, value)
	if errors.Is(err, storage.ErrAdNotFound) {
		m.logger.Info("edit rejected",
			zap.Int64("ad_id", sess.EditAdID),
			zap.Int64("user_id", user.ID),
			zap.String("field", string(sess.EditField)))
		m.sessions.Clear(user.ID)
		return []Reply{textReply(MsgAdNotOwned)}, nil
	}
	if err != nil {
		return nil, err
	}

	m.logger.Info("ad updated",
		zap.Int64("ad_id", sess.EditAdID),
		zap.Int64("user_id", user.ID),
		zap.String("field", string(sess.EditField)))

	m.sessions.Clear(user.ID)
	return []Reply{{Text: msgAdUpdated, Choices: BackToMenuRow()}}, nil
}
