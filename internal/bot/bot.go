package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/safestay/shelter-bot/internal/flow"
	"github.com/safestay/shelter-bot/internal/models"
	"github.com/safestay/shelter-bot/internal/moderation"
	"github.com/safestay/shelter-bot/internal/storage"
	"go.uber.org/zap"
)

const helpText = `פקודות זמינות:
/start - תפריט ראשי
/help - הצגת הודעה זו

דרך התפריט אפשר לפרסם מודעת אירוח, לצפות בכל המודעות, לסנן לפי אזור, לערוך ולמחוק מודעות, ולדווח על מודעות לא הולמות.`

type Bot struct {
	api        *tgbotapi.BotAPI
	store      storage.Storage
	machine    *flow.Machine
	moderation *moderation.Service
	logger     *zap.Logger
}

func New(token string, store storage.Storage, machine *flow.Machine, moderation *moderation.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		store:      store,
		machine:    machine,
		moderation: moderation,
		logger:     logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for update := range updates {
		go b.handleUpdate(update)
	}

	return nil
}

// handleUpdate is the top-level guard: a failure in one update is logged
// and answered with a generic apology, never allowed to crash the process.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()
	logger := b.logger.With(zap.String("trace_id", uuid.NewString()))

	chatID := chatIDOf(update)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling update", zap.Any("panic", r))
			if chatID != 0 {
				b.sendText(chatID, flow.MsgGenericError, nil)
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, logger, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, logger, update.Message)
	}
}

func chatIDOf(update tgbotapi.Update) int64 {
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	return 0
}

func userFrom(from *tgbotapi.User) *models.User {
	return &models.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}

func (b *Bot) handleMessage(ctx context.Context, logger *zap.Logger, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.sendReplies(message.Chat.ID, flow.Intro())
		case "help":
			b.sendText(message.Chat.ID, helpText, nil)
		default:
			b.sendText(message.Chat.ID, helpText, nil)
		}
		return
	}

	user := userFrom(message.From)
	replies, err := b.machine.HandleText(ctx, user, message.Text)
	if err != nil {
		logger.Error("failed to handle text",
			zap.Error(err),
			zap.Int64("user_id", user.ID))
		b.sendText(message.Chat.ID, flow.MsgGenericError, nil)
		return
	}

	b.sendReplies(message.Chat.ID, replies)
}

func (b *Bot) handleCallback(ctx context.Context, logger *zap.Logger, query *tgbotapi.CallbackQuery) {
	// Ack the button press so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("failed to answer callback query", zap.Error(err))
	}

	if query.Message == nil || query.From == nil {
		return
	}

	action, err := flow.ParseAction(query.Data)
	if err != nil {
		logger.Warn("ignoring malformed callback payload",
			zap.Error(err),
			zap.Int64("user_id", query.From.ID))
		return
	}

	user := userFrom(query.From)
	chatID := query.Message.Chat.ID

	logger.Info("button pressed",
		zap.String("data", query.Data),
		zap.Int64("user_id", user.ID))

	switch a := action.(type) {
	case flow.MainMenu:
		// Drop the tapped message, then show the menu again.
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, query.Message.MessageID)); err != nil {
			logger.Warn("failed to delete menu message", zap.Error(err))
		}
		b.sendReplies(chatID, flow.Intro())

	case flow.PostAd:
		b.sendReplies(chatID, b.machine.StartPostAd(user.ID))

	case flow.AllAds:
		ads, err := b.store.ListAds(ctx)
		b.showAds(logger, chatID, ads, err, false, flow.MsgNoAds)

	case flow.MyAds:
		ads, err := b.store.ListAdsByOwner(ctx, user.ID)
		b.showAds(logger, chatID, ads, err, true, flow.MsgNoMyAds)

	case flow.SearchByArea:
		b.sendText(chatID, flow.MsgChooseArea, flow.FilterAreaKeyboard())

	case flow.FilterArea:
		ads, err := b.store.ListAdsByArea(ctx, a.Area)
		b.showAds(logger, chatID, ads, err, false, flow.NoAdsInAreaText(a.Area))

	case flow.SelectArea:
		b.sendReplies(chatID, b.machine.SelectArea(user.ID, a.Area))

	case flow.EditAd:
		b.sendReplies(chatID, b.machine.StartEdit(user.ID, a.AdID))

	case flow.EditField:
		b.sendReplies(chatID, b.machine.SelectField(user.ID, a.Field))

	case flow.SetValue:
		replies, err := b.machine.SetValue(ctx, user, a.Value)
		if err != nil {
			logger.Error("failed to apply edit",
				zap.Error(err),
				zap.Int64("user_id", user.ID))
			b.sendText(chatID, flow.MsgGenericError, nil)
			return
		}
		b.sendReplies(chatID, replies)

	case flow.DeleteAd:
		b.handleDelete(ctx, logger, query, user, a.AdID)

	case flow.ReportAd:
		b.handleReport(ctx, logger, chatID, user, a.AdID)
	}
}

func (b *Bot) handleDelete(ctx context.Context, logger *zap.Logger, query *tgbotapi.CallbackQuery, user *models.User, adID int64) {
	chatID := query.Message.Chat.ID

	err := b.store.DeleteAd(ctx, adID, user.ID)
	if errors.Is(err, storage.ErrAdNotFound) {
		logger.Info("delete rejected",
			zap.Int64("ad_id", adID),
			zap.Int64("user_id", user.ID))
		b.sendText(chatID, flow.MsgAdNotOwned, nil)
		return
	}
	if err != nil {
		logger.Error("failed to delete ad",
			zap.Error(err),
			zap.Int64("ad_id", adID),
			zap.Int64("user_id", user.ID))
		b.sendText(chatID, flow.MsgGenericError, nil)
		return
	}

	logger.Info("ad deleted",
		zap.Int64("ad_id", adID),
		zap.Int64("user_id", user.ID))

	// Replace the tapped ad message instead of adding a new one.
	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, flow.MsgAdDeleted)
	if _, err := b.api.Send(edit); err != nil {
		logger.Warn("failed to edit deleted ad message", zap.Error(err))
		b.sendText(chatID, flow.MsgAdDeleted, nil)
	}
}

func (b *Bot) handleReport(ctx context.Context, logger *zap.Logger, chatID int64, user *models.User, adID int64) {
	outcome, err := b.moderation.Report(ctx, adID, user.ID)
	if errors.Is(err, storage.ErrAdNotFound) {
		b.sendText(chatID, flow.MsgReportNotFound, nil)
		return
	}
	if err != nil {
		logger.Error("failed to process report",
			zap.Error(err),
			zap.Int64("ad_id", adID),
			zap.Int64("user_id", user.ID))
		b.sendText(chatID, flow.MsgGenericError, nil)
		return
	}

	switch outcome {
	case moderation.OutcomeAlreadyReported:
		b.sendText(chatID, flow.MsgAlreadyReported, nil)
	case moderation.OutcomeAutoDeleted:
		b.sendText(chatID, flow.MsgReportDeleted, nil)
	default:
		b.sendText(chatID, flow.MsgReportRecorded, nil)
	}
}

// showAds renders a listing dump followed by the back-to-menu row.
func (b *Bot) showAds(logger *zap.Logger, chatID int64, ads []*models.Ad, err error, ownerView bool, emptyMsg string) {
	if err != nil {
		logger.Error("failed to list ads", zap.Error(err))
		b.sendText(chatID, flow.MsgGenericError, nil)
		return
	}

	if len(ads) == 0 {
		b.sendText(chatID, emptyMsg, nil)
	} else {
		for _, ad := range ads {
			buttons := flow.AdButtonsReport(ad.ID)
			if ownerView {
				buttons = flow.AdButtonsOwner(ad.ID)
			}
			b.sendText(chatID, flow.RenderAd(ad), buttons)
		}
	}

	b.sendText(chatID, flow.MsgBackToMenu, flow.BackToMenuRow())
}

func (b *Bot) sendReplies(chatID int64, replies []flow.Reply) {
	for _, reply := range replies {
		b.sendText(chatID, reply.Text, reply.Choices)
	}
}

func (b *Bot) sendText(chatID int64, text string, choices [][]flow.Choice) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(choices) > 0 {
		msg.ReplyMarkup = keyboard(choices)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func keyboard(choices [][]flow.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, row := range choices {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, choice := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
