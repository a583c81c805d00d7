// Package telegram adapts the Telegram Bot API to the channel contract.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/channel"
	"github.com/spec-kit/complaint-bot/internal/config"
)

// cancelCommand aborts the current workflow from any step.
const cancelCommand = "batal"

// Adapter long-polls Telegram for updates and forwards them as channel
// events, one goroutine per event.
type Adapter struct {
	bot     *tgbotapi.BotAPI
	handler channel.Handler
	logger  *zap.Logger
	timeout int
}

// New authorizes the bot and wires the inbound handler.
func New(cfg config.TelegramConfig, handler channel.Handler, logger *zap.Logger) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}

	logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	return &Adapter{
		bot:     bot,
		handler: handler,
		logger:  logger,
		timeout: cfg.PollTimeoutSeconds,
	}, nil
}

// Run begins long-polling for updates. Blocks until the context is
// cancelled.
func (a *Adapter) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = a.timeout

	updates := a.bot.GetUpdatesChan(u)

	a.logger.Info("telegram adapter started")

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			ev, ok := toEvent(update.Message)
			if !ok {
				continue
			}
			go a.handler(ctx, ev)

		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			a.logger.Info("telegram adapter stopped")
			return ctx.Err()
		}
	}
}

// Send delivers a message to a Telegram chat.
func (a *Adapter) Send(_ context.Context, chatID string, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat id %q: %w", chatID, err)
	}

	msg := tgbotapi.NewMessage(id, text)
	_, err = a.bot.Send(msg)
	return err
}

// toEvent maps a Telegram message onto a channel event. Photo messages
// become image events carrying the largest photo size's file id; the cancel
// command becomes a cancel event regardless of workflow state.
func toEvent(msg *tgbotapi.Message) (channel.Event, bool) {
	if msg.From == nil {
		return channel.Event{}, false
	}

	ev := channel.Event{
		UserID:          strconv.FormatInt(msg.From.ID, 10),
		ChatID:          strconv.FormatInt(msg.Chat.ID, 10),
		ReporterName:    displayName(msg.From),
		MessagingHandle: contactHandle(msg.From),
	}

	switch {
	case msg.IsCommand():
		if msg.Command() == cancelCommand {
			ev.Kind = channel.KindCancel
			return ev, true
		}
		ev.Kind = channel.KindCommand
		ev.Command = msg.Command()
		ev.Text = msg.CommandArguments()
		return ev, true

	case len(msg.Photo) > 0:
		ev.Kind = channel.KindImage
		ev.EvidenceRef = "tg-file:" + msg.Photo[len(msg.Photo)-1].FileID
		return ev, true

	case msg.Text != "":
		ev.Kind = channel.KindText
		ev.Text = msg.Text
		return ev, true
	}

	return channel.Event{}, false
}
