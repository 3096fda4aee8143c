package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeout = 60 * time.Second

// sender is the part of *tgbotapi.BotAPI the bot needs to talk back
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot connects the message Handler to Telegram, by webhook or long polling,
// and delivers reminders.
type Bot struct {
	api     *tgbotapi.BotAPI
	send    sender
	handler *Handler
	loc     *time.Location
	stopCh  chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger
}

func New(token string, handler *Handler, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, handler, loc)
	b.api = api
	b.log.Info("bot authorized", "username", api.Self.UserName)
	return b, nil
}

func newBot(s sender, handler *Handler, loc *time.Location) *Bot {
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		send:    s,
		handler: handler,
		loc:     loc,
		stopCh:  make(chan struct{}),
		log:     logger.With("component", "bot"),
	}
}

// RegisterCommands publishes the command menu shown when typing "/"
func (b *Bot) RegisterCommands() error {
	_, err := b.send.Request(tgbotapi.NewSetMyCommands(menu...))
	return err
}

// HandleUpdate processes one update synchronously. Panics are recovered so a
// bad update never takes the process down.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	if !msg.IsCommand() {
		// the assistant can take a while; show "typing..."
		if _, err := b.send.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
			b.log.Debug("chat action failed", "error", err)
		}
	}

	response := b.handler.Handle(ctx, msg)
	if response == "" {
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	if _, err := b.send.Send(reply); err != nil {
		b.log.Error("error sending message", "chat_id", msg.Chat.ID, "error", err)
	}
}

// Start long-polls for updates until Stop is called. Each update is handled
// in its own goroutine.
func (b *Bot) Start() {
	if b.api == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(updateTimeout.Seconds())

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
				defer cancel()
				b.HandleUpdate(ctx, update)
			}(update)
		}
	}
}

// Stop ends polling and waits for in-flight handlers
func (b *Bot) Stop() {
	b.log.Info("stopping bot...")
	close(b.stopCh)
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("bot shutdown timeout, some handlers may not have completed")
	}
}

// NotifyReminder sends a due reminder to its owner's private chat
func (b *Bot) NotifyReminder(ctx context.Context, rem *domain.Reminder) error {
	msg := tgbotapi.NewMessage(rem.UserID, deliveryText(rem, b.loc))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.send.Send(msg); err != nil {
		return fmt.Errorf("send reminder %d to %d: %w", rem.ID, rem.UserID, err)
	}
	return nil
}
