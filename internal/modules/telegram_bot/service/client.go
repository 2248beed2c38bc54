package service

import (
	"context"
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	ledger "signal_bot/internal/modules/ledger/service"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — чатовая поверхность: регистрация, витрина стратегий,
// подписки/продления и доставка сигналов подписчикам.
type Telegram struct {
	bot *tgbot.BotAPI
	cfg *config.Config
	led *ledger.Ledger
}

func NewTelegram(cfg *config.Config, led *ledger.Ledger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot: b,
		cfg: cfg,
		led: led,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.bot.Send(message)
}

// Notify доставляет сигнал в чат подписчика. Контракт fanout.Notifier.
func (t *Telegram) Notify(ctx context.Context, chatID int64, sig models.SignalPayload) error {
	msg := tgbot.NewMessage(chatID, FormatSignal(sig))
	msg.ParseMode = "Markdown"
	_, err := t.SendMessage(ctx, msg)
	return err
}

// Start ...
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for update := range updates {
		t.handleUpdate(ctx, update)
	}
	return nil
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
