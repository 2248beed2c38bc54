package service

import (
	"context"
	"strconv"
	"strings"

	ledger "signal_bot/internal/modules/ledger/service"
	"signal_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnStrategies = "📈 Стратегии"
	btnAccount    = "👤 Аккаунт"
	btnHelp       = "ℹ️ Помощь"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				if err := t.handleStart(ctx, msg); err != nil {
					logger.Error("handleStart error: %v", err)
				}
			case "strategies":
				t.handleStrategies(ctx, msg.Chat.ID)
			case "account":
				t.handleAccount(ctx, msg.Chat.ID)
			default:
			}
			return
		}

		t.handleTextMessage(ctx, msg)
		return
	}

	// 2) Inline-кнопки (CallbackQuery)
	if cb := update.CallbackQuery; cb != nil {
		// у callback всегда свой message
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		t.handleCallback(ctx, cb.Message.Chat.ID, cb)
		return
	}

	// 3) Остальное (inline mode и т.п.) пока игнорируем
}

func (t *Telegram) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	from := msg.From
	if from == nil {
		return nil
	}

	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)
	user, err := t.led.RegisterOrUpdateUser(ctx, from.ID, from.UserName, fullName)
	if err != nil {
		logger.Error("register user %d: %v", from.ID, err)
		_, err = t.Send(ctx, msg.Chat.ID, "❗️ Не удалось создать аккаунт, попробуй ещё раз /start")
		return err
	}

	// Главное меню
	replyKb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStrategies),
			tgbotapi.NewKeyboardButton(btnAccount),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)

	out := tgbotapi.NewMessage(msg.Chat.ID, formatWelcome(user))
	out.ParseMode = "Markdown"
	out.ReplyMarkup = replyKb

	_, err = t.SendMessage(ctx, out)
	return err
}

func (t *Telegram) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch strings.TrimSpace(msg.Text) {
	case btnStrategies:
		t.handleStrategies(ctx, msg.Chat.ID)
	case btnAccount:
		t.handleAccount(ctx, msg.Chat.ID)
	case btnHelp:
		_, _ = t.Send(ctx, msg.Chat.ID,
			"1️⃣ Открой «"+btnStrategies+"» и выбери стратегию.\n"+
				"2️⃣ Подпишись — стоимость спишется с баланса.\n"+
				"3️⃣ Сигналы будут приходить в этот чат.")
	}
}

// handleStrategies — витрина стратегий с кнопками подписки и продления.
func (t *Telegram) handleStrategies(ctx context.Context, chatID int64) {
	strategies, err := t.led.ListActiveStrategies(ctx)
	if err != nil {
		logger.Error("list strategies: %v", err)
		_, _ = t.Send(ctx, chatID, "❗️ Не удалось загрузить стратегии, попробуй позже")
		return
	}
	if len(strategies) == 0 {
		_, _ = t.Send(ctx, chatID, "📭 Доступных стратегий пока нет")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(strategies))
	for _, s := range strategies {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подписаться: "+s.Name, "sub_"+strconv.FormatInt(s.ID, 10)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Продлить", "renew_"+strconv.FormatInt(s.ID, 10)),
		))
	}

	out := tgbotapi.NewMessage(chatID, formatStrategyList(strategies))
	out.ParseMode = "Markdown"
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = t.SendMessage(ctx, out)
}

// handleAccount — баланс и активные подписки.
func (t *Telegram) handleAccount(ctx context.Context, chatID int64) {
	user, err := t.led.GetUserByTelegramID(ctx, chatID)
	if err != nil {
		logger.Error("get user %d: %v", chatID, err)
		_, _ = t.Send(ctx, chatID, "Аккаунт не найден, попробуй /start")
		return
	}

	subs, err := t.led.UserSubscriptions(ctx, user.ID)
	if err != nil {
		logger.Error("user subscriptions %d: %v", user.ID, err)
		_, _ = t.Send(ctx, chatID, "❗️ Не удалось загрузить подписки, попробуй позже")
		return
	}

	out := tgbotapi.NewMessage(chatID, formatAccount(user, subs))
	out.ParseMode = "Markdown"
	_, _ = t.SendMessage(ctx, out)
}

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	// отвечаем ТГ, чтобы убрать "часики" на кнопке
	_, _ = t.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	verb, strategyID, ok := parseStrategyCallback(cb.Data)
	if !ok {
		return
	}

	user, err := t.led.GetUserByTelegramID(ctx, callbackUserID(cb))
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Аккаунт не найден, попробуй /start")
		return
	}

	var res ledger.SubscribeResult
	switch verb {
	case "sub":
		res, err = t.led.Subscribe(ctx, user.ID, strategyID)
	case "renew":
		res, err = t.led.Renew(ctx, user.ID, strategyID)
	default:
		return
	}
	if err != nil {
		logger.Error("%s strategy %d for user %d: %v", verb, strategyID, user.ID, err)
		_, _ = t.Send(ctx, chatID, "❗️ Операция не прошла, попробуй позже")
		return
	}

	_, _ = t.Send(ctx, chatID, formatSubscribeResult(res))
}

// callbackUserID — идентичность по нажавшему кнопку, не по чату: в группе
// это разные вещи.
func callbackUserID(cb *tgbotapi.CallbackQuery) int64 {
	if cb.From != nil {
		return cb.From.ID
	}
	return cb.Message.Chat.ID
}

// parseStrategyCallback разбирает callback data вида "sub_12" / "renew_12".
func parseStrategyCallback(data string) (verb string, strategyID int64, ok bool) {
	idx := strings.LastIndexByte(data, '_')
	if idx <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(data[idx+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return data[:idx], id, true
}
