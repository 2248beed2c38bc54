package service

import (
	"fmt"
	"strings"

	"signal_bot/internal/models"
	ledger "signal_bot/internal/modules/ledger/service"
)

const dateLayout = "2006-01-02"

func formatWelcome(user *models.User) string {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	return fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я рассылаю торговые сигналы по подписке.\n"+
			"Баланс: *$%s*\n\n"+
			"Открой «%s», чтобы выбрать стратегию.",
		name, user.Balance.StringFixed(2), btnStrategies)
}

func formatStrategyList(strategies []models.Strategy) string {
	var b strings.Builder
	b.WriteString("📈 *Стратегии*\n\n")
	for _, s := range strategies {
		desc := s.Description
		if desc == "" {
			desc = "Описание не заполнено"
		}
		fmt.Fprintf(&b, "▫️ *%s*\n%s\n💰 $%s/мес\n\n",
			s.Name, desc, s.PriceMonthly.StringFixed(2))
	}
	return b.String()
}

func formatAccount(user *models.User, subs []ledger.SubscriptionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 *Аккаунт*\n\n💰 Баланс: *$%s*\n\n", user.Balance.StringFixed(2))

	if len(subs) == 0 {
		b.WriteString("📋 Активных подписок нет — загляни в «" + btnStrategies + "»")
		return b.String()
	}

	b.WriteString("📋 *Подписки*\n")
	for _, v := range subs {
		until := "бессрочно"
		if v.Subscription.EndDate != nil {
			until = "до " + v.Subscription.EndDate.Format(dateLayout)
		}
		fmt.Fprintf(&b, "  ✅ %s (%s)\n", v.StrategyName, until)
	}
	return b.String()
}

func formatSubscribeResult(res ledger.SubscribeResult) string {
	switch res.Status {
	case ledger.StatusCreated:
		return fmt.Sprintf("✅ Подписка оформлена до %s\n💰 Остаток: $%s",
			res.EndDate.Format(dateLayout), res.Remaining.StringFixed(2))
	case ledger.StatusRenewed:
		return fmt.Sprintf("✅ Подписка продлена до %s\n💰 Остаток: $%s",
			res.EndDate.Format(dateLayout), res.Remaining.StringFixed(2))
	case ledger.StatusAlreadySubscribed:
		return "ℹ️ Подписка уже активна. Продлить можно кнопкой «🔄 Продлить»."
	case ledger.StatusInsufficientBalance:
		return fmt.Sprintf("❌ Недостаточно средств\nНужно: $%s\nДоступно: $%s",
			res.Required.StringFixed(2), res.Available.StringFixed(2))
	case ledger.StatusNoSubscription:
		return "ℹ️ Продлевать нечего: подписки на эту стратегию ещё не было."
	default:
		return "❗️ Операция не прошла, попробуй позже"
	}
}

// FormatSignal — текст сигнала для чата подписчика.
func FormatSignal(sig models.SignalPayload) string {
	emoji := "🟢"
	if sig.Side == string(models.SideSell) {
		emoji = "🔴"
	}
	return fmt.Sprintf(
		"%s *%s* %s\n\n"+
			"Стратегия: %s\n"+
			"Цена: %.8g\n"+
			"Причина: %s\n"+
			"Время: %s",
		emoji, sig.Side, sig.Symbol, sig.StrategyName, sig.Price, sig.Reason, sig.Timestamp)
}
