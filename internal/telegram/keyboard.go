package telegram

import "github.com/go-telegram/bot/models"

// Reply-keyboard button labels. Handlers match on these exact strings.
const (
	BtnProfile    = "📊 Профіль"
	BtnPremium    = "💎 Преміум"
	BtnHelp       = "🆘 Допомога"
	BtnAdminPanel = "⚙️ Адмін панель"
	BtnMainMenu   = "🔙 Головне меню"
	BtnEnterPromo = "🎫 Ввести промокод"
	BtnBuyPremium = "💳 Купити преміум"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

func replyKeyboard(labels ...string) *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []models.KeyboardButton{{Text: label}})
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// MainMenu is the default reply keyboard. Admins get an extra panel button.
func MainMenu(isAdmin bool) *models.ReplyKeyboardMarkup {
	if isAdmin {
		return replyKeyboard(BtnProfile, BtnPremium, BtnHelp, BtnAdminPanel)
	}
	return replyKeyboard(BtnProfile, BtnPremium, BtnHelp)
}

// PremiumMenu is shown on the premium screen.
func PremiumMenu() *models.ReplyKeyboardMarkup {
	return replyKeyboard(BtnEnterPromo, BtnBuyPremium, BtnProfile, BtnMainMenu)
}
