package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
)

// UI texts in Russian (the bot's audience); logs stay English.
const (
	startFmt = "Привет, %s! 👋\n\n" +
		"Я помогу тебе не забывать принимать лекарства вовремя.\n\n" +
		"💊 Выберите действие:"
	menuText = "💊 Главное меню 💊\n\nВыберите действие:"
	helpText = "💊 Как пользоваться ботом:\n\n" +
		"➕ Добавить лекарство — введи название, дозировку и расписание\n" +
		"📋 Мои лекарства — все твои активные лекарства\n" +
		"🗑 Удалить лекарство — выбери лекарство для удаления\n" +
		"⏰ Напоминания — бот автоматически напомнит о приеме\n" +
		"✅ Подтверждение — нажимай «Я принял(а)» когда выпьешь лекарство\n\n" +
		"Формат времени: «08:00, 20:00» для приема утром и вечером"

	askNameText    = "💊 Добавляем новое лекарство!\n\nВведите название лекарства:"
	askDosageFmt   = "📝 Название: %s\n\nТеперь введите дозировку (например: «500 мг», «1 таблетка»):"
	askScheduleFmt = "📋 Дозировка: %s\n\n" +
		"Теперь введите расписание в формате ЧЧ:ММ:\n" +
		"Например: «08:00, 20:00» для приема утром и вечером"
	addedFmt = "✅ Лекарство успешно добавлено!\n\n" +
		"💊 Название: %s\n📋 Дозировка: %s\n⏰ Расписание: %s\n\n" +
		"Я буду напоминать вам в указанное время!"

	noMedicationsText = "📭 У вас пока нет добавленных лекарств."
	listHeaderText    = "💊 Ваши лекарства:\n"
	listEntryFmt      = "\n• %s\n  Дозировка: %s\n  Расписание: %s\n"
	askDeleteText     = "🗑 Выберите лекарство для удаления:"
	deletedFmt        = "✅ Лекарство удалено!\n\n💊 Название: %s\n📋 Дозировка: %s\n⏰ Расписание: %s"
	notFoundText      = "❌ Лекарство не найдено."
	deleteFailedText  = "❌ Не удалось удалить лекарство."
	internalErrorText = "Что-то пошло не так. Попробуйте еще раз позже."

	reminderFmt = "🔔 Время принять лекарство!\n\n" +
		"💊 Лекарство: %s\n📋 Дозировка: %s\n⏰ Время: %s\n\n" +
		"Нажми кнопку ниже когда примешь лекарство!"
	takenButtonText = "✅ Я принял(а) лекарство ✅"
	takenHeaderFmt  = "✅ Лекарство принято!\n\n💊 %s\n\n%s"

	scheduleExamples = "\n\n💡 Примеры правильного формата:\n" +
		"• 08:00\n• 08:00, 20:00\n• 09:30, 14:00, 21:15\n\n" +
		"Введите время в формате ЧЧ:ММ через запятую:"
)

// validationMessage maps a domain validation error to a user-facing Russian
// message. Unknown errors get a generic retry text.
func validationMessage(err error) string {
	var badTime *domain.BadTimeError
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return "❌ Название лекарства не может быть пустым"
	case errors.Is(err, domain.ErrNameTooShort):
		return fmt.Sprintf("❌ Название слишком короткое (минимум %d символа)", domain.MinNameLen)
	case errors.Is(err, domain.ErrNameTooLong):
		return fmt.Sprintf("❌ Название слишком длинное (максимум %d символов)", domain.MaxNameLen)
	case errors.Is(err, domain.ErrNameCharset):
		return "❌ Название содержит недопустимые символы"
	case errors.Is(err, domain.ErrEmptyDosage):
		return "❌ Дозировка не может быть пустой"
	case errors.Is(err, domain.ErrDosageTooLong):
		return fmt.Sprintf("❌ Дозировка слишком длинная (максимум %d символов)", domain.MaxDosageLen)
	case errors.Is(err, domain.ErrDosageCharset):
		return "❌ Дозировка содержит недопустимые символы"
	case errors.Is(err, domain.ErrEmptySchedule):
		return "❌ Расписание не может быть пустым" + scheduleExamples
	case errors.Is(err, domain.ErrTooManyTimes):
		return fmt.Sprintf("❌ Слишком много времени приема (максимум %d раз в день)", domain.MaxScheduleTimes) + scheduleExamples
	case errors.Is(err, domain.ErrDuplicateTime):
		return "❌ Обнаружены дублирующиеся времена приема" + scheduleExamples
	case errors.As(err, &badTime):
		return fmt.Sprintf("❌ Неверный формат времени: «%s». Используйте ЧЧ:ММ (например: 08:00)", badTime.Token) + scheduleExamples
	default:
		return internalErrorText
	}
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💊 Добавить лекарство", Action{Kind: ActionAdd}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Мои лекарства", Action{Kind: ActionList}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить лекарство", Action{Kind: ActionDeleteMenu}.Encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Помощь", Action{Kind: ActionHelp}.Encode()),
		),
	)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", Action{Kind: ActionMenu}.Encode()),
		),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", Action{Kind: ActionMenu}.Encode()),
		),
	)
}

// deleteKeyboard lists one button per active medication plus a back button.
func deleteKeyboard(meds []domain.Medication) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(meds)+1)
	for _, m := range meds {
		label := fmt.Sprintf("🗑 %s (%s)", m.Name, m.Dosage)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, Action{Kind: ActionDelete, MedicationID: m.ID}.Encode()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", Action{Kind: ActionMenu}.Encode()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// takenKeyboard carries the reply action that round-trips the medication and
// the firing's emission timestamp.
func takenKeyboard(medicationID, firedAt int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				takenButtonText,
				Action{Kind: ActionTaken, MedicationID: medicationID, FiredAt: firedAt}.Encode(),
			),
		),
	)
}
