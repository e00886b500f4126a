package domain

import (
	"fmt"
	"math/rand"
)

// Tier buckets acknowledgment delay and drives the feedback text.
type Tier int

const (
	TierOnTime Tier = iota // taken within 5 minutes
	TierSmall              // 6..30 minutes
	TierMedium             // 31..60 minutes
	TierLarge              // over an hour
)

func (t Tier) String() string {
	switch t {
	case TierOnTime:
		return "on-time"
	case TierSmall:
		return "small-delay"
	case TierMedium:
		return "medium-delay"
	case TierLarge:
		return "large-delay"
	}
	return "unknown"
}

// ClassifyDelay buckets the time between a reminder's emission and its
// acknowledgment. Minutes are floored. A negative delay (clock skew, or an
// acknowledgment racing the emission) is clamped to zero and counts as
// on-time so it can never produce a negative-minutes display.
func ClassifyDelay(firedAt, now int64) (Tier, int) {
	delay := now - firedAt
	if delay < 0 {
		delay = 0
	}
	minutes := int(delay / 60)

	switch {
	case minutes <= 5:
		return TierOnTime, minutes
	case minutes <= 30:
		return TierSmall, minutes
	case minutes <= 60:
		return TierMedium, minutes
	default:
		return TierLarge, minutes
	}
}

// FormatDelay renders elapsed minutes as "N мин" or "H ч M мин" past the hour.
func FormatDelay(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	return fmt.Sprintf("%d ч %d мин", minutes/60, minutes%60)
}

var onTimeTexts = []string{
	"Молодец, %s! 🎉 Ты принял(а) %s вовремя!",
	"Отлично, %s! 💪 %s — точно по расписанию!",
	"Супер, %s! 🌟 Регулярный прием %s — залог успеха!",
	"Браво, %s! 👏 %s принято без опозданий!",
}

var smallDelayTexts = []string{
	"Хорошо, %s! %s принято с небольшим опозданием (%s). Почти вовремя! 😊",
	"%s, %s принято через %s после напоминания. Неплохо, но можно точнее! 💊",
	"Засчитано, %s! %s — опоздание всего %s. 👍",
}

var mediumDelayTexts = []string{
	"%s, ты принял(а) %s с опозданием %s. Постарайся не откладывать! ⏰",
	"%s, %s принято через %s. Лучше поздно, чем никогда, но следи за временем! 😉",
	"Принято, %s. %s — задержка %s. Попробуй реагировать быстрее! 💪",
}

var largeDelayTexts = []string{
	"%s, между напоминанием и приемом %s прошло %s. Это серьезное опоздание! ⚠️",
	"%s, %s принято только через %s. Регулярность очень важна для лечения! ❗",
	"%s, задержка приема %s составила %s. Постарайся не пропускать время! ⏳",
}

// AckText picks a feedback message for an acknowledged reminder. The template
// within a tier is chosen uniformly at random; only the tier is meaningful.
func AckText(tier Tier, minutes int, firstName, medName string) string {
	pick := func(set []string) string { return set[rand.Intn(len(set))] }

	switch tier {
	case TierOnTime:
		return fmt.Sprintf(pick(onTimeTexts), firstName, medName)
	case TierSmall:
		return fmt.Sprintf(pick(smallDelayTexts), firstName, medName, FormatDelay(minutes))
	case TierMedium:
		return fmt.Sprintf(pick(mediumDelayTexts), firstName, medName, FormatDelay(minutes))
	default:
		return fmt.Sprintf(pick(largeDelayTexts), firstName, medName, FormatDelay(minutes))
	}
}
