package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
	"github.com/akkafe1ix/HealthPill-bot/internal/store"
)

// handleStart upserts the user from their Telegram profile and shows the menu.
func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u := &domain.User{ID: chatID}
	if msg.From != nil {
		u.Username = msg.From.UserName
		u.FirstName = msg.From.FirstName
		u.LastName = msg.From.LastName
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("upsert user failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}

	r.clearSession(chatID)
	r.sendWithKeyboard(chatID, fmt.Sprintf(startFmt, u.FirstName), mainMenuKeyboard())
}

// --- Add flow: name → dosage → schedule ---

func (r *Router) startAddFlow(_ context.Context, chatID int64) {
	r.setSession(chatID, &addSession{step: stepName})
	r.sendWithKeyboard(chatID, askNameText, cancelKeyboard())
}

// handleFreeForm feeds text into the pending add flow, or shows the menu when
// no flow is pending.
func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	s := r.session(chatID)
	if s == nil {
		r.sendWithKeyboard(chatID, menuText, mainMenuKeyboard())
		return
	}

	switch s.step {
	case stepName:
		name, err := domain.ValidateName(text)
		if err != nil {
			r.sendWithKeyboard(chatID, validationMessage(err), cancelKeyboard())
			return
		}
		s.name = name
		s.step = stepDosage
		r.sendWithKeyboard(chatID, fmt.Sprintf(askDosageFmt, name), cancelKeyboard())

	case stepDosage:
		dosage, err := domain.ValidateDosage(text)
		if err != nil {
			r.sendWithKeyboard(chatID, validationMessage(err), cancelKeyboard())
			return
		}
		s.dosage = dosage
		s.step = stepSchedule
		r.sendWithKeyboard(chatID, fmt.Sprintf(askScheduleFmt, dosage), cancelKeyboard())

	case stepSchedule:
		canonical, _, err := domain.ValidateSchedule(text)
		if err != nil {
			r.sendWithKeyboard(chatID, validationMessage(err), cancelKeyboard())
			return
		}
		r.finishAddFlow(ctx, chatID, s.name, s.dosage, canonical)
	}
}

func (r *Router) finishAddFlow(ctx context.Context, chatID int64, name, dosage, schedule string) {
	id, err := r.repo.AddMedication(ctx, &domain.Medication{
		UserID:   chatID,
		Name:     name,
		Dosage:   dosage,
		Schedule: schedule,
	})
	if err != nil {
		r.log.Error("add medication failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}
	r.clearSession(chatID)

	if err := r.sched.Rebuild(ctx); err != nil {
		// Reminders catch up at the next successful rebuild; the row is saved.
		r.log.Error("trigger rebuild failed", zap.Error(err))
	}
	r.log.Info("medication added",
		zap.Int64("chatID", chatID),
		zap.Int64("medicationID", id),
		zap.String("schedule", schedule),
	)

	r.sendText(chatID, fmt.Sprintf(addedFmt, name, dosage, schedule))
	r.sendWithKeyboard(chatID, menuText, mainMenuKeyboard())
}

// --- List ---

func (r *Router) handleList(ctx context.Context, chatID int64) {
	meds, err := r.repo.ListActive(ctx, chatID)
	if err != nil {
		r.log.Error("list medications failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(meds) == 0 {
		r.sendWithKeyboard(chatID, noMedicationsText, backKeyboard())
		return
	}

	var b strings.Builder
	b.WriteString(listHeaderText)
	for _, m := range meds {
		fmt.Fprintf(&b, listEntryFmt, m.Name, m.Dosage, m.Schedule)
	}
	r.sendWithKeyboard(chatID, b.String(), backKeyboard())
}

// --- Delete flow ---

func (r *Router) handleDeleteMenu(ctx context.Context, chatID int64) {
	meds, err := r.repo.ListActive(ctx, chatID)
	if err != nil {
		r.log.Error("list medications failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}
	if len(meds) == 0 {
		r.sendWithKeyboard(chatID, noMedicationsText, backKeyboard())
		return
	}
	r.sendWithKeyboard(chatID, askDeleteText, deleteKeyboard(meds))
}

func (r *Router) handleDelete(ctx context.Context, chatID, medicationID int64) {
	// Ownership-scoped lookup: a foreign id reads as "not found", nothing else.
	med, err := r.repo.GetMedication(ctx, medicationID, chatID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendWithKeyboard(chatID, notFoundText, backKeyboard())
		return
	}
	if err != nil {
		r.log.Error("get medication failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}

	ok, err := r.repo.DeleteMedication(ctx, medicationID, chatID)
	if err != nil {
		r.log.Error("delete medication failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}
	if !ok {
		r.sendWithKeyboard(chatID, deleteFailedText, backKeyboard())
		return
	}

	if err := r.sched.Rebuild(ctx); err != nil {
		r.log.Error("trigger rebuild failed", zap.Error(err))
	}
	r.log.Info("medication deleted",
		zap.Int64("chatID", chatID),
		zap.Int64("medicationID", medicationID),
	)

	r.sendText(chatID, fmt.Sprintf(deletedFmt, med.Name, med.Dosage, med.Schedule))
	r.sendWithKeyboard(chatID, menuText, mainMenuKeyboard())
}

// --- Acknowledgment ---

// handleTaken correlates the button press with the firing that produced it
// (via the embedded emission timestamp), classifies the delay and replaces
// the reminder message with the tier's feedback text. The payload carries the
// medication id (callback data is capped at 64 bytes), so the name comes from
// the ownership-scoped lookup.
func (r *Router) handleTaken(ctx context.Context, cb *tgbotapi.CallbackQuery, action Action) {
	chatID := cb.Message.Chat.ID

	med, err := r.repo.GetMedication(ctx, action.MedicationID, chatID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the firing and the acknowledgment.
		r.sendWithKeyboard(chatID, notFoundText, backKeyboard())
		return
	}
	if err != nil {
		r.log.Error("get medication failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, internalErrorText)
		return
	}

	firstName := ""
	if cb.From != nil {
		firstName = cb.From.FirstName
	}

	tier, minutes := domain.ClassifyDelay(action.FiredAt, time.Now().Unix())
	feedback := domain.AckText(tier, minutes, firstName, med.Name)

	edit := tgbotapi.NewEditMessageText(
		chatID,
		cb.Message.MessageID,
		fmt.Sprintf(takenHeaderFmt, med.Name, feedback),
	)
	if _, err := r.bot.Send(edit); err != nil {
		r.log.Error("edit reminder failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}

	r.log.Info("medication taken",
		zap.Int64("chatID", chatID),
		zap.String("medication", med.Name),
		zap.String("tier", tier.String()),
		zap.Int("delayMinutes", minutes),
	)
}
