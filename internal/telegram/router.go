package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
	"github.com/akkafe1ix/HealthPill-bot/internal/store"
)

// Rescheduler rebuilds reminder triggers after a medication mutation.
// scheduler.Scheduler implements it.
type Rescheduler interface {
	Rebuild(ctx context.Context) error
}

// addStep enumerates the add-medication conversation steps.
type addStep int

const (
	stepName addStep = iota
	stepDosage
	stepSchedule
)

// addSession holds the partial input of one user's add flow.
type addSession struct {
	step   addStep
	name   string
	dosage string
}

// Router wires Telegram updates to handlers and owns the only piece of
// shared mutable state: the per-user add-flow session map. The scheduler and
// the delay classifier never see it.
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	repo  store.Repo
	sched Rescheduler

	mu       sync.Mutex
	sessions map[int64]*addSession
}

// NewRouter creates a Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		sessions: make(map[int64]*addSession),
	}
}

// SetScheduler attaches the trigger rebuilder. Router and scheduler reference
// each other (scheduler delivers through the router), so one side is wired
// after construction.
func (r *Router) SetScheduler(s Rescheduler) { r.sched = s }

func (r *Router) session(chatID int64) *addSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[chatID]
}

func (r *Router) setSession(chatID int64, s *addSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = s
}

func (r *Router) clearSession(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, msg)
		case strings.HasPrefix(text, "/help"):
			r.sendWithKeyboard(chatID, helpText, backKeyboard())
		default:
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		_ = r.answerCallback(cb.ID)

		switch action := decodeAction(cb.Data); action.Kind {
		case ActionMenu:
			r.clearSession(chatID)
			r.sendWithKeyboard(chatID, menuText, mainMenuKeyboard())
		case ActionAdd:
			r.startAddFlow(ctx, chatID)
		case ActionList:
			r.handleList(ctx, chatID)
		case ActionDeleteMenu:
			r.handleDeleteMenu(ctx, chatID)
		case ActionDelete:
			r.handleDelete(ctx, chatID, action.MedicationID)
		case ActionTaken:
			r.handleTaken(ctx, cb, action)
		case ActionHelp:
			r.sendWithKeyboard(chatID, helpText, backKeyboard())
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}

// SendReminder delivers one firing as a reminder message with an
// acknowledgment button. This makes Router satisfy scheduler.Notifier.
func (r *Router) SendReminder(f domain.Firing) error {
	msg := tgbotapi.NewMessage(f.UserID, fmt.Sprintf(reminderFmt, f.Name, f.Dosage, f.TimeStr))
	msg.ReplyMarkup = takenKeyboard(f.MedicationID, f.FiredAt)
	_, err := r.bot.Send(msg)
	return err
}

// --- Generic send helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Error("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Error("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, ""))
	return err
}
