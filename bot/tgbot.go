// Package bot is the Telegram admin notifier: forwarded error logs and completed assessments.
package bot

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	started     time.Time
	completed   atomic.Int64
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
		started:     time.Now(),
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

// Start polls for admin commands and blocks until the updater stops.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.With(sl.Err(err)).Error("handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	dispatcher.AddHandler(handlers.NewCommand("status", t.status))

	updater := ext.NewUpdater(dispatcher, nil)
	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.With(slog.String("bot", t.botUsername)).Info("telegram notifier started")

	updater.Idle()
	return nil
}

func (t *TgBot) status(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.EffectiveChat == nil || ctx.EffectiveChat.Id != t.adminId {
		return nil
	}
	t.plainResponse(t.adminId, statusMessage(t.started, time.Now(), t.completed.Load()))
	return nil
}

func statusMessage(started, now time.Time, completed int64) string {
	return fmt.Sprintf("Up %s\nAssessments completed: %d", now.Sub(started).Truncate(time.Second), completed)
}

// SendMessage sends text to the admin chat.
func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) StepChanged(_ *entity.WorkflowState, _, _ workflow.StepID) {}

// WorkflowCompleted tells the admin a new assessment was saved.
func (t *TgBot) WorkflowCompleted(state *entity.WorkflowState, resultID string) {
	t.completed.Add(1)
	go t.SendMessage(completionMessage(state, resultID))
}

func completionMessage(state *entity.WorkflowState, resultID string) string {
	subject := "process hazards"
	if s := state.PrimarySubstance(); s != nil {
		subject = s.ChemicalName
	} else if len(state.ProcessHazards) > 0 {
		subject = state.ProcessHazards[0].Name
	}
	return fmt.Sprintf("✅ **COSHH assessment completed**\nSubject: %s\nUser: %s\nAgent: %s\nID: %s",
		subject, state.UserID, state.HiredAgentID, resultID)
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	text = strings.ReplaceAll(text, "**", "*")
	sanitized := sanitize(text)

	if sanitized == "" {
		t.log.With(slog.Int64("id", chatId)).Debug("empty message")
		return
	}
	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
		}
	}
}

// sanitize escapes MarkdownV2 reserved characters, keeping * for bold.
func sanitize(input string) string {
	const reservedChars = "\\`_{}#+-.!|()[]=>~"
	var b strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
