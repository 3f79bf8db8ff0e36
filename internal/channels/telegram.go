package channels

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/importer"
)

// TelegramChannel lets the owner manage the menu from Telegram via long
// polling. Text messages run an assistant turn; photos are treated as menu
// images and imported.
type TelegramChannel struct {
	Base
	cfg     *config.TelegramConfig
	imports *importer.Service
	bot     *tgbotapi.BotAPI
	httpGet func(url string) (*http.Response, error)
}

// NewTelegramChannel creates a TelegramChannel.
func NewTelegramChannel(cfg *config.TelegramConfig, responder Responder, imports *importer.Service) *TelegramChannel {
	return &TelegramChannel{
		Base:    NewBase("telegram", responder, cfg.AllowFrom),
		cfg:     cfg,
		imports: imports,
		httpGet: http.Get,
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.handleUpdate(ctx, update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	senderID := fmt.Sprintf("%d", msg.From.ID)
	if msg.From.UserName != "" {
		senderID = senderID + "|" + msg.From.UserName
	}
	if !t.IsAllowed(senderID) {
		slog.Warn("telegram: access denied", "sender", senderID)
		return
	}

	chatID := msg.Chat.ID
	sessionKey := t.SessionKey(fmt.Sprintf("%d", chatID))

	typingCtx, cancelTyping := context.WithCancel(ctx)
	defer cancelTyping()
	go t.sendTypingLoop(typingCtx, chatID)

	if msg.Photo != nil {
		t.handlePhoto(ctx, msg, chatID)
		return
	}

	content := msg.Text
	if msg.Caption != "" {
		content = msg.Caption
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	if strings.TrimSpace(content) == "/reset" {
		t.responder.Reset(sessionKey)
		t.reply(chatID, msg.MessageID, "Conversation cleared.")
		return
	}

	reply, err := t.responder.Respond(ctx, sessionKey, content)
	if err != nil {
		slog.Error("telegram: assistant turn failed", "err", err)
		reply = "Sorry, I couldn't reach the assistant just now. Please try again."
	}
	t.reply(chatID, msg.MessageID, reply)
}

// handlePhoto downloads the largest photo size and runs a menu import on it.
func (t *TelegramChannel) handlePhoto(ctx context.Context, msg *tgbotapi.Message, chatID int64) {
	photo := msg.Photo[len(msg.Photo)-1]
	image, err := t.downloadFile(photo.FileID)
	if err != nil {
		slog.Error("telegram: photo download failed", "err", err)
		t.reply(chatID, msg.MessageID, "I couldn't download that photo, please try again.")
		return
	}

	report, err := t.imports.ImportImage(ctx, image, "image/jpeg")
	if err != nil {
		slog.Warn("telegram: menu import failed", "err", err)
		t.reply(chatID, msg.MessageID, "That doesn't look like a menu I can read. Try a clearer photo.")
		return
	}
	if report.Added == 0 && report.Skipped == 0 {
		t.reply(chatID, msg.MessageID, "I couldn't find any dishes in that photo.")
		return
	}
	t.reply(chatID, msg.MessageID, fmt.Sprintf("Imported the menu photo: %s.", report))
}

func (t *TelegramChannel) downloadFile(fileID string) ([]byte, error) {
	if t.bot == nil {
		return nil, fmt.Errorf("bot not running")
	}
	file, err := t.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	resp, err := t.httpGet(file.Link(t.cfg.Token)) //nolint:noctx
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (t *TelegramChannel) sendTypingLoop(ctx context.Context, chatID int64) {
	for {
		if t.bot != nil {
			action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
			_, _ = t.bot.Send(action)
		}
		select {
		case <-time.After(4 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

func (t *TelegramChannel) reply(chatID int64, replyTo int, content string) {
	if t.bot == nil || content == "" {
		return
	}
	for _, chunk := range splitMessage(content, 4000) {
		m := tgbotapi.NewMessage(chatID, chunk)
		m.ReplyToMessageID = replyTo
		if _, err := t.bot.Send(m); err != nil {
			slog.Error("telegram: send failed", "err", err)
		}
	}
}
