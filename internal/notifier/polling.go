package notifier

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a user command is received. args holds the
// text after the command, e.g. "AAPL" for "/analyze AAPL".
type CommandHandler func(ctx context.Context, command, args string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is
// cancelled. Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.Bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			slog.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if update.Message.Chat.ID != t.ChatID {
				slog.Warn("ignoring message from unknown chat", "chat_id", update.Message.Chat.ID)
				continue
			}

			command, args := parseCommand(update.Message)
			slog.Info("received command", "command", command, "args", args)
			reply := handler(ctx, command, args)
			if reply != "" {
				if err := t.sendTo(update.Message.Chat.ID, reply); err != nil {
					slog.Error("send reply", "error", err)
				}
			}
		}
	}
}

func parseCommand(msg *tgbotapi.Message) (command, args string) {
	if msg.IsCommand() {
		return "/" + msg.Command(), strings.TrimSpace(msg.CommandArguments())
	}
	return ParseText(msg.Text)
}

// ParseText splits free text such as "/analyze msft" into command and args.
func ParseText(text string) (command, args string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", ""
	}
	command = strings.ToLower(fields[0])
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	return command, strings.Join(fields[1:], " ")
}
