package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/briefd/internal/db"
)

// BriefingRunner triggers a briefing run on demand.
type BriefingRunner interface {
	Run(ctx context.Context) (*db.Briefing, error)
}

// CommandHandler handles Telegram bot commands.
type CommandHandler struct {
	database *db.DB
	runner   BriefingRunner
	bot      *Bot
}

// NewCommandHandler creates a CommandHandler. The runner is set later via
// SetRunner because the briefing service is constructed after the bot.
func NewCommandHandler(database *db.DB) *CommandHandler {
	return &CommandHandler{database: database}
}

// SetRunner wires the briefing service into the handler.
func (h *CommandHandler) SetRunner(r BriefingRunner) { h.runner = r }

// Handle dispatches incoming messages to the correct command handler.
func (h *CommandHandler) Handle(msg *tgbotapi.Message) {
	if msg == nil || !msg.IsCommand() {
		return
	}
	ctx := context.Background()
	switch msg.Command() {
	case "brief":
		h.handleBrief(ctx, msg)
	case "latest":
		h.handleLatest(ctx, msg)
	case "pins":
		h.handlePins(ctx, msg)
	case "pin":
		h.handlePin(ctx, msg)
	case "help":
		h.handleHelp(msg)
	default:
		h.bot.reply(msg.Chat.ID, "Unknown command. Use /help for a list of commands.")
	}
}

func (h *CommandHandler) handleBrief(ctx context.Context, msg *tgbotapi.Message) {
	if h.runner == nil {
		h.bot.reply(msg.Chat.ID, "Briefing service not available.")
		return
	}
	h.bot.reply(msg.Chat.ID, "Generating briefing…")
	b, err := h.runner.Run(ctx)
	if err != nil {
		h.bot.reply(msg.Chat.ID, fmt.Sprintf("Briefing failed: %v", err))
		return
	}
	h.bot.reply(msg.Chat.ID, summarize(b))
}

func (h *CommandHandler) handleLatest(ctx context.Context, msg *tgbotapi.Message) {
	b, err := h.database.LatestBriefing(ctx)
	if err != nil {
		h.bot.reply(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}
	if b == nil {
		h.bot.reply(msg.Chat.ID, "No briefings yet. Use /brief to generate one.")
		return
	}
	h.bot.reply(msg.Chat.ID, summarize(b))
}

func (h *CommandHandler) handlePins(ctx context.Context, msg *tgbotapi.Message) {
	pins, err := h.database.ListPins(ctx)
	if err != nil {
		h.bot.reply(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(pins) == 0 {
		h.bot.reply(msg.Chat.ID, "No pins. Use /pin ticket 101 to pin an item.")
		return
	}
	var sb strings.Builder
	sb.WriteString("*Pinned items:*\n")
	for _, p := range pins {
		marker := ""
		if p.Pinned {
			marker = " 📌"
		}
		fmt.Fprintf(&sb, "• %s %s (boost %+d)%s\n", p.ItemKind, p.ItemID, p.Boost, marker)
	}
	h.bot.reply(msg.Chat.ID, sb.String())
}

// handlePin processes "/pin <kind> <id>".
func (h *CommandHandler) handlePin(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 || (args[0] != "ticket" && args[0] != "pr") {
		h.bot.reply(msg.Chat.ID, "Usage: /pin ticket|pr <id>")
		return
	}
	if _, err := strconv.Atoi(args[1]); err != nil {
		h.bot.reply(msg.Chat.ID, "Item id must be a number.")
		return
	}
	err := h.database.UpsertPin(ctx, &db.Pin{ItemKind: args[0], ItemID: args[1], Pinned: true})
	if err != nil {
		h.bot.reply(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		return
	}
	h.bot.reply(msg.Chat.ID, fmt.Sprintf("Pinned %s %s.", args[0], args[1]))
}

func (h *CommandHandler) handleHelp(msg *tgbotapi.Message) {
	h.bot.reply(msg.Chat.ID, `*briefd commands:*
/brief — generate a briefing now
/latest — show the latest briefing summary
/pins — list pinned items
/pin ticket|pr <id> — pin an item to the top of its section
/help — this message`)
}

// summarize renders the one-message Telegram view of a briefing.
func summarize(b *db.Briefing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s briefing* `%s`\n", b.DayPart, b.ID)
	fmt.Fprintf(&sb, "Tokens: %d used, %d remaining — %d sections\n",
		b.TokensUsed, b.TokensRemaining, b.SectionsKept)
	if b.Evicted != "" {
		fmt.Fprintf(&sb, "Evicted: %s\n", b.Evicted)
	}
	if b.Narrative != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Narrative)
	}
	return sb.String()
}
