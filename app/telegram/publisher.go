package telegram

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hndigest/app/digest"
)

// sender is the slice of the bot API the publisher uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Publisher posts assembled digests to Telegram channels. Each digest becomes
// a thread: the root message first, then one reply per category section, then
// an optional rewrite of the root that appends links to the replies.
type Publisher struct {
	bot sender
}

func NewPublisher(token string) (*Publisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Publisher{bot: bot}, nil
}

type postedReply struct {
	label     string
	messageID int
}

// PublishThread posts a digest to the chat (a @channelusername or a numeric
// chat id). A root post failure aborts the whole run; a reply failure is
// logged and skipped; a root rewrite failure is logged and ignored.
func (p *Publisher) PublishThread(chat string, d digest.Digest) error {
	if len(d.Messages) == 0 {
		return fmt.Errorf("digest has no messages")
	}

	root := newMessage(chat, d.Root().Text)
	sent, err := p.bot.Send(root)
	if err != nil {
		return fmt.Errorf("failed to post digest root: %w", err)
	}
	slog.Info("Digest root posted", "chat", chat, "issue", d.Issue, "message_id", sent.MessageID)

	var replies []postedReply
	for _, reply := range d.Replies() {
		msg := newMessage(chat, reply.Text)
		msg.ReplyToMessageID = sent.MessageID
		posted, err := p.bot.Send(msg)
		if err != nil {
			slog.Warn("Failed to post digest section", "chat", chat, "category", reply.Category, "error", err)
			continue
		}
		replies = append(replies, postedReply{label: reply.Label, messageID: posted.MessageID})
	}

	if len(replies) > 0 {
		text := d.Root().Text + "\n\n" + sectionLinks(chat, replies)
		edit := tgbotapi.NewEditMessageText(sent.Chat.ID, sent.MessageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		edit.DisableWebPagePreview = true
		if _, err := p.bot.Send(edit); err != nil {
			slog.Warn("Failed to rewrite digest root with section links", "chat", chat, "error", err)
		}
	}

	slog.Info("Digest published", "chat", chat, "issue", d.Issue, "sections", len(replies))
	return nil
}

func newMessage(chat, text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(chat, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

// sectionLinks renders the back-link line appended to the root: each section
// label linked to its reply message.
func sectionLinks(chat string, replies []postedReply) string {
	links := make([]string, 0, len(replies))
	for _, r := range replies {
		links = append(links, fmt.Sprintf("<a href=\"%s\">%s</a>", messageLink(chat, r.messageID), r.label))
	}
	return "<i>" + strings.Join(links, " · ") + "</i>"
}

// messageLink builds a t.me link to a channel message. Public channels use
// t.me/<username>/<id>; private supergroup ids (-100...) use t.me/c/<id>/<id>.
func messageLink(chat string, messageID int) string {
	if username, ok := strings.CutPrefix(chat, "@"); ok {
		return fmt.Sprintf("https://t.me/%s/%d", username, messageID)
	}
	if internal, ok := strings.CutPrefix(chat, "-100"); ok {
		return fmt.Sprintf("https://t.me/c/%s/%d", internal, messageID)
	}
	return fmt.Sprintf("https://t.me/%s/%d", chat, messageID)
}
