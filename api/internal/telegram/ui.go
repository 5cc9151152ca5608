package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/store"
	"marble-sdk/api/internal/util"
)

func (r *Router) send(chatID int64, text string) {
	if len(text) > 3900 {
		text = text[:3900] + "…"
	}
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

// sendWorld posts the finished world, with its thumbnail when there is one.
func (r *Router) sendWorld(chatID int64, w *marble.World) {
	var b strings.Builder
	b.WriteString("🌍 Your world is ready")
	if w.DisplayName != "" {
		b.WriteString(": " + w.DisplayName)
	}
	b.WriteString("\nID: " + w.ID)
	if w.Model != "" {
		b.WriteString("\nModel: " + w.Model)
	}
	if w.Assets != nil && w.Assets.Caption != "" {
		b.WriteString("\n\n" + util.Truncate(w.Assets.Caption, 500))
	}
	if w.WorldMarbleURL != "" {
		b.WriteString("\n\n" + w.WorldMarbleURL)
	}
	text := b.String()

	if w.Assets != nil && w.Assets.ThumbnailURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(w.Assets.ThumbnailURL))
		photo.Caption = text
		if _, err := r.Bot.Send(photo); err == nil {
			return
		}
		// Thumbnail fetch can fail on Telegram's side; fall back to text.
	}
	r.send(chatID, text)
}

func formatRecent(recs []store.WorldRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your last %d worlds:\n", len(recs))
	for _, rec := range recs {
		b.WriteString("\n• ")
		if rec.DisplayName != "" {
			b.WriteString(rec.DisplayName)
		} else {
			b.WriteString(rec.WorldID)
		}
		fmt.Fprintf(&b, "\n  %s", rec.CreatedAt.Format("2006-01-02 15:04"))
		if rec.MarbleURL != "" {
			b.WriteString("\n  " + rec.MarbleURL)
		}
	}
	return b.String()
}

func formatOperation(op *marble.Operation) string {
	if !op.Done {
		s := "⏳ Operation " + op.OperationID + " is still running."
		if p, ok := op.Metadata["progress_percent"]; ok {
			s += fmt.Sprintf(" Progress: %v%%", p)
		}
		return s
	}
	if op.Error != nil {
		return "❌ Operation " + op.OperationID + " failed: " + op.Error.Message
	}
	if op.Response != nil {
		s := "✅ Operation " + op.OperationID + " is done: " + op.Response.ID
		if op.Response.WorldMarbleURL != "" {
			s += "\n" + op.Response.WorldMarbleURL
		}
		return s
	}
	return "✅ Operation " + op.OperationID + " is done."
}
