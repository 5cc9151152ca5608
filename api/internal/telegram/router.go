// Package telegram is the chat front-end: a text message becomes a world
// generation request, a photo becomes an image-prompted one, and the bot
// reports back with the Marble URL once the operation completes.
package telegram

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/recaption"
	"marble-sdk/api/internal/store"
)

type Router struct {
	Bot       *tgbotapi.BotAPI
	Client    *marble.Client
	Recaption *recaption.Engine // optional
	Worlds    *store.WorldRepo  // optional; /worlds needs it

	// Generation defaults
	Model        string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(cid, upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	if text := strings.TrimSpace(upd.Message.Text); text != "" {
		r.acceptTextPrompt(cid, text)
	}
}

func (r *Router) handleCommand(cid int64, upd tgbotapi.Update) {
	switch upd.Message.Command() {
	case "start", "help":
		r.send(cid, "Describe a scene and I'll generate a 3D world from it.\n"+
			"Send a photo to generate a world from an image.\n"+
			"Commands: /worlds — your recent worlds, /status <operation-id> — check progress, /enhance — toggle prompt enhancement")
	case "worlds":
		r.handleWorlds(cid)
	case "status":
		arg := strings.TrimSpace(upd.Message.CommandArguments())
		if arg == "" {
			r.send(cid, "Usage: /status <operation-id>")
			return
		}
		r.handleStatus(cid, arg)
	case "enhance":
		if !r.Recaption.Enabled() {
			r.send(cid, "Prompt enhancement is not configured (no Gemini key).")
			return
		}
		on := toggleEnhance(cid)
		if on {
			r.send(cid, "Prompt enhancement is on: short prompts get expanded before generation.")
		} else {
			r.send(cid, "Prompt enhancement is off.")
		}
	default:
		r.send(cid, "Unknown command")
	}
}
