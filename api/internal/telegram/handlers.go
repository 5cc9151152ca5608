package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/store"
	"marble-sdk/api/internal/util"
)

// acceptTextPrompt turns a plain chat message into a generation request.
func (r *Router) acceptTextPrompt(cid int64, text string) {
	prompt := text
	enhanced := false
	if r.Recaption.Enabled() && enhanceEnabled(cid) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		rewritten, err := r.Recaption.Rewrite(ctx, text)
		cancel()
		if err != nil {
			log.Printf("recaption failed, using raw prompt: %v", err)
		} else {
			prompt = rewritten
			enhanced = true
		}
	}

	wp := marble.TextPrompt(prompt)
	// Already recaptioned locally; don't pay for it twice.
	wp.DisableRecaption = enhanced

	req := &marble.WorldsGenerateRequest{
		DisplayName: displayName(text),
		Model:       r.Model,
		WorldPrompt: wp,
	}
	r.startGeneration(cid, req, text)
}

// startGeneration submits the request and polls in the background so the
// update loop stays responsive.
func (r *Router) startGeneration(cid int64, req *marble.WorldsGenerateRequest, promptText string) {
	if n := trackGeneration(cid, 1); n > 3 {
		trackGeneration(cid, -1)
		r.send(cid, "Too many worlds in flight for this chat; wait for one to finish.")
		return
	}
	r.send(cid, "Generating your world — this usually takes a few minutes…")

	go func() {
		defer trackGeneration(cid, -1)

		ctx, cancel := context.WithTimeout(context.Background(), r.pollTimeout()+time.Minute)
		defer cancel()

		op, err := r.Client.GenerateWorld(ctx, req)
		if err != nil {
			r.sendError(cid, err)
			return
		}
		log.Printf("chat %d: operation %s started", cid, op.OperationID)
		r.send(cid, "Started operation "+op.OperationID+" — I'll post the world here when it's ready.")

		op, err = r.Client.PollOperation(ctx, op.OperationID, marble.PollOptions{
			Interval: r.PollInterval,
			Timeout:  r.pollTimeout(),
		})
		if err != nil {
			r.sendError(cid, err)
			return
		}
		if err := op.Err(); err != nil {
			r.send(cid, "Generation failed: "+err.Error())
			return
		}
		world := op.Response
		if world == nil {
			r.send(cid, "Operation finished but returned no world — try /status "+op.OperationID)
			return
		}

		r.sendWorld(cid, world)
		r.remember(cid, world, promptText)
	}()
}

func (r *Router) handleWorlds(cid int64) {
	if r.Worlds == nil {
		r.send(cid, "World history is not available (no database configured).")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	recs, err := r.Worlds.Recent(ctx, cid, 10)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	if len(recs) == 0 {
		r.send(cid, "No worlds yet. Describe a scene to generate one.")
		return
	}
	r.send(cid, formatRecent(recs))
}

func (r *Router) handleStatus(cid int64, operationID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	op, err := r.Client.GetOperation(ctx, operationID)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.send(cid, formatOperation(op))
}

// remember stores the world in the chat's history; best effort.
func (r *Router) remember(cid int64, world *marble.World, promptText string) {
	if r.Worlds == nil {
		return
	}
	rec := store.WorldRecord{
		WorldID:     world.ID,
		ChatID:      cid,
		DisplayName: world.DisplayName,
		PromptText:  promptText,
		Model:       world.Model,
		MarbleURL:   world.WorldMarbleURL,
	}
	if world.Assets != nil {
		rec.ThumbnailURL = world.Assets.ThumbnailURL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Worlds.Upsert(ctx, rec); err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("world cache upsert failed: %v", err)
	}
}

func (r *Router) pollTimeout() time.Duration {
	if r.PollTimeout > 0 {
		return r.PollTimeout
	}
	return 10 * time.Minute
}

// displayName derives a short world name from the prompt.
func displayName(prompt string) string {
	fields := strings.Fields(prompt)
	if len(fields) > 6 {
		fields = fields[:6]
	}
	return util.Truncate(strings.Join(fields, " "), 60)
}

func (r *Router) sendError(cid int64, err error) {
	r.send(cid, fmt.Sprintf("Something went wrong: %v", err))
}
