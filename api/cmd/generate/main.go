// Generate a world from a text prompt and poll until done.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"marble-sdk/api/internal/config"
	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/recaption"
)

func main() {
	name := flag.String("name", "Medieval Kitchen", "display name for the world")
	prompt := flag.String("prompt", "A cartoon style medieval kitchen with stone walls and a roaring hearth", "text prompt")
	model := flag.String("model", marble.ModelMini, "generation model")
	enhance := flag.Bool("enhance", false, "expand the prompt with Gemini before generating")
	flag.Parse()

	cfg := config.Load()
	client := marble.NewWithOptions(cfg.WorldLabsAPIKey, cfg.WorldLabsBaseURL, marble.DefaultTimeout)
	ctx := context.Background()

	text := *prompt
	disableRecaption := false
	if *enhance {
		eng := recaption.New(cfg.GeminiAPIKey, cfg.GeminiModel)
		rewritten, err := eng.Rewrite(ctx, text)
		if err != nil {
			log.Printf("prompt enhancement failed, using raw prompt: %v", err)
		} else {
			log.Printf("enhanced prompt: %s", rewritten)
			text = rewritten
			disableRecaption = true
		}
	}

	wp := marble.TextPrompt(text)
	wp.DisableRecaption = disableRecaption
	req := &marble.WorldsGenerateRequest{
		DisplayName: *name,
		Model:       *model,
		WorldPrompt: wp,
	}

	log.Printf("generating world %q", req.DisplayName)
	start := time.Now()
	op, err := client.GenerateWorld(ctx, req)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	log.Printf("operation started: %s", op.OperationID)

	done, err := client.PollOperation(ctx, op.OperationID, marble.PollOptions{
		Interval: cfg.PollInterval,
		Timeout:  cfg.PollTimeout,
	})
	if err != nil {
		log.Fatalf("poll: %v", err)
	}
	log.Printf("operation completed in %s", time.Since(start).Round(time.Second))

	if err := done.Err(); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
	if done.Response != nil {
		log.Printf("world created: id=%s url=%s", done.Response.ID, done.Response.WorldMarbleURL)
	}
}
