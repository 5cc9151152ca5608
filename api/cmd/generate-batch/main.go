// Generate several worlds concurrently, one goroutine per prompt.
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"marble-sdk/api/internal/config"
	"marble-sdk/api/internal/marble"
)

func main() {
	prompts := os.Args[1:]
	if len(prompts) == 0 {
		prompts = []string{
			"A misty bamboo forest with a winding stone path",
			"A neon-lit cyberpunk alley on a rainy night",
			"A sunlit Mediterranean courtyard with lemon trees",
		}
	}

	cfg := config.Load()
	client := marble.NewWithOptions(cfg.WorldLabsAPIKey, cfg.WorldLabsBaseURL, marble.DefaultTimeout)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i, prompt := range prompts {
		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()

			req := &marble.WorldsGenerateRequest{
				Model:       marble.ModelMini,
				WorldPrompt: marble.TextPrompt(prompt),
			}
			op, err := client.GenerateWorld(ctx, req)
			if err != nil {
				log.Printf("[%d] generate: %v", i, err)
				return
			}
			log.Printf("[%d] operation started: %s", i, op.OperationID)

			done, err := client.PollOperation(ctx, op.OperationID, marble.PollOptions{
				Interval: cfg.PollInterval,
				Timeout:  cfg.PollTimeout,
			})
			if err != nil {
				log.Printf("[%d] poll: %v", i, err)
				return
			}
			if err := done.Err(); err != nil {
				log.Printf("[%d] generation failed: %v", i, err)
				return
			}
			if done.Response != nil {
				log.Printf("[%d] world created: id=%s url=%s", i, done.Response.ID, done.Response.WorldMarbleURL)
			}
		}(i, prompt)
	}
	wg.Wait()
	log.Printf("all %d generations finished in %s", len(prompts), time.Since(start).Round(time.Second))
}
