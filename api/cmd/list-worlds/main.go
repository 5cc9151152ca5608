// List all worlds and their metadata, paginating through every page.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"marble-sdk/api/internal/config"
	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/util"
)

func main() {
	cfg := config.Load()
	client := marble.NewWithOptions(cfg.WorldLabsAPIKey, cfg.WorldLabsBaseURL, marble.DefaultTimeout)
	ctx := context.Background()

	var all []marble.World
	pageToken := ""
	for {
		resp, err := client.ListWorlds(ctx, &marble.ListWorldsRequest{
			PageSize:  100,
			PageToken: pageToken,
			SortBy:    "created_at",
		})
		if err != nil {
			log.Fatalf("list worlds: %v", err)
		}
		all = append(all, resp.Worlds...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	rule := strings.Repeat("=", 80)
	fmt.Printf("\n%s\nFound %d worlds\n%s\n\n", rule, len(all), rule)

	for _, w := range all {
		fmt.Printf("ID:           %s\n", w.ID)
		name := w.DisplayName
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("Name:         %s\n", name)
		model := w.Model
		if model == "" {
			model = "(unknown)"
		}
		fmt.Printf("Model:        %s\n", model)
		if w.CreatedAt != nil {
			fmt.Printf("Created:      %s\n", w.CreatedAt)
		}

		if w.WorldPrompt != nil {
			fmt.Printf("Prompt type:  %s\n", w.WorldPrompt.Type)
			if w.WorldPrompt.TextPrompt != "" {
				fmt.Printf("Text prompt:  %s\n", util.Truncate(w.WorldPrompt.TextPrompt, 60))
			}
		}
		if len(w.Tags) > 0 {
			fmt.Printf("Tags:         %s\n", strings.Join(w.Tags, ", "))
		}
		if w.Permission != nil {
			visibility := "private"
			if w.Permission.Public {
				visibility = "public"
			}
			fmt.Printf("Visibility:   %s\n", visibility)
		}

		if w.Assets != nil {
			var assets []string
			if w.Assets.Splats != nil && len(w.Assets.Splats.SPZURLs) > 0 {
				keys := make([]string, 0, len(w.Assets.Splats.SPZURLs))
				for k := range w.Assets.Splats.SPZURLs {
					keys = append(keys, k)
				}
				assets = append(assets, "splats("+strings.Join(keys, ", ")+")")
			}
			if w.Assets.Imagery != nil && w.Assets.Imagery.PanoURL != "" {
				assets = append(assets, "pano")
			}
			if w.Assets.Mesh != nil && w.Assets.Mesh.ColliderMeshURL != "" {
				assets = append(assets, "mesh")
			}
			if w.Assets.ThumbnailURL != "" {
				assets = append(assets, "thumbnail")
			}
			if len(assets) > 0 {
				fmt.Printf("Assets:       %s\n", strings.Join(assets, ", "))
			}
		}
		if w.WorldMarbleURL != "" {
			fmt.Printf("Marble URL:   %s\n", w.WorldMarbleURL)
		}
		fmt.Println(strings.Repeat("-", 80))
	}
}
