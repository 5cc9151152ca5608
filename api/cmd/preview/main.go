// Download a world's SPZ splat and render turntable preview frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"marble-sdk/api/internal/config"
	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/render"
	"marble-sdk/api/internal/spz"
)

func main() {
	frames := flag.Int("frames", 8, "number of turntable frames")
	radius := flag.Float64("radius", 3, "camera distance from the origin")
	size := flag.Int("size", 512, "frame width and height in pixels")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: preview [flags] <world-id>")
	}
	worldID := flag.Arg(0)

	cfg := config.Load()
	client := marble.NewWithOptions(cfg.WorldLabsAPIKey, cfg.WorldLabsBaseURL, marble.DefaultTimeout)
	ctx := context.Background()

	world, err := client.GetWorld(ctx, worldID)
	if err != nil {
		log.Fatalf("get world: %v", err)
	}
	var splats *marble.SplatAssets
	if world.Assets != nil {
		splats = world.Assets.Splats
	}
	url, ok := splats.URL("500k", "full_res")
	if !ok {
		log.Fatal("world does not include SPZ assets")
	}

	spzPath := filepath.Join("outputs", worldID+".spz")
	if err := spz.Download(ctx, url, spzPath); err != nil {
		log.Fatalf("download: %v", err)
	}
	cloud, err := spz.DecodeFile(spzPath)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	g := cloud.Gaussians()

	cams := render.Turntable(*frames, float32(*radius), *size, *size, 60, 0.5)
	for i, cam := range cams {
		out := filepath.Join("outputs", fmt.Sprintf("%s_frame_%03d.png", worldID, i))
		if err := render.SavePreviewPNG(out, g, cam); err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
	}
	log.Printf("wrote %d preview frames for %s to outputs/", len(cams), worldID)
}
