// Download a world's SPZ splat and convert it to a 3DGS PLY file.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"marble-sdk/api/internal/config"
	"marble-sdk/api/internal/export"
	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/spz"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <world-id>", filepath.Base(os.Args[0]))
	}
	worldID := os.Args[1]

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
	url, ok := splats.URL("full_res")
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

	plyPath := filepath.Join("outputs", worldID+".ply")
	if err := export.SavePLY(plyPath, g); err != nil {
		log.Fatalf("write ply: %v", err)
	}
	log.Printf("wrote %d gaussians to %s", g.Count, plyPath)
}
