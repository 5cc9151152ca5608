package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marble-sdk/api/internal/marble"
	"marble-sdk/api/internal/util"
)

var tgFileClient = &http.Client{Timeout: 60 * time.Second}

// acceptPhoto generates a world from the photo: download from Telegram,
// push the bytes through a prepared media upload, then submit an
// image-prompt generation. The caption, if any, becomes text guidance.
func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	r.send(cid, "Got the photo — uploading it for generation…")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		// Telegram sends several sizes; the last is the largest.
		ph := msg.Photo[len(msg.Photo)-1]
		tf, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
		if err != nil {
			r.sendError(cid, err)
			return
		}
		img, err := downloadTelegramFile(ctx, r.Bot.Token, tf.FilePath)
		if err != nil {
			r.sendError(cid, err)
			return
		}

		ext := util.SniffImageExt(img)
		if ext == "" {
			ext = util.ExtFromFileName(tf.FilePath)
		}
		asset, err := r.Client.PrepareMediaUpload(ctx, &marble.MediaAssetPrepareUploadRequest{
			FileName:  fmt.Sprintf("telegram_%d", msg.MessageID),
			Extension: ext,
			Kind:      marble.MediaKindImage,
		})
		if err != nil {
			r.sendError(cid, err)
			return
		}
		if err := r.Client.UploadMedia(ctx, &asset.UploadInfo, img); err != nil {
			r.sendError(cid, err)
			return
		}

		wp := marble.ImagePromptFrom(marble.MediaAssetRef(asset.MediaAsset.MediaAssetID))
		caption := strings.TrimSpace(msg.Caption)
		if caption != "" {
			wp.TextPrompt = caption
		}
		name := caption
		if name == "" {
			name = "Photo world"
		}
		req := &marble.WorldsGenerateRequest{
			DisplayName: displayName(name),
			Model:       r.Model,
			WorldPrompt: wp,
		}
		r.startGeneration(cid, req, name)
	}()
}

func downloadTelegramFile(ctx context.Context, token, filePath string) ([]byte, error) {
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := tgFileClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("telegram file %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
