package marble

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Marble models accepted by worlds:generate.
const (
	ModelMini = "Marble 0.1-mini"
	ModelPlus = "Marble 0.1-plus"
)

// Permission is the access control attached to a world.
type Permission struct {
	Public bool `json:"public"`
}

// Content kinds (the "source" discriminator).
const (
	SourceMediaAsset = "media_asset"
	SourceURI        = "uri"
	SourceDataBase64 = "data_base64"
)

// Content references media by ID, public URL or inline base64 data.
// Exactly one of the payload fields is set, according to Source.
type Content struct {
	Source       string `json:"source"`
	MediaAssetID string `json:"media_asset_id,omitempty"`
	URI          string `json:"uri,omitempty"`
	DataBase64   string `json:"data_base64,omitempty"`
	Extension    string `json:"extension,omitempty"`
}

func MediaAssetRef(id string) *Content {
	return &Content{Source: SourceMediaAsset, MediaAssetID: id}
}

func URIRef(uri string) *Content {
	return &Content{Source: SourceURI, URI: uri}
}

// Base64Ref wraps already-encoded data; ext is the file extension without
// the dot ("jpg", "png") and may be empty.
func Base64Ref(data, ext string) *Content {
	return &Content{Source: SourceDataBase64, DataBase64: data, Extension: ext}
}

func (c *Content) Validate() error {
	switch c.Source {
	case SourceMediaAsset:
		if c.MediaAssetID == "" {
			return errors.New("media_asset content requires media_asset_id")
		}
	case SourceURI:
		if c.URI == "" {
			return errors.New("uri content requires uri")
		}
	case SourceDataBase64:
		if c.DataBase64 == "" {
			return errors.New("data_base64 content requires data_base64")
		}
	default:
		return fmt.Errorf("unknown content source %q", c.Source)
	}
	return nil
}

// SphericallyLocatedContent places content at a preferred azimuth on the
// sphere for multi-image prompts.
type SphericallyLocatedContent struct {
	Azimuth *float64 `json:"azimuth,omitempty"`
	Content *Content `json:"content"`
}

// Prompt kinds (the "type" discriminator).
const (
	PromptText       = "text"
	PromptImage      = "image"
	PromptMultiImage = "multi-image"
	PromptVideo      = "video"
)

// WorldPrompt describes what to generate a world from. The API models this
// as a tagged union over "type"; only the fields belonging to the selected
// type are serialized.
type WorldPrompt struct {
	Type             string `json:"type"`
	TextPrompt       string `json:"text_prompt,omitempty"`
	DisableRecaption bool   `json:"disable_recaption,omitempty"`

	// image
	ImagePrompt *Content `json:"image_prompt,omitempty"`
	IsPano      bool     `json:"is_pano,omitempty"`

	// multi-image
	MultiImagePrompt  []SphericallyLocatedContent `json:"multi_image_prompt,omitempty"`
	ReconstructImages bool                        `json:"reconstruct_images,omitempty"`

	// video
	VideoPrompt *Content `json:"video_prompt,omitempty"`
}

// TextPrompt builds a text-to-world prompt.
func TextPrompt(text string) *WorldPrompt {
	return &WorldPrompt{Type: PromptText, TextPrompt: text}
}

// ImagePromptFrom builds an image-to-world prompt.
func ImagePromptFrom(content *Content) *WorldPrompt {
	return &WorldPrompt{Type: PromptImage, ImagePrompt: content}
}

// MultiImagePromptFrom builds a multi-image-to-world prompt.
func MultiImagePromptFrom(images ...SphericallyLocatedContent) *WorldPrompt {
	return &WorldPrompt{Type: PromptMultiImage, MultiImagePrompt: images}
}

// VideoPromptFrom builds a video-to-world prompt.
func VideoPromptFrom(content *Content) *WorldPrompt {
	return &WorldPrompt{Type: PromptVideo, VideoPrompt: content}
}

func (p *WorldPrompt) Validate() error {
	if p.DisableRecaption && p.TextPrompt == "" {
		return errors.New("text_prompt is required when disable_recaption is set")
	}
	switch p.Type {
	case PromptText:
		if p.TextPrompt == "" {
			return errors.New("text_prompt is required for text-to-world generation")
		}
	case PromptImage:
		if p.ImagePrompt == nil {
			return errors.New("image_prompt is required for image-to-world generation")
		}
		return p.ImagePrompt.Validate()
	case PromptMultiImage:
		if len(p.MultiImagePrompt) == 0 {
			return errors.New("multi_image_prompt must contain at least one image")
		}
		for i := range p.MultiImagePrompt {
			c := p.MultiImagePrompt[i].Content
			if c == nil {
				return fmt.Errorf("multi_image_prompt[%d] has no content", i)
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("multi_image_prompt[%d]: %w", i, err)
			}
		}
	case PromptVideo:
		if p.VideoPrompt == nil {
			return errors.New("video_prompt is required for video-to-world generation")
		}
		return p.VideoPrompt.Validate()
	default:
		return fmt.Errorf("unknown prompt type %q", p.Type)
	}
	return nil
}

// WorldsGenerateRequest is the body of worlds:generate.
type WorldsGenerateRequest struct {
	DisplayName string       `json:"display_name,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Seed        *int64       `json:"seed,omitempty"`
	WorldPrompt *WorldPrompt `json:"world_prompt"`
	Model       string       `json:"model,omitempty"`
	Permission  *Permission  `json:"permission,omitempty"`
}

func (r *WorldsGenerateRequest) Validate() error {
	if r.WorldPrompt == nil {
		return errors.New("world_prompt is required")
	}
	if r.Seed != nil && *r.Seed < 0 {
		return errors.New("seed must be non-negative")
	}
	return r.WorldPrompt.Validate()
}

// MeshAssets holds mesh asset URLs.
type MeshAssets struct {
	ColliderMeshURL string `json:"collider_mesh_url,omitempty"`
}

// ImageryAssets holds imagery asset URLs.
type ImageryAssets struct {
	PanoURL string `json:"pano_url,omitempty"`
}

// SplatAssets holds gaussian splat file URLs keyed by resolution
// ("full_res", "500k", ...).
type SplatAssets struct {
	SPZURLs map[string]string `json:"spz_urls,omitempty"`
}

// URL returns the splat URL for the first present key, falling back to any
// available one.
func (s *SplatAssets) URL(prefer ...string) (string, bool) {
	if s == nil || len(s.SPZURLs) == 0 {
		return "", false
	}
	for _, k := range prefer {
		if u, ok := s.SPZURLs[k]; ok && u != "" {
			return u, true
		}
	}
	for _, u := range s.SPZURLs {
		if u != "" {
			return u, true
		}
	}
	return "", false
}

// WorldAssets are the downloadable outputs of world generation.
type WorldAssets struct {
	Mesh         *MeshAssets    `json:"mesh,omitempty"`
	Imagery      *ImageryAssets `json:"imagery,omitempty"`
	Splats       *SplatAssets   `json:"splats,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Caption      string         `json:"caption,omitempty"`
}

// World is a generated world, including its asset URLs.
type World struct {
	ID             string       `json:"id"`
	DisplayName    string       `json:"display_name,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Assets         *WorldAssets `json:"assets,omitempty"`
	CreatedAt      *time.Time   `json:"created_at,omitempty"`
	UpdatedAt      *time.Time   `json:"updated_at,omitempty"`
	Permission     *Permission  `json:"permission,omitempty"`
	WorldPrompt    *WorldPrompt `json:"world_prompt,omitempty"`
	WorldMarbleURL string       `json:"world_marble_url,omitempty"`
	Model          string       `json:"model,omitempty"`
}

// UnmarshalJSON accepts the world ID from either "id" or "world_id"; the
// service uses both depending on the endpoint.
func (w *World) UnmarshalJSON(data []byte) error {
	type alias World
	aux := struct {
		*alias
		WorldID string `json:"world_id"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = aux.WorldID
	}
	return nil
}

// World status filters for worlds:list.
const (
	StatusSucceeded = "SUCCEEDED"
	StatusPending   = "PENDING"
	StatusFailed    = "FAILED"
	StatusRunning   = "RUNNING"
)

// ListWorldsRequest is the body of worlds:list.
type ListWorldsRequest struct {
	Status        string     `json:"status,omitempty"`
	Model         string     `json:"model,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	IsPublic      *bool      `json:"is_public,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	SortBy        string     `json:"sort_by,omitempty"`
	PageSize      int        `json:"page_size,omitempty"`
	PageToken     string     `json:"page_token,omitempty"`
}

func (r *ListWorldsRequest) Validate() error {
	if r.PageSize < 0 || r.PageSize > 100 {
		return errors.New("page_size must be between 1 and 100")
	}
	return nil
}

// ListWorldsResponse is one page of worlds:list results.
type ListWorldsResponse struct {
	Worlds        []World `json:"worlds"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// Media asset kinds.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// MediaAsset is a user-uploaded media asset in managed storage.
type MediaAsset struct {
	MediaAssetID string         `json:"media_asset_id"`
	FileName     string         `json:"file_name"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Extension    string         `json:"extension,omitempty"`
	Kind         string         `json:"kind"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// UploadURLInfo describes how to upload raw bytes directly to storage.
type UploadURLInfo struct {
	UploadURL       string            `json:"upload_url"`
	RequiredHeaders map[string]string `json:"required_headers,omitempty"`
	UploadMethod    string            `json:"upload_method"`
	CurlExample     string            `json:"curl_example,omitempty"`
}

// MediaAssetPrepareUploadRequest is the body of media-assets:prepare_upload.
type MediaAssetPrepareUploadRequest struct {
	FileName  string         `json:"file_name"`
	Extension string         `json:"extension,omitempty"`
	Kind      string         `json:"kind"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// MediaAssetPrepareUploadResponse pairs the created asset with its signed
// upload URL.
type MediaAssetPrepareUploadResponse struct {
	MediaAsset MediaAsset    `json:"media_asset"`
	UploadInfo UploadURLInfo `json:"upload_info"`
}
