package marble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldPromptValidate(t *testing.T) {
	tests := []struct {
		name    string
		prompt  *WorldPrompt
		wantErr string
	}{
		{
			name:   "text ok",
			prompt: TextPrompt("a foggy harbor at dawn"),
		},
		{
			name:    "text missing",
			prompt:  &WorldPrompt{Type: PromptText},
			wantErr: "text_prompt is required",
		},
		{
			name: "disable_recaption without text",
			prompt: &WorldPrompt{
				Type:             PromptImage,
				ImagePrompt:      URIRef("https://example.com/a.jpg"),
				DisableRecaption: true,
			},
			wantErr: "disable_recaption",
		},
		{
			name:   "image ok",
			prompt: ImagePromptFrom(MediaAssetRef("ma_123")),
		},
		{
			name:    "image missing content",
			prompt:  &WorldPrompt{Type: PromptImage},
			wantErr: "image_prompt is required",
		},
		{
			name:    "image content missing id",
			prompt:  ImagePromptFrom(&Content{Source: SourceMediaAsset}),
			wantErr: "media_asset_id",
		},
		{
			name: "multi-image ok",
			prompt: MultiImagePromptFrom(
				SphericallyLocatedContent{Content: URIRef("https://example.com/a.jpg")},
				SphericallyLocatedContent{Content: URIRef("https://example.com/b.jpg")},
			),
		},
		{
			name:    "multi-image empty",
			prompt:  &WorldPrompt{Type: PromptMultiImage},
			wantErr: "at least one image",
		},
		{
			name: "multi-image nil content",
			prompt: MultiImagePromptFrom(
				SphericallyLocatedContent{},
			),
			wantErr: "multi_image_prompt[0]",
		},
		{
			name:   "video ok",
			prompt: VideoPromptFrom(Base64Ref("AAAA", "mp4")),
		},
		{
			name:    "unknown type",
			prompt:  &WorldPrompt{Type: "audio"},
			wantErr: "unknown prompt type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prompt.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestContentValidate(t *testing.T) {
	assert.NoError(t, MediaAssetRef("ma_1").Validate())
	assert.NoError(t, URIRef("https://example.com/x.png").Validate())
	assert.NoError(t, Base64Ref("aGk=", "png").Validate())

	assert.Error(t, (&Content{Source: SourceURI}).Validate())
	assert.Error(t, (&Content{Source: SourceDataBase64}).Validate())
	assert.Error(t, (&Content{Source: "ftp"}).Validate())
}

func TestGenerateRequestValidate(t *testing.T) {
	req := &WorldsGenerateRequest{Model: ModelMini, WorldPrompt: TextPrompt("hi")}
	assert.NoError(t, req.Validate())

	assert.Error(t, (&WorldsGenerateRequest{}).Validate())

	neg := int64(-1)
	req.Seed = &neg
	assert.ErrorContains(t, req.Validate(), "seed")

	ok := int64(42)
	req.Seed = &ok
	assert.NoError(t, req.Validate())
}

func TestListWorldsRequestValidate(t *testing.T) {
	assert.NoError(t, (&ListWorldsRequest{}).Validate())
	assert.NoError(t, (&ListWorldsRequest{PageSize: 100}).Validate())
	assert.Error(t, (&ListWorldsRequest{PageSize: 101}).Validate())
	assert.Error(t, (&ListWorldsRequest{PageSize: -1}).Validate())
}

func TestWorldPromptJSONShape(t *testing.T) {
	data, err := json.Marshal(TextPrompt("a castle"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text_prompt":"a castle"}`, string(data))

	// Only the fields of the selected type go on the wire.
	data, err = json.Marshal(ImagePromptFrom(MediaAssetRef("ma_9")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image","image_prompt":{"source":"media_asset","media_asset_id":"ma_9"}}`, string(data))
}

func TestWorldUnmarshalIDAliases(t *testing.T) {
	var w World
	require.NoError(t, json.Unmarshal([]byte(`{"id":"w_1","display_name":"A"}`), &w))
	assert.Equal(t, "w_1", w.ID)

	var w2 World
	require.NoError(t, json.Unmarshal([]byte(`{"world_id":"w_2"}`), &w2))
	assert.Equal(t, "w_2", w2.ID)

	// "id" wins when both are present.
	var w3 World
	require.NoError(t, json.Unmarshal([]byte(`{"id":"w_3","world_id":"legacy"}`), &w3))
	assert.Equal(t, "w_3", w3.ID)
}

func TestGenerateRequestRoundTrip(t *testing.T) {
	seed := int64(1234)
	az := 90.0
	want := &WorldsGenerateRequest{
		DisplayName: "Harbor",
		Tags:        []string{"demo", "harbor"},
		Seed:        &seed,
		Model:       ModelPlus,
		Permission:  &Permission{Public: true},
		WorldPrompt: &WorldPrompt{
			Type:       PromptMultiImage,
			TextPrompt: "a foggy harbor",
			MultiImagePrompt: []SphericallyLocatedContent{
				{Azimuth: &az, Content: URIRef("https://example.com/a.jpg")},
				{Content: Base64Ref("aGk=", "png")},
			},
			ReconstructImages: true,
		},
	}

	data, err := json.Marshal(want)
	require.NoError(t, err)

	var got WorldsGenerateRequest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want, &got)
}

func TestSplatAssetsURL(t *testing.T) {
	var nilAssets *SplatAssets
	_, ok := nilAssets.URL("full_res")
	assert.False(t, ok)

	s := &SplatAssets{SPZURLs: map[string]string{
		"full_res": "https://cdn/full.spz",
		"500k":     "https://cdn/500k.spz",
	}}

	u, ok := s.URL("500k", "full_res")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/500k.spz", u)

	u, ok = s.URL("1m", "full_res")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/full.spz", u)

	// No preference still yields something.
	_, ok = s.URL()
	assert.True(t, ok)
}

func TestOperationErr(t *testing.T) {
	op := &Operation{OperationID: "op_1", Done: true}
	assert.NoError(t, op.Err())

	op.Error = &OperationError{Code: 13, Message: "generation failed"}
	err := op.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Contains(t, err.Error(), "13")
}
