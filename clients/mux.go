package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/warrenmedia/api-go/config"
)

// UploadMetadata travels with the upload as the asset passthrough.
type UploadMetadata struct {
	CreatorID   string `json:"creatorId"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type UploadTarget struct {
	UploadID string `json:"uploadId"`
	URL      string `json:"uploadUrl"`
}

type UploadStatus struct {
	Status     string  `json:"status"`
	AssetID    string  `json:"assetId,omitempty"`
	PlaybackID string  `json:"playbackId,omitempty"`
	Ready      bool    `json:"ready"`
	Duration   float64 `json:"duration,omitempty"`
}

// MuxClient talks to the Mux Video REST API with basic auth.
type MuxClient struct {
	baseURL    string
	tokenID    string
	secret     string
	corsOrigin string
	httpClient *http.Client
}

func NewMuxClient(cfg *config.MuxConfig) *MuxClient {
	return &MuxClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokenID:    cfg.TokenID,
		secret:     cfg.TokenSecret,
		corsOrigin: cfg.CORSOrigin,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type muxUploadRequest struct {
	CORSOrigin       string           `json:"cors_origin"`
	NewAssetSettings muxAssetSettings `json:"new_asset_settings"`
}

type muxAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
	Passthrough    string   `json:"passthrough"`
}

type muxUpload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id"`
}

type muxAsset struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Duration    float64 `json:"duration"`
	PlaybackIDs []struct {
		ID string `json:"id"`
	} `json:"playback_ids"`
}

// CreateUpload opens a direct upload whose asset will be publicly playable.
func (m *MuxClient) CreateUpload(ctx context.Context, meta UploadMetadata) (*UploadTarget, error) {
	passthrough, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	body := muxUploadRequest{
		CORSOrigin: m.corsOrigin,
		NewAssetSettings: muxAssetSettings{
			PlaybackPolicy: []string{"public"},
			Passthrough:    string(passthrough),
		},
	}

	var upload muxUpload
	if err := m.do(ctx, http.MethodPost, "/video/v1/uploads", body, &upload); err != nil {
		return nil, err
	}
	return &UploadTarget{UploadID: upload.ID, URL: upload.URL}, nil
}

// UploadStatus reports the upload state, and the asset state once Mux has
// created one. An asset lookup failure falls back to the upload state.
func (m *MuxClient) UploadStatus(ctx context.Context, uploadID string) (*UploadStatus, error) {
	var upload muxUpload
	if err := m.do(ctx, http.MethodGet, "/video/v1/uploads/"+url.PathEscape(uploadID), nil, &upload); err != nil {
		return nil, err
	}

	status := &UploadStatus{Status: upload.Status, AssetID: upload.AssetID}
	if upload.AssetID == "" {
		return status, nil
	}

	var asset muxAsset
	if err := m.do(ctx, http.MethodGet, "/video/v1/assets/"+url.PathEscape(upload.AssetID), nil, &asset); err != nil {
		return status, nil
	}

	status.AssetID = asset.ID
	status.Ready = asset.Status == "ready"
	status.Duration = asset.Duration
	if len(asset.PlaybackIDs) > 0 {
		status.PlaybackID = asset.PlaybackIDs[0].ID
	}
	return status, nil
}

func (m *MuxClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.tokenID, m.secret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mux request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mux %s %s returned status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode mux response: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}
