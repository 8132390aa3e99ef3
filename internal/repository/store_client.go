package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/transfer"
	"github.com/spf13/cast"
)

const (
	ActionGetDestinations   = "getDestinations"
	ActionGetPosts          = "getPosts"
	ActionGetConfig         = "getConfig"
	ActionTestConnection    = "testConnection"
	ActionAddDestination    = "addDestination"
	ActionUpdateDestination = "updateDestination"
	ActionRemoveDestination = "removeDestination"
	ActionUploadMedia       = "uploadMedia"
	ActionUploadBatchMedia  = "uploadBatchMedia"
	ActionCreateBatchPosts  = "createBatchPosts"
	ActionUpdatePost        = "updatePost"
	ActionDeletePost        = "deletePost"
)

var (
	ErrNoEndpoint    = errors.New("remote store url is empty")
	ErrRequestFailed = errors.New("remote store request failed")
	ErrRejected      = errors.New("remote store rejected the request")
)

// StoreClient is the typed façade over the remote store's action protocol.
// Every expected failure is returned as an error; nothing panics.
type StoreClient interface {
	URL() string
	SetURL(u string)

	ListDestinations(ctx context.Context) ([]models.Destination, error)
	AddDestination(ctx context.Context, d models.Destination) error
	UpdateDestination(ctx context.Context, d models.Destination) error
	RemoveDestination(ctx context.Context, id string) error

	ListPosts(ctx context.Context) ([]models.ScheduledPost, error)
	CreateBatchPosts(ctx context.Context, videoURLs, imageURLs []string, items []models.BatchPostItem, common models.BatchCommonData) error
	UpdatePost(ctx context.Context, id string, u models.PostUpdate) error
	DeletePost(ctx context.Context, id string) error

	UploadMedia(ctx context.Context, f models.UploadFile) (*models.UploadResult, error)
	UploadBatchMedia(ctx context.Context, files []models.UploadFile) ([]models.UploadResult, error)

	GetConfig(ctx context.Context) (map[string]string, error)
	TestConnection(ctx context.Context) error
}

type storeClient struct {
	mu         sync.RWMutex
	url        string
	httpClient *http.Client
	dates      DateNormalizer
	now        func() time.Time
}

func NewStoreClient(storeURL string, httpClient *http.Client, dates DateNormalizer) StoreClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &storeClient{
		url:        strings.TrimSpace(storeURL),
		httpClient: httpClient,
		dates:      dates,
		now:        time.Now,
	}
}

func (c *storeClient) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}

func (c *storeClient) SetURL(u string) {
	c.mu.Lock()
	c.url = strings.TrimSpace(u)
	c.mu.Unlock()
}

func (c *storeClient) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	resp, err := c.get(ctx, ActionGetDestinations)
	if err != nil {
		return nil, err
	}
	var dests []models.Destination
	if err := decodeData(resp, &dests); err != nil {
		return nil, err
	}
	if dests == nil {
		dests = []models.Destination{}
	}
	return dests, nil
}

func (c *storeClient) AddDestination(ctx context.Context, d models.Destination) error {
	return c.send(ctx, ActionAddDestination, d)
}

func (c *storeClient) UpdateDestination(ctx context.Context, d models.Destination) error {
	return c.send(ctx, ActionUpdateDestination, d)
}

func (c *storeClient) RemoveDestination(ctx context.Context, id string) error {
	return c.send(ctx, ActionRemoveDestination, transfer.IDPayload{ID: id})
}

func (c *storeClient) ListPosts(ctx context.Context) ([]models.ScheduledPost, error) {
	resp, err := c.get(ctx, ActionGetPosts)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := decodeData(resp, &raw); err != nil {
		return nil, err
	}

	rows := make([]transfer.RawRow, 0, len(raw))
	for i, r := range raw {
		var row transfer.RawRow
		if err := json.Unmarshal(r, &row); err != nil {
			slog.Info("skipping malformed post row", "index", i, "error", err)
			continue
		}
		rows = append(rows, row)
	}
	return normalizeRows(rows, c.dates, c.now()), nil
}

func (c *storeClient) CreateBatchPosts(ctx context.Context, videoURLs, imageURLs []string, items []models.BatchPostItem, common models.BatchCommonData) error {
	if common.Status == "" {
		common.Status = models.StatusQueue
	}
	if common.PostType == "" {
		common.PostType = models.PostTypeSingleImage
	}
	if items == nil {
		items = []models.BatchPostItem{}
	}

	payload := transfer.CreateBatchPayload{
		VideoURLs: strings.Join(videoURLs, "\n"),
		ImageURLs: strings.Join(imageURLs, "\n"),
		Items:     items,
		CommonData: transfer.CommonDataPayload{
			Status:    StatusLabel(common.Status),
			PostType:  common.PostType,
			Topic:     common.Topic,
			MediaType: common.MediaType,
			CreatedAt: common.CreatedAt,
		},
	}
	return c.send(ctx, ActionCreateBatchPosts, payload)
}

func (c *storeClient) UpdatePost(ctx context.Context, id string, u models.PostUpdate) error {
	payload := map[string]any{"id": id}
	if u.Content != nil {
		payload["content"] = *u.Content
	}
	if u.MandatoryContent != nil {
		payload["mandatoryContent"] = *u.MandatoryContent
	}
	if u.SeedingComment != nil {
		payload["seedingComment"] = *u.SeedingComment
	}
	if u.PostType != nil {
		payload["postType"] = *u.PostType
	}
	if u.Destinations != nil {
		payload["destinations"] = u.Destinations
	}
	if u.ScheduledTime != nil {
		payload["scheduledTime"] = c.wireTime(*u.ScheduledTime)
	}
	if u.Status != nil {
		payload["status"] = StatusLabel(*u.Status)
	}
	return c.send(ctx, ActionUpdatePost, payload)
}

func (c *storeClient) DeletePost(ctx context.Context, id string) error {
	return c.send(ctx, ActionDeletePost, transfer.IDPayload{ID: id})
}

func (c *storeClient) UploadMedia(ctx context.Context, f models.UploadFile) (*models.UploadResult, error) {
	resp, err := c.post(ctx, ActionUploadMedia, f)
	if err != nil {
		slog.Error("upload media failed", "name", f.Name, "error", err)
		return nil, err
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("%w: %s returned no url", ErrRejected, ActionUploadMedia)
	}
	result := &models.UploadResult{URL: resp.URL, Type: resp.Type}
	if result.Type == "" {
		result.Type = models.MediaTypeImage
	}
	return result, nil
}

func (c *storeClient) UploadBatchMedia(ctx context.Context, files []models.UploadFile) ([]models.UploadResult, error) {
	resp, err := c.post(ctx, ActionUploadBatchMedia, transfer.BatchUploadPayload{Files: files})
	if err != nil {
		slog.Error("batch upload failed", "files", len(files), "error", err)
		return nil, err
	}
	if resp.Files == nil {
		return nil, fmt.Errorf("%w: %s returned no files", ErrRejected, ActionUploadBatchMedia)
	}
	return resp.Files, nil
}

func (c *storeClient) GetConfig(ctx context.Context) (map[string]string, error) {
	resp, err := c.get(ctx, ActionGetConfig)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := decodeData(resp, &raw); err != nil {
		return nil, err
	}
	config := make(map[string]string, len(raw))
	for k, v := range raw {
		config[k] = cast.ToString(v)
	}
	return config, nil
}

func (c *storeClient) TestConnection(ctx context.Context) error {
	_, err := c.get(ctx, ActionTestConnection)
	return err
}

// wireTime converts a sortable or wire date into the sheet format,
// leaving anything unparseable untouched.
func (c *storeClient) wireTime(s string) string {
	if t, ok := c.dates.Parse(s); ok {
		return c.dates.FormatWire(t)
	}
	return s
}

func (c *storeClient) send(ctx context.Context, action string, payload any) error {
	_, err := c.post(ctx, action, payload)
	if err != nil {
		slog.Error("remote store action failed", "action", action, "error", err)
	}
	return err
}

func (c *storeClient) get(ctx context.Context, action string) (*transfer.StoreResponse, error) {
	base := c.URL()
	if base == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", ErrRequestFailed, err)
	}
	q := u.Query()
	q.Set("action", action)
	q.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return c.do(req, action)
}

func (c *storeClient) post(ctx context.Context, action string, payload any) (*transfer.StoreResponse, error) {
	base := c.URL()
	if base == "" {
		return nil, ErrNoEndpoint
	}
	body, err := json.Marshal(transfer.StoreRequest{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrRequestFailed, action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	// text/plain keeps the script endpoint from demanding a preflight.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req, action)
}

func (c *storeClient) do(req *http.Request, action string) (*transfer.StoreResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRequestFailed, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: status %d: %s", ErrRequestFailed, action, resp.StatusCode, body)
	}

	var out transfer.StoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %v", ErrRequestFailed, action, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: %s: %s", ErrRejected, action, out.Message)
	}
	return &out, nil
}

func decodeData(resp *transfer.StoreResponse, v any) error {
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrRequestFailed, err)
	}
	return nil
}
