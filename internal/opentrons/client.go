package opentrons

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"OT2Connect/internal/domain/entities"
)

// Типы действий POST /runs/{id}/actions.
const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionStop  = "stop"
)

// ErrProtocolFileNotFound возвращается при попытке загрузить отсутствующий файл протокола.
var ErrProtocolFileNotFound = errors.New("файл протокола не найден")

// APIError — ответ сервера робота со статусом 4xx/5xx.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("сервер ответил %d на %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// Client выполняет HTTP-запросы к API робота. Состояния не имеет и
// безопасен для конкурентного использования.
type Client struct {
	endpoint entities.RobotEndpoint
	http     *http.Client
}

// NewClient создаёт клиент API робота для указанного эндпоинта.
func NewClient(endpoint entities.RobotEndpoint) *Client {
	return &Client{
		endpoint: endpoint,
		// Таймаут задаётся per-call через context, а не на клиенте.
		http: &http.Client{},
	}
}

// Get выполняет GET-запрос к указанному пути и возвращает HTTP-статус ответа.
// Используется стартовым обходом, которому важен только код ответа.
func (c *Client) Get(ctx context.Context, path string, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.BaseURL()+path, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания запроса к %s: %w", path, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ошибка выполнения запроса к %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Health выполняет авторитетную проверку живости через GET /health.
func (c *Client) Health(ctx context.Context, timeout time.Duration) error {
	code, err := c.Get(ctx, "/health", timeout)
	if err != nil {
		return err
	}
	if code >= http.StatusBadRequest {
		return &APIError{StatusCode: code, Endpoint: "/health"}
	}
	return nil
}

// SetLights включает или выключает индикаторную подсветку робота.
func (c *Client) SetLights(ctx context.Context, on bool, timeout time.Duration) error {
	return c.postJSON(ctx, "/robot/lights", lightsRequest{On: on}, timeout, nil)
}

// UploadProtocol загружает файл протокола multipart-запросом и
// возвращает идентификатор протокола, присвоенный сервером.
func (c *Client) UploadProtocol(ctx context.Context, path string, timeout time.Duration) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrProtocolFileNotFound, path)
		}
		return "", fmt.Errorf("ошибка открытия файла протокола %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("ошибка подготовки multipart-запроса: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("ошибка чтения файла протокола %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("ошибка завершения multipart-запроса: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.BaseURL()+"/protocols", &body)
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса к /protocols: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки протокола: %w", err)
	}
	defer resp.Body.Close()

	var decoded idResponse
	if err := c.decodeResponse(resp, "/protocols", &decoded); err != nil {
		return "", err
	}
	return decoded.Data.ID, nil
}

// CreateRun создаёт запуск для загруженного протокола и возвращает его идентификатор.
func (c *Client) CreateRun(ctx context.Context, protocolID string, timeout time.Duration) (string, error) {
	payload := createRunRequest{
		Data: createRunData{
			ProtocolID:        protocolID,
			LabwareOffsets:    []interface{}{},
			RunTimeParameters: []interface{}{},
		},
	}

	var decoded idResponse
	if err := c.postJSON(ctx, "/runs", payload, timeout, &decoded); err != nil {
		return "", err
	}
	return decoded.Data.ID, nil
}

// RunAction отправляет действие play/pause/stop для указанного запуска.
func (c *Client) RunAction(ctx context.Context, runID, action string, timeout time.Duration) error {
	return c.postJSON(ctx, "/runs/"+runID+"/actions", actionRequest{Data: actionData{ActionType: action}}, timeout, nil)
}

// GetRun опрашивает состояние запуска и возвращает декодированное обновление.
func (c *Client) GetRun(ctx context.Context, runID string, timeout time.Duration) (*entities.RunUpdate, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := "/runs/" + runID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.BaseURL()+path, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к %s: %w", path, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка опроса запуска %s: %w", runID, err)
	}
	defer resp.Body.Close()

	var decoded runResponse
	if err := c.decodeResponse(resp, path, &decoded); err != nil {
		return nil, err
	}
	update := mapRunUpdate(decoded.Data)
	return &update, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, timeout time.Duration, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации тела запроса к %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.BaseURL()+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса к %s: %w", path, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса к %s: %w", path, err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, path, out)
}

func (c *Client) decodeResponse(resp *http.Response, path string, out interface{}) error {
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(bytes.TrimSpace(snippet))}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка чтения ответа от %s: %w", path, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Opentrons-Version", c.endpoint.APIVersion)
}
