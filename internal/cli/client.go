package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shaiso/Cardflow/internal/domain"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ExecutionSummary — запуск без результатов из списка истории.
type ExecutionSummary struct {
	ID          string `json:"id"`
	PipelineID  string `json:"pipelineId"`
	Status      string `json:"status"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime,omitempty"`
	Cards       int    `json:"cards"`
	FailedCards int    `json:"failedCards"`
	Error       string `json:"error,omitempty"`
}

// QueuedResponse — ответ на постановку в очередь.
type QueuedResponse struct {
	MessageID  string `json:"message_id"`
	PipelineID string `json:"pipeline_id"`
}

// --- Request types ---

type executeRequest struct {
	Pipeline *domain.Pipeline `json:"pipeline"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError — ошибка, которую вернул API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// --- Client ---

// Client — HTTP-клиент для Cardflow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// --- Cards ---

// ListCards возвращает определения карточек.
func (c *Client) ListCards() ([]domain.CardDefinition, error) {
	var defs []domain.CardDefinition
	err := c.list("/api/v1/cards", nil, &defs)
	return defs, err
}

// GetCard возвращает определение карточки.
func (c *Client) GetCard(id string) (*domain.CardDefinition, error) {
	var def domain.CardDefinition
	err := c.get("/api/v1/cards/"+url.PathEscape(id), &def)
	return &def, err
}

// --- Executions ---

// Execute выполняет pipeline на сервере и ждёт результат.
func (c *Client) Execute(p *domain.Pipeline) (*domain.PipelineExecution, error) {
	var exec domain.PipelineExecution
	err := c.post("/api/v1/executions", executeRequest{Pipeline: p}, &exec)
	return &exec, err
}

// QueueExecution ставит pipeline в очередь worker'ов.
func (c *Client) QueueExecution(p *domain.Pipeline) (*QueuedResponse, error) {
	var queued QueuedResponse
	err := c.post("/api/v1/executions/queue", executeRequest{Pipeline: p}, &queued)
	return &queued, err
}

// GetExecution возвращает запуск из истории.
func (c *Client) GetExecution(id string) (*domain.PipelineExecution, error) {
	var exec domain.PipelineExecution
	err := c.get("/api/v1/executions/"+url.PathEscape(id), &exec)
	return &exec, err
}

// ListExecutions возвращает последние запуски pipeline.
func (c *Client) ListExecutions(pipelineID string, limit int) ([]ExecutionSummary, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var execs []ExecutionSummary
	err := c.list("/api/v1/pipelines/"+url.PathEscape(pipelineID)+"/executions", params, &execs)
	return execs, err
}

// LatestExecution возвращает последний запуск pipeline.
func (c *Client) LatestExecution(pipelineID string) (*domain.PipelineExecution, error) {
	var exec domain.PipelineExecution
	err := c.get("/api/v1/pipelines/"+url.PathEscape(pipelineID)+"/executions/latest", &exec)
	return &exec, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	return &APIError{Status: resp.StatusCode, Code: er.Error.Code, Message: er.Error.Message}
}
