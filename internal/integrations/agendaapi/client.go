package agendaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

const userIDHeader = "X-User-ID"

// Options параметры клиента
type Options struct {
	Timeout    time.Duration
	MaxRetries int           // повторы только для GET
	Backoff    time.Duration // базовая задержка, удваивается с каждой попыткой
}

// Client клиент agenda API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	userID     string
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента agenda API
func NewClient(baseURL string, opts Options, metrics Metrics, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		metrics:    metrics,
		log:        log,
	}
}

// WithUser возвращает клиент, отправляющий запросы от имени пользователя
func (c *Client) WithUser(userID string) *Client {
	clone := *c
	clone.userID = userID
	return &clone
}

// GetAvailableSlots GET /appointments/available-slots
func (c *Client) GetAvailableSlots(ctx context.Context, providerID string, date time.Time, durationMinutes int) ([]time.Time, error) {
	query := url.Values{}
	query.Set("providerId", providerID)
	query.Set("date", date.Format(domain.DateFormat))
	query.Set("duration", fmt.Sprint(durationMinutes))

	var resp SlotsResponse
	if err := c.invoke(ctx, http.MethodGet, "/appointments/available-slots", "/appointments/available-slots", query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Slots == nil {
		return []time.Time{}, nil
	}
	return resp.Slots, nil
}

// SearchClients GET /clients?search=<q>&isActive=true
func (c *Client) SearchClients(ctx context.Context, search string) ([]domain.ClientSummary, error) {
	query := url.Values{}
	query.Set("search", search)
	query.Set("isActive", "true")

	var resp []ClientSummary
	if err := c.invoke(ctx, http.MethodGet, "/clients", "/clients", query, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]domain.ClientSummary, 0, len(resp))
	for _, cl := range resp {
		result = append(result, domain.ClientSummary{ID: cl.ID, Name: cl.Name, DNI: cl.DNI, Email: cl.Email})
	}
	return result, nil
}

// ListEmployees GET /employees?isActive=true
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	query := url.Values{}
	query.Set("isActive", "true")

	var resp []Employee
	if err := c.invoke(ctx, http.MethodGet, "/employees", "/employees", query, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]domain.Employee, 0, len(resp))
	for _, e := range resp {
		result = append(result, domain.Employee{ID: e.ID, Name: e.Name, Specialty: e.Specialty, IsActive: e.IsActive})
	}
	return result, nil
}

// CreateAppointment POST /appointments
func (c *Client) CreateAppointment(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	body := CreateAppointmentRequest{
		ClientID:        req.ClientID,
		ProviderID:      req.ProviderID,
		Title:           req.Title,
		Description:     req.Description,
		Room:            req.Room,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
	}

	var resp Appointment
	if err := c.invoke(ctx, http.MethodPost, "/appointments", "/appointments", nil, body, &resp); err != nil {
		return nil, err
	}
	a := resp.ToDomain()
	return &a, nil
}

// GetAppointment GET /appointments/{id}
func (c *Client) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	var resp Appointment
	path := "/appointments/" + url.PathEscape(id)
	if err := c.invoke(ctx, http.MethodGet, "/appointments/{id}", path, nil, nil, &resp); err != nil {
		return nil, err
	}
	a := resp.ToDomain()
	return &a, nil
}

// ListAppointments GET /appointments
func (c *Client) ListAppointments(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	query := url.Values{}
	if filter.ProviderID != nil {
		query.Set("providerId", *filter.ProviderID)
	}
	if filter.ClientID != nil {
		query.Set("clientId", *filter.ClientID)
	}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.From != nil {
		query.Set("from", filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		query.Set("to", filter.To.UTC().Format(time.RFC3339))
	}
	if filter.ActiveOnly {
		query.Set("activeOnly", "true")
	}

	var resp []Appointment
	if err := c.invoke(ctx, http.MethodGet, "/appointments", "/appointments", query, nil, &resp); err != nil {
		return nil, err
	}

	result := make([]domain.Appointment, 0, len(resp))
	for i := range resp {
		result = append(result, resp[i].ToDomain())
	}
	return result, nil
}

// ConfirmAppointment POST /appointments/{id}/confirm
func (c *Client) ConfirmAppointment(ctx context.Context, id string, notes *string) (*domain.Appointment, error) {
	var resp Appointment
	path := "/appointments/" + url.PathEscape(id) + "/confirm"
	if err := c.invoke(ctx, http.MethodPost, "/appointments/{id}/confirm", path, nil, ConfirmRequest{Notes: notes}, &resp); err != nil {
		return nil, err
	}
	a := resp.ToDomain()
	return &a, nil
}

// CancelAppointment POST /appointments/{id}/cancel
func (c *Client) CancelAppointment(ctx context.Context, id, reason string) (string, error) {
	var resp MessageResponse
	path := "/appointments/" + url.PathEscape(id) + "/cancel"
	if err := c.invoke(ctx, http.MethodPost, "/appointments/{id}/cancel", path, nil, CancelRequest{Reason: reason}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// invoke выполняет запрос и декодирует ответ в out
// GET повторяется при транспортных ошибках, 429 и 5xx с экспоненциальной задержкой
func (c *Client) invoke(ctx context.Context, method, route, path string, query url.Values, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	maxRetries := 0
	if method == http.MethodGet {
		maxRetries = c.maxRetries
	}

	started := time.Now()
	for attempt := 0; ; attempt++ {
		status, data, err := c.do(ctx, method, fullURL, payload)
		c.metrics.ObserveAPIRequest(method, route, status, time.Since(started))

		if err == nil && status >= 200 && status < 300 {
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
			}
			return nil
		}

		if errors.Is(err, ErrInternal) {
			return err
		}
		if err != nil && ctx.Err() != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransient, ctx.Err())
		}

		if attempt < maxRetries && shouldRetry(status, err) {
			c.log.Warn("agendaapi: %s %s attempt %d failed (status=%d): %v", method, route, attempt+1, status, err)
			c.metrics.IncAPIRetry(method, route)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return fmt.Errorf("%w: %v", domain.ErrTransient, sleepErr)
			}
			continue
		}

		if err != nil {
			return fmt.Errorf("%w: failed to execute request: %v", domain.ErrTransient, err)
		}
		return decodeError(status, data)
	}
}

func (c *Client) do(ctx context.Context, method, fullURL string, payload []byte) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(userIDHeader, c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return true
		}
		return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
	}
	return status == http.StatusTooManyRequests || status >= 500
}

// decodeError переводит HTTP статус в класс ошибки
func decodeError(status int, data []byte) error {
	var apiErr ErrorResponse
	_ = json.Unmarshal(data, &apiErr)
	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("agendaapi: %w", domain.NewValidationError(apiErr.Field, msg))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrTransient, status, msg)
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, status, msg)
	}
}
