package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// API is the remote calendar API surface consumed by the views. All
// persistence and business rules live behind it; calls are fire-once
// with no retry or deduplication.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) (string, error)
	CreateEvent(ctx context.Context, session Session, patch EventPatch) (*Event, error)
	UpdateEvent(ctx context.Context, session Session, id int, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, session Session, id int) error
	ListEvents(ctx context.Context, session Session, category Category) ([]Event, error)
}

var _ API = (*Client)(nil)

// Client talks to the remote calendar API over token-authenticated
// REST. Failures surface the server-supplied message when one exists,
// otherwise a generic per-operation string; the raw cause is kept
// wrapped for logs.
type Client struct {
	tracer  trace.Tracer
	metrics *APIMetrics
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		tracer:  otel.GetTracerProvider().Tracer("kickoff-calendar/core"),
		metrics: NewAPIMetrics(),
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// apiFailure is the remote API's rejection body. Auth and mutation
// endpoints use the top-level message; event creation nests its
// validation output under error.non_field_errors.
type apiFailure struct {
	Message string `json:"message"`
	Error   *struct {
		NonFieldErrors []string `json:"non_field_errors"`
	} `json:"error"`
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, "login", "/auth/login/", username, password,
		"Login failed. Please try again.")
}

func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	return c.authenticate(ctx, "register", "/auth/register/", username, password,
		"Signup failed. Please try again.")
}

func (c *Client) authenticate(ctx context.Context, op, path, username, password, fallback string) (string, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, op, start, err) }()

	ctx, span := c.tracer.Start(ctx, "client."+op)
	defer span.End()

	status, body, err := c.do(ctx, http.MethodPost, path, nil, authRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		err = errors.New(fallback)
		return "", err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		err = errors.New(serverMessage(body, fallback))
		return "", err
	}

	var resp authResponse

	err = json.Unmarshal(body, &resp)
	if err != nil || resp.Token == "" {
		err = errors.New(fallback)
		return "", err
	}

	return resp.Token, nil
}

func (c *Client) CreateEvent(ctx context.Context, session Session, patch EventPatch) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, "create_event", start, err) }()

	ctx, span := c.tracer.Start(ctx, "client.CreateEvent")
	defer span.End()

	const fallback = "Failed to create event. Please try again."

	status, body, err := c.do(ctx, http.MethodPost, "/calendar/event/", &session, patch)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		err = errors.New(nonFieldError(body, fallback))
		return nil, err
	}

	var created Event

	err = json.Unmarshal(body, &created)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	return &created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, session Session, id int, patch EventPatch) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, "update_event", start, err) }()

	ctx, span := c.tracer.Start(ctx, "client.UpdateEvent")
	defer span.End()

	const fallback = "Failed to update event"

	status, body, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/calendar/event/%d/", id), &session, patch)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		err = errors.New(serverMessage(body, fallback))
		return nil, err
	}

	var updated Event

	err = json.Unmarshal(body, &updated)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	return &updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, session Session, id int) error {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, "delete_event", start, err) }()

	ctx, span := c.tracer.Start(ctx, "client.DeleteEvent")
	defer span.End()

	const fallback = "Failed to delete event"

	status, body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/calendar/event/%d/", id), &session, nil)
	if err != nil {
		err = errors.New(fallback)
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		err = errors.New(serverMessage(body, fallback))
		return err
	}

	return nil
}

func (c *Client) ListEvents(ctx context.Context, session Session, category Category) ([]Event, error) {
	start := time.Now()

	var err error

	defer func() { c.metrics.Observe(ctx, "list_"+string(category)+"_events", start, err) }()

	ctx, span := c.tracer.Start(ctx, "client.ListEvents")
	span.SetAttributes(attribute.String("calendar.category", string(category)))

	defer span.End()

	const fallback = "Failed to fetch events"

	status, body, err := c.do(ctx, http.MethodGet, "/calendar/event/"+string(category)+"_events", &session, nil)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		err = errors.New(fallback)
		return nil, err
	}

	var events []Event

	err = json.Unmarshal(body, &events)
	if err != nil {
		err = errors.New(fallback)
		return nil, err
	}

	return events, nil
}

// do issues one request and returns the raw status and body. A non-nil
// session attaches the token header; session-bearing calls with an
// empty token fail before touching the network.
func (c *Client) do(ctx context.Context, method, path string, session *Session, payload any) (int, []byte, error) {
	if session != nil && session.Token == "" {
		return 0, nil, ErrNoSession
	}

	var reqBody io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Token "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// serverMessage prefers the server-supplied rejection message.
func serverMessage(body []byte, fallback string) string {
	var failure apiFailure

	if err := json.Unmarshal(body, &failure); err == nil && failure.Message != "" {
		return failure.Message
	}

	return fallback
}

// nonFieldError surfaces the first non-field validation error reported
// by the event creation endpoint.
func nonFieldError(body []byte, fallback string) string {
	var failure apiFailure

	if err := json.Unmarshal(body, &failure); err == nil &&
		failure.Error != nil && len(failure.Error.NonFieldErrors) > 0 {
		return failure.Error.NonFieldErrors[0]
	}

	return fallback
}

type APIMetrics struct {
	rTotal   metric.Int64Counter
	rErrors  metric.Int64Counter
	rLatency metric.Float64Histogram
}

func NewAPIMetrics() *APIMetrics {
	meter := otel.Meter("kickoff-calendar/api")

	rTotal, _ := meter.Int64Counter("api.request.total")
	rErrors, _ := meter.Int64Counter("api.request.errors.total")
	rLatency, _ := meter.Float64Histogram("api.request.duration.ms")

	return &APIMetrics{rTotal: rTotal, rErrors: rErrors, rLatency: rLatency}
}

func (m *APIMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("api.system", "calendar"),
		attribute.String("api.operation", op),
	}

	m.rTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.rLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.rErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
