// Package gamesapi talks to the remote pickup games backend.
package gamesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGamesURL   = "https://testliga.up.railway.app/futbol/api/games"
	defaultPlayersURL = "https://testliga.up.railway.app/futbol/api/game-players"

	maxErrorBody = 4096
)

// Observer receives one call per upstream request.
type Observer interface {
	ObserveUpstream(operation, outcome string, duration time.Duration)
}

// Config controls how the client reaches the backend.
type Config struct {
	GamesURL   string
	PlayersURL string
	HTTPClient *http.Client
	Observer   Observer
}

// Client fetches games and submits registrations.
type Client struct {
	gamesURL   string
	playersURL string
	httpClient *http.Client
	observer   Observer
}

// NewClient constructs a client. No request timeout is set; callers bound
// calls through their context.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		gamesURL:   normalizeURL(cfg.GamesURL, defaultGamesURL),
		playersURL: normalizeURL(cfg.PlayersURL, defaultPlayersURL),
		httpClient: httpClient,
		observer:   cfg.Observer,
	}
}

// WithJar returns a copy of the client that stores and sends cookies through
// jar, so each visitor's upstream credentials stay separate.
func (c *Client) WithJar(jar http.CookieJar) *Client {
	if jar == nil {
		return c
	}
	httpClient := *c.httpClient
	httpClient.Jar = jar
	clone := *c
	clone.httpClient = &httpClient
	return &clone
}

// ListGames returns every game the backend knows about.
func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := c.getJSON(ctx, OperationListGames, c.gamesURL, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []Game{}
	}
	return games, nil
}

// GetGame returns one game with its embedded roster.
func (c *Client) GetGame(ctx context.Context, gameID int64) (Game, error) {
	var game Game
	endpoint := c.gamesURL + "/" + strconv.FormatInt(gameID, 10) + "/"
	if err := c.getJSON(ctx, OperationGetGame, endpoint, &game); err != nil {
		return Game{}, err
	}
	return game, nil
}

// ListPlayers returns the roster of a game, empty when the game has none.
func (c *Client) ListPlayers(ctx context.Context, gameID int64) ([]Player, error) {
	game, err := c.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Players == nil {
		return []Player{}, nil
	}
	return game.Players, nil
}

// Register signs a player up for reg.PickupGame.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if reg.PickupGame <= 0 {
		return &APIError{Operation: OperationRegister, Message: "Error: No game selected for registration."}
	}

	payload, err := json.Marshal(reg)
	if err != nil {
		return &APIError{Operation: OperationRegister, Message: genericRegistrationMessage, Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.playersURL, bytes.NewReader(payload))
	if err != nil {
		return &APIError{Operation: OperationRegister, Message: genericRegistrationMessage, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(OperationRegister, "transport_error", start)
		return &APIError{Operation: OperationRegister, Message: genericRegistrationMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(OperationRegister, "http_error", start)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := messageFromBody(body)
		if message == "" {
			message = genericRegistrationMessage
		}
		return &APIError{Operation: OperationRegister, StatusCode: resp.StatusCode, Message: message}
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	c.observe(OperationRegister, "success", start)
	return nil
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint string, dst any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &APIError{Operation: operation, Message: "invalid request", Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, "transport_error", start)
		return &APIError{Operation: operation, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(operation, "http_error", start)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := messageFromBody(body)
		if message == "" {
			message = fmt.Sprintf("HTTP error! Status: %d", resp.StatusCode)
		}
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.observe(operation, "decode_error", start)
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Message: "invalid response body", Err: err}
	}

	c.observe(operation, "success", start)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) observe(operation, outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(operation, outcome, time.Since(start))
}

func normalizeURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	return strings.TrimSuffix(raw, "/")
}
