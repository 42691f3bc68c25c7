package gamesapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveUpstream(operation, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, operation+":"+outcome)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	observer := &recordingObserver{}
	client := NewClient(Config{
		GamesURL:   server.URL + "/futbol/api/games/",
		PlayersURL: server.URL + "/futbol/api/game-players",
		HTTPClient: server.Client(),
		Observer:   observer,
	})
	return client, observer
}

func TestListGames(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/futbol/api/games" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "location": "Riverside Park", "time": "2026-10-19T19:00:00Z", "max_players": 14, "current_players": 9},
			{"id": 2, "location": "Hudson Yards", "time": "2026-10-21T18:00:00Z", "sport": "Basketball", "max_players": 10, "current_players": 10}
		]`))
	})

	games, err := client.ListGames(context.Background())
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].SpotsLeft() != 5 {
		t.Errorf("spots left = %d, want 5", games[0].SpotsLeft())
	}
	if games[0].SportLabel() != "Soccer" {
		t.Errorf("default sport = %q, want Soccer", games[0].SportLabel())
	}
	if games[1].SportLabel() != "Basketball" {
		t.Errorf("sport = %q, want Basketball", games[1].SportLabel())
	}
	if games[0].Title() != "Riverside Park Pickup" {
		t.Errorf("title = %q", games[0].Title())
	}
	if len(observer.outcomes) != 1 || observer.outcomes[0] != "list_games:success" {
		t.Errorf("unexpected observations: %v", observer.outcomes)
	}
}

func TestListGamesHTTPError(t *testing.T) {
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListGames(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "HTTP error! Status: 502" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if observer.outcomes[0] != "list_games:http_error" {
		t.Errorf("unexpected observations: %v", observer.outcomes)
	}
}

func TestListGamesTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{GamesURL: url + "/games"})
	_, err := client.ListGames(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 0 || apiErr.Err == nil {
		t.Fatalf("expected transport failure, got %+v", apiErr)
	}
}

func TestListPlayers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/futbol/api/games/7/":
			w.Write([]byte(`{"id": 7, "location": "Pier 40", "time": "2026-10-19T19:00:00Z", "players": [{"first_name": "Ana", "last_name": "Lopez"}, {"first_name": "Ben"}]}`))
		case "/futbol/api/games/8/":
			w.Write([]byte(`{"id": 8, "location": "Pier 40", "time": "2026-10-19T19:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Not found."}`))
		}
	})

	players, err := client.ListPlayers(context.Background(), 7)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].FirstName != "Ana" {
		t.Fatalf("unexpected players: %+v", players)
	}

	players, err = client.ListPlayers(context.Background(), 8)
	if err != nil {
		t.Fatalf("list players without roster: %v", err)
	}
	if players == nil || len(players) != 0 {
		t.Fatalf("expected empty roster, got %+v", players)
	}

	_, err = client.ListPlayers(context.Background(), 9)
	if err == nil {
		t.Fatal("expected error for missing game")
	}
	if UserMessage(err) != "Not found." {
		t.Fatalf("user message = %q", UserMessage(err))
	}
}

func TestRegister(t *testing.T) {
	var received Registration
	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/futbol/api/game-players" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 99}`))
	})

	err := client.Register(context.Background(), Registration{
		PickupGame:  3,
		FirstName:   "Ana",
		LastName:    "Lopez",
		Email:       "ana@example.com",
		PhoneNumber: "555-1234",
		Age:         29,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if received.PickupGame != 3 || received.FirstName != "Ana" || received.Age != 29 {
		t.Fatalf("unexpected payload: %+v", received)
	}
	if observer.outcomes[0] != "register:success" {
		t.Errorf("unexpected observations: %v", observer.outcomes)
	}
}

func TestRegisterWithoutGame(t *testing.T) {
	client := NewClient(Config{})
	err := client.Register(context.Background(), Registration{FirstName: "Ana"})
	if UserMessage(err) != "Error: No game selected for registration." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisterErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"error field wins", http.StatusBadRequest, `{"error": "Game is full", "detail": "ignored"}`, "Game is full"},
		{"detail field", http.StatusForbidden, `{"detail": "Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"pickup_game list", http.StatusBadRequest, `{"pickup_game": ["This game is already full."]}`, "This game is already full."},
		{"pickup_game string", http.StatusBadRequest, `{"pickup_game": "Invalid pk"}`, "Invalid pk"},
		{"unrecognised body", http.StatusBadRequest, `{"email": ["Enter a valid email address."]}`, "Registration failed! Try again."},
		{"non-json body", http.StatusInternalServerError, `<html>oops</html>`, "Registration failed! Try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.Register(context.Background(), Registration{PickupGame: 1})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := UserMessage(err); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
			apiErr, _ := AsAPIError(err)
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
		})
	}
}

func TestWithJarSendsCookies(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("sessionid"); err == nil && cookie.Value == "abc" {
			w.Write([]byte(`[]`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
		w.Write([]byte(`[{"id": 1, "location": "x", "time": "2026-10-19T19:00:00Z"}]`))
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	visitor := client.WithJar(jar)

	first, err := visitor.ListGames(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("first call: %v %v", first, err)
	}
	second, err := visitor.ListGames(context.Background())
	if err != nil || len(second) != 0 {
		t.Fatalf("expected cookie to be replayed, got %v %v", second, err)
	}

	// The shared client must not have picked up the visitor's cookie.
	third, err := client.ListGames(context.Background())
	if err != nil || len(third) != 1 {
		t.Fatalf("shared client leaked cookies: %v %v", third, err)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&APIError{Operation: OperationListGames, Message: "request failed", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatal("expected APIError to unwrap to cause")
	}
	if !strings.Contains(err.Error(), "list_games") {
		t.Fatalf("error text missing operation: %s", err.Error())
	}
}
