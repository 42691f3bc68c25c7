// internal/api/games/handlers.go
package games

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/pickupgames/internal/api/apiutil"
	"github.com/codr1/pickupgames/internal/api/htmx"
	"github.com/codr1/pickupgames/internal/gamesapi"
	"github.com/codr1/pickupgames/internal/request"
	gamestempl "github.com/codr1/pickupgames/internal/templates/components/games"
	"github.com/codr1/pickupgames/internal/templates/layouts"
	"github.com/codr1/pickupgames/internal/viewstate"
)

// Dependencies are shared by every handler in this package.
type Dependencies struct {
	Client   *gamesapi.Client
	Renderer gamestempl.Renderer
	Theme    layouts.Theme
	Title    string
	// FetchTimeout bounds upstream calls made on behalf of a request.
	// Zero leaves them bounded only by the request context.
	FetchTimeout time.Duration
}

var (
	deps   Dependencies
	depsMu sync.RWMutex
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Dependencies) {
	if d.Client == nil {
		log.Warn().Msg("games.InitHandlers called with nil client")
		return
	}
	if d.Title == "" {
		d.Title = "Pickup Games"
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

// LoadDependencies returns the configured dependencies; ok is false before
// InitHandlers.
func LoadDependencies() (Dependencies, bool) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps, deps.Client != nil
}

func requireDependencies(w http.ResponseWriter, r *http.Request) (Dependencies, bool) {
	d, ok := LoadDependencies()
	if !ok {
		log.Ctx(r.Context()).Error().Msg("Games handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return d, ok
}

// WithFetchTimeout applies the configured upstream timeout, if any.
func (d Dependencies) WithFetchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.FetchTimeout)
}

// FetchGames replaces the visitor's games with the upstream list. On failure
// the previous games stay in place and the error is logged and returned. A
// result that arrives after a newer fetch was applied is discarded.
func FetchGames(ctx context.Context, d Dependencies, session *viewstate.Session) error {
	logger := log.Ctx(ctx)
	seq := session.State.BeginFetch()

	fetchCtx, cancel := d.WithFetchTimeout(ctx)
	defer cancel()

	games, err := d.Client.WithJar(session.Jar).ListGames(fetchCtx)
	if err != nil {
		event := logger.Error().Err(err).Str("operation", gamesapi.OperationListGames)
		if apiErr, ok := gamesapi.AsAPIError(err); ok {
			event = event.Int("status", apiErr.StatusCode)
		}
		event.Msg("Failed to fetch games")
		return err
	}

	if !session.State.ApplyFetch(seq, games) {
		logger.Debug().Uint64("fetch_seq", seq).Msg("Discarded stale games fetch")
		return nil
	}
	logger.Debug().Int("games", len(games)).Msg("Games fetched")
	return nil
}

// BoardFragments renders the out-of-band updates that follow a fetch: the
// day strip and game list on success, only the error panel on failure.
func BoardFragments(d Dependencies, snap viewstate.Snapshot, fetchErr error) []templ.Component {
	if fetchErr != nil {
		return []templ.Component{gamestempl.GameListError(gamestempl.LoadGamesErrorMessage(), true)}
	}
	return []templ.Component{
		gamestempl.DayStrip(d.Renderer.DayCards(snap.Games, snap.SelectedDay), true),
		gamestempl.GameList(d.Renderer.Panels(snap.Games, snap.SelectedDay), true),
	}
}

// GET /
func HandleBoardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d, ok := requireDependencies(w, r)
	if !ok {
		return
	}
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}

	loadError := ""
	if err := FetchGames(r.Context(), d, session); err != nil {
		loadError = gamestempl.LoadGamesErrorMessage()
	}

	data := d.Renderer.Board(session.State.Snapshot(), loadError, session.State.DrainNotices())
	page := layouts.Base(d.Title, d.Theme, gamestempl.Board(data))
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render games page", page)
}

// GET /api/v1/games
func HandleGamesRefresh(w http.ResponseWriter, r *http.Request) {
	if !htmx.IsRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	d, ok := requireDependencies(w, r)
	if !ok {
		return
	}
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}

	err := FetchGames(r.Context(), d, session)
	components := BoardFragments(d, session.State.Snapshot(), err)
	components = append(components, gamestempl.Toasts(session.State.DrainNotices(), true))

	htmx.Reswap(w, "none")
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render games refresh", components...)
}

// POST /api/v1/days/{day}/select
func HandleSelectDay(w http.ResponseWriter, r *http.Request) {
	d, ok := requireDependencies(w, r)
	if !ok {
		return
	}
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}

	day := r.PathValue("day")
	if err := session.State.SelectDay(day); err != nil {
		log.Ctx(r.Context()).Debug().Str("day", day).Msg("Rejected unknown day")
		http.Error(w, "Unknown day", http.StatusBadRequest)
		return
	}

	snap := session.State.Snapshot()
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render day selection",
		gamestempl.DayStrip(d.Renderer.DayCards(snap.Games, snap.SelectedDay), false),
		gamestempl.DayVisibility(snap.SelectedDay, true),
		gamestempl.SelectedDayLabel(snap.SelectedDay, true),
	)
}

// GET /api/v1/games/{id}/roster
func HandleRosterOpen(w http.ResponseWriter, r *http.Request) {
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	gameID, ok := request.GameIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	session.State.OpenRoster(gameID, GameTitle(r, session, gameID))
	data := gamestempl.NewRosterModalData(session.State.Snapshot())
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render roster modal", gamestempl.RosterModal(data, false))
}

// GET /api/v1/games/{id}/players
func HandleRosterPlayers(w http.ResponseWriter, r *http.Request) {
	d, ok := requireDependencies(w, r)
	if !ok {
		return
	}
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	gameID, ok := request.GameIDFromPath(r)
	if !ok {
		apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render roster error", gamestempl.RosterError())
		return
	}

	ctx, cancel := d.WithFetchTimeout(r.Context())
	defer cancel()

	players, err := d.Client.WithJar(session.Jar).ListPlayers(ctx, gameID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch players")
		apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render roster error", gamestempl.RosterError())
		return
	}

	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render roster",
		gamestempl.RosterPlayers(gamestempl.NewPlayerRows(players)))
}

// POST /api/v1/roster/close
func HandleRosterClose(w http.ResponseWriter, r *http.Request) {
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	session.State.CloseRoster()
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render roster modal",
		gamestempl.RosterModal(gamestempl.RosterModalData{}, false))
}

// GameTitle prefers the title sent with the request and falls back to the
// cached game.
func GameTitle(r *http.Request, session *viewstate.Session, gameID int64) string {
	if title := request.GameTitle(r); title != "" {
		return title
	}
	if game, ok := session.State.FindGame(gameID); ok {
		return game.Title()
	}
	return ""
}
