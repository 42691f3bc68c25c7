// Package games renders the pickup games board: the day selector, the per-day
// game grids, the registration and roster modals and the toast region.
package games

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/pickupgames/internal/schedule"
	"github.com/codr1/pickupgames/internal/viewstate"
)

// Element ids targeted by HTMX swaps.
const (
	DaysGridID          = "days-grid"
	SelectedDayID       = "selected-day"
	DayVisibilityID     = "day-visibility"
	GamesListID         = "games-list"
	RegistrationModalID = "registration-modal"
	PlayersModalID      = "players-modal"
	PlayersListID       = "players-list"
	ToastsID            = "toasts"
)

// FieldErrorHeader is set to "true" or "false" on field validation responses.
const FieldErrorHeader = "X-Field-Error"

const (
	loadGamesErrorMessage   = "Error loading games. Please check your connection and try again."
	loadPlayersErrorMessage = "Error loading players. Please try again."
	noGamesMessage          = "No games scheduled for this day."
	noPlayersMessage        = "No players signed up yet."
)

// LoadGamesErrorMessage is shown in the game list when games cannot be fetched.
func LoadGamesErrorMessage() string { return loadGamesErrorMessage }

// Board renders the whole board section used by the page.
func Board(data BoardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<main class="board">`)
		hw.raw(`<section class="days-section">`)
		hw.render(DayStrip(data.DayCards, false))
		hw.raw(`</section>`)
		hw.raw(`<section class="games-section"><h2 class="games-heading">Games on `)
		hw.render(SelectedDayLabel(data.SelectedDay, false))
		hw.raw(`</h2><button type="button" class="refresh-btn" hx-get="/api/v1/games" hx-swap="none">Refresh</button>`)
		hw.render(DayVisibility(data.SelectedDay, false))
		if data.LoadError != "" {
			hw.render(GameListError(data.LoadError, false))
		} else {
			hw.render(GameList(data.Panels, false))
		}
		hw.raw(`</section></main>`)
		hw.render(RegistrationModal(data.Registration, false))
		hw.render(RosterModal(data.Roster, false))
		hw.render(Toasts(data.Notices, false))
		return hw.err
	})
}

// DayStrip renders the seven day cards.
func DayStrip(cards []DayCard, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", DaysGridID)
		hw.attr("class", "days-grid")
		hw.oob(oob)
		hw.raw(`>`)
		for _, card := range cards {
			hw.raw(`<button type="button"`)
			hw.attr("class", classes("day-card", when(card.Active, "active")))
			hw.attr("data-day", card.Key)
			hw.attr("hx-post", "/api/v1/days/"+card.Key+"/select")
			hw.attr("hx-target", "#"+DaysGridID)
			hw.attr("hx-swap", "outerHTML")
			hw.raw(`><span class="day-name">`)
			hw.text(card.Abbreviation)
			hw.raw(`</span><span class="day-date">`)
			hw.text(card.Date)
			hw.raw(`</span><span class="game-count">`)
			hw.text(card.CountLabel())
			hw.raw(`</span></button>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

// SelectedDayLabel renders the capitalised name of the selected day.
func SelectedDayLabel(day string, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<span`)
		hw.attr("id", SelectedDayID)
		hw.oob(oob)
		hw.raw(`>`)
		hw.text(schedule.DayLabel(day))
		hw.raw(`</span>`)
		return hw.err
	})
}

// DayVisibility shows the selected day's grid and hides the rest. Swapping it
// switches days without touching the rendered game cards.
func DayVisibility(day string, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !schedule.IsDay(day) {
			day = schedule.DefaultDay
		}
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<style`)
		hw.attr("id", DayVisibilityID)
		hw.oob(oob)
		hw.raw(`>`)
		hw.raw(`.game-cards{display:none}.game-cards[data-day="` + day + `"]{display:grid}`)
		hw.raw(`</style>`)
		return hw.err
	})
}

// GameList renders one grid per weekday.
func GameList(panels []DayPanel, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", GamesListID)
		hw.attr("class", "games-list")
		hw.oob(oob)
		hw.raw(`>`)
		for _, panel := range panels {
			hw.raw(`<div`)
			hw.attr("class", classes("game-cards", when(panel.Visible, "visible")))
			hw.attr("data-day", panel.Key)
			hw.raw(`>`)
			if len(panel.Cards) == 0 {
				hw.raw(`<p class="no-games">`)
				hw.text(noGamesMessage)
				hw.raw(`</p>`)
			}
			for _, card := range panel.Cards {
				hw.render(GameCardView(card))
			}
			hw.raw(`</div>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

// GameCardView renders a single game tile with its join and roster buttons.
func GameCardView(card GameCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		id := strconv.FormatInt(card.ID, 10)
		titleQuery := "?title=" + url.QueryEscape(card.Title)

		hw.raw(`<article class="game-card"`)
		hw.attr("data-game-id", id)
		hw.raw(`><div class="game-header"><span class="game-type">`)
		hw.text(card.Sport)
		hw.raw(`</span><span`)
		hw.attr("class", classes("spots-left", when(card.Full(), "full")))
		hw.raw(`>`)
		hw.text(card.SpotsLabel())
		hw.raw(`</span></div><h3 class="game-title">`)
		hw.text(card.Title)
		hw.raw(`</h3><div class="game-info"><p class="game-time">`)
		hw.text(card.TimeRange)
		hw.raw(`</p><p class="game-location">`)
		hw.text(card.Location)
		hw.raw(`</p></div><div class="game-buttons">`)

		hw.raw(`<button type="button" class="join-btn"`)
		hw.attr("data-game-id", id)
		hw.attr("data-game-title", card.Title)
		hw.attr("hx-get", "/api/v1/games/"+id+"/register"+titleQuery)
		hw.attr("hx-target", "#"+RegistrationModalID)
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>Join Game</button>`)

		hw.raw(`<button type="button" class="players-btn"`)
		hw.attr("data-game-id", id)
		hw.attr("data-game-title", card.Title)
		hw.attr("hx-get", "/api/v1/games/"+id+"/roster"+titleQuery)
		hw.attr("hx-target", "#"+PlayersModalID)
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>List of Players</button>`)

		hw.raw(`</div></article>`)
		return hw.err
	})
}

// GameListError replaces the game list when games could not be loaded.
func GameListError(message string, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", GamesListID)
		hw.attr("class", "games-list")
		hw.oob(oob)
		hw.raw(`><div class="error-message-box"><p>`)
		hw.text(message)
		hw.raw(`</p></div></div>`)
		return hw.err
	})
}

// RegistrationModal renders the registration dialog, or an empty container
// when it is closed.
func RegistrationModal(data RegistrationModalData, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", RegistrationModalID)
		hw.oob(oob)
		if !data.Open {
			hw.attr("class", "modal")
			hw.raw(`></div>`)
			return hw.err
		}
		hw.attr("class", "modal active")
		hw.attr("hx-post", "/api/v1/registration/close")
		hw.attr("hx-trigger", "keyup[key=='Escape'] from:body")
		hw.attr("hx-target", "this")
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>`)
		hw.render(modalOverlay("/api/v1/registration/close", "#"+RegistrationModalID))
		hw.raw(`<div class="modal-content" role="dialog" aria-modal="true">`)
		hw.render(modalCloseButton("modal-close", "/api/v1/registration/close", "#"+RegistrationModalID))
		hw.raw(`<h2>Join <span id="game-title-modal">`)
		hw.text(data.GameTitle)
		hw.raw(`</span></h2>`)

		hw.raw(`<form id="registration-form" novalidate`)
		hw.attr("hx-post", "/api/v1/registration")
		hw.attr("hx-target", "#"+RegistrationModalID)
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>`)
		for _, field := range data.Fields {
			hw.render(FormFieldView(field))
		}
		hw.raw(`<button type="submit" class="submit-btn">Sign Up</button></form></div></div>`)
		return hw.err
	})
}

// FormFieldView renders one input with its inline error slot. The input
// validates on blur, and on every keystroke while its error is showing. Only
// the error slot is swapped so the input keeps focus and caret; the
// FieldErrorHeader response header toggles the input's error class.
func FormFieldView(field FormField) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		errorID := field.Name + "-error"
		hw.raw(`<div class="form-group"><label`)
		hw.attr("for", field.Name)
		hw.raw(`>`)
		hw.text(field.Label)
		hw.raw(`</label><input required`)
		hw.attr("id", field.Name)
		hw.attr("name", field.Name)
		hw.attr("type", field.Type)
		hw.attr("value", field.Value)
		if field.Placeholder != "" {
			hw.attr("placeholder", field.Placeholder)
		}
		hw.attr("class", when(field.HasError(), "error"))
		hw.attr("hx-post", "/api/v1/registration/validate")
		hw.attr("hx-trigger", "blur, input[this.classList.contains('error')]")
		hw.attr("hx-vals", fmt.Sprintf("js:{event: event.type, field: %q}", field.Name))
		hw.attr("hx-target", "#"+errorID)
		hw.attr("hx-swap", "outerHTML")
		hw.attr("hx-sync", "this:replace")
		hw.attr("hx-on::after-request", "this.classList.toggle('error', event.detail.xhr.getResponseHeader('"+FieldErrorHeader+"') === 'true')")
		hw.raw(`>`)
		hw.render(FieldError(errorID, field.Error))
		hw.raw(`</div>`)
		return hw.err
	})
}

// FieldError renders the inline error slot of a field.
func FieldError(id, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<span`)
		hw.attr("id", id)
		hw.attr("class", "error-message")
		hw.raw(`>`)
		hw.text(message)
		hw.raw(`</span>`)
		return hw.err
	})
}

// RosterModal renders the roster dialog. When open, its list starts in the
// loading state and fetches the players as soon as it is swapped in.
func RosterModal(data RosterModalData, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", PlayersModalID)
		hw.oob(oob)
		if !data.Open {
			hw.attr("class", "modal")
			hw.raw(`></div>`)
			return hw.err
		}
		hw.attr("class", "modal active")
		hw.attr("hx-post", "/api/v1/roster/close")
		hw.attr("hx-trigger", "keyup[key=='Escape'] from:body")
		hw.attr("hx-target", "this")
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>`)
		hw.render(modalOverlay("/api/v1/roster/close", "#"+PlayersModalID))
		hw.raw(`<div class="modal-content" role="dialog" aria-modal="true">`)
		hw.render(modalCloseButton("players-modal-close", "/api/v1/roster/close", "#"+PlayersModalID))
		hw.raw(`<h2>Players for <span id="players-game-title-modal">`)
		hw.text(data.GameTitle)
		hw.raw(`</span></h2><div`)
		hw.attr("id", PlayersListID)
		hw.attr("hx-get", "/api/v1/games/"+strconv.FormatInt(data.GameID, 10)+"/players")
		hw.attr("hx-trigger", "load")
		hw.attr("hx-swap", "innerHTML")
		hw.raw(`>`)
		hw.render(RosterLoading())
		hw.raw(`</div></div></div>`)
		return hw.err
	})
}

func RosterLoading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div class="loading-spinner"><div class="spinner"></div><p>Loading players...</p></div>`)
		return hw.err
	})
}

// RosterPlayers renders first names only. An empty roster renders a message
// and no list container.
func RosterPlayers(players []PlayerRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		if len(players) == 0 {
			hw.raw(`<p class="no-games">`)
			hw.text(noPlayersMessage)
			hw.raw(`</p>`)
			return hw.err
		}
		hw.raw(`<div class="players-container">`)
		for _, player := range players {
			hw.raw(`<div class="player-item"><span class="player-name">`)
			hw.text(player.FirstName)
			hw.raw(`</span></div>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

func RosterError() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div class="error-message-box"><p>`)
		hw.text(loadPlayersErrorMessage)
		hw.raw(`</p></div>`)
		return hw.err
	})
}

// Toasts renders pending notices. Each toast removes itself after a few
// seconds.
func Toasts(notices []viewstate.Notice, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div`)
		hw.attr("id", ToastsID)
		hw.attr("class", "toasts")
		hw.attr("aria-live", "polite")
		if oob {
			hw.attr("hx-swap-oob", "beforeend")
		}
		hw.raw(`>`)
		for _, notice := range notices {
			hw.raw(`<div role="status"`)
			hw.attr("class", classes("toast", "toast-"+string(notice.Kind)))
			hw.attr("data-kind", string(notice.Kind))
			hw.attr("hx-on::load", "setTimeout(() => this.remove(), 5000)")
			hw.raw(`>`)
			hw.text(notice.Message)
			hw.raw(`</div>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

func modalOverlay(closeURL, target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<div class="modal-overlay"`)
		hw.attr("hx-post", closeURL)
		hw.attr("hx-target", target)
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`></div>`)
		return hw.err
	})
}

func modalCloseButton(id, closeURL, target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		hw.raw(`<button type="button" class="modal-close" aria-label="Close"`)
		hw.attr("id", id)
		hw.attr("hx-post", closeURL)
		hw.attr("hx-target", target)
		hw.attr("hx-swap", "outerHTML")
		hw.raw(`>&times;</button>`)
		return hw.err
	})
}
