// internal/api/registration/handlers.go
package registration

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/pickupgames/internal/api/apiutil"
	"github.com/codr1/pickupgames/internal/api/games"
	"github.com/codr1/pickupgames/internal/email"
	"github.com/codr1/pickupgames/internal/gamesapi"
	"github.com/codr1/pickupgames/internal/ratelimit"
	"github.com/codr1/pickupgames/internal/request"
	gamestempl "github.com/codr1/pickupgames/internal/templates/components/games"
	"github.com/codr1/pickupgames/internal/validation"
	"github.com/codr1/pickupgames/internal/viewstate"
)

const (
	successMessage  = "Registration successful! You have been signed up for the game."
	noTargetMessage = "Error: No game selected for registration."
	failurePrefix   = "Registration failed: "
)

// Outcomes reported to the Recorder.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeNoTarget      = "no_target"
	OutcomeRateLimited   = "rate_limited"
	OutcomeUpstreamError = "upstream_error"
)

// Recorder counts submission outcomes.
type Recorder interface {
	RecordRegistration(outcome string)
}

type Dependencies struct {
	Limiter    *ratelimit.Limiter
	TrustProxy bool
	Recorder   Recorder
	// Mailer sends the confirmation email; nil disables it.
	Mailer email.EmailSender
	// BaseURL is linked from the confirmation email.
	BaseURL string
}

var (
	deps   Dependencies
	depsMu sync.RWMutex
)

// InitHandlers must be called during server startup, after games.InitHandlers.
func InitHandlers(d Dependencies) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func loadDependencies() Dependencies {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func (d Dependencies) record(outcome string) {
	if d.Recorder != nil {
		d.Recorder.RecordRegistration(outcome)
	}
}

// GET /api/v1/games/{id}/register
func HandleRegistrationOpen(w http.ResponseWriter, r *http.Request) {
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	gameID, ok := request.GameIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	session.State.OpenRegistration(gameID, games.GameTitle(r, session, gameID))
	data := gamestempl.NewRegistrationModalData(session.State.Snapshot(), nil)
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render registration modal", gamestempl.RegistrationModal(data, false))
}

// POST /api/v1/registration/close
func HandleRegistrationClose(w http.ResponseWriter, r *http.Request) {
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	session.State.CloseRegistration()
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render registration modal",
		gamestempl.RegistrationModal(gamestempl.RegistrationModalData{}, false))
}

// POST /api/v1/registration/validate
func HandleFieldValidate(w http.ResponseWriter, r *http.Request) {
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	field := r.PostForm.Get("field")
	if _, ok := validation.RuleFor(field); !ok {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}
	errorID := field + "-error"

	current, hasError := session.State.FieldError(field)
	if !validation.ShouldValidate(r.PostForm.Get("event"), hasError) {
		headers := map[string]string{gamestempl.FieldErrorHeader: strconv.FormatBool(hasError)}
		apiutil.RenderHTMLComponent(r.Context(), w, headers, "Failed to render field error", gamestempl.FieldError(errorID, current))
		return
	}

	result := validation.ValidateField(field, r.PostForm.Get(field))
	if result.Valid {
		session.State.ClearFieldError(field)
	} else {
		session.State.SetFieldError(field, result.Message)
	}

	headers := map[string]string{gamestempl.FieldErrorHeader: strconv.FormatBool(!result.Valid)}
	apiutil.RenderHTMLComponent(r.Context(), w, headers, "Failed to render field error", gamestempl.FieldError(errorID, result.Message))
}

// POST /api/v1/registration
func HandleRegistrationSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	gd, ok := games.LoadDependencies()
	if !ok {
		logger.Error().Msg("Games handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	d := loadDependencies()
	session, ok := apiutil.RequireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	state := session.State
	values := validation.FormValuesFromURL(r.PostForm)

	result := validation.ValidateForm(values)
	for _, field := range result.Fields {
		if field.Valid {
			state.ClearFieldError(field.Field)
		} else {
			state.SetFieldError(field.Field, field.Message)
		}
	}
	if !result.Valid() {
		d.record(OutcomeInvalid)
		renderOpenForm(w, r, state, values)
		return
	}

	gameID, title, ok := state.RegistrationTarget()
	if !ok {
		d.record(OutcomeNoTarget)
		logger.Warn().Err(viewstate.ErrNoRegistrationTarget).Msg("Registration submitted without a target game")
		state.Notify(viewstate.NoticeError, noTargetMessage)
		renderOpenForm(w, r, state, values)
		return
	}

	registration := values.Registration(gameID)
	ip := ratelimit.GetClientIP(r, d.TrustProxy)
	if d.Limiter != nil {
		limit := d.Limiter.CheckRegistration(registration.Email, ip)
		if !limit.Allowed {
			ratelimit.LogRateLimitExceeded(registration.Email, ip, limit.Reason)
			d.record(OutcomeRateLimited)
			state.Notify(viewstate.NoticeError, failurePrefix+retryMessage(limit.RetryAfter))
			renderOpenForm(w, r, state, values)
			return
		}
		d.Limiter.RecordRegistration(registration.Email, ip)
	}

	ctx, cancel := gd.WithFetchTimeout(r.Context())
	err := gd.Client.WithJar(session.Jar).Register(ctx, registration)
	cancel()
	if err != nil {
		event := logger.Error().Err(err).Int64("game_id", gameID)
		if apiErr, ok := gamesapi.AsAPIError(err); ok {
			event = event.Int("status", apiErr.StatusCode)
		}
		event.Msg("Registration failed")
		d.record(OutcomeUpstreamError)
		state.Notify(viewstate.NoticeError, failurePrefix+gamesapi.UserMessage(err))
		renderOpenForm(w, r, state, values)
		return
	}

	d.record(OutcomeSuccess)
	logger.Info().Int64("game_id", gameID).Msg("Player registered")
	state.Notify(viewstate.NoticeSuccess, successMessage)

	game, _ := state.FindGame(gameID)
	state.CloseRegistration()
	sendConfirmation(r, d, gd, registration, game, title)

	// Occupancy changed; refresh only after the registration resolved.
	fetchErr := games.FetchGames(r.Context(), gd, session)

	components := []templ.Component{gamestempl.RegistrationModal(gamestempl.RegistrationModalData{}, false)}
	components = append(components, games.BoardFragments(gd, state.Snapshot(), fetchErr)...)
	components = append(components, gamestempl.Toasts(state.DrainNotices(), true))
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render registration result", components...)
}

// renderOpenForm re-renders the open modal with the submitted values and any
// pending notices.
func renderOpenForm(w http.ResponseWriter, r *http.Request, state *viewstate.State, values validation.FormValues) {
	data := gamestempl.NewRegistrationModalData(state.Snapshot(), values)
	apiutil.RenderHTMLComponent(r.Context(), w, nil, "Failed to render registration modal",
		gamestempl.RegistrationModal(data, false),
		gamestempl.Toasts(state.DrainNotices(), true),
	)
}

func retryMessage(retryAfter time.Duration) string {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds <= 1 {
		return "Too many attempts. Please try again in 1 second."
	}
	if seconds < 120 {
		return fmt.Sprintf("Too many attempts. Please try again in %d seconds.", seconds)
	}
	return fmt.Sprintf("Too many attempts. Please try again in %d minutes.", (seconds+59)/60)
}

func sendConfirmation(r *http.Request, d Dependencies, gd games.Dependencies, reg gamesapi.Registration, game gamesapi.Game, title string) {
	if d.Mailer == nil {
		return
	}
	details := email.RegistrationDetails{
		FirstName: reg.FirstName,
		GameTitle: title,
		Sport:     game.SportLabel(),
		Location:  game.Location,
		Duration:  gd.Renderer.GameDuration,
		BoardURL:  d.BaseURL,
	}
	if start, err := game.Start(gd.Renderer.Location); err == nil {
		if gd.Renderer.Location != nil {
			start = start.In(gd.Renderer.Location)
		}
		details.Start = start
	}
	email.SendConfirmationEmail(r.Context(), d.Mailer, reg.Email, email.BuildRegistrationConfirmation(details), log.Ctx(r.Context()))
}
