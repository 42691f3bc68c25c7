package request

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseGameID parses a positive int64 game ID.
func ParseGameID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	gameID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || gameID <= 0 {
		return 0, false
	}

	return gameID, true
}

// GameIDFromPath parses the {id} path segment.
func GameIDFromPath(r *http.Request) (int64, bool) {
	return ParseGameID(r.PathValue("id"))
}

// GameTitle reads the title query parameter, falling back to the
// HX-Current-URL header's query.
func GameTitle(r *http.Request) string {
	if title := strings.TrimSpace(r.URL.Query().Get("title")); title != "" {
		return title
	}

	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return ""
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return ""
	}

	return strings.TrimSpace(parsed.Query().Get("title"))
}
