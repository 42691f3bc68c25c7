package htmx

import (
	"net/http"
	"strings"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Reswap overrides the swap strategy of the triggering element.
func Reswap(w http.ResponseWriter, swap string) {
	w.Header().Set("HX-Reswap", swap)
}
