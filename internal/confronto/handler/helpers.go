package handler

import (
	"net/http"
	"strconv"
	"strings"

	"confronto-service/internal/confronto/model"
)

// parseFilter reads the three filter axes from the query string:
// round ("all" or a number), wbs6/wbs7 exact codes, mismatch toggle.
func parseFilter(r *http.Request) model.Filter {
	q := r.URL.Query()
	f := model.Filter{
		Wbs6:         strings.TrimSpace(q.Get("wbs6")),
		Wbs7:         strings.TrimSpace(q.Get("wbs7")),
		OnlyMismatch: toBool(q.Get("mismatch"), false),
	}
	if s := strings.TrimSpace(q.Get("round")); s != "" && !strings.EqualFold(s, "all") {
		if n, err := strconv.Atoi(s); err == nil {
			f.Round = &n
		}
	}
	return f
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
