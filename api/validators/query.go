package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/lu-foet/notes-api/pkg/errors"
)

// QueryInt parses an optional integer query parameter, returning fallback when
// the parameter is absent.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return value, nil
}
