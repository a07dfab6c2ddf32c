package server

import (
	"net/url"
	"strconv"
	"strings"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// boolParam accepts the usual spellings: true/false, 1/0, yes/no, on/off.
func boolParam(q url.Values, name string, def bool) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n":
		return false, nil
	}
	return false, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, raw)
}
