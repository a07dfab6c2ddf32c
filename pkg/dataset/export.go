package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

type usersDoc struct {
	Stargazers []stargazer `toml:"stargazer"`
}

type stargazer struct {
	Login   string   `toml:"login"`
	Starred []string `toml:"starred"`
}

type resultDoc struct {
	Unordered []neighbours.Neighbour `toml:"unordered"`
	Sorted    []neighbours.Neighbour `toml:"sorted"`
}

// WriteUsers encodes m to w in the given format, users in map order.
func WriteUsers(m *neighbours.UserRepoMap, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, m)
	case FormatTOML:
		doc := usersDoc{Stargazers: make([]stargazer, 0, m.Len())}
		for user, repos := range m.All() {
			if repos == nil {
				repos = []string{}
			}
			doc.Stargazers = append(doc.Stargazers, stargazer{Login: user, Starred: repos})
		}
		return writeTOML(w, doc)
	default:
		return unknownFormat(f)
	}
}

// WriteResult encodes res to w in the given format.
func WriteResult(res *neighbours.Result, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatTOML:
		return writeTOML(w, resultDoc{Unordered: res.Unordered, Sorted: res.Sorted})
	default:
		return unknownFormat(f)
	}
}

// ExportUsers writes m to path, choosing the format from its extension.
func ExportUsers(m *neighbours.UserRepoMap, path string) error {
	return export(path, func(w io.Writer, f Format) error { return WriteUsers(m, w, f) })
}

// ExportResult writes res to path, choosing the format from its extension.
func ExportResult(res *neighbours.Result, path string) error {
	return export(path, func(w io.Writer, f Format) error { return WriteResult(res, w, f) })
}

func export(path string, write func(io.Writer, Format) error) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeTOML(w io.Writer, v any) error {
	if err := toml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func unknownFormat(f Format) error {
	return errs.New(errs.ErrCodeInvalidInput, "unknown dataset format %q", f)
}
