package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

// ReadUsers decodes a user map from r.
//
// Users keep the order in which they appear. A TOML entry without a login,
// or any key the format does not define, is rejected. ReadUsers does not
// close r.
func ReadUsers(r io.Reader, f Format) (*neighbours.UserRepoMap, error) {
	switch f {
	case FormatJSON:
		m := neighbours.NewUserRepoMap()
		if err := json.NewDecoder(r).Decode(m); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return m, nil
	case FormatTOML:
		var doc usersDoc
		if err := readTOML(r, &doc); err != nil {
			return nil, err
		}
		m := neighbours.NewUserRepoMap()
		for i, s := range doc.Stargazers {
			if s.Login == "" {
				return nil, errs.New(errs.ErrCodeInvalidInput, "stargazer %d: missing login", i)
			}
			m.Set(s.Login, s.Starred)
		}
		return m, nil
	default:
		return nil, unknownFormat(f)
	}
}

// ReadResult decodes a result from r.
func ReadResult(r io.Reader, f Format) (*neighbours.Result, error) {
	var res neighbours.Result
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&res); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatTOML:
		var doc resultDoc
		if err := readTOML(r, &doc); err != nil {
			return nil, err
		}
		res = neighbours.Result{Unordered: doc.Unordered, Sorted: doc.Sorted}
	default:
		return nil, unknownFormat(f)
	}
	return &res, nil
}

// ImportUsers reads a user map from path, choosing the format from its
// extension.
func ImportUsers(path string) (*neighbours.UserRepoMap, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	m, err := ReadUsers(in, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ImportResult reads a result from path, choosing the format from its
// extension.
func ImportResult(path string) (*neighbours.Result, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	res, err := ReadResult(in, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func readTOML(r io.Reader, v any) error {
	md, err := toml.NewDecoder(r).Decode(v)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}
