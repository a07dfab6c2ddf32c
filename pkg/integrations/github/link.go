package github

import (
	"net/http"
	"strings"
)

// NextURL returns the target of the rel="next" entry of a Link header.
// The relation name matches case-insensitively. A missing or malformed
// header yields ("", false); pagination then stops without an error.
func NextURL(h http.Header) (string, bool) {
	for _, line := range h.Values("Link") {
		for _, part := range strings.Split(line, ",") {
			if u, ok := parseLinkPart(part); ok {
				return u, true
			}
		}
	}
	return "", false
}

// parseLinkPart parses one `<url>; rel="next"` element.
func parseLinkPart(part string) (string, bool) {
	segs := strings.Split(part, ";")
	if len(segs) < 2 {
		return "", false
	}
	target := strings.TrimSpace(segs[0])
	if len(target) < 2 || target[0] != '<' || target[len(target)-1] != '>' {
		return "", false
	}
	target = target[1 : len(target)-1]
	if target == "" || strings.ContainsAny(target, " \t") {
		return "", false
	}

	for _, p := range segs[1:] {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(k), "rel") {
			continue
		}
		for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(v), `"`)) {
			if strings.EqualFold(rel, "next") {
				return target, true
			}
		}
	}
	return "", false
}
