package remote

import (
	"fmt"
	"net/url"
	"strings"
)

// Identity is the project identity derived from a remote
// URL. It is computed on demand and never persisted.
type Identity struct {
	// Domain is the hosting domain
	// (e.g. "gitlab.example.com").
	Domain string
	// Namespace is the top-level owner or group, the
	// first path segment even for nested groups.
	Namespace string
	// Name is the leaf project name.
	Name string
	// FullPath is the whole namespace chain plus the
	// project name, slashes preserved, without any
	// ".git" suffix. It always ends with Name.
	FullPath string
	// Origin is the raw remote URL the identity was
	// derived from.
	Origin string
}

// ParseOrigin derives a project Identity from a remote
// URL. Both scheme://host/path and SCP-like
// user@host:path forms are accepted, with or without a
// trailing ".git". Returns ErrInvalidRemote when no
// domain or project path can be extracted.
func ParseOrigin(origin string) (Identity, error) {
	const errCtx = "parsing remote origin"

	host, path, err := splitOrigin(origin)
	if err != nil {
		return Identity{}, fmt.Errorf(
			"%s %q: %w", errCtx, origin, err,
		)
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	path = strings.TrimSuffix(path, "/")

	if path == "" {
		return Identity{}, fmt.Errorf(
			"%s %q: empty project path: %w",
			errCtx, origin, ErrInvalidRemote,
		)
	}

	segments := strings.Split(path, "/")

	return Identity{
		Domain:    host,
		Namespace: segments[0],
		Name:      segments[len(segments)-1],
		FullPath:  path,
		Origin:    origin,
	}, nil
}

// Domain extracts the hosting domain from a remote URL.
// More lenient than ParseOrigin: a project path is not
// required.
func Domain(origin string) (string, error) {
	const errCtx = "extracting domain"

	rest := strings.TrimSpace(origin)

	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}

	rest = stripUserInfo(rest)

	if i := strings.IndexAny(rest, ":/"); i >= 0 {
		rest = rest[:i]
	}

	if rest == "" {
		return "", fmt.Errorf(
			"%s from %q: %w",
			errCtx, origin, ErrInvalidRemote,
		)
	}

	return rest, nil
}

// splitOrigin separates a remote URL into host and raw
// project path. Scheme-qualified URLs go through the
// stdlib parser; anything else is treated as SCP-like.
func splitOrigin(origin string) (string, string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", "", ErrInvalidRemote
	}

	if strings.Contains(origin, "://") {
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Hostname() == "" {
			return "", "", ErrInvalidRemote
		}

		return parsed.Hostname(), parsed.Path, nil
	}

	rest := stripUserInfo(origin)

	sep := strings.IndexAny(rest, ":/")
	if sep <= 0 {
		return "", "", ErrInvalidRemote
	}

	return rest[:sep], rest[sep+1:], nil
}

// stripUserInfo drops a leading "user@" prefix when it
// precedes the host part.
func stripUserInfo(s string) string {
	at := strings.Index(s, "@")
	if at < 0 {
		return s
	}

	if sep := strings.IndexAny(s, ":/"); sep >= 0 && sep < at {
		// The "@" sits inside the path, not in front
		// of the host.
		return s
	}

	return s[at+1:]
}
