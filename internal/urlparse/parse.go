// Package urlparse extracts node references from backoffice editor URLs, such as
// https://cms.example.com/umbraco#/content/content/edit/1234?mculture=en-US
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/backoffice/backoffice-cli/internal/api"
)

// ParsedURL is a backoffice editor location.
type ParsedURL struct {
	BaseURL        string
	BackofficePath string
	Section        string
	Tree           string
	Action         string
	ID             int // 0 when the route carries no numeric id
	Culture        string
}

// entityTypes maps a section/tree pair to the entity type of its nodes.
var entityTypes = map[string]api.EntityType{
	"content/content":        api.EntityDocument,
	"media/media":            api.EntityMedia,
	"member/member":          api.EntityMember,
	"settings/datatypes":     api.EntityDataType,
	"settings/templates":     api.EntityTemplate,
	"settings/documenttypes": api.EntityDocumentType,
	"settings/mediatypes":    api.EntityMediaType,
	"translation/dictionary": api.EntityDictionaryItem,
	"settings/dictionary":    api.EntityDictionaryItem,
}

// routePattern matches the client-side route: /{section}/{tree}/{action}[/{id}]
var routePattern = regexp.MustCompile(`^/([A-Za-z]+)/([A-Za-z]+)/([A-Za-z]+)(?:/(-?\d+))?/?$`)

// Parse extracts the route from an editor URL. The route lives in the fragment.
func Parse(rawURL string) (*ParsedURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}

	route, query, _ := strings.Cut(parsed.Fragment, "?")
	if route == "" {
		return nil, fmt.Errorf("not a backoffice editor URL: expected #/{section}/{tree}/{action}[/{id}]")
	}
	m := routePattern.FindStringSubmatch(route)
	if m == nil {
		return nil, fmt.Errorf("unsupported backoffice route %q", route)
	}

	out := &ParsedURL{
		BaseURL:        parsed.Scheme + "://" + parsed.Host,
		BackofficePath: strings.TrimSuffix(parsed.Path, "/"),
		Section:        strings.ToLower(m[1]),
		Tree:           strings.ToLower(m[2]),
		Action:         strings.ToLower(m[3]),
	}
	if out.BackofficePath == "" {
		out.BackofficePath = api.DefaultBackofficePath
	}
	if m[4] != "" {
		id, err := strconv.Atoi(m[4])
		if err != nil {
			return nil, fmt.Errorf("invalid node id: %w", err)
		}
		out.ID = id
	}
	if values, err := url.ParseQuery(query); err == nil {
		out.Culture = values.Get("mculture")
		if out.Culture == "" {
			out.Culture = values.Get("culture")
		}
	}
	return out, nil
}

// EntityType returns the node type the URL points at.
func (p *ParsedURL) EntityType() (api.EntityType, bool) {
	t, ok := entityTypes[p.Section+"/"+p.Tree]
	return t, ok
}

// HasID returns true if the URL includes a node id.
func (p *ParsedURL) HasID() bool {
	return p.ID != 0
}
