package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ma-za-kpe/vibejudge/vjerr"
)

// RepoRef is a parsed, validated repository reference.
type RepoRef struct {
	Host  string
	Owner string
	Repo  string
}

// CloneURL returns the https clone URL for r.
func (r RepoRef) CloneURL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Repo)
}

// defaultHost is used when a repo_url omits a scheme and host, i.e. is
// given as "owner/repo" shorthand.
const defaultHost = "github.com"

// ParseRepoURL validates and parses repoURL into a RepoRef. Only
// https://<host>/<owner>/<repo> is accepted (trailing ".git" and a
// trailing slash are tolerated and stripped); host defaults to
// github.com when omitted.
func ParseRepoURL(repoURL string) (RepoRef, error) {
	raw := strings.TrimSpace(repoURL)
	if raw == "" {
		return RepoRef{}, vjerr.New("extractor.ParseRepoURL", vjerr.CodeInput, "repo_url must not be empty").WithCause(vjerr.ErrInvalidURL)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + defaultHost + "/" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return RepoRef{}, vjerr.New("extractor.ParseRepoURL", vjerr.CodeInput, "malformed url").WithCause(vjerr.ErrInvalidURL)
	}
	if u.Scheme != "https" {
		return RepoRef{}, vjerr.New("extractor.ParseRepoURL", vjerr.CodeInput, "only https urls are accepted").WithCause(vjerr.ErrInvalidURL)
	}
	if u.Host == "" {
		return RepoRef{}, vjerr.New("extractor.ParseRepoURL", vjerr.CodeInput, "url has no host").WithCause(vjerr.ErrInvalidURL)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, vjerr.New("extractor.ParseRepoURL", vjerr.CodeInput, "url path must be /<owner>/<repo>").WithCause(vjerr.ErrInvalidURL)
	}

	return RepoRef{Host: u.Host, Owner: parts[0], Repo: parts[1]}, nil
}
