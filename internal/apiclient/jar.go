package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// FileJar is a cookie jar mirrored to a JSON file, so a remote session cookie
// survives between runs of a short-lived process such as the CLI.
type FileJar struct {
	mu      sync.Mutex
	path    string
	jar     *cookiejar.Jar
	origins map[string][]savedCookie
}

func NewFileJar(path string) (*FileJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	j := &FileJar{path: path, jar: jar, origins: make(map[string][]savedCookie)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	if err := json.Unmarshal(data, &j.origins); err != nil {
		return nil, fmt.Errorf("decode cookie file: %w", err)
	}

	now := time.Now()
	for origin, saved := range j.origins {
		u, err := url.Parse(origin)
		if err != nil {
			delete(j.origins, origin)
			continue
		}
		live := saved[:0]
		cookies := make([]*http.Cookie, 0, len(saved))
		for _, sc := range saved {
			if !sc.Expires.IsZero() && sc.Expires.Before(now) {
				continue
			}
			live = append(live, sc)
			cookies = append(cookies, &http.Cookie{
				Name:     sc.Name,
				Value:    sc.Value,
				Path:     sc.Path,
				Domain:   sc.Domain,
				Expires:  sc.Expires,
				Secure:   sc.Secure,
				HttpOnly: sc.HttpOnly,
			})
		}
		j.origins[origin] = live
		jar.SetCookies(u, cookies)
	}
	return j, nil
}

func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	jar := j.jar
	j.mu.Unlock()
	return jar.Cookies(u)
}

// SetCookies records cookies in memory and rewrites the file; write errors
// are dropped.
func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(u, cookies)

	origin := u.Scheme + "://" + u.Host
	saved := j.origins[origin]
	now := time.Now()
	for _, c := range cookies {
		saved = removeSaved(saved, c.Name)
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		saved = append(saved, savedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	j.origins[origin] = saved
	_ = j.save()
}

// Clear forgets every cookie and deletes the file.
func (j *FileJar) Clear() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar = jar
	j.origins = make(map[string][]savedCookie)
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cookie file: %w", err)
	}
	return nil
}

func (j *FileJar) save() error {
	data, err := json.Marshal(j.origins)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

func removeSaved(saved []savedCookie, name string) []savedCookie {
	out := saved[:0]
	for _, sc := range saved {
		if sc.Name != name {
			out = append(out, sc)
		}
	}
	return out
}
