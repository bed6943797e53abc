package storage

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const cookiesKey = "session-cookies"

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar whose cookies for the API origin are saved in
// local storage, so a login from one command is seen by the next.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	origin *url.URL
	local  *Local
	logger *zap.Logger
}

func NewPersistentJar(local *Local, baseURL string, logger *zap.Logger) (*PersistentJar, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	jar, _ := cookiejar.New(nil)
	pj := &PersistentJar{jar: jar, origin: origin, local: local, logger: logger}

	if raw, ok := local.Get(cookiesKey); ok && raw != "" {
		var stored []storedCookie
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			logger.Warn("discarding unreadable stored cookies", zap.Error(err))
		} else {
			cookies := make([]*http.Cookie, 0, len(stored))
			for _, c := range stored {
				cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
			}
			jar.SetCookies(origin, cookies)
		}
	}
	return pj, nil
}

func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar.SetCookies(u, cookies)
	p.persist()
}

func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jar.Cookies(u)
}

// Clear drops every cookie, in memory and on disk.
func (p *PersistentJar) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar, _ = cookiejar.New(nil)
	return p.local.Delete(cookiesKey)
}

// persist must be called with p.mu held.
func (p *PersistentJar) persist() {
	current := p.jar.Cookies(p.origin)
	stored := make([]storedCookie, 0, len(current))
	for _, c := range current {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		p.logger.Warn("marshal cookies", zap.Error(err))
		return
	}
	if err := p.local.Set(cookiesKey, string(data)); err != nil {
		p.logger.Warn("persist cookies", zap.Error(err))
	}
}
