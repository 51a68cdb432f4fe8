package session

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starter-api/backend/internal/config"
)

// Manager loads the session for each request and writes it back along
// with the session cookie.
type Manager struct {
	store Store
	cfg   config.Sessions
	log   *slog.Logger
	now   func() time.Time
}

// NewManager returns a Manager using store and the cookie settings in cfg.
func NewManager(store Store, cfg config.Sessions, log *slog.Logger) *Manager {
	return &Manager{store: store, cfg: cfg, log: log, now: time.Now}
}

// Middleware attaches the session to the request context. Changes are
// persisted before the first byte of the response is written.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.load(r)
		cw := &commitWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) {
			m.commit(w, r, sess)
		}}
		next.ServeHTTP(cw, r.WithContext(WithSession(r.Context(), sess)))
		cw.flushCommit()
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return newSession("", nil)
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return newSession("", nil)
	}

	data, err := m.store.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.ErrorContext(r.Context(), "session load failed", "error", err)
		}
		return newSession("", nil)
	}
	return newSession(c.Value, data)
}

// commit saves or deletes the session and sets the matching cookie.
func (m *Manager) commit(w http.ResponseWriter, r *http.Request, sess *Session) {
	ctx := r.Context()
	id, oldID, values, modified := sess.snapshot()

	if oldID != "" {
		if err := m.store.Delete(ctx, oldID); err != nil {
			m.log.ErrorContext(ctx, "session delete failed", "error", err)
		}
	}

	if len(values) == 0 {
		// An emptied session is removed together with its cookie.
		if modified && (id != "" || oldID != "") {
			if id != "" {
				if err := m.store.Delete(ctx, id); err != nil {
					m.log.ErrorContext(ctx, "session delete failed", "error", err)
				}
			}
			http.SetCookie(w, m.cookie("", -1))
		}
		return
	}

	if !modified && !(m.cfg.SaveEveryRequest && id != "") {
		return
	}

	if id == "" {
		id = uuid.NewString()
	}
	if err := m.store.Save(ctx, id, values, m.cfg.CookieAge()); err != nil {
		m.log.ErrorContext(ctx, "session save failed", "error", err)
		return
	}
	sess.saved(id)

	maxAge := int(m.cfg.CookieAge().Seconds())
	if m.cfg.ExpireAtBrowserClose {
		maxAge = 0
	}
	http.SetCookie(w, m.cookie(id, maxAge))
}

// cookie builds the session cookie. maxAge 0 makes it a browser-session
// cookie and a negative maxAge deletes it.
func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: m.cfg.CookieHTTPOnly,
		SameSite: m.cfg.SameSite(),
	}
	if maxAge > 0 {
		c.Expires = m.now().Add(time.Duration(maxAge) * time.Second).UTC()
	}
	return c
}

// commitWriter runs commit once, just before the response headers are
// sent, so the session cookie can still be added.
type commitWriter struct {
	http.ResponseWriter
	once   sync.Once
	commit func(http.ResponseWriter)
}

func (w *commitWriter) flushCommit() {
	w.once.Do(func() { w.commit(w.ResponseWriter) })
}

func (w *commitWriter) WriteHeader(code int) {
	w.flushCommit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.flushCommit()
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *commitWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
