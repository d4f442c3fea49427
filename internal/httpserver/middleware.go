package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"storefront/internal/domain"
	"storefront/internal/service/gate"
	"storefront/internal/service/session"
)

const (
	browserCookie    = "storefront_sid"
	browserCookieTTL = 30 * 24 * time.Hour
)

type ctxKey string

const (
	browserCtxKey  ctxKey = "browser"
	storeCtxKey    ctxKey = "session"
	identityCtxKey ctxKey = "identity"
)

// browserSessionMiddleware assigns every user agent a random id. The id names
// the storage namespace the session store and the cart mirror live under.
func browserSessionMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(browserCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(browserCookie, id, int(browserCookieTTL.Seconds()), "/", "", secure, true)
		}
		ctx := context.WithValue(c.Request.Context(), browserCtxKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// sessionMiddleware rehydrates the session store for this activation.
func (h *handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ns := browserID(c)
		store := session.New(h.deps.Auth, h.deps.Sessions, ns, h.logger)
		if err := store.LoadSession(c.Request.Context()); err != nil {
			h.logger.Printf("load session %s: %v", ns, err)
		}
		ctx := context.WithValue(c.Request.Context(), storeCtxKey, store)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireRole runs the authorization gate. Nothing behind it executes until
// the server confirmed the role for this request.
func (h *handlers) requireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessionStore(c)
		out := h.gate.Check(c.Request.Context(), store, required)
		switch out.Decision {
		case gate.Allowed:
			ctx := context.WithValue(c.Request.Context(), identityCtxKey, out.Identity)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		case gate.DeniedUnauthenticated:
			h.deps.Carts.Drop(store.Namespace())
			redirect(c, out.Redirect, nil)
			c.Abort()
		default:
			redirect(c, out.Redirect, &notice{Level: noticeError, Message: "You do not have access to that page"})
			c.Abort()
		}
	}
}

func browserID(c *gin.Context) string {
	id, _ := c.Request.Context().Value(browserCtxKey).(string)
	return id
}

func sessionStore(c *gin.Context) *session.Store {
	store, _ := c.Request.Context().Value(storeCtxKey).(*session.Store)
	return store
}

// verifiedIdentity is the identity the gate confirmed for this request.
func verifiedIdentity(c *gin.Context) *domain.Identity {
	identity, _ := c.Request.Context().Value(identityCtxKey).(*domain.Identity)
	return identity
}

const limiterIdleTTL = 5 * time.Minute

type attemptBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// attemptLimiter throttles login and registration attempts per client IP.
// Buckets idle for longer than limiterIdleTTL are evicted on the next sweep.
type attemptLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	buckets   map[string]*attemptBucket
	lastSweep time.Time
	now       func() time.Time
}

func newAttemptLimiter(perMinute int) *attemptLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &attemptLimiter{
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		buckets:   make(map[string]*attemptBucket),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *attemptLimiter) allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) > time.Minute {
		l.sweepLocked(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &attemptBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

func (l *attemptLimiter) sweepLocked(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

func (l *attemptLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (h *handlers) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, viewResponse{
				Notice: &notice{Level: noticeError, Message: "Too many attempts, please try again later"},
			})
			return
		}
		c.Next()
	}
}
