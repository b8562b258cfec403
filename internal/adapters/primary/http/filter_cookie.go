package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lorrc/task-analytics/internal/core/domain"
	apperrors "github.com/lorrc/task-analytics/internal/core/errors"
)

const (
	// FilterCookieVersion is the payload version written by this codec.
	FilterCookieVersion = 1
	// MaxFilterCookieBytes caps the encoded cookie value.
	MaxFilterCookieBytes = 3800
	// DefaultFilterCookieName is used when no name is configured.
	DefaultFilterCookieName = "analytics_filters"
)

// cookieFilters is the wire form of domain.AnalyticsFilters.
type cookieFilters struct {
	Service       []string `json:"service,omitempty"`
	RoleCategory  []string `json:"roleCategory,omitempty"`
	Region        []string `json:"region,omitempty"`
	Location      []string `json:"location,omitempty"`
	TaskName      []string `json:"taskName,omitempty"`
	User          []string `json:"user,omitempty"`
	WorkType      []string `json:"workType,omitempty"`
	CompletedFrom string   `json:"completedFrom,omitempty"`
	CompletedTo   string   `json:"completedTo,omitempty"`
	EventsFrom    string   `json:"eventsFrom,omitempty"`
	EventsTo      string   `json:"eventsTo,omitempty"`
}

// filterClaims is the signed payload of the filter cookie.
type filterClaims struct {
	Version int           `json:"v"`
	Filters cookieFilters `json:"filters"`
	jwt.RegisteredClaims
}

// FilterCookieCodec signs, verifies and writes the persisted filter cookie.
type FilterCookieCodec struct {
	name   string
	secret []byte
	secure bool
	maxAge time.Duration
	now    func() time.Time
}

// FilterCookieConfig configures a FilterCookieCodec.
type FilterCookieConfig struct {
	Name   string
	Secret string
	Secure bool
	MaxAge time.Duration
}

// NewFilterCookieCodec creates a codec.
func NewFilterCookieCodec(cfg FilterCookieConfig) *FilterCookieCodec {
	name := cfg.Name
	if name == "" {
		name = DefaultFilterCookieName
	}
	return &FilterCookieCodec{
		name:   name,
		secret: []byte(cfg.Secret),
		secure: cfg.Secure,
		maxAge: cfg.MaxAge,
		now:    time.Now,
	}
}

// Name returns the cookie name.
func (c *FilterCookieCodec) Name() string {
	return c.name
}

// Encode signs filters into a cookie value.
func (c *FilterCookieCodec) Encode(f domain.AnalyticsFilters) (string, error) {
	claims := filterClaims{
		Version: FilterCookieVersion,
		Filters: toCookieFilters(f),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}
	if c.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(c.now().Add(c.maxAge))
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign filter cookie: %w", err)
	}
	if len(value) > MaxFilterCookieBytes {
		return "", apperrors.ErrCookieTooLarge
	}
	return value, nil
}

// Decode verifies a cookie value and returns its filters.
func (c *FilterCookieCodec) Decode(value string) (domain.AnalyticsFilters, error) {
	if len(value) > MaxFilterCookieBytes {
		return domain.AnalyticsFilters{}, apperrors.ErrCookieTooLarge
	}

	claims := &filterClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return domain.AnalyticsFilters{}, fmt.Errorf("%w: %w", apperrors.ErrCookieInvalid, err)
	}
	if !token.Valid {
		return domain.AnalyticsFilters{}, apperrors.ErrCookieInvalid
	}
	if claims.Version != FilterCookieVersion {
		return domain.AnalyticsFilters{}, apperrors.ErrCookieVersion
	}

	return fromCookieFilters(claims.Filters), nil
}

// Read returns the filters stored on the request, if any verify.
func (c *FilterCookieCodec) Read(r *http.Request) (domain.AnalyticsFilters, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return domain.AnalyticsFilters{}, err
	}
	return c.Decode(cookie.Value)
}

// Write stores filters on the response. An oversized payload is not written
// and ErrCookieTooLarge is returned.
func (c *FilterCookieCodec) Write(w http.ResponseWriter, f domain.AnalyticsFilters) error {
	value, err := c.Encode(f)
	if err != nil {
		return err
	}
	cookie := c.cookie(value)
	if c.maxAge > 0 {
		cookie.MaxAge = int(c.maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Clear expires the cookie.
func (c *FilterCookieCodec) Clear(w http.ResponseWriter) {
	cookie := c.cookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

func (c *FilterCookieCodec) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func toCookieFilters(f domain.AnalyticsFilters) cookieFilters {
	return cookieFilters{
		Service:       f.Service,
		RoleCategory:  f.RoleCategory,
		Region:        f.Region,
		Location:      f.Location,
		TaskName:      f.TaskName,
		User:          f.User,
		WorkType:      f.WorkType,
		CompletedFrom: formatCookieDate(f.CompletedFrom),
		CompletedTo:   formatCookieDate(f.CompletedTo),
		EventsFrom:    formatCookieDate(f.EventsFrom),
		EventsTo:      formatCookieDate(f.EventsTo),
	}
}

func fromCookieFilters(c cookieFilters) domain.AnalyticsFilters {
	return domain.AnalyticsFilters{
		Service:       nonEmpty(c.Service),
		RoleCategory:  nonEmpty(c.RoleCategory),
		Region:        nonEmpty(c.Region),
		Location:      nonEmpty(c.Location),
		TaskName:      nonEmpty(c.TaskName),
		User:          nonEmpty(c.User),
		WorkType:      nonEmpty(c.WorkType),
		CompletedFrom: parseCookieDate(c.CompletedFrom),
		CompletedTo:   parseCookieDate(c.CompletedTo),
		EventsFrom:    parseCookieDate(c.EventsFrom),
		EventsTo:      parseCookieDate(c.EventsTo),
	}
}

func nonEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}

func formatCookieDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return domain.FormatDay(*t)
}

func parseCookieDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// isCookieRejected reports whether err came from a present but unusable cookie.
func isCookieRejected(err error) bool {
	return errors.Is(err, apperrors.ErrCookieInvalid) ||
		errors.Is(err, apperrors.ErrCookieVersion) ||
		errors.Is(err, apperrors.ErrCookieTooLarge)
}
