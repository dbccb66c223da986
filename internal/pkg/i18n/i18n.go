// Package i18n localizes user-facing messages. Locale files are embedded;
// the request locale travels in the context.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu            sync.RWMutex
	bundle        *i18n.Bundle
	matcher       language.Matcher
	supported     []language.Tag
	defaultLocale = language.English
)

type ctxKey struct{}

// Init loads every embedded locale and sets the default. It is safe to call
// more than once.
func Init(defLocale string) error {
	def := language.English
	if defLocale != "" {
		tag, err := language.Parse(defLocale)
		if err != nil {
			return fmt.Errorf("i18n: parse default locale: %w", err)
		}
		def = tag
	}

	b := i18n.NewBundle(def)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	bundle = b
	defaultLocale = def
	// The default must come first so unmatched requests fall back to it.
	tags := []language.Tag{def}
	for _, t := range b.LanguageTags() {
		if t != def {
			tags = append(tags, t)
		}
	}
	supported = tags
	matcher = language.NewMatcher(tags)
	return nil
}

func current() (*i18n.Bundle, language.Matcher, language.Tag) {
	mu.RLock()
	defer mu.RUnlock()
	return bundle, matcher, defaultLocale
}

// WithLocale returns a context carrying locale (e.g. "id", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns the context locale, or the default.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	_, _, def := current()
	return def.String()
}

// Match picks the supported locale closest to an Accept-Language header.
func Match(acceptLanguage string) string {
	mu.RLock()
	defer mu.RUnlock()

	if matcher == nil {
		return defaultLocale.String()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLocale.String()
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx].String()
}

// Middleware stores the request's preferred locale in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := Match(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
	})
}

// T translates messageID in the context locale. It returns messageID when
// no translation exists.
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	b, _, _ := current()
	if b == nil {
		return messageID
	}
	l := i18n.NewLocalizer(b, LocaleFromContext(ctx))

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
