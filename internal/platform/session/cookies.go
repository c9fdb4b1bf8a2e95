package session

import (
	"context"
	"net/http"
)

type cookiesKey struct{}

// WithCookies attaches the upstream cookies to ctx; the finance API client sends them
// with every request made under the returned context.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

// CookiesFrom returns the cookies attached by WithCookies
func CookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}
