package common

import (
	"context"
	"strings"
)

// AnonymousAuthor is attached to writes when no lab id was entered.
const AnonymousAuthor = "anonymous"

// Session carries the identity hint for one client. The zero value is anonymous.
type Session struct {
	LabID string
}

// Author returns the label stored on records written in this session.
func (s Session) Author() string {
	if label := strings.TrimSpace(s.LabID); label != "" {
		return label
	}
	return AnonymousAuthor
}

func (s Session) IsAnonymous() bool {
	return strings.TrimSpace(s.LabID) == ""
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the request session, or the anonymous one.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
