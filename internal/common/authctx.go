package common

import "context"

type (
	userIDKey   struct{}
	userSlotKey struct{}
)

// UserSlot carries the authenticated user id back up the middleware chain:
// the request logger runs outside auth but still reports who called.
type UserSlot struct {
	id string
}

// ID is empty until WithUserID runs on a context derived from the slot's.
func (s *UserSlot) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// WithUserSlot returns ctx carrying a fresh slot.
func WithUserSlot(ctx context.Context) (context.Context, *UserSlot) {
	slot := new(UserSlot)
	return context.WithValue(ctx, userSlotKey{}, slot), slot
}

// WithUserID records id on ctx and fills any slot ctx carries.
func WithUserID(ctx context.Context, id string) context.Context {
	if slot, _ := ctx.Value(userSlotKey{}).(*UserSlot); slot != nil {
		slot.id = id
	}
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserID returns the id stored by WithUserID.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok
}
