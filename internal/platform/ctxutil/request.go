package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the user a request acts on behalf of.
// There is no authentication; the value is resolved from configuration.
type RequestData struct {
	UserID uint
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the request user, or zero when none is attached.
func UserID(ctx context.Context) uint {
	rd := GetRequestData(ctx)
	if rd == nil {
		return 0
	}
	return rd.UserID
}
