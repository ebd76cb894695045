package middlewares

// gin context keys set by the request pipeline.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxName      = "auth.name"
	CtxRole      = "auth.role"
	CtxClient    = "auth.client"
)
