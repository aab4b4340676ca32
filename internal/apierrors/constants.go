package apierrors

const (
	MsgInvalidPayload = "request.invalid_payload"
	MsgInvalidQuery   = "request.invalid_query"
	MsgInternal       = "request.internal"
	MsgAuthRequired   = "auth.required"
	MsgInvalidToken   = "auth.invalid_token"
)
