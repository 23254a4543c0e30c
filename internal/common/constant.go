package common

// DefaultLoginMessage is shown when the gateway rejects a login without
// providing a message of its own.
const DefaultLoginMessage = "login failed, please check your credentials"

// RequestIDHeader carries the client-generated id attached to every
// gateway request.
const RequestIDHeader = "X-Request-Id"

// AuthorizationHeader and BearerScheme form the credential header on
// authenticated gateway requests.
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer "
)
