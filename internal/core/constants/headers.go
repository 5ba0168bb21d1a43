package constants

const (
	HeaderAuthorization = "Authorization"
	HeaderTenantID      = "x-tenant-id"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderAccept        = "Accept"

	HeaderAccessControlAllowOrigin    = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods   = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders   = "Access-Control-Allow-Headers"
	HeaderAccessControlRequestHeaders = "Access-Control-Request-Headers"
)
