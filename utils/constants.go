package utils

// AuthCachePrefix is the prefix used for Redis token verification cache keys.
const AuthCachePrefix = "auth:"

// ProvidersCacheKey holds the serialized provider directory.
const ProvidersCacheKey = "providers:doctor"

// Context keys shared by middleware and handlers.
const (
	ContextUserID = "userID"
	ContextLogger = "logger"
)
