package constants

// query parameter names the proxy inspects or injects
const (
	QueryPage               = "page"
	QuerySize               = "size"
	QuerySort               = "sort"
	QueryMainStatus         = "mainStatus"
	QueryHaystackClientID   = "haystackClientId"
	QueryExcludeLiveProfile = "excludeLiveProfile"
)
