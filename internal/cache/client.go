package cache

const clientKeyPrefix = "client:"

// ClientKey returns the cache key holding a client's profile.
func ClientKey(id string) string {
	return clientKeyPrefix + id
}
