package enums

import (
	"fmt"
	"strings"
)

// StorageBackend selects where cart slots live.
type StorageBackend string

const (
	StorageBackendRedis  StorageBackend = "redis"
	StorageBackendSQL    StorageBackend = "sql"
	StorageBackendMemory StorageBackend = "memory"
)

var validStorageBackends = []StorageBackend{
	StorageBackendRedis,
	StorageBackendSQL,
	StorageBackendMemory,
}

func (s StorageBackend) String() string {
	return string(s)
}

// ParseStorageBackend accepts any casing.
func ParseStorageBackend(value string) (StorageBackend, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStorageBackends {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage backend %q", value)
}
