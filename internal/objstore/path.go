package objstore

import (
	"fmt"
	"strings"
)

// ParsePath splits "s3://bucket/some/prefix" (the scheme is optional) into
// bucket and key prefix. The prefix has no leading or trailing slash.
func ParsePath(path string) (bucket, prefix string, err error) {
	path = strings.TrimPrefix(path, "s3://")
	path = strings.TrimLeft(path, "/")

	bucket, prefix, _ = strings.Cut(path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: %q has no bucket", ErrInvalidPath, path)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// Join prepends prefix to key, skipping the separator for an empty prefix.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
