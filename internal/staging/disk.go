package staging

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// FreeBytes reports the free space on the filesystem holding root.
func FreeBytes(ctx context.Context, root string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, root)
	if err != nil {
		return 0, fmt.Errorf("disk usage for %s: %w", root, err)
	}
	return usage.Free, nil
}
