//go:build !unix

package backup

import "context"

// lockFile is a no-op where flock is unavailable; FileStore.mu still
// serializes appends within the process.
func lockFile(ctx context.Context, _ string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func() {}, nil
}
