package metadata

import (
	"context"
)

// Repository is the local key/value persistence scope. Absent keys are not
// an error: Get reports them with found == false.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
