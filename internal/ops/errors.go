package ops

import (
	"fmt"

	"github.com/phrazzld/botstore/internal/store"
)

// invalid marks a domain validation failure as a constraint violation, so
// callers see one taxonomy whether the rule was checked here or by the schema.
func invalid(err error) error {
	return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
}
