package vm

import (
	"context"
	"fmt"
)

// Submit defines the domain described by xml and records its id in state
// before returning. The domain is left defined but not started.
//
// If the id cannot be recorded the id is still returned alongside the error,
// so the caller can tell the operator which domain is now untracked.
func Submit(ctx context.Context, backend Backend, state MachineState, xml string) (string, error) {
	id, err := backend.CreateDomain(ctx, xml)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDomainCreationFailed, err)
	}

	if err := state.SetID(id); err != nil {
		return id, fmt.Errorf("failed to record domain id %s: %w", id, err)
	}

	return id, nil
}
