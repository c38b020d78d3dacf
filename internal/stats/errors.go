// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package stats

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrStoreUnavailable wraps any failure to read the entity store.
	// Callers may retry with backoff; the engine never retries itself.
	ErrStoreUnavailable = errors.New("stats: store unavailable")

	// ErrIntegrityViolation is matched by every *IntegrityError.
	ErrIntegrityViolation = errors.New("stats: integrity violation")
)

// IntegrityError describes a broken reference found while aggregating.
type IntegrityError struct {
	Kind string    // e.g. "article category", "favorites reference missing article", "tag link tag"
	ID   uuid.UUID // the referencing row
	Ref  uuid.UUID // the missing target (uuid.Nil for value checks)
}

func (e *IntegrityError) Error() string {
	if e.Ref == uuid.Nil {
		return fmt.Sprintf("stats: integrity violation: %s on %s", e.Kind, e.ID)
	}
	return fmt.Sprintf("stats: integrity violation: %s %s references missing %s", e.Kind, e.ID, e.Ref)
}

// Is lets errors.Is(err, ErrIntegrityViolation) match.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityViolation
}

// unavailable tags a source error as ErrStoreUnavailable while keeping the
// cause (including context cancellation) in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
