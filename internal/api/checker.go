// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// Checker runs one availability check per request
type Checker interface {
	NewInvocation(query entities.Query, source entities.Source) entities.Invocation
	Run(ctx context.Context, inv entities.Invocation) (*entities.RunSummary, error)
}
