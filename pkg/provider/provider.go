// Package provider abstracts the third-party geographic-data lookup used
// to populate and refresh cached place records.
package provider

import (
	"context"

	"github.com/tablenote/place-cache/pkg/place"
)

// Adapter fetches the provider's view of a place by its external id.
//
// Implementations return ErrNotFound when the provider has no record for
// the id and a *ProviderError (or transport error) when the lookup itself
// fails. Adapters make exactly one attempt per call; timeouts are the
// adapter's own responsibility.
type Adapter interface {
	Fetch(ctx context.Context, externalID string) (*place.ExternalRecord, error)
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(ctx context.Context, externalID string) (*place.ExternalRecord, error)

// Fetch implements Adapter.
func (f AdapterFunc) Fetch(ctx context.Context, externalID string) (*place.ExternalRecord, error) {
	return f(ctx, externalID)
}
