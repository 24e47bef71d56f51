// Package engine defines the Engine interface, the binding to the native
// trading engine, and provides an in-memory simulator implementation for
// paper trading and tests.
package engine

import (
	"context"
	"strings"

	"tradeterm/internal/domain"
)

// Engine abstracts the live connection to the native trading engine. All
// submission calls are serialized by the engine itself; this layer treats
// the binding as the sole shared mutable resource and only reads from it or
// appends to it.
type Engine interface {
	// Name returns the binding identifier (e.g. "native", "simulator").
	Name() string

	// IsLive reports whether the engine session is established.
	IsLive() bool

	// IsReadyToInteract reports whether the engine has an interactive
	// session with the given location.
	IsReadyToInteract(loc *domain.Location) bool

	// GetLocation returns the location registered under uid, or nil.
	GetLocation(uid uint32) *domain.Location

	// LocationByProcessID returns the location whose process identifier
	// ("<category>_<group>_<name>") matches, or nil.
	LocationByProcessID(processID string) *domain.Location

	// Now returns the current engine time in nanoseconds since the epoch.
	Now() int64

	// IssueOrder submits an order request to the desk location. A non-nil
	// strategy location marks the order as strategy-originated. Returns the
	// engine-assigned order id.
	IssueOrder(ctx context.Context, input *domain.OrderInput, td, strategy *domain.Location) (uint64, error)

	// CancelOrder submits a cancellation. dest may be nil for orders placed
	// without a destination location.
	CancelOrder(ctx context.Context, action *domain.OrderAction, source, dest *domain.Location) (uint64, error)

	// IssueBlockMessage negotiates a block trade and returns the block id,
	// or zero when the negotiation yields none.
	IssueBlockMessage(ctx context.Context, msg *domain.BlockMessage, td *domain.Location) (uint64, error)

	// RequestMarketData subscribes the md location to an instrument.
	RequestMarketData(ctx context.Context, md *domain.Location, exchangeID, instrumentID string) error

	// Hash is the engine's deterministic string hash, used to derive
	// instrument and location keys.
	Hash(s string) uint32
}

// ParseProcessID splits a process identifier into category, group, and
// name. The group itself may contain underscores; the name may not.
func ParseProcessID(processID string) (category domain.LocationCategory, group, name string, ok bool) {
	parts := strings.Split(processID, "_")
	if len(parts) < 3 {
		return "", "", "", false
	}
	category = domain.LocationCategory(parts[0])
	switch category {
	case domain.CategoryMD, domain.CategoryTD, domain.CategoryStrategy, domain.CategorySystem:
	default:
		return "", "", "", false
	}
	name = parts[len(parts)-1]
	group = strings.Join(parts[1:len(parts)-1], "_")
	return category, group, name, true
}
