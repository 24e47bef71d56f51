package resolve

import (
	"fmt"

	"tradeterm/internal/domain"
	"tradeterm/internal/engine"
)

// AccountName resolves an order/trade source uid into the display identity
// of the account that carries it. A market-data source resolves to its
// group label; a trading desk resolves to its account id, flagged as manual
// when the order has no destination location. Unknown uids resolve to the
// placeholder.
func AccountName(e engine.Engine, source, dest uint32) CommonData {
	if e == nil {
		return unknownData
	}
	sourceLocation := e.GetLocation(source)
	if sourceLocation == nil {
		return unknownData
	}

	switch sourceLocation.Category {
	case domain.CategoryTD:
		name := sourceLocation.ID()
		if e.GetLocation(dest) == nil {
			return CommonData{Name: fmt.Sprintf("%s manual", name), Color: "orange"}
		}
		return CommonData{Name: name, Color: "cyan"}
	case domain.CategoryMD:
		return CommonData{Name: sourceLocation.Group, Color: "gold"}
	default:
		return unknownData
	}
}

// ClientName resolves an order/trade dest uid into the identity of the
// originating client: the strategy name for strategy-originated orders, the
// owning account id otherwise. Manual and no-destination orders resolve to
// the placeholder.
func ClientName(e engine.Engine, dest uint32) CommonData {
	if e == nil {
		return unknownData
	}
	destLocation := e.GetLocation(dest)
	if destLocation == nil {
		return unknownData
	}
	if destLocation.Category == domain.CategoryStrategy {
		return CommonData{Name: destLocation.Name, Color: "blue"}
	}
	return CommonData{Name: destLocation.ID(), Color: "cyan"}
}

// HolderName resolves a position/asset holder uid to its backing location
// id, or the placeholder when unknown.
func HolderName(e engine.Engine, holderUID uint32) string {
	if e == nil {
		return Placeholder
	}
	loc := e.GetLocation(holderUID)
	if loc == nil {
		return Placeholder
	}
	return loc.ID()
}

// InstrumentUKey derives the stable 16-digit hex key for an instrument from
// the engine's hash of its id and exchange.
func InstrumentUKey(e engine.Engine, instrumentID, exchangeID string) string {
	key := uint64(e.Hash(instrumentID)) ^ uint64(e.Hash(exchangeID))
	return fmt.Sprintf("%016x", key)
}
