package resolve

import (
	"strings"
	"testing"

	"tradeterm/internal/domain"
)

func TestSideDataKnownCodes(t *testing.T) {
	tests := []struct {
		side domain.Side
		name string
	}{
		{domain.SideBuy, "Buy"},
		{domain.SideSell, "Sell"},
		{domain.SideMarginTrade, "MarginTrade"},
		{domain.SideRepayStock, "RepayStock"},
	}
	for _, tt := range tests {
		if got := SideData(tt.side).Name; got != tt.name {
			t.Errorf("SideData(%d).Name = %q, want %q", tt.side, got, tt.name)
		}
	}
}

func TestUnknownCodesResolveToPlaceholder(t *testing.T) {
	if got := SideData(domain.Side(200)); got != unknownData {
		t.Errorf("unknown side = %+v, want placeholder", got)
	}
	if got := OffsetData(domain.Offset(200)); got != unknownData {
		t.Errorf("unknown offset = %+v, want placeholder", got)
	}
	if got := DirectionData(domain.Direction(200)); got != unknownData {
		t.Errorf("unknown direction = %+v, want placeholder", got)
	}
	if got := OrderStatusData(domain.OrderStatus(200), ""); got != unknownData {
		t.Errorf("unknown status = %+v, want placeholder", got)
	}
	if got := PriceTypeData(domain.PriceType(200)); got != unknownData {
		t.Errorf("unknown price type = %+v, want placeholder", got)
	}
	if got := InstrumentTypeData(domain.InstrumentType(200)); got != unknownData {
		t.Errorf("unknown instrument type = %+v, want placeholder", got)
	}
	if got := HedgeFlagData(domain.HedgeFlag(200)); got != unknownData {
		t.Errorf("unknown hedge flag = %+v, want placeholder", got)
	}
	if got := VolumeConditionData(domain.VolumeCondition(200)); got != unknownData {
		t.Errorf("unknown volume condition = %+v, want placeholder", got)
	}
	if got := TimeConditionData(domain.TimeCondition(200)); got != unknownData {
		t.Errorf("unknown time condition = %+v, want placeholder", got)
	}
	if got := CategoryData(domain.LocationCategory("ledger")); got != unknownData {
		t.Errorf("unknown category = %+v, want placeholder", got)
	}
}

func TestOrderStatusDataRejection(t *testing.T) {
	got := OrderStatusData(domain.OrderStatusError, "insufficient funds")
	if !strings.Contains(got.Name, "insufficient funds") {
		t.Errorf("rejected status name %q should contain the rejection reason", got.Name)
	}
	if got.Color != "red" {
		t.Errorf("rejected status color = %q, want %q", got.Color, "red")
	}

	// Non-error statuses must ignore any stale error message.
	got = OrderStatusData(domain.OrderStatusFilled, "insufficient funds")
	if got.Name != "Filled" {
		t.Errorf("filled status name = %q, want %q", got.Name, "Filled")
	}
	if got.Color != "green" {
		t.Errorf("filled status color = %q, want %q", got.Color, "green")
	}
}

func TestSwapData(t *testing.T) {
	if got := SwapData(true).Name; got != "Swap" {
		t.Errorf("SwapData(true).Name = %q, want %q", got, "Swap")
	}
	if got := SwapData(false).Name; got != "" {
		t.Errorf("SwapData(false).Name = %q, want empty", got)
	}
}

func TestExchangeName(t *testing.T) {
	if got := ExchangeName("SSE"); got != "Shanghai" {
		t.Errorf("ExchangeName(SSE) = %q, want %q", got, "Shanghai")
	}
	if got := ExchangeName("NOPE"); got != "" {
		t.Errorf("ExchangeName(NOPE) = %q, want empty", got)
	}
}
