package resolve

import "testing"

func TestAccountName(t *testing.T) {
	sim, td, md, strategy := newTestEngine()

	// Desk source with a known destination.
	got := AccountName(sim, td.UID, strategy.UID)
	if got.Name != "xtp_123456" {
		t.Errorf("td source name = %q, want %q", got.Name, "xtp_123456")
	}

	// Desk source without a destination location is a manual order.
	got = AccountName(sim, td.UID, 0)
	if got.Name != "xtp_123456 manual" {
		t.Errorf("manual td source name = %q, want %q", got.Name, "xtp_123456 manual")
	}
	if got.Color != "orange" {
		t.Errorf("manual td source color = %q, want orange", got.Color)
	}

	// Market-data source resolves to its group label.
	got = AccountName(sim, md.UID, 0)
	if got.Name != "ctp" {
		t.Errorf("md source name = %q, want %q", got.Name, "ctp")
	}

	// Unknown source uid degrades to the placeholder.
	got = AccountName(sim, 424242, 0)
	if got.Name != Placeholder {
		t.Errorf("unknown source name = %q, want placeholder", got.Name)
	}

	// A nil engine never panics.
	got = AccountName(nil, td.UID, 0)
	if got.Name != Placeholder {
		t.Errorf("nil engine name = %q, want placeholder", got.Name)
	}
}

func TestClientName(t *testing.T) {
	sim, td, _, strategy := newTestEngine()

	got := ClientName(sim, strategy.UID)
	if got.Name != "demo" {
		t.Errorf("strategy dest name = %q, want %q", got.Name, "demo")
	}

	got = ClientName(sim, td.UID)
	if got.Name != "xtp_123456" {
		t.Errorf("td dest name = %q, want %q", got.Name, "xtp_123456")
	}

	got = ClientName(sim, 0)
	if got.Name != Placeholder {
		t.Errorf("no-destination name = %q, want placeholder", got.Name)
	}
}

func TestHolderName(t *testing.T) {
	sim, td, _, _ := newTestEngine()

	if got := HolderName(sim, td.UID); got != "xtp_123456" {
		t.Errorf("HolderName = %q, want %q", got, "xtp_123456")
	}
	if got := HolderName(sim, 987654); got != Placeholder {
		t.Errorf("unknown holder = %q, want placeholder", got)
	}
	if got := HolderName(nil, td.UID); got != Placeholder {
		t.Errorf("nil engine holder = %q, want placeholder", got)
	}
}

func TestInstrumentUKey(t *testing.T) {
	sim, _, _, _ := newTestEngine()

	key := InstrumentUKey(sim, "600000", "SSE")
	if len(key) != 16 {
		t.Fatalf("len(key) = %d, want 16 hex digits", len(key))
	}
	if key != InstrumentUKey(sim, "600000", "SSE") {
		t.Error("InstrumentUKey must be deterministic")
	}
	if key == InstrumentUKey(sim, "600001", "SSE") {
		t.Error("distinct instruments should produce distinct keys")
	}
}
