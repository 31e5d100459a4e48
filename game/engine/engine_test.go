package engine

import (
	"encoding/json"
	"testing"
)

func newTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	eng, err := NewEngine(testLevelConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return eng
}

func TestEngine_ApplyLogsEveryCommand(t *testing.T) {
	eng := newTestEngine(t)

	if _, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(0, 0), UnitType: "soldier"}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	// A rejected command is logged too
	if _, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(0, 0), UnitType: "soldier"}); err == nil {
		t.Fatal("expected the second deploy to be rejected")
	}

	log := eng.CommandLog()
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
	if log[0].Seq != 1 || !log[0].Applied || log[0].Error != "" {
		t.Errorf("unexpected first record: %+v", log[0])
	}
	if log[1].Seq != 2 || log[1].Applied || log[1].Error == "" {
		t.Errorf("unexpected second record: %+v", log[1])
	}
}

func TestEngine_RejectionLeavesStoreUnchanged(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(0, 0), UnitType: "soldier"}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	before, err := json.Marshal(eng.State().Occupancy)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	snapshot, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(2, 3), UnitType: "soldier"})
	if err == nil {
		t.Fatal("expected a rejection")
	}
	if snapshot == nil {
		t.Fatal("a rejection must still return the snapshot")
	}

	after, err := json.Marshal(eng.State().Occupancy)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(before) != string(after) {
		t.Error("rejected command mutated the occupancy index")
	}
}

func TestEngine_SnapshotReflectsCommands(t *testing.T) {
	eng := newTestEngine(t)

	snapshot, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(1, 0), UnitType: "scout"})
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if snapshot.DeployedCount != 1 {
		t.Errorf("expected deployed count 1, got %d", snapshot.DeployedCount)
	}
	if snapshot.TotalCommands != 1 {
		t.Errorf("expected 1 total command, got %d", snapshot.TotalCommands)
	}

	snapshot, err = eng.Apply(Command{Type: CommandSelectUnit, Pos: posPtr(1, 0)})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if snapshot.Phase != PhaseAwaitingTarget {
		t.Errorf("expected awaiting_move_target, got %s", snapshot.Phase)
	}
	if snapshot.Selected == nil || snapshot.Selected.TypeName != "scout" {
		t.Errorf("unexpected selected view: %+v", snapshot.Selected)
	}
	if len(snapshot.Reachable) == 0 {
		t.Error("expected a reachable listing for the selection")
	}
}

func TestEngine_ReachableQuery(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(0, 0), UnitType: "crawler"}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	reachable, err := eng.Reachable(Position{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("Reachable failed: %v", err)
	}
	if len(reachable) != 1 {
		t.Errorf("crawler budget 5 on plains reaches only its own tile, got %d", len(reachable))
	}

	// Advisory query must not touch the processor's phase
	if eng.Phase() != PhaseIdle {
		t.Errorf("Reachable query changed the phase to %s", eng.Phase())
	}

	if _, err := eng.Reachable(Position{X: 2, Y: 2}); err == nil {
		t.Error("expected an error for an empty tile")
	}
	if _, err := eng.Reachable(Position{X: 9, Y: 9}); err == nil {
		t.Error("expected an error for an out-of-bounds position")
	}
}

func TestEngine_StateRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.Apply(Command{Type: CommandDeployUnit, Pos: posPtr(0, 0), UnitType: "soldier"}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if _, err := eng.Apply(Command{Type: CommandSelectUnit, Pos: posPtr(0, 0)}); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	data, err := json.Marshal(eng.State())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	restored := &GameState{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	other := newTestEngine(t)
	if err := other.SetState(restored); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	// Selections do not survive a restore
	if other.Phase() != PhaseIdle {
		t.Errorf("restored engine must start idle, got %s", other.Phase())
	}
	unit, ok := other.State().UnitAt(Position{X: 0, Y: 0})
	if !ok || unit.TypeName != "soldier" {
		t.Fatalf("deployed unit lost in the round trip: %+v ok=%v", unit, ok)
	}
	if len(other.CommandLog()) != 2 {
		t.Errorf("expected 2 restored log entries, got %d", len(other.CommandLog()))
	}

	if err := other.SetState(nil); err == nil {
		t.Error("SetState(nil) must fail")
	}
}
