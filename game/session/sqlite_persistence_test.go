package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/skirmishlab/skirmish/game/engine"
)

func newSQLitePersistence(t *testing.T) *SQLitePersistence {
	t.Helper()
	sp, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "sessions.db"), &stubLevelManager{level: testLevel()})
	if err != nil {
		t.Fatalf("NewSQLitePersistence failed: %v", err)
	}
	t.Cleanup(func() { sp.Close() })
	return sp
}

func TestSQLitePersistence_SaveLoadRoundTrip(t *testing.T) {
	sp := newSQLitePersistence(t)
	m := NewManagerWithPersistence(sp)

	sess, err := m.Create("ab12", testLevel())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := sess.Engine.Apply(engine.Command{
		Type:     engine.CommandDeployUnit,
		Pos:      &engine.Position{X: 1, Y: 0},
		UnitType: "soldier",
	}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if err := m.Save(sess.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := sp.Load("ab12")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	unit, ok := loaded.Engine.State().UnitAt(engine.Position{X: 1, Y: 0})
	if !ok || unit.TypeName != "soldier" {
		t.Errorf("deployed unit lost in the round trip: %+v ok=%v", unit, ok)
	}
}

func TestSQLitePersistence_SaveReplacesRow(t *testing.T) {
	sp := newSQLitePersistence(t)
	m := NewManagerWithPersistence(sp)

	sess, err := m.Create("ab12", testLevel())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := sess.Engine.Apply(engine.Command{
		Type:     engine.CommandDeployUnit,
		Pos:      &engine.Position{X: 0, Y: 0},
		UnitType: "soldier",
	}); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if err := m.Save(sess.ID); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	ids, err := sp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected one row after resave, got %d", len(ids))
	}

	loaded, err := sp.Load("ab12")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Engine.CommandLog()) != 1 {
		t.Errorf("resave did not replace the row, got %d log entries", len(loaded.Engine.CommandLog()))
	}
}

func TestSQLitePersistence_DeleteAndExists(t *testing.T) {
	sp := newSQLitePersistence(t)
	m := NewManagerWithPersistence(sp)

	if _, err := m.Create("ab12", testLevel()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !sp.Exists("ab12") {
		t.Fatal("session not persisted on create")
	}

	if err := sp.Delete("ab12"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if sp.Exists("ab12") {
		t.Error("session still exists after delete")
	}
	if err := sp.Delete("ab12"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double delete must report not found, got %v", err)
	}

	if _, err := sp.Load("ab12"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSQLitePersistence_ListAll(t *testing.T) {
	sp := newSQLitePersistence(t)
	m := NewManagerWithPersistence(sp)

	for _, id := range []string{"cc33", "aa11", "bb22"} {
		if _, err := m.Create(id, testLevel()); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	ids, err := sp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ids))
	}
	// Rows come back ordered
	if ids[0] != "aa11" || ids[1] != "bb22" || ids[2] != "cc33" {
		t.Errorf("unexpected order: %v", ids)
	}
}
