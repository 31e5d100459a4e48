package session

import (
	"testing"
)

func TestManager_GetFallsBackToPersistence(t *testing.T) {
	fp := newFilePersistence(t)

	// First manager creates and persists a session
	first := NewManagerWithPersistence(fp)
	if _, err := first.Create("ab12", testLevel()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A fresh manager with the same backend finds it on Get
	second := NewManagerWithPersistence(fp)
	sess, err := second.Get("ab12")
	if err != nil {
		t.Fatalf("Get through persistence failed: %v", err)
	}
	if sess.ID != "ab12" {
		t.Errorf("unexpected loaded ID: %s", sess.ID)
	}
	if second.Count() != 1 {
		t.Errorf("loaded session not cached in memory, count %d", second.Count())
	}
}

func TestManager_LoadPersistedSessions(t *testing.T) {
	fp := newFilePersistence(t)

	first := NewManagerWithPersistence(fp)
	for _, id := range []string{"aa11", "bb22"} {
		if _, err := first.Create(id, testLevel()); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	second := NewManagerWithPersistence(fp)
	if err := second.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if second.Count() != 2 {
		t.Errorf("expected 2 loaded sessions, got %d", second.Count())
	}

	// Loading again is a no-op for sessions already in memory
	if err := second.LoadPersistedSessions(); err != nil {
		t.Fatalf("second LoadPersistedSessions failed: %v", err)
	}
	if second.Count() != 2 {
		t.Errorf("reload duplicated sessions, count %d", second.Count())
	}
}

func TestManager_SaveAllSessions(t *testing.T) {
	fp := newFilePersistence(t)
	m := NewManagerWithPersistence(fp)

	for _, id := range []string{"aa11", "bb22", "cc33"} {
		if _, err := m.Create(id, testLevel()); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	if err := m.SaveAllSessions(); err != nil {
		t.Fatalf("SaveAllSessions failed: %v", err)
	}
	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 persisted sessions, got %d", len(ids))
	}
}

func TestManager_DeleteRemovesPersistedSession(t *testing.T) {
	fp := newFilePersistence(t)
	m := NewManagerWithPersistence(fp)

	if _, err := m.Create("ab12", testLevel()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Delete("ab12"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("ab12") {
		t.Error("persisted session survived the delete")
	}
}
