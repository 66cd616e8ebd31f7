package town

import (
	"errors"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(128)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestCreateAndJoinTown(t *testing.T) {
	r := newTestRegistry(t)

	info, password, err := r.CreateTown("spawn", true)
	if err != nil {
		t.Fatalf("CreateTown: %v", err)
	}
	if info.ID == "" || password == "" {
		t.Fatal("CreateTown returned empty id or password")
	}

	session, err := r.JoinTown(info.ID, "alice")
	if err != nil {
		t.Fatalf("JoinTown: %v", err)
	}

	identity, ok := r.ResolveToken(info.ID, session.Token)
	if !ok || identity != "alice" {
		t.Errorf("ResolveToken = (%q, %v), want (alice, true)", identity, ok)
	}
}

func TestResolveTokenCrossTown(t *testing.T) {
	r := newTestRegistry(t)

	a, _, _ := r.CreateTown("a", true)
	b, _, _ := r.CreateTown("b", true)

	session, err := r.JoinTown(a.ID, "alice")
	if err != nil {
		t.Fatalf("JoinTown: %v", err)
	}

	if _, ok := r.ResolveToken(b.ID, session.Token); ok {
		t.Error("token from town a resolved in town b")
	}
}

func TestResolveTokenAfterDisconnect(t *testing.T) {
	r := newTestRegistry(t)

	info, _, _ := r.CreateTown("spawn", true)
	session, _ := r.JoinTown(info.ID, "alice")

	r.DisconnectSession(info.ID, session.Token)

	if _, ok := r.ResolveToken(info.ID, session.Token); ok {
		t.Error("disconnected token still resolves")
	}
}

func TestUpdateTownPasswordGate(t *testing.T) {
	r := newTestRegistry(t)

	info, password, _ := r.CreateTown("spawn", true)

	if err := r.UpdateTown(info.ID, "wrong", "renamed", false); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("UpdateTown with wrong password: want ErrInvalidPassword, got %v", err)
	}
	if err := r.UpdateTown(info.ID, password, "renamed", false); err != nil {
		t.Errorf("UpdateTown: %v", err)
	}
	if err := r.UpdateTown("missing", password, "renamed", false); !errors.Is(err, ErrTownNotFound) {
		t.Errorf("UpdateTown on missing town: want ErrTownNotFound, got %v", err)
	}
}

func TestDeleteTownDropsSessions(t *testing.T) {
	r := newTestRegistry(t)

	info, password, _ := r.CreateTown("spawn", false)
	session, _ := r.JoinTown(info.ID, "alice")

	if err := r.DeleteTown(info.ID, password); err != nil {
		t.Fatalf("DeleteTown: %v", err)
	}
	if r.Exists(info.ID) {
		t.Error("town still exists after delete")
	}
	if _, ok := r.ResolveToken(info.ID, session.Token); ok {
		t.Error("token still resolves after town delete")
	}
}

func TestListTownsOnlyPublic(t *testing.T) {
	r := newTestRegistry(t)

	pub, _, _ := r.CreateTown("public", true)
	r.CreateTown("hidden", false)

	towns := r.ListTowns()
	if len(towns) != 1 || towns[0].ID != pub.ID {
		t.Errorf("ListTowns = %+v, want only %s", towns, pub.ID)
	}
}
