package bot

import (
	"testing"
	"time"
)

func backdate(store *SessionStore, convID string, d time.Duration) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lastActive[convID] = time.Now().Add(-d)
}

func TestSessionStoreEvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Minute)
	defer store.Close()

	store.Get("100")
	backdate(store, "100", 2*time.Minute)
	store.Get("200") // fresh

	store.evict(time.Now())

	if store.Len() != 1 {
		t.Fatalf("expected 1 surviving session, got %d", store.Len())
	}
	// The stale conversation starts over from Init.
	if got := store.Get("100"); got.State != StateInit || got.Language != "" {
		t.Fatalf("evicted session not recreated fresh: %+v", got)
	}
}

func TestSessionStoreGetRefreshesActivity(t *testing.T) {
	store := NewSessionStore(time.Minute)
	defer store.Close()

	store.Get("100")
	backdate(store, "100", 2*time.Minute)

	store.Get("100") // activity refresh
	store.evict(time.Now())

	if store.Len() != 1 {
		t.Fatalf("recently touched session must survive eviction")
	}
}

func TestResetSessionSurvivesEviction(t *testing.T) {
	store := NewSessionStore(time.Minute)
	defer store.Close()

	sess := store.Get("100")
	sess.Language = "Tamil"
	sess.LangCode = "ta"
	sess.State = StateAwaitPayment
	sess.Reset()

	store.evict(time.Now())

	if store.Len() != 1 {
		t.Fatalf("freshly reset session must not be evicted")
	}
	if got := store.Get("100"); got.Language != "Tamil" || got.State != StateMainMenu {
		t.Fatalf("reset session lost its language: %+v", got)
	}
}

func TestSessionResetPreservesLanguage(t *testing.T) {
	sess := &Session{
		ConvID:   "100",
		Language: "Tamil",
		LangCode: "ta",
		State:    StateAwaitPayment,
		Museum:   "Fort Museum",
		Seats:    3,
		Verified: true,
	}
	sess.Reset()

	if sess.Language != "Tamil" || sess.LangCode != "ta" {
		t.Fatalf("language not preserved: %+v", sess)
	}
	if sess.State != StateMainMenu {
		t.Fatalf("state = %s, want %s", sess.State, StateMainMenu)
	}
	if sess.Museum != "" || sess.Seats != 0 || sess.Verified {
		t.Fatalf("booking fields not cleared: %+v", sess)
	}
}
