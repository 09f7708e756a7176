//go:build integration

package integration

import (
	"testing"
	"time"
)

func TestFullGameStart(t *testing.T) {
	client := NewTestClient(t)
	defer client.Close()

	matchID := client.QuickMatchAndJoin(t)
	t.Logf("Joined match: %s", matchID)

	state := client.WaitForMatchState(t, OpMatchState, 5*time.Second)
	if state["phase"] == nil {
		t.Fatalf("match state without phase: %v", state)
	}

	client.Send(t, matchID, OpStartGame, map[string]interface{}{})
	client.WaitForMatchState(t, OpGameStarted, 5*time.Second)

	dealt := client.WaitForMatchState(t, OpHandDealt, 5*time.Second)
	hand, ok := dealt["hand"].([]interface{})
	if !ok || len(hand) != 5 {
		t.Fatalf("expected 5 cards, got %v", dealt["hand"])
	}
	t.Logf("Received Hand: %v", hand)

	offer := client.WaitForMatchState(t, OpBidOffered, 5*time.Second)
	if offer["candidate"] == nil {
		t.Errorf("bid offer without candidate: %v", offer)
	}
}
