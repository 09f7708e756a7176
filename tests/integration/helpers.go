//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// Op codes shared with the server module.
const (
	OpStartGame    = 1
	OpAcceptTrump  = 2
	OpDeclineTrump = 3
	OpPlayCard     = 5
	OpRequestState = 7

	OpMatchState  = 100
	OpGameStarted = 101
	OpHandDealt   = 103
	OpBidOffered  = 104
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string

	events chan *rtapi.MatchData
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("euchre_test_device_%d", time.Now().UnixNano())
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	tc := &TestClient{
		Client:  client,
		Session: session,
		UserID:  session.UserId,
		events:  make(chan *rtapi.MatchData, 64),
	}

	socket := client.NewSocket()
	socket.OnMatchData = func(data *rtapi.MatchData) {
		select {
		case tc.events <- data:
		default:
		}
	}
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	tc.Socket = socket
	return tc
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// QuickMatchAndJoin calls the 'quick_match' RPC and joins the returned match ID.
func (tc *TestClient) QuickMatchAndJoin(t *testing.T) string {
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "quick_match", "{}")
	if err != nil {
		t.Fatalf("RPC quick_match failed: %v", err)
	}
	var resp struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC quick_match returned %q: %v", rpc.Payload, err)
	}

	if _, err := tc.Socket.JoinMatch(context.Background(), nil, resp.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", resp.MatchID, err)
	}
	return resp.MatchID
}

// Send encodes body as JSON match state.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, body map[string]interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send op %d: %v", opCode, err)
	}
}

// WaitForMatchState waits for a specific opcode and decodes its payload.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) map[string]interface{} {
	deadline := time.After(timeout)
	for {
		select {
		case data := <-tc.events:
			if data.OpCode != opCode {
				continue
			}
			s := &structpb.Struct{}
			if err := proto.Unmarshal(data.Data, s); err != nil {
				t.Fatalf("Failed to decode op %d: %v", opCode, err)
			}
			return s.AsMap()
		case <-deadline:
			t.Fatalf("Timeout waiting for OpCode %d", opCode)
			return nil
		}
	}
}
