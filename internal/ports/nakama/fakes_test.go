package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode int64
	data   []byte
	to     []string
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent   []sentMessage
	labels []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	msg := sentMessage{opCode: opCode, data: append([]byte(nil), data...)}
	for _, p := range presences {
		msg.to = append(msg.to, p.GetUserId())
	}
	md.sent = append(md.sent, msg)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) withOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.sent {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

func decodePayload(data []byte) (map[string]interface{}, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}

type testPresence struct {
	runtime.Presence
	userID   string
	username string
}

func (p testPresence) GetUserId() string    { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }
func (p testPresence) GetUsername() string  { return p.username }
func (p testPresence) GetNodeId() string    { return "node" }

type testMessage struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m testMessage) GetUserId() string { return m.userID }
func (m testMessage) GetOpCode() int64  { return m.opCode }
func (m testMessage) GetData() []byte   { return m.data }

// fakeNakama implements the storage, wallet, account and match calls the module uses.
// Calling anything else panics on the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule

	objects     map[string]*api.StorageObject
	versionSeq  int
	wallets     map[string]map[string]int64
	rejectNext  int
	accounts    map[string]*api.Account
	created     []map[string]interface{}
	listed      []*api.Match
	signals     []string
	signalReply string
	signalErr   error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		objects:  make(map[string]*api.StorageObject),
		wallets:  make(map[string]map[string]int64),
		accounts: make(map[string]*api.Account),
	}
}

func storageID(collection, userID, key string) string {
	return collection + "/" + userID + "/" + key
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.objects[storageID(r.Collection, r.UserID, r.Key)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if err := f.checkVersions(writes); err != nil {
		return nil, err
	}
	return f.apply(writes), nil
}

func (f *fakeNakama) StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error {
	for _, d := range deletes {
		delete(f.objects, storageID(d.Collection, d.UserID, d.Key))
	}
	return nil
}

func (f *fakeNakama) MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error) {
	if f.rejectNext > 0 {
		f.rejectNext--
		// Simulate a concurrent writer bumping the version.
		for _, w := range storageWrites {
			if obj, ok := f.objects[storageID(w.Collection, w.UserID, w.Key)]; ok {
				f.versionSeq++
				obj.Version = fmt.Sprintf("v%d", f.versionSeq)
			}
		}
		return nil, nil, runtime.ErrStorageRejectedVersion
	}
	if err := f.checkVersions(storageWrites); err != nil {
		return nil, nil, err
	}
	acks := f.apply(storageWrites)
	for _, u := range walletUpdates {
		if f.wallets[u.UserID] == nil {
			f.wallets[u.UserID] = make(map[string]int64)
		}
		for k, v := range u.Changeset {
			f.wallets[u.UserID][k] += v
		}
	}
	return acks, nil, nil
}

func (f *fakeNakama) checkVersions(writes []*runtime.StorageWrite) error {
	for _, w := range writes {
		existing, ok := f.objects[storageID(w.Collection, w.UserID, w.Key)]
		switch {
		case w.Version == "":
		case w.Version == "*":
			if ok {
				return runtime.ErrStorageRejectedVersion
			}
		case !ok || existing.Version != w.Version:
			return runtime.ErrStorageRejectedVersion
		}
	}
	return nil
}

func (f *fakeNakama) apply(writes []*runtime.StorageWrite) []*api.StorageObjectAck {
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		f.versionSeq++
		version := fmt.Sprintf("v%d", f.versionSeq)
		f.objects[storageID(w.Collection, w.UserID, w.Key)] = &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    version,
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, Version: version, UserId: w.UserID})
	}
	return acks
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	if acc, ok := f.accounts[userID]; ok {
		return acc, nil
	}
	return nil, fmt.Errorf("account %s not found", userID)
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, params)
	return fmt.Sprintf("match-%d.node", len(f.created)), nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize *int, maxSize *int, query string) ([]*api.Match, error) {
	return f.listed, nil
}

func (f *fakeNakama) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	f.signals = append(f.signals, data)
	return f.signalReply, f.signalErr
}
