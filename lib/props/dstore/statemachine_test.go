package dstore

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

func newTestFSM() *PropsStateMachine {
	return CreateStateMachineFactory()(1, 1).(*PropsStateMachine)
}

func entry(cmd internal.Command) sm.Entry {
	return sm.Entry{Cmd: cmd.Serialize()}
}

func lookupGet(t *testing.T, fsm *PropsStateMachine, key string) internal.QueryResult {
	t.Helper()
	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTGet, Key: key})
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", key, err)
	}
	return res.(internal.QueryResult)
}

func TestUpdateAndLookup(t *testing.T) {
	fsm := newTestFSM()

	entries := []sm.Entry{
		entry(internal.Command{Type: internal.CommandTSet, Entries: []internal.Entry{{Key: "a", Value: "1"}}}),
		entry(internal.NewSetAllCommand(map[string]string{"b": "2", "c": "3"})),
		entry(internal.Command{Type: internal.CommandTDelete, Entries: []internal.Entry{{Key: "c"}}}),
	}
	res, err := fsm.Update(entries)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	for i, e := range res {
		if e.Result.Value != uint64(props.RetCSuccess) {
			t.Errorf("entry %d: result %d (%s), want success", i, e.Result.Value, e.Result.Data)
		}
	}

	if r := lookupGet(t, fsm, "a"); !r.Ok || r.Value != "1" {
		t.Errorf("Get(a) = %+v, want 1", r)
	}
	if r := lookupGet(t, fsm, "c"); r.Ok {
		t.Errorf("Get(c) = %+v, want not found", r)
	}

	all, err := fsm.Lookup(internal.Query{Type: internal.QueryTGetAll})
	if err != nil {
		t.Fatalf("Lookup(GetAll) error = %v", err)
	}
	got := all.(map[string]string)
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Errorf("GetAll = %v, want map[a:1 b:2]", got)
	}
}

func TestUpdateRejectsInvalidCommands(t *testing.T) {
	fsm := newTestFSM()

	entries := []sm.Entry{
		{Cmd: nil},
		{Cmd: []byte{1}},
		entry(internal.Command{Type: internal.CommandTSet}),
		entry(internal.Command{Type: 99}),
	}
	res, err := fsm.Update(entries)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := []props.RetCode{
		props.RetCInvalidOperation,
		props.RetCInternalError,
		props.RetCInvalidOperation,
		props.RetCInvalidOperation,
	}
	for i, e := range res {
		if props.RetCode(e.Result.Value) != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, props.RetCode(e.Result.Value), want[i])
		}
	}
}

func TestLookupInvalidQuery(t *testing.T) {
	fsm := newTestFSM()
	if _, err := fsm.Lookup("not a query"); err == nil {
		t.Error("expected error for invalid query type")
	}
	if _, err := fsm.Lookup(internal.Query{Type: 42}); err == nil {
		t.Error("expected error for unknown query")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	fsm := newTestFSM()
	if _, err := fsm.Update([]sm.Entry{
		entry(internal.NewSetAllCommand(map[string]string{"settings": "{}", "LOCK_settings": "x"})),
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	ctx, err := fsm.PrepareSnapshot()
	if err != nil {
		t.Fatalf("PrepareSnapshot() error = %v", err)
	}

	// writes after PrepareSnapshot must not end up in the snapshot
	if _, err := fsm.Update([]sm.Entry{
		entry(internal.Command{Type: internal.CommandTSet, Entries: []internal.Entry{{Key: "late", Value: "1"}}}),
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var buf bytes.Buffer
	if err := fsm.SaveSnapshot(ctx, &buf, nil, nil); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	restored := newTestFSM()
	if err := restored.RecoverFromSnapshot(&buf, nil, nil); err != nil {
		t.Fatalf("RecoverFromSnapshot() error = %v", err)
	}

	if r := lookupGet(t, restored, "settings"); !r.Ok || r.Value != "{}" {
		t.Errorf("Get(settings) = %+v", r)
	}
	if r := lookupGet(t, restored, "LOCK_settings"); !r.Ok || r.Value != "x" {
		t.Errorf("Get(LOCK_settings) = %+v", r)
	}
	if r := lookupGet(t, restored, "late"); r.Ok {
		t.Errorf("Get(late) = %+v, want not found", r)
	}
}

func TestRecoverFromInvalidSnapshot(t *testing.T) {
	fsm := newTestFSM()
	cmd := internal.Command{Type: internal.CommandTSet, Entries: []internal.Entry{{Key: "a", Value: "1"}}}
	if err := fsm.RecoverFromSnapshot(bytes.NewReader(cmd.Serialize()), nil, nil); err == nil {
		t.Error("expected error for snapshot that is not a SetAll command")
	}
	if err := fsm.RecoverFromSnapshot(bytes.NewReader([]byte{7}), nil, nil); err == nil {
		t.Error("expected error for truncated snapshot")
	}
}
