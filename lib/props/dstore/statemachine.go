package dstore

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// PropsStateMachine is a state machine implementation for Dragonboat RAFT.
// It holds the properties of one shard in a plain map guarded by a RWMutex,
// since dragonboat calls Lookup concurrently with Update.
type PropsStateMachine struct {
	replicaID uint64
	shardID   uint64

	mu   sync.RWMutex
	data map[string]string
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new
// state machine for a node host.
func CreateStateMachineFactory() func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &PropsStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			data:      make(map[string]string),
		}
	}
}

// Lookup handles read-only queries.
func (fsm *PropsStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, props.NewError(props.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	fsm.mu.RLock()
	defer fsm.mu.RUnlock()

	switch q.Type {
	case internal.QueryTGet:
		val, ok := fsm.data[q.Key]
		return internal.QueryResult{
			Value: val,
			Ok:    ok,
		}, nil
	case internal.QueryTGetAll:
		entries := make(map[string]string, len(fsm.data))
		for k, v := range fsm.data {
			entries[k] = v
		}
		return entries, nil
	default:
		return nil, props.NewError(props.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// Update handles write commands.
// All write operations are serialized into []byte and are accessible via the entries struct
func (fsm *PropsStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	start := time.Now()

	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	cmd := internal.Command{}
	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = sm.Result{Value: uint64(props.RetCInvalidOperation), Data: []byte("empty command ignored")}
			continue
		}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{
				Value: uint64(props.RetCInternalError),
				Data:  []byte(fmt.Sprintf("failed to deserialize command: %v", err)),
			}
			continue
		}
		entries[idx].Result = fsm.apply(&cmd)
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update. Batch updated %d entries, took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

// apply executes a single command. The caller must hold the write lock.
func (fsm *PropsStateMachine) apply(cmd *internal.Command) sm.Result {
	switch cmd.Type {
	case internal.CommandTSet, internal.CommandTDelete:
		if len(cmd.Entries) != 1 {
			return sm.Result{
				Value: uint64(props.RetCInvalidOperation),
				Data:  []byte(fmt.Sprintf("%s needs exactly one entry, got %d", cmd.Type, len(cmd.Entries))),
			}
		}
		e := cmd.Entries[0]
		if cmd.Type == internal.CommandTSet {
			fsm.data[e.Key] = e.Value
			return sm.Result{Value: uint64(props.RetCSuccess), Data: []byte(fmt.Sprintf("set: key=%s", e.Key))}
		}
		delete(fsm.data, e.Key)
		return sm.Result{Value: uint64(props.RetCSuccess), Data: []byte(fmt.Sprintf("deleted key=%s", e.Key))}
	case internal.CommandTSetAll:
		for _, e := range cmd.Entries {
			fsm.data[e.Key] = e.Value
		}
		return sm.Result{Value: uint64(props.RetCSuccess), Data: []byte(fmt.Sprintf("setAll: keys=%d", len(cmd.Entries)))}
	default:
		return sm.Result{
			Value: uint64(props.RetCInvalidOperation),
			Data:  []byte(fmt.Sprintf("unknown Command operation: %s", cmd.Type)),
		}
	}
}

// PrepareSnapshot captures the current properties as a SetAll command.
// SaveSnapshot then writes it without holding the lock.
func (fsm *PropsStateMachine) PrepareSnapshot() (interface{}, error) {
	fsm.mu.RLock()
	defer fsm.mu.RUnlock()
	return internal.NewSetAllCommand(fsm.data), nil
}

// SaveSnapshot writes the command captured by PrepareSnapshot to the writer.
func (fsm *PropsStateMachine) SaveSnapshot(ctx interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	cmd, ok := ctx.(internal.Command)
	if !ok {
		return fmt.Errorf("invalid snapshot context type: %T", ctx)
	}
	_, err := writer.Write(cmd.Serialize())
	return err
}

// RecoverFromSnapshot replaces the state with the properties read from r.
func (fsm *PropsStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	cmd := internal.Command{}
	if err := cmd.Deserialize(data); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if cmd.Type != internal.CommandTSetAll {
		return fmt.Errorf("invalid snapshot: unexpected command %s", cmd.Type)
	}

	restored := make(map[string]string, len(cmd.Entries))
	for _, e := range cmd.Entries {
		restored[e.Key] = e.Value
	}

	fsm.mu.Lock()
	fsm.data = restored
	fsm.mu.Unlock()
	return nil
}

// Close performs any necessary cleanup.
func (fsm *PropsStateMachine) Close() error {
	return nil
}
