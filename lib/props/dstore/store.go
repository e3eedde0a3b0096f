package dstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dProps/lib/props"
	"github.com/ValentinKolb/dProps/lib/props/dstore/internal"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	retries = 5
	log     = logger.GetLogger("store")
)

// storeImpl is the Raft replicated implementation of props.IPropertyStore.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type storeImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	timeout time.Duration
}

// NewDistributedStore creates a new distributed property store which uses raft consensus to
// order every write across multiple nodes.
func NewDistributedStore(nh *dragonboat.NodeHost, shardID uint64, timeout time.Duration) props.IPropertyStore {
	return &storeImpl{
		nh:      nh,
		shardID: shardID,
		cs:      nh.GetNoOPSession(shardID),
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// write serializes a Command and sends it via SyncPropose.
// It returns a *props.Error if an error occurs, or nil on success.
func (s *storeImpl) write(cmd internal.Command) error {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)

		res, err := s.nh.SyncPropose(ctx, s.cs, cmd.Serialize())
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			return props.NewError(props.RetCInternalError, err.Error())
		}
		if res.Value != uint64(props.RetCSuccess) {
			return props.NewError(props.RetCode(res.Value), string(res.Data))
		}
		return nil
	}
	return props.NewError(props.RetCInternalError, "timeout")
}

// read is a generic helper function that queries the state machine
// and attempts to convert the response into the expected type R.
//
// Reads always use SyncRead (linearizable). A stale read could return a lease record
// that was already replaced, which would make the verify step of the lease manager useless.
func read[R any](s *storeImpl, q internal.Query) (R, error) {
	var zero R
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res, err := s.nh.SyncRead(ctx, s.shardID, q)
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			var perr *props.Error
			if errors.As(err, &perr) {
				return zero, perr
			}
			return zero, props.NewError(props.RetCInternalError, err.Error())
		}

		casted, ok := res.(R)
		if !ok {
			return zero, props.NewError(props.RetCInternalError,
				fmt.Sprintf("unexpected type: received %T, expected %T", res, zero))
		}
		return casted, nil
	}
	return zero, props.NewError(props.RetCInternalError, "timeout")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see props/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (string, bool, error) {
	res, err := read[internal.QueryResult](s, internal.Query{
		Type: internal.QueryTGet,
		Key:  key,
	})
	if err != nil {
		return "", false, err
	}
	return res.Value, res.Ok, nil
}

func (s *storeImpl) Set(key, value string) error {
	return s.write(internal.Command{
		Type:    internal.CommandTSet,
		Entries: []internal.Entry{{Key: key, Value: value}},
	})
}

func (s *storeImpl) Delete(key string) error {
	return s.write(internal.Command{
		Type:    internal.CommandTDelete,
		Entries: []internal.Entry{{Key: key}},
	})
}

func (s *storeImpl) GetAll() (map[string]string, error) {
	return read[map[string]string](s, internal.Query{Type: internal.QueryTGetAll})
}

func (s *storeImpl) SetAll(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	return s.write(internal.NewSetAllCommand(entries))
}
