package internal

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTSet    CommandType = iota // Insert or update one property.
	CommandTDelete                    // Delete one property.
	CommandTSetAll                    // Insert or update many properties in one log entry.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTSet:
		return "Set"
	case CommandTDelete:
		return "Delete"
	case CommandTSetAll:
		return "SetAll"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// Entry is a single key–value pair carried by a Command.
type Entry struct {
	Key   string
	Value string
}

// Command represents a command to be executed by the state machine (a single entry in the raft log)
// Set and Delete carry exactly one entry (Delete ignores the value), SetAll carries any number.
type Command struct {
	Type    CommandType
	Entries []Entry
}

// NewSetAllCommand builds a SetAll command from a map. Entries are sorted by key
// so equal maps always serialize to equal bytes.
func NewSetAllCommand(entries map[string]string) Command {
	cmd := Command{
		Type:    CommandTSetAll,
		Entries: make([]Entry, 0, len(entries)),
	}
	for k, v := range entries {
		cmd.Entries = append(cmd.Entries, Entry{Key: k, Value: v})
	}
	sort.Slice(cmd.Entries, func(i, j int) bool { return cmd.Entries[i].Key < cmd.Entries[j].Key })
	return cmd
}

// headerSize is the size of the type byte plus the entry count.
const headerSize = 1 + 4

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	size := headerSize
	for _, e := range command.Entries {
		size += 4 + len(e.Key) + 4 + len(e.Value)
	}
	return size
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 4 bytes for the number of entries (big endian),
// and for every entry:
// 4 bytes for key length, N bytes key data,
// 4 bytes for value length, M bytes value data
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	result[0] = byte(command.Type)
	binary.BigEndian.PutUint32(result[1:5], uint32(len(command.Entries)))

	off := headerSize
	for _, e := range command.Entries {
		binary.BigEndian.PutUint32(result[off:off+4], uint32(len(e.Key)))
		off += 4
		off += copy(result[off:], e.Key)

		binary.BigEndian.PutUint32(result[off:off+4], uint32(len(e.Value)))
		off += 4
		off += copy(result[off:], e.Value)
	}

	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])
	count := binary.BigEndian.Uint32(data[1:5])

	// Every entry needs at least its two length fields
	if uint64(count)*8 > uint64(len(data)-headerSize) {
		return fmt.Errorf("data too short for %d entries", count)
	}

	// Reuse existing buffer if possible to reduce allocations
	if cap(command.Entries) < int(count) {
		command.Entries = make([]Entry, 0, count)
	} else {
		command.Entries = command.Entries[:0]
	}

	off := headerSize
	for i := uint32(0); i < count; i++ {
		key, next, err := readString(data, off)
		if err != nil {
			return fmt.Errorf("entry %d key: %w", i, err)
		}
		value, next, err := readString(data, next)
		if err != nil {
			return fmt.Errorf("entry %d value: %w", i, err)
		}
		command.Entries = append(command.Entries, Entry{Key: key, Value: value})
		off = next
	}

	if off != len(data) {
		return fmt.Errorf("%d trailing bytes after command", len(data)-off)
	}
	return nil
}

// readString reads a length prefixed string at off and returns it with the offset after it.
func readString(data []byte, off int) (string, int, error) {
	if len(data) < off+4 {
		return "", 0, fmt.Errorf("data too short for length field")
	}
	n := int(binary.BigEndian.Uint32(data[off : off+4]))
	off += 4
	if len(data) < off+n {
		return "", 0, fmt.Errorf("data too short for string of length %d", n)
	}
	return string(data[off : off+n]), off + n, nil
}
