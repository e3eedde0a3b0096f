package internal

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name: "Set with key and value",
			command: Command{
				Type:    CommandTSet,
				Entries: []Entry{{Key: "testkey", Value: "testvalue"}},
			},
			expected: 1 + 4 + 4 + 7 + 4 + 9, // Type + Count + KeyLen + Key + ValueLen + Value
		},
		{
			name:     "SetAll without entries",
			command:  Command{Type: CommandTSetAll},
			expected: 1 + 4,
		},
		{
			name: "SetAll with two entries",
			command: Command{
				Type:    CommandTSetAll,
				Entries: []Entry{{Key: "a", Value: "1"}, {Key: "bb", Value: ""}},
			},
			expected: 1 + 4 + (4 + 1 + 4 + 1) + (4 + 2 + 4 + 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := tt.command.SizeBytes()
			if size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name: "Set",
			command: Command{
				Type:    CommandTSet,
				Entries: []Entry{{Key: "LOCK_settings", Value: `{"ownerId":"abc","expiresAt":1700000000000}`}},
			},
		},
		{
			name: "Delete without value",
			command: Command{
				Type:    CommandTDelete,
				Entries: []Entry{{Key: "settings"}},
			},
		},
		{
			name: "Empty key",
			command: Command{
				Type:    CommandTSet,
				Entries: []Entry{{Key: "", Value: "v"}},
			},
		},
		{
			name:    "SetAll from map",
			command: NewSetAllCommand(map[string]string{"b": "2", "a": "1", "c": "3"}),
		},
		{
			name: "Unicode key",
			command: Command{
				Type:    CommandTSet,
				Entries: []Entry{{Key: "你好世界", Value: "unicode test"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()

			var newCommand Command
			if err := newCommand.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}

			if newCommand.Type != tt.command.Type {
				t.Errorf("Type mismatch: got %v, want %v", newCommand.Type, tt.command.Type)
			}
			if len(newCommand.Entries) != len(tt.command.Entries) {
				t.Fatalf("Entry count mismatch: got %d, want %d", len(newCommand.Entries), len(tt.command.Entries))
			}
			for i := range tt.command.Entries {
				if newCommand.Entries[i] != tt.command.Entries[i] {
					t.Errorf("Entry %d mismatch: got %+v, want %+v", i, newCommand.Entries[i], tt.command.Entries[i])
				}
			}

			if tt.command.SizeBytes() != len(data) {
				t.Errorf("SizeBytes() = %d, but serialized data length = %d",
					tt.command.SizeBytes(), len(data))
			}
		})
	}
}

func TestNewSetAllCommandIsSorted(t *testing.T) {
	cmd := NewSetAllCommand(map[string]string{"z": "1", "m": "2", "a": "3"})
	want := []string{"a", "m", "z"}
	for i, e := range cmd.Entries {
		if e.Key != want[i] {
			t.Errorf("entry %d: got key %q, want %q", i, e.Key, want[i])
		}
	}
	other := NewSetAllCommand(map[string]string{"a": "3", "z": "1", "m": "2"})
	if !bytes.Equal(cmd.Serialize(), other.Serialize()) {
		t.Error("equal maps should serialize to equal bytes")
	}
}

// TestDeserializeErrors tests error cases in Deserialize
func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedErr string
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectedErr: "data too short for command",
		},
		{
			name: "Entry count exceeds data",
			data: func() []byte {
				data := make([]byte, 5)
				data[0] = byte(CommandTSetAll)
				binary.BigEndian.PutUint32(data[1:5], 3)
				return data
			}(),
			expectedErr: "data too short for 3 entries",
		},
		{
			name: "Invalid key length",
			data: func() []byte {
				data := make([]byte, 13)
				data[0] = byte(CommandTSet)
				binary.BigEndian.PutUint32(data[1:5], 1)
				binary.BigEndian.PutUint32(data[5:9], 1000)
				return data
			}(),
			expectedErr: "entry 0 key: data too short for string of length 1000",
		},
		{
			name: "Trailing bytes",
			data: func() []byte {
				cmd := Command{Type: CommandTSet, Entries: []Entry{{Key: "k", Value: "v"}}}
				return append(cmd.Serialize(), 0xff)
			}(),
			expectedErr: "1 trailing bytes after command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd Command
			err := cmd.Deserialize(tt.data)
			if err == nil {
				t.Fatalf("Expected error but got nil")
			}
			if err.Error() != tt.expectedErr {
				t.Errorf("Expected error %q, got %q", tt.expectedErr, err.Error())
			}
		})
	}
}

// TestBinaryFormat tests the exact binary format of serialized commands
func TestBinaryFormat(t *testing.T) {
	cmd := Command{
		Type:    CommandTSet,
		Entries: []Entry{{Key: "testkey", Value: "testvalue"}},
	}

	expected := make([]byte, cmd.SizeBytes())
	expected[0] = byte(CommandTSet)
	binary.BigEndian.PutUint32(expected[1:5], 1)
	binary.BigEndian.PutUint32(expected[5:9], 7)
	copy(expected[9:16], "testkey")
	binary.BigEndian.PutUint32(expected[16:20], 9)
	copy(expected[20:], "testvalue")

	serialized := cmd.Serialize()
	if !bytes.Equal(serialized, expected) {
		t.Errorf("Binary format does not match:\nGot:      %v\nExpected: %v", serialized, expected)
	}
}
