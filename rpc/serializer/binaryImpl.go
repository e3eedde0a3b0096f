package serializer

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/ValentinKolb/dProps/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format.
//
// Layout: 1 byte MsgType, 1 byte flags, then every present field in flag order.
// Strings are prefixed with a 4 byte length, numbers are 8 byte big endian and
// Entries is a 4 byte count followed by key/value string pairs sorted by key.
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey     byte = 1 << 0
	hasValue   byte = 1 << 1
	hasEntries byte = 1 << 2
	hasTTL     byte = 1 << 3
	hasOwner   byte = 1 << 4
	hasCount   byte = 1 << 5
	hasOk      byte = 1 << 6
	hasErr     byte = 1 << 7
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, 2, b.sizeBytes(msg))
	result[0] = byte(msg.MsgType)

	var flags byte
	if msg.Key != "" {
		flags |= hasKey
		result = appendString(result, msg.Key)
	}
	if msg.Value != "" {
		flags |= hasValue
		result = appendString(result, msg.Value)
	}
	if msg.Entries != nil {
		flags |= hasEntries
		keys := make([]string, 0, len(msg.Entries))
		for k := range msg.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result = binary.BigEndian.AppendUint32(result, uint32(len(keys)))
		for _, k := range keys {
			result = appendString(result, k)
			result = appendString(result, msg.Entries[k])
		}
	}
	if msg.TTLMillis > 0 {
		flags |= hasTTL
		result = binary.BigEndian.AppendUint64(result, msg.TTLMillis)
	}
	if msg.Owner != "" {
		flags |= hasOwner
		result = appendString(result, msg.Owner)
	}
	if msg.Count > 0 {
		flags |= hasCount
		result = binary.BigEndian.AppendUint64(result, msg.Count)
	}
	if msg.Ok {
		flags |= hasOk
	}
	if msg.Err != "" {
		flags |= hasErr
		result = appendString(result, msg.Err)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	*msg = common.Message{MsgType: common.MessageType(data[0])}
	flags := data[1]
	r := reader{data: data, pos: 2}

	var err error
	if flags&hasKey != 0 {
		if msg.Key, err = r.string("key"); err != nil {
			return err
		}
	}
	if flags&hasValue != 0 {
		if msg.Value, err = r.string("value"); err != nil {
			return err
		}
	}
	if flags&hasEntries != 0 {
		if msg.Entries, err = r.entries(); err != nil {
			return err
		}
	}
	if flags&hasTTL != 0 {
		if msg.TTLMillis, err = r.uint64("ttl"); err != nil {
			return err
		}
	}
	if flags&hasOwner != 0 {
		if msg.Owner, err = r.string("owner"); err != nil {
			return err
		}
	}
	if flags&hasCount != 0 {
		if msg.Count, err = r.uint64("count"); err != nil {
			return err
		}
	}
	msg.Ok = flags&hasOk != 0
	if flags&hasErr != 0 {
		if msg.Err, err = r.string("error"); err != nil {
			return err
		}
	}

	if r.pos != len(data) {
		return fmt.Errorf("%d trailing bytes after message", len(data)-r.pos)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != "" {
		size += 4 + len(msg.Value)
	}
	if msg.Entries != nil {
		size += 4
		for k, v := range msg.Entries {
			size += 8 + len(k) + len(v)
		}
	}
	if msg.TTLMillis > 0 {
		size += 8
	}
	if msg.Owner != "" {
		size += 4 + len(msg.Owner)
	}
	if msg.Count > 0 {
		size += 8
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

func appendString(dst []byte, s string) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// reader reads length prefixed fields from a serialized message
type reader struct {
	data []byte
	pos  int
}

func (r *reader) string(field string) (string, error) {
	if r.pos+4 > len(r.data) {
		return "", fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(r.data[r.pos : r.pos+4]))
	r.pos += 4

	if n > len(r.data)-r.pos {
		return "", fmt.Errorf("data too short for %s data", field)
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

func (r *reader) uint64(field string) (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("data too short for %s", field)
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) entries() (map[string]string, error) {
	if r.pos+4 > len(r.data) {
		return nil, fmt.Errorf("data too short for entry count")
	}
	n := int(binary.BigEndian.Uint32(r.data[r.pos : r.pos+4]))
	r.pos += 4

	// every entry needs at least two length prefixes
	if n > (len(r.data)-r.pos)/8 {
		return nil, fmt.Errorf("data too short for %d entries", n)
	}

	entries := make(map[string]string, n)
	for i := 0; i < n; i++ {
		k, err := r.string(fmt.Sprintf("entry %d key", i))
		if err != nil {
			return nil, err
		}
		v, err := r.string(fmt.Sprintf("entry %d value", i))
		if err != nil {
			return nil, err
		}
		entries[k] = v
	}
	return entries, nil
}
