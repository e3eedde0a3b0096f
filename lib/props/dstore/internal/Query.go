package internal

// QueryType defines the possible queries for the state machine.
type QueryType uint8

const (
	QueryTGet    QueryType = iota // Retrieve a property by key.
	QueryTGetAll                  // Retrieve a copy of all properties.
)

func (q QueryType) String() string {
	switch q {
	case QueryTGet:
		return "Get"
	case QueryTGetAll:
		return "GetAll"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via SyncRead or StaleRead
type Query struct {
	Type QueryType // The type of Query to perform.
	Key  string    // The key for the Query (empty for GetAll).
}

// QueryResult is the result of a QueryTGet operation.
// QueryTGetAll returns a map[string]string.
type QueryResult struct {
	Ok    bool
	Value string
}
