package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The server uses node 1 and the worker node 2.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique int64 ID using the Snowflake algorithm.
// IDs are time-ordered and unique across distributed instances. A process
// that never called Init (tests, one-off tools) gets node 0.
func New() int64 {
	if node == nil {
		_ = Init(0)
	}
	return node.Generate().Int64()
}

// Parse reads an id from its decimal string form, as sent in URLs and JSON.
func Parse(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
