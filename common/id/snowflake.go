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
// Calling New before Init uses node 0.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID.
func New() int64 {
	_ = Init(0)
	return node.Generate().Int64()
}

// NewString returns prefix-<id>, the form used for threat and news item identifiers.
func NewString(prefix string) string {
	return prefix + "-" + strconv.FormatInt(New(), 10)
}
