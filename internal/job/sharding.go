package job

import (
	"hash/fnv"
	"strconv"
)

// ShardLabel hashes a log source to a stable, low cardinality metric label (0-31).
func ShardLabel(source string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(source))
	return strconv.FormatUint(uint64(h.Sum32()%32), 10)
}
