package partitioned

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// assignQueues decides the owning queue of each partition
func assignQueues(placement Placement, name string, parts int, numQueues int) []int {
	assignment := make([]int, parts)
	for i := range assignment {
		switch placement {
		case Single:
			assignment[i] = 0
		case Hashed:
			assignment[i] = int(xxhash.Sum64String(name+"/"+strconv.Itoa(i)) % uint64(numQueues))
		default:
			assignment[i] = i % numQueues
		}
	}
	return assignment
}
