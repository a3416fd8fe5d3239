package redis

import "fmt"

// Key prefix for all crowdsnake data
const keyPrefix = "crowdsnake"

// ticksKey returns the Redis key for the tick history list, newest at the head
func ticksKey() string {
	return fmt.Sprintf("%s:ticks", keyPrefix)
}
