package redis

import (
	"fmt"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

// Key prefix for all account data
const keyPrefix = "shirimatch"

// nextPlayerIDKey returns the Redis key for the player id counter
func nextPlayerIDKey() string {
	return fmt.Sprintf("%s:next_player_id", keyPrefix)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// nameIndexKey returns the Redis key for the name -> player_id index
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, name)
}

// tokenIndexKey returns the Redis key for the token -> player_id index
func tokenIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:token:%s", keyPrefix, token)
}
