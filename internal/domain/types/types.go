// Package types contains result shapes shared by the service and API layers.
package types

import "github.com/okian/typerank/internal/domain/score"

// Placement is a player's position on the ranked leaderboard.
type Placement struct {
	Rank         int          `json:"rank"`
	Record       score.Record `json:"score"`
	TotalPlayers int          `json:"totalPlayers"`
}
