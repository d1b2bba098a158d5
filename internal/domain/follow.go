package domain

import "time"

// Follow is a directed edge in the follower graph.
// (FollowerID, FollowingID) is unique and self-edges are rejected.
type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowCounts aggregates the follow state of one profile as seen by a viewer.
type FollowCounts struct {
	Followers   int  `json:"followers"`
	Following   int  `json:"following"`
	ViewerFollows bool `json:"viewer_follows"`
}
