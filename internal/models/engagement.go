package models

// EngagementSummary aggregates a post's engagement at read time. Likes,
// bookmarks and comments are counted from the authoritative record tables,
// never read from a denormalized counter; views come from the post's stored
// counter.
type EngagementSummary struct {
	Likes     int64 `json:"likes"`
	Bookmarks int64 `json:"bookmarks"`
	Comments  int64 `json:"comments"`
	Views     int64 `json:"views"`
}

// UserEngagement is the requesting user's own engagement state for a post.
type UserEngagement struct {
	HasLiked      bool `json:"has_liked"`
	HasBookmarked bool `json:"has_bookmarked"`
}
