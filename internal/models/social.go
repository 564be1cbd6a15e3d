package models

// Follow is a directed edge; the composite key is the only duplicate guard,
// and nothing prevents a self-follow.
type Follow struct {
	FollowerID  uint `json:"followerId" gorm:"column:follower_id;primaryKey"`
	FollowingID uint `json:"followingId" gorm:"column:following_id;primaryKey"`
}

// The original schema created this table under the name "followers".
func (Follow) TableName() string {
	return "followers"
}

// Star bookmarks a post for a user.
type Star struct {
	PostID uint `json:"postId" gorm:"column:post_id;primaryKey"`
	UserID uint `json:"userId" gorm:"column:user_id;primaryKey"`
}
