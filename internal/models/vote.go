package models

// Vote is a join row marking that a user upvoted a post.
// Its identity is the composite (user_id, post_id) key; presence means
// "voted", absence means "not voted".
type Vote struct {
	UserID int64 `json:"user_id"`
	PostID int64 `json:"post_id"`
}
