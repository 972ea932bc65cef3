package dto

// VoteRequest casts or withdraws an upvote. Dir 1 adds a vote, 0 removes it.
type VoteRequest struct {
	PostID int64 `json:"post_id" validate:"required"`
	Dir    int   `json:"dir" validate:"lte=1"`
}
