package dto

// CreatePostRequest represents the payload for creating or replacing a post
type CreatePostRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Published *bool  `json:"published,omitempty"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	OwnerID   int64  `json:"owner_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PostWithVotes pairs a post with its aggregated vote count in list output
type PostWithVotes struct {
	Post  PostResponse `json:"post"`
	Votes int64        `json:"votes"`
}
