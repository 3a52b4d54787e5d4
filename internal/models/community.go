package models

// Comment is one entry in a post's append-only comment list.
type Comment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	UserAvatar string `json:"userAvatar,omitempty"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

// CommunityPost is a scan result shared to the community feed.
//
// Likes holds user ids; membership implies "liked" and a user id appears at
// most once. Comments are append-only, ordered by insertion.
type CommunityPost struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	UserAvatar    string    `json:"userAvatar,omitempty"`
	Type          ItemType  `json:"type"`
	Timestamp     int64     `json:"timestamp"`
	IsAIGenerated bool      `json:"isAIGenerated"`
	Confidence    float64   `json:"confidence"`
	Preview       string    `json:"preview,omitempty"`
	Description   string    `json:"description,omitempty"`
	Likes         []string  `json:"likes"`
	Comments      []Comment `json:"comments"`
	Metadata      *Metadata `json:"metadata,omitempty"`
}

// LikedBy reports whether the given user id is in the post's like set.
func (p *CommunityPost) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
