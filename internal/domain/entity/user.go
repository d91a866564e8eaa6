package entity

// UserSummary is the denormalized slice of a user that chat payloads embed.
type UserSummary struct {
	ID        string `json:"_id"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ProductSummary is the denormalized product snapshot a chat is about.
type ProductSummary struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Images []string `json:"images,omitempty"`
}
