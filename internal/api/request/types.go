package request

// VoteRequest is the request body for casting a vote
type VoteRequest struct {
	Direction string `json:"direction"`
}
