package models

type PostIDRequest struct {
	ID string `json:"id"`
}

type SubredditRequest struct {
	Subreddit string `json:"subreddit"`
}

type KeywordRequest struct {
	Keyword string `json:"keyword"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type FrontendConfigResponse struct {
	Auth struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"auth"`
}
