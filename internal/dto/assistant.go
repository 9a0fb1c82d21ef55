package dto

// AskRequest is the JSON body for POST /assistant.
type AskRequest struct {
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// AskResponse carries the model's reply.
type AskResponse struct {
	Reply string `json:"reply"`
}

// SuggestionsResponse lists the canned prompts.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
