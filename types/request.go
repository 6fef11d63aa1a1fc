package types

type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ChatRequest struct {
	Question string `json:"question"`
	KBID     string `json:"kbId"`
}
