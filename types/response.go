package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResponse struct {
	File       *FileRecord `json:"file"`
	ChunkCount int         `json:"chunkCount"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
