package domain

// ListInput pages the documents list
type ListInput struct {
	Page     int `json:"page" example:"1"`
	PageSize int `json:"page_size" example:"20"`
}

// ListResult is one page of documents
type ListResult struct {
	Items    []Document `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// AnalysisInput submits a pasted transcript
type AnalysisInput struct {
	Name       string `json:"name" validate:"notblank,max=300" example:"Q1 Review"`
	Transcript string `json:"transcript" validate:"notblank,max=1000000" example:"Cliente relata falha no boleto"`
}

// UploadInput describes an uploaded file; the body travels separately
type UploadInput struct {
	Name     string `validate:"notblank,max=300"`
	Type     string `validate:"oneof=MEDIA FILE"`
	Filename string `validate:"notblank"`
	Size     int64  `validate:"min=1"`
}

// AnalysisResult is what the analysis engine answered
type AnalysisResult struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Feedback types
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

// FeedbackInput rates one occurrence analysis
type FeedbackInput struct {
	OccurrenceID    int64  `json:"occurrence_id" validate:"required,min=1" example:"42"`
	FeedbackType    string `json:"feedback_type" validate:"required,oneof=positive negative" example:"negative"`
	FeedbackContent string `json:"feedback_content" validate:"max=5000" example:"Categoria errada"`
}

// FeedbackResult echoes the engine acknowledgement
type FeedbackResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
