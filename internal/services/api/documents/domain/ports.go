package domain

import (
	"context"
	"io"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, in ListInput) (ListResult, error)
	Get(ctx context.Context, id int64) (Document, error)
	Recent(ctx context.Context) ([]Document, error)
	SubmitTranscript(ctx context.Context, in AnalysisInput) (AnalysisResult, error)
	SubmitFile(ctx context.Context, in UploadInput, file io.Reader) (AnalysisResult, error)
	SendFeedback(ctx context.Context, in FeedbackInput) (FeedbackResult, error)
}
