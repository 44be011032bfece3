// Package service implements document listing, analysis submission and feedback
package service

import (
	"context"
	"io"
	"strings"
	"time"

	"bluebird/internal/adapters/events"
	"bluebird/internal/adapters/n8n"
	"bluebird/internal/core/query"
	"bluebird/internal/modkit/repokit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/metrics"
	"bluebird/internal/platform/net/http/bind"
	"bluebird/internal/services/api/documents/domain"
	"bluebird/internal/services/api/documents/repo"

	"github.com/google/uuid"
)

// DefaultFeedSize is how many documents the realtime feed keeps
const DefaultFeedSize = 50

// Analyzer is the slice of the analysis engine client the service uses
type Analyzer interface {
	SubmitTranscript(ctx context.Context, name, transcript string) (n8n.Submission, error)
	SubmitFile(ctx context.Context, name, kind, filename string, file io.Reader) (n8n.Submission, error)
	SendFeedback(ctx context.Context, fb n8n.Feedback) (n8n.FeedbackAck, error)
}

// Option configures the service
type Option func(*Svc)

// WithEvents sets the event emitter
func WithEvents(e events.Emitter) Option {
	return func(s *Svc) {
		if e != nil {
			s.events = e
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// Svc implements domain.ServicePort
type Svc struct {
	Repo    repo.Repo
	engine  Analyzer
	events  events.Emitter
	metrics *metrics.Metrics
	feed    *Feed
}

// New constructs the documents service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], engine Analyzer, opts ...Option) *Svc {
	if db == nil {
		panic("documents.Service requires a non nil TxRunner")
	}
	if binder == nil || engine == nil {
		panic("documents.Service requires a Repo binder and an Analyzer")
	}
	s := &Svc{
		Repo:   binder.Bind(db),
		engine: engine,
		events: events.Nop{},
		feed:   NewFeed(DefaultFeedSize),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Feed exposes the realtime list
func (s *Svc) Feed() *Feed { return s.feed }

// List returns one page ordered by created_at desc
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	size := in.PageSize
	if size == 0 {
		size = DefaultFeedSize
	}
	pg, err := query.ParsePage(in.Page, size)
	if err != nil {
		return domain.ListResult{}, err
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return domain.ListResult{}, err
	}
	items := []domain.Document{}
	if pg.Offset() < total {
		if items, err = s.Repo.List(ctx, pg.Size, pg.Offset()); err != nil {
			return domain.ListResult{}, err
		}
	}
	return domain.ListResult{Items: items, Total: total, Page: pg.Number, PageSize: pg.Size}, nil
}

// Get returns one document
func (s *Svc) Get(ctx context.Context, id int64) (domain.Document, error) {
	if id <= 0 {
		return domain.Document{}, perr.WithField(perr.InvalidArgf("id must be positive"), "id")
	}
	return s.Repo.Get(ctx, id)
}

// Recent returns the realtime list, loading the first page on first use
func (s *Svc) Recent(ctx context.Context) ([]domain.Document, error) {
	if !s.feed.Seeded() {
		docs, err := s.Repo.List(ctx, s.feed.limit, 0)
		if err != nil {
			return nil, err
		}
		s.feed.Seed(docs)
	}
	return s.feed.Items(), nil
}

// SubmitTranscript sends pasted text to the analysis engine
func (s *Svc) SubmitTranscript(ctx context.Context, in domain.AnalysisInput) (domain.AnalysisResult, error) {
	if err := bind.Validate(in); err != nil {
		return domain.AnalysisResult{}, err
	}
	sub, err := s.engine.SubmitTranscript(ctx, strings.TrimSpace(in.Name), in.Transcript)
	return s.submitted(ctx, domain.OriginTranscript, sub, err)
}

// SubmitFile streams an uploaded file to the analysis engine
func (s *Svc) SubmitFile(ctx context.Context, in domain.UploadInput, file io.Reader) (domain.AnalysisResult, error) {
	if in.Type == "" {
		in.Type = domain.OriginMedia
	}
	if err := bind.Validate(in); err != nil {
		return domain.AnalysisResult{}, err
	}
	uploadID := uuid.NewString()
	start := time.Now()
	sub, err := s.engine.SubmitFile(ctx, strings.TrimSpace(in.Name), in.Type, in.Filename, file)
	logger.C(ctx).Info().
		Str("upload_id", uploadID).
		Str("filename", in.Filename).
		Int64("bytes", in.Size).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("analysis upload")
	return s.submitted(ctx, in.Type, sub, err)
}

func (s *Svc) submitted(ctx context.Context, kind string, sub n8n.Submission, err error) (domain.AnalysisResult, error) {
	if err != nil {
		s.metrics.AnalysisSubmitted(kind, "error")
		return domain.AnalysisResult{}, err
	}
	s.metrics.AnalysisSubmitted(kind, "ok")
	res := domain.AnalysisResult{ID: int64(sub.ID), Status: sub.Status, Message: sub.Message}
	s.events.Emit(ctx, events.DocumentSubmitted, events.DocumentRef{ID: res.ID, Status: res.Status})
	return res, nil
}

// SendFeedback forwards a rating. A negative rating needs a comment
func (s *Svc) SendFeedback(ctx context.Context, in domain.FeedbackInput) (domain.FeedbackResult, error) {
	if err := bind.Validate(in); err != nil {
		return domain.FeedbackResult{}, err
	}
	content := strings.TrimSpace(in.FeedbackContent)
	if in.FeedbackType == domain.FeedbackNegative && content == "" {
		return domain.FeedbackResult{}, perr.WithField(
			perr.Validationf("a negative rating needs a comment"), "feedback_content")
	}
	ack, err := s.engine.SendFeedback(ctx, n8n.Feedback{
		OccurrenceID:    in.OccurrenceID,
		FeedbackType:    in.FeedbackType,
		FeedbackContent: content,
	})
	if err != nil {
		return domain.FeedbackResult{}, err
	}
	s.events.Emit(ctx, events.FeedbackSent, map[string]any{"occurrence_id": in.OccurrenceID, "type": in.FeedbackType})
	return domain.FeedbackResult{Success: ack.Success, Message: ack.Message}, nil
}

// Follow keeps the feed current from document events until ctx ends or ch closes
func (s *Svc) Follow(ctx context.Context, ch <-chan events.Event) {
	log := logger.Named("documents.feed")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			ref, ok := ev.Data.(events.DocumentRef)
			if !ok || ref.ID <= 0 {
				continue
			}
			switch ev.Type {
			case events.DocumentInserted, events.DocumentStatus, events.DocumentSubmitted:
			default:
				continue
			}
			doc, err := s.Repo.Get(ctx, ref.ID)
			switch {
			case perr.IsCode(err, perr.ErrorCodeNotFound):
				s.feed.Apply(domain.Change{Kind: domain.ChangeDelete, Document: domain.Document{ID: ref.ID}})
			case err != nil:
				log.Warn().Err(err).Int64("document_id", ref.ID).Msg("feed refresh failed")
			default:
				s.feed.Apply(domain.Change{Kind: domain.ChangeUpsert, Document: doc})
			}
		}
	}
}
