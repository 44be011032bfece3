// Package http provides http transport for documents
package http

import (
	"errors"
	stdhttp "net/http"
	"strings"

	"bluebird/internal/modkit/httpkit"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/services/api/documents/domain"
)

// MaxUpload is the largest file accepted for analysis
const MaxUpload = 100 << 20

// form parts beyond this spill to disk
const memoryLimit = 32 << 20

// Register mounts document endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/feed", h.recent)
	httpkit.Get(r, "/{id}", h.get)

	httpkit.PostJSON[domain.AnalysisInput](r, "/analyses", h.submit)
	httpkit.Post(r, "/analyses/upload", h.upload)
	httpkit.PostJSON[domain.FeedbackInput](r, "/feedback", h.feedback)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /documents Documents documentsList
// @Summary List documents, newest first
// @Tags Documents
// @Produce json
// @Param page query int false "Page, 1-based"
// @Param page_size query int false "Page size"
// @Success 200 {array} domain.Document "ok"
// @Router /documents [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	page, err := httpkit.QueryInt(r, "page", 1)
	if err != nil {
		return nil, err
	}
	size, err := httpkit.QueryInt(r, "page_size", 0)
	if err != nil {
		return nil, err
	}
	res, err := h.svc.List(r.Context(), domain.ListInput{Page: page, PageSize: size})
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Items, res.Total, res.Page, res.PageSize, ""), nil
}

// @Summary Realtime documents list
// @Tags Documents
// @Produce json
// @Success 200 {array} domain.Document "ok"
// @Router /documents/feed [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	return h.svc.Recent(r.Context())
}

// @Summary Get one document
// @Tags Documents
// @Produce json
// @Param id path int true "Document id"
// @Success 200 {object} domain.Document "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /documents/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// swagger:route POST /documents/analyses Documents documentsSubmit
// @Summary Submit a transcript for analysis
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.AnalysisInput true "Transcript"
// @Success 201 {object} domain.AnalysisResult "accepted by the engine"
// @Failure 503 {object} httpkit.Envelope "engine unavailable"
// @Router /documents/analyses [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.AnalysisInput) (any, error) {
	res, err := h.svc.SubmitTranscript(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

// swagger:route POST /documents/analyses/upload Documents documentsUpload
// @Summary Upload a media or document file for analysis
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Analysis name"
// @Param type formData string false "MEDIA or FILE"
// @Param file formData file true "File, at most 100 MB"
// @Success 201 {object} domain.AnalysisResult "accepted by the engine"
// @Router /documents/analyses/upload [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	if r.ContentLength > MaxUpload+memoryLimit {
		return nil, tooLarge()
	}
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, MaxUpload+(1<<20))
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var mbe *stdhttp.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge()
		}
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "expected a multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, perr.WithField(perr.Validationf("file is required"), "file")
	}
	defer func() { _ = file.Close() }()
	if hdr.Size > MaxUpload {
		return nil, tooLarge()
	}

	in := domain.UploadInput{
		Name:     r.FormValue("name"),
		Type:     strings.ToUpper(strings.TrimSpace(r.FormValue("type"))),
		Filename: hdr.Filename,
		Size:     hdr.Size,
	}
	res, err := h.svc.SubmitFile(r.Context(), in, file)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

func tooLarge() error {
	return perr.WithField(perr.Validationf("file exceeds 100 MB"), "file")
}

// swagger:route POST /documents/feedback Documents documentsFeedback
// @Summary Rate the analysis of one occurrence
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.FeedbackInput true "Rating"
// @Success 200 {object} domain.FeedbackResult "ok"
// @Failure 400 {object} httpkit.Envelope "negative without comment"
// @Router /documents/feedback [post]
func (h *handlers) feedback(r *stdhttp.Request, in domain.FeedbackInput) (any, error) {
	return h.svc.SendFeedback(r.Context(), in)
}
