// Package handler is the thin HTTP layer over the curation service. It
// decodes requests, resolves actor identity and community membership, and
// delegates; no business logic lives here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tapestry/internal/curation/membership"
	"tapestry/internal/curation/models"
	"tapestry/internal/curation/service"
	"tapestry/internal/curation/store"
	"tapestry/internal/platform/middleware"
	id "tapestry/pkg/domain"
	dErrors "tapestry/pkg/domain-errors"
	"tapestry/pkg/requestcontext"
)

type Handler struct {
	service      *service.Service
	members      membership.Resolver
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(svc *service.Service, members membership.Resolver, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      svc,
		members:      members,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the curation routes.
func (h *Handler) Register(r chi.Router) {
	cr := chi.NewRouter()
	cr.Use(middleware.Recovery(h.logger))
	cr.Use(middleware.RequestID)
	cr.Use(middleware.RequestTime)
	cr.Use(middleware.Logger(h.logger))
	cr.Use(middleware.Timeout(30 * time.Second))

	// Reads need no identity.
	cr.Get("/records/{id}", h.handleGetRecord)
	cr.Get("/records/{id}/consensus", h.handleConsensus)
	cr.Get("/published", h.handleQueryPublished)
	cr.Get("/report", h.handleReport)

	// Mutations carry actor identity from the bearer token.
	cr.Group(func(g chi.Router) {
		g.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		g.Post("/records", h.handleSubmit)
		g.Post("/records/{id}/sources", h.handleAddSource)
		g.Post("/records/{id}/keeper-consultations", h.handleConsultKeeper)
		g.Post("/records/{id}/expert-validations", h.handleExpertValidation)
		g.Post("/records/{id}/reviews", h.handleCommunityReview)
		g.Post("/records/{id}/assign-validators", h.handleAssignValidators)
		g.Post("/records/{id}/decision", h.handleDecision)
	})

	r.Mount("/curation", cr)
}

func (h *Handler) recordID(r *http.Request) (id.RecordID, error) {
	return id.ParseRecordID(chi.URLParam(r, "id"))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitCurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	subjectID, err := id.ParseSubjectID(req.SubjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	sensitivity, err := models.ParseSensitivity(req.Sensitivity)
	if err != nil {
		writeError(w, err)
		return
	}

	elements := make([]models.TraditionalElement, 0, len(req.TraditionalElements))
	for _, e := range req.TraditionalElements {
		elements = append(elements, models.TraditionalElement{
			Element:         e.Element,
			AuthenticityTag: e.AuthenticityTag,
		})
	}

	result, err := h.service.SubmitCurationRequest(ctx, service.SubmitCurationInput{
		SubjectID:            subjectID,
		SubmitterID:          requestcontext.ActorID(ctx),
		Sensitivity:          sensitivity,
		Culture:              req.Culture,
		TraditionalElements:  elements,
		RequiresConsultation: req.RequiresConsultation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "curation submit failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestsResponse{
		Record:   result.Record,
		Requests: result.Requests,
		Warnings: result.Warnings,
	})
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.service.GetRecord(r.Context(), recordID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: record})
}

func (h *Handler) handleAddSource(w http.ResponseWriter, r *http.Request) {
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req addSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	record, err := h.service.AddHistoricalSource(r.Context(), recordID, req.SourceID, req.Reliability)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: record})
}

func (h *Handler) handleConsultKeeper(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req keeperConsultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	record, err := h.service.ConsultKnowledgeKeeper(ctx, recordID, requestcontext.ActorID(ctx), req.Community, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: record})
}

func (h *Handler) handleExpertValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req expertValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	record, err := h.service.SubmitExpertValidation(ctx, recordID, models.ExpertConsultation{
		ExpertID:   requestcontext.ActorID(ctx),
		ExpertType: models.ValidatorRole(req.ExpertType),
		Confidence: req.Confidence,
		Findings:   req.Findings,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: record})
}

func (h *Handler) handleCommunityReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req communityReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reviewerID := id.ReviewerID(requestcontext.ActorID(ctx))

	// Membership comes from the identity directory at submission time; the
	// aggregator never invents it.
	record, err := h.service.GetRecord(ctx, recordID)
	if err != nil {
		writeError(w, err)
		return
	}
	member, err := h.members.IsCommunityMember(ctx, reviewerID, record.Culture)
	if err != nil {
		h.logger.WarnContext(ctx, "membership resolution failed", "reviewer_id", reviewerID, "error", err)
		writeError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "membership resolution unavailable"))
		return
	}

	updated, err := h.service.SubmitCommunityReview(ctx, recordID, models.CommunityReview{
		ReviewerID:     reviewerID,
		Rating:         req.Rating,
		ReviewType:     req.ReviewType,
		CulturalMember: member,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: updated})
}

func (h *Handler) handleConsensus(w http.ResponseWriter, r *http.Request) {
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.service.ComputeConsensus(r.Context(), recordID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAssignValidators(w http.ResponseWriter, r *http.Request) {
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.service.AssignValidators(r.Context(), recordID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requestsResponse{
		Record:   result.Record,
		Requests: result.Requests,
		Warnings: result.Warnings,
	})
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, err := h.recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	result, err := h.service.MakePublicationDecision(ctx, recordID, service.DecisionInput{
		Decision:   models.Decision(req.Decision),
		Visibility: req.Visibility,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: result.Record, Warnings: result.Warnings})
}

func (h *Handler) handleQueryPublished(w http.ResponseWriter, r *http.Request) {
	filter := store.PublishedFilter{
		Sensitivity: models.Sensitivity(r.URL.Query().Get("sensitivity")),
		Culture:     r.URL.Query().Get("culture"),
	}
	records, err := h.service.QueryPublished(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.service.GenerateCurationReport(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, dErrors.Newf(dErrors.CodeBadRequest, "%s is required (RFC 3339)", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s timestamp", name)
	}
	return t, nil
}
