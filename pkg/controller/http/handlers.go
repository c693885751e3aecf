package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/usecase"
	"github.com/safework-lab/talos/pkg/utils/errutil"
	"github.com/safework-lab/talos/pkg/utils/safe"
)

// statusFor maps the domain error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownGroup),
		errors.Is(err, model.ErrItemNotFound),
		errors.Is(err, model.ErrDocumentNotFound),
		errors.Is(err, model.ErrTargetNotFound),
		errors.Is(err, model.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConcurrentModification),
		errors.Is(err, model.ErrItemHasOpenDocuments),
		errors.Is(err, model.ErrDocumentImmutable),
		errors.Is(err, model.ErrOutOfSequenceApproval),
		errors.Is(err, model.ErrAlreadyDone):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidScoreInput),
		errors.Is(err, model.ErrRiskMatrixConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusFor(err))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to encode response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

// documentParams extracts the composite document key from the URL
func documentParams(w http.ResponseWriter, r *http.Request) (types.GroupID, int, int, bool) {
	groupID := types.GroupID(chi.URLParam(r, "groupID"))
	itemNumber, err := strconv.Atoi(chi.URLParam(r, "itemNumber"))
	if err != nil {
		http.Error(w, "invalid item number", http.StatusBadRequest)
		return "", 0, 0, false
	}
	documentNumber, err := strconv.Atoi(chi.URLParam(r, "documentNumber"))
	if err != nil {
		http.Error(w, "invalid document number", http.StatusBadRequest)
		return "", 0, 0, false
	}
	return groupID, itemNumber, documentNumber, true
}

func itemParams(w http.ResponseWriter, r *http.Request) (types.GroupID, int, bool) {
	groupID := types.GroupID(chi.URLParam(r, "groupID"))
	itemNumber, err := strconv.Atoi(chi.URLParam(r, "itemNumber"))
	if err != nil {
		http.Error(w, "invalid item number", http.StatusBadRequest)
		return "", 0, false
	}
	return groupID, itemNumber, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type addGroupRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleAddGroup(w http.ResponseWriter, r *http.Request) {
	var req addGroupRequest
	if !s.decode(w, r, &req) {
		return
	}

	group, err := s.uc.Catalog.AddGroup(r.Context(), &model.Group{
		ID:   types.GroupID(req.ID),
		Name: req.Name,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, group)
}

type addItemRequest struct {
	GroupID       string    `json:"groupId"`
	ItemNumber    int       `json:"itemNumber"`
	DocumentName  string    `json:"documentName"`
	DocumentCount int       `json:"documentCount"`
	Cycle         uint      `json:"cycle"`
	CycleUnit     string    `json:"cycleUnit"`
	LastWrittenAt time.Time `json:"lastWrittenAt"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !s.decode(w, r, &req) {
		return
	}

	unit, err := types.ParseCycleUnit(req.CycleUnit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	item, err := s.uc.Catalog.AddItem(r.Context(), &model.Item{
		GroupID:       types.GroupID(req.GroupID),
		ItemNumber:    req.ItemNumber,
		DocumentName:  req.DocumentName,
		DocumentCount: req.DocumentCount,
		Cycle:         req.Cycle,
		CycleUnit:     unit,
		LastWrittenAt: req.LastWrittenAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.uc.Catalog.ListItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, ok := itemParams(w, r)
	if !ok {
		return
	}
	if err := s.uc.Catalog.DeleteItem(r.Context(), groupID, itemNumber); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateDocumentsRequest struct {
	OrganizationName string    `json:"organizationName"`
	WrittenAt        time.Time `json:"writtenAt"`
	ApprovalDeadline time.Time `json:"approvalDeadline"`
}

func (s *Server) handleGenerateDocuments(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, ok := itemParams(w, r)
	if !ok {
		return
	}
	var req generateDocumentsRequest
	if !s.decode(w, r, &req) {
		return
	}

	docs, err := s.uc.Catalog.GenerateDocuments(r.Context(), groupID, itemNumber,
		req.OrganizationName, req.WrittenAt, req.ApprovalDeadline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, docs)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, ok := itemParams(w, r)
	if !ok {
		return
	}
	docs, err := s.uc.Catalog.GetDocumentsByItem(r.Context(), groupID, itemNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, docs)
}

type documentResponse struct {
	*model.Document
	CompletionRemoval     int `json:"completionRemoval"`
	CompletionEngineering int `json:"completionEngineering"`
}

func newDocumentResponse(doc *model.Document) documentResponse {
	removal, engineering := doc.CompletionRates()
	return documentResponse{
		Document:              doc,
		CompletionRemoval:     removal,
		CompletionEngineering: engineering,
	}
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	doc, err := s.uc.Catalog.GetDocument(r.Context(), groupID, itemNumber, documentNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	if err := s.uc.Catalog.DeleteDocument(r.Context(), groupID, itemNumber, documentNumber); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	doc, err := s.uc.Workflow.Publish(r.Context(), groupID, itemNumber, documentNumber)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}

	now := time.Now()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid now parameter", http.StatusBadRequest)
			return
		}
		now = parsed
	}

	kinds, err := s.uc.Workflow.DueReminders(r.Context(), groupID, itemNumber, documentNumber, now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"reminders": kinds})
}

type attachTargetsRequest struct {
	Targets []struct {
		Name  string `json:"name"`
		Role  string `json:"role"`
		Type  string `json:"type"`
		Order int    `json:"order"`
	} `json:"targets"`
}

func (s *Server) handleAttachTargets(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	var req attachTargetsRequest
	if !s.decode(w, r, &req) {
		return
	}

	targets := make([]model.SignatureTarget, 0, len(req.Targets))
	for _, t := range req.Targets {
		targetType, err := types.ParseTargetType(t.Type)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		targets = append(targets, usecase.NewTarget(t.Name, t.Role, targetType, t.Order))
	}

	doc, err := s.uc.Workflow.AttachTargets(r.Context(), groupID, itemNumber, documentNumber, targets)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleCompleteTarget(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	targetID := chi.URLParam(r, "targetID")

	doc, err := s.uc.Workflow.CompleteTarget(r.Context(), groupID, itemNumber, documentNumber, targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

type addRowRequest struct {
	Hazard           string    `json:"hazard"`
	ControlTier      string    `json:"controlTier"`
	CurrentFrequency int       `json:"currentFrequency"`
	CurrentSeverity  int       `json:"currentSeverity"`
	ProposedMeasure  string    `json:"proposedMeasure"`
	PostFrequency    int       `json:"postFrequency"`
	PostSeverity     int       `json:"postSeverity"`
	Owner            string    `json:"owner"`
	DueDate          time.Time `json:"dueDate"`
}

type addRowResponse struct {
	Document documentResponse           `json:"document"`
	Warning  *model.RiskIncreaseWarning `json:"warning,omitempty"`
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	var req addRowRequest
	if !s.decode(w, r, &req) {
		return
	}

	tier, err := types.ParseControlTier(req.ControlTier)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	doc, warning, err := s.uc.Remediation.AddRow(r.Context(), groupID, itemNumber, documentNumber, usecase.RowInput{
		Hazard:           req.Hazard,
		ControlTier:      tier,
		CurrentFrequency: req.CurrentFrequency,
		CurrentSeverity:  req.CurrentSeverity,
		ProposedMeasure:  req.ProposedMeasure,
		PostFrequency:    req.PostFrequency,
		PostSeverity:     req.PostSeverity,
		Owner:            req.Owner,
		DueDate:          req.DueDate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, addRowResponse{
		Document: newDocumentResponse(doc),
		Warning:  warning,
	})
}

type markRowDoneRequest struct {
	CompletedAt time.Time `json:"completedAt"`
}

func (s *Server) handleMarkRowDone(w http.ResponseWriter, r *http.Request) {
	groupID, itemNumber, documentNumber, ok := documentParams(w, r)
	if !ok {
		return
	}
	rowID := chi.URLParam(r, "rowID")

	var req markRowDoneRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.CompletedAt.IsZero() {
		req.CompletedAt = time.Now().UTC()
	}

	doc, err := s.uc.Remediation.MarkDone(r.Context(), groupID, itemNumber, documentNumber, rowID, req.CompletedAt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

type evaluateRiskRequest struct {
	Frequency int `json:"frequency"`
	Severity  int `json:"severity"`
}

func (s *Server) handleEvaluateRisk(w http.ResponseWriter, r *http.Request) {
	var req evaluateRiskRequest
	if !s.decode(w, r, &req) {
		return
	}

	score, err := s.uc.Remediation.Evaluate(req.Frequency, req.Severity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, score)
}
