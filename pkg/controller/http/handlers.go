package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/pdfexport"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// assessmentHandler runs one assessment in either branch and returns
// the report as JSON
func assessmentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.AssessmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(model.ErrInvalidRequest, err.Error()))
			return
		}

		report, err := uc.Assessment.Run(r.Context(), &req)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, report)
	}
}

// catalogHandler serves the static reference data the UI renders the
// questionnaire from
func catalogHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Version    string                    `json:"version"`
		Questions  []model.ChecklistQuestion `json:"questions"`
		Frameworks []model.Framework         `json:"frameworks"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		catalog := uc.Catalog()

		resp := response{
			Version:   catalog.Version,
			Questions: catalog.Questions,
		}
		for _, category := range sortedFrameworkCategories(catalog) {
			resp.Frameworks = append(resp.Frameworks, catalog.Frameworks[category])
		}

		respondJSON(w, r, http.StatusOK, resp)
	}
}

// reportPDFHandler renders a posted report document as PDF bytes
func reportPDFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report model.Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			handleError(r.Context(), w, goerr.Wrap(model.ErrInvalidRequest, err.Error()))
			return
		}

		data, err := pdfexport.Render(&report)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="risk-assessment-`+report.ID+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data) //nolint:errcheck // header already committed
	}
}

// reportEmailHandler delivers a posted report to the given recipients
func reportEmailHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Report     model.Report `json:"report"`
		Recipients []string     `json:"recipients"`
		AttachPDF  bool         `json:"attachPdf"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(model.ErrInvalidRequest, err.Error()))
			return
		}
		if len(req.Recipients) == 0 {
			handleError(r.Context(), w, goerr.Wrap(model.ErrInvalidRequest, "recipients are required"))
			return
		}

		if err := uc.Delivery.Distribute(r.Context(), &req.Report, req.Recipients, req.AttachPDF); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]string{"status": "sent"})
	}
}

// healthHandler reports liveness and which collaborators are configured
func healthHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Status   string `json:"status"`
		Analyzer bool   `json:"analyzer"`
		Mailer   bool   `json:"mailer"`
		Notifier bool   `json:"notifier"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, response{
			Status:   "ok",
			Analyzer: uc.AnalyzerEnabled(),
			Mailer:   uc.MailerEnabled(),
			Notifier: uc.NotifierEnabled(),
		})
	}
}

// sortedFrameworkCategories returns framework map keys in canonical
// category order so the catalog response is deterministic
func sortedFrameworkCategories(catalog *model.Catalog) []types.RiskCategory {
	var categories []types.RiskCategory
	for _, category := range types.RiskCategories() {
		if _, ok := catalog.Frameworks[category]; ok {
			categories = append(categories, category)
		}
	}
	return categories
}
