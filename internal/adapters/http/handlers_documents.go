package httpadapter

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/documind/docrouter/internal/core/domain"
)

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.options.MaxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("read upload: %v", err)})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	job, err := rt.classifyUC.Submit(r.Context(), fileHeader.Filename, mimeType, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := rt.classifyUC.Job(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) cancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if err := rt.classifyUC.Cancel(jobID); err != nil {
		writeError(w, err)
		return
	}
	job, err := rt.classifyUC.Job(jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) listDocuments(w http.ResponseWriter, _ *http.Request) {
	if rt.metrics != nil {
		rt.metrics.SetDocumentsStored(rt.docs.Len())
	}
	writeJSON(w, http.StatusOK, rt.docs.List())
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.docs.Get(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) matchDocument(w http.ResponseWriter, r *http.Request) {
	matches, err := rt.ruleUC.MatchDocument(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRuleMatches(len(matches))
	}
	if matches == nil {
		matches = []domain.RedistributionRule{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="documents.csv"`)
		if err := rt.exporter.ExportCSV(w); err != nil {
			writeError(w, err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
		if err := rt.exporter.ExportXLSX(w); err != nil {
			writeError(w, err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unsupported export format %q", format)})
	}
}
