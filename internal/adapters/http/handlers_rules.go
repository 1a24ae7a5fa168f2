package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/ports"
)

type ruleRequest struct {
	Name          string   `json:"name"`
	Theme         string   `json:"theme"`
	TargetAddress string   `json:"target_address"`
	Keywords      []string `json:"keywords"`
	Enabled       bool     `json:"enabled"`
}

type rulePatchRequest struct {
	Name          *string `json:"name"`
	Theme         *string `json:"theme"`
	TargetAddress *string `json:"target_address"`
	Enabled       *bool   `json:"enabled"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (rt *Router) listRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.ruleUC.ListRules())
}

func (rt *Router) addRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rule, err := rt.ruleUC.AddRule(domain.RedistributionRule{
		Name:          req.Name,
		Theme:         theme,
		TargetAddress: req.TargetAddress,
		Keywords:      req.Keywords,
		Enabled:       req.Enabled,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (rt *Router) updateRule(w http.ResponseWriter, r *http.Request) {
	var req rulePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	patch := ports.RulePatch{
		Name:          req.Name,
		TargetAddress: req.TargetAddress,
		Enabled:       req.Enabled,
	}
	if req.Theme != nil {
		theme, err := domain.ParseTheme(*req.Theme)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		patch.Theme = &theme
	}

	rule, err := rt.ruleUC.UpdateRule(chi.URLParam(r, "ruleID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (rt *Router) toggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := rt.ruleUC.ToggleRule(chi.URLParam(r, "ruleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (rt *Router) addKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	rule, err := rt.ruleUC.AddKeyword(chi.URLParam(r, "ruleID"), req.Keyword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (rt *Router) removeKeyword(w http.ResponseWriter, r *http.Request) {
	keyword, err := url.PathUnescape(chi.URLParam(r, "keyword"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid keyword encoding"})
		return
	}

	rule, err := rt.ruleUC.RemoveKeyword(chi.URLParam(r, "ruleID"), keyword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (rt *Router) deleteRule(w http.ResponseWriter, r *http.Request) {
	if err := rt.ruleUC.DeleteRule(chi.URLParam(r, "ruleID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
