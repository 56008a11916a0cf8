package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
	"github.com/ianbrown80/workable-plugin/pkg/validation"
)

const (
	actionSubmit = "send_application_form"

	// maxUploadBytes caps the in-memory part of multipart parsing; larger
	// uploads spill to disk.
	maxUploadBytes = 32 << 20
)

func (ws *Server) handleAjax(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if err := r.ParseForm(); err != nil {
			ws.writeJSON(w, http.StatusBadRequest, submission.Result{Error: ws.catalog.T(messages.SubmitRetry)})
			return
		}
	}

	if r.FormValue("action") != actionSubmit {
		ws.writeJSON(w, http.StatusBadRequest, submission.Result{Error: ws.catalog.T(messages.SubmitRetry)})
		return
	}

	shortcode := r.FormValue("shortcode")
	log := ws.log.With("shortcode", shortcode)

	if !ws.nonces.Verify(shortcode, r.FormValue("workable_form_nonce")) {
		log.Warn("submission rejected", "error", "invalid nonce")
		ws.writeJSON(w, http.StatusForbidden, submission.Result{Error: ws.catalog.T(messages.SubmitRetry)})
		return
	}

	form, err := ws.buildForm(r.Context(), shortcode)
	if err != nil {
		log.Warn("fetch application form failed", "error", err)
		ws.writeJSON(w, http.StatusBadGateway, submission.Result{Error: ws.catalog.T(messages.SubmitRetry)})
		return
	}

	values := formValues(r)
	files, err := formFiles(r)
	if err != nil {
		log.Warn("read upload failed", "error", err)
		ws.writeJSON(w, http.StatusBadRequest, submission.Result{Error: ws.catalog.T(messages.SubmitRetry)})
		return
	}

	if report := validation.Validate(form, values); !report.Valid {
		ws.writeJSON(w, http.StatusUnprocessableEntity, submission.Result{Error: ws.catalog.T(messages.RequiredField)})
		return
	}

	result := ws.submitter.Submit(r.Context(), form, values, files)
	if result.OK() {
		log.Info("candidate submitted")
		ws.writeJSON(w, http.StatusOK, result)
		return
	}
	log.Warn("submission failed", "error", result.Error)
	ws.writeJSON(w, http.StatusBadGateway, result)
}

func formValues(r *http.Request) validation.Values {
	values := validation.Values{}
	source := r.Form
	if r.MultipartForm != nil {
		source = r.MultipartForm.Value
	}
	for name, vals := range source {
		for _, v := range vals {
			values.Add(name, v)
		}
	}
	return values
}

func formFiles(r *http.Request) (map[string]submission.File, error) {
	files := map[string]submission.File{}
	if r.MultipartForm == nil {
		return files, nil
	}
	for name, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		header := headers[0]
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files[name] = submission.File{Name: header.Filename, Data: data}
	}
	return files, nil
}

func (ws *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ws.log.Error("write json response failed", "error", err)
	}
}
