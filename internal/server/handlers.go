package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/jd-analyser/internal/logging"
	"github.com/jonathan/jd-analyser/internal/types"
)

// Form field names accepted by POST /analyse.
const (
	formJobDescription  = "jobDescription"
	formPrivacyAccepted = "isPrivacyAccepted"
)

// handleAnalyse runs the caller contract. The body is always an Outcome;
// provider error detail never reaches the client.
func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, err := decodeAnalyseRequest(r)
	if err != nil {
		status := HTTPStatus(err)
		reason := ReasonInvalidBody
		switch status {
		case http.StatusRequestEntityTooLarge:
			reason = ReasonBodyTooLarge
		case http.StatusUnsupportedMediaType:
			reason = ReasonUnsupportedCT
		}
		s.logger.WithField("request_id", logging.RequestID(r.Context())).
			WithField("status", status).
			Warn("rejected undecodable analyse request")
		s.jsonResponse(w, status, types.Failed(reason))
		return
	}

	outcome := s.analyser.Analyse(r.Context(), req)
	s.jsonResponse(w, OutcomeStatus(outcome), outcome)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAnalyseRequest reads a JSON body or url-encoded/multipart form fields.
func decodeAnalyseRequest(r *http.Request) (types.AnalyseRequest, error) {
	var req types.AnalyseRequest

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return req, &ErrUnsupportedMediaType{ContentType: ct}
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			return req, &ErrBadRequest{Reason: ReasonInvalidBody, Err: err}
		}
		return req, nil

	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return req, &ErrBadRequest{Reason: ReasonInvalidBody, Err: err}
		}
		req.JobDescription = r.PostFormValue(formJobDescription)
		req.PrivacyAccepted = formBool(r.PostFormValue(formPrivacyAccepted))
		return req, nil

	default:
		return req, &ErrUnsupportedMediaType{ContentType: mediaType}
	}
}

// formBool accepts strconv booleans and the "on" value browsers send for a
// checked checkbox.
func formBool(v string) bool {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "on") {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("error encoding JSON response")
	}
}
