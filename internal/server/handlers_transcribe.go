package server

import (
	"net/http"
)

// TranscriptionResponse is the body returned by POST /transcribe
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// handleTranscribe converts an uploaded audio file to text without
// touching any interview session
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.audioUpload(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	text, err := s.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Transcription failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, TranscriptionResponse{Text: text})
}
