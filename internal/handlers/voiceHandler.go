package handlers

import (
	"net/http"

	"github.com/akolanti/PDFChatAPI/internal/api"
)

// TranscribeHandler godoc
// @Summary      Transcribe a voice question
// @Description  Converts an uploaded audio recording to text, which can then be sent to the chat endpoint as a regular message.
// @Tags         Chat
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file  true  "Audio recording (wav, mp3, m4a or webm)"
// @Success      200  {object}  api.TranscriptionResponse
// @Failure      400  {object}  api.ErrorResponse "Missing audio file"
// @Failure      503  {object}  api.ErrorResponse "Transcription unavailable"
// @Router       /transcribe [post]
func TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if handlerInstance.transcriber == nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "voice transcription is not configured")
		return
	}

	const maxAudioSize = 25 << 20 //25mb, the provider-side upload cap
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Audio too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("audio")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve audio file")
		return
	}
	defer fileReader.Close()

	text, err := handlerInstance.transcriber.Transcribe(r.Context(), fileMetadata.Filename, fileReader)
	if err != nil {
		logRH.Error("transcription failed", "error", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "transcription failed")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.TranscriptionResponse{Text: text})
}
