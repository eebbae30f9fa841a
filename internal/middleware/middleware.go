package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/PDFChatAPI/internal/handlers"
	"github.com/akolanti/PDFChatAPI/internal/metrics"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var TranscribeHandler = Wrap(handlers.TranscribeHandler)
var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var ReingestDocumentHandler = Wrap(handlers.ReingestDocumentHandler)
var ListFoldersHandler = Wrap(handlers.ListFoldersHandler)
var CreateFolderHandler = Wrap(handlers.CreateFolderHandler)
var DeleteFolderHandler = Wrap(handlers.DeleteFolderHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}
