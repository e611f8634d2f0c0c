package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vardhmanmills/storefront/internal/domain"
	"github.com/vardhmanmills/storefront/internal/service"
	"github.com/vardhmanmills/storefront/pkg/httputil"
	"github.com/vardhmanmills/storefront/pkg/pagination"
)

// maxContactBody caps a contact submission including attachments
// (3 files x 5 MiB plus form overhead).
const maxContactBody = 16 << 20

// ContactHandler handles contact-form endpoints and the back-office inbox.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: logger}
}

// contactTopics is the static payload behind GET /api/v1/contact/topics.
type contactTopics struct {
	InquiryTypes []string `json:"inquiry_types"`
	Departments  []string `json:"departments"`
}

// Topics handles GET /api/v1/contact/topics
func (h *ContactHandler) Topics(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contactTopics{
		InquiryTypes: domain.InquiryTypes,
		Departments:  domain.Departments,
	}})
}

// Submit handles POST /api/v1/contact. It accepts either a JSON body or a
// multipart form carrying up to three files in the "attachments" field.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	var (
		input   service.SubmitContactInput
		uploads []service.AttachmentUpload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxContactBody); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid multipart form: " + err.Error()},
			})
			return
		}
		defer r.MultipartForm.RemoveAll()

		input = service.SubmitContactInput{
			Name:           r.FormValue("name"),
			Email:          r.FormValue("email"),
			Phone:          r.FormValue("phone"),
			Subject:        r.FormValue("subject"),
			Message:        r.FormValue("message"),
			InquiryType:    r.FormValue("inquiry_type"),
			Department:     r.FormValue("department"),
			OrderReference: r.FormValue("order_reference"),
		}

		for _, header := range r.MultipartForm.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "unreadable attachment: " + header.Filename},
				})
				return
			}
			defer file.Close()

			uploads = append(uploads, service.AttachmentUpload{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Data:        file,
			})
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
			})
			return
		}
	}

	inquiry, err := h.service.Submit(r.Context(), input, uploads)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: inquiry})
}

// AdminList handles GET /api/v1/admin/contact
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")

	inquiries, total, err := h.service.List(r.Context(), status, params.PerPage, params.Offset)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(inquiries, total, params))
}

// AdminGet handles GET /api/v1/admin/contact/{reference}
func (h *ContactHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	inquiry, err := h.service.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inquiry})
}
