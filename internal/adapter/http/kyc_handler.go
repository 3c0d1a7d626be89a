package http

import (
	"io"
	"net/http"

	authUC "defi-credit-backend/internal/usecase/auth"
	kycUC "defi-credit-backend/internal/usecase/kyc"

	"github.com/labstack/echo/v4"
)

// documents larger than this are rejected before touching the OCR service
const maxDocumentBytes = 10 << 20

type KYCHandler struct {
	uc   *kycUC.Usecase
	auth *authUC.Usecase
}

func NewKYCHandler(uc *kycUC.Usecase, auth *authUC.Usecase) *KYCHandler {
	return &KYCHandler{uc: uc, auth: auth}
}

// Verify accepts a multipart "document" upload, runs it through OCR, and
// stores the extracted identity. Callers under 18 are rejected.
func (h *KYCHandler) Verify(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing document file"})
	}
	if fh.Size > maxDocumentBytes {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "document too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable document"})
	}
	defer f.Close()
	image, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable document"})
	}

	dto, err := h.uc.Verify(c.Request().Context(), usr.ID, image)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
