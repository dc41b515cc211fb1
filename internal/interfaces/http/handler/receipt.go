package handler

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	salesapp "github.com/lababil/pos/internal/application/sales"
)

// ReceiptHandler serves printable and archived receipts
type ReceiptHandler struct {
	BaseHandler
	receiptService *salesapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *salesapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

func (h *ReceiptHandler) receiptNumber(c *gin.Context) (string, bool) {
	number := strings.TrimSpace(c.Query("number"))
	if number == "" {
		h.BadRequest(c, "Query parameter number is required")
		return "", false
	}
	return number, true
}

// HTML godoc
// @Summary      Printable receipt
// @Description  Render a receipt as a standalone HTML page
// @Tags         receipts
// @Produce      html
// @Param        number query string true "Receipt number"
// @Success      200 {string} string "HTML document"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receipts/html [get]
func (h *ReceiptHandler) HTML(c *gin.Context) {
	number, ok := h.receiptNumber(c)
	if !ok {
		return
	}

	document, err := h.receiptService.RenderHTML(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(document))
}

// PDF godoc
// @Summary      Receipt PDF
// @Description  Render a receipt to PDF using the configured paper layout
// @Tags         receipts
// @Produce      application/pdf
// @Param        number query string true "Receipt number"
// @Param        download query bool false "Send as attachment"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receipts/pdf [get]
func (h *ReceiptHandler) PDF(c *gin.Context) {
	number, ok := h.receiptNumber(c)
	if !ok {
		return
	}

	doc, err := h.receiptService.RenderPDF(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+"; filename=\""+doc.FileName+"\"")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Archive godoc
// @Summary      Archive a receipt
// @Description  Upload the receipt PDF to object storage and return a download URL
// @Tags         receipts
// @Produce      json
// @Param        number query string true "Receipt number"
// @Success      201 {object} dto.Response{data=salesapp.ArchiveResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receipts/archive [post]
func (h *ReceiptHandler) Archive(c *gin.Context) {
	number, ok := h.receiptNumber(c)
	if !ok {
		return
	}

	result, err := h.receiptService.Archive(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Download godoc
// @Summary      Download an archived receipt
// @Tags         receipts
// @Produce      application/pdf
// @Param        key path string true "Storage key"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /receipts/archive/{key} [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	reader, err := h.receiptService.OpenArchived(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+path.Base(key)+"\"")
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		_ = c.Error(err)
	}
}
