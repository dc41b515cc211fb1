package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	salesapp "github.com/lababil/pos/internal/application/sales"
)

// SaleHandler handles checkout and ledger endpoints
type SaleHandler struct {
	BaseHandler
	ledgerService *salesapp.LedgerService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(ledgerService *salesapp.LedgerService) *SaleHandler {
	return &SaleHandler{
		ledgerService: ledgerService,
	}
}

// receiptParam reads a receipt number from a wildcard segment. Receipt
// numbers contain slashes, so routes capture them with *receipt.
func receiptParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("receipt"), "/")
}

// lineParam reads a line id, which embeds its receipt number.
func lineParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("id"), "/")
}

// Commit godoc
// @Summary      Commit a sale
// @Description  Validate every line, reserve stock and append the lines under a new receipt number
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CommitSaleRequest true "Sale"
// @Success      201 {object} dto.Response{data=salesapp.ReceiptResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Commit(c *gin.Context) {
	var req salesapp.CommitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.ledgerService.CommitSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// ListLines godoc
// @Summary      List ledger lines
// @Tags         sales
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        customer query string false "Customer name contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]salesapp.SaleLineResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) ListLines(c *gin.Context) {
	var filter salesapp.LineListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	lines, total, err := h.ledgerService.ListLines(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, lines, total, filter.Page, filter.PageSize)
}

// ListReceipts godoc
// @Summary      List receipts
// @Description  Ledger lines regrouped into transactions, newest first. Without page_size every receipt is returned.
// @Tags         sales
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        customer query string false "Customer name contains"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]salesapp.ReceiptResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /sales/receipts [get]
func (h *SaleHandler) ListReceipts(c *gin.Context) {
	var filter salesapp.LineListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	receipts, total, err := h.ledgerService.ListReceipts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// GetReceipt godoc
// @Summary      Get a receipt
// @Tags         sales
// @Produce      json
// @Param        receipt path string true "Receipt number, e.g. 0001/LS/22092025"
// @Success      200 {object} dto.Response{data=salesapp.ReceiptResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/receipts/{receipt} [get]
func (h *SaleHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.ledgerService.GetReceipt(c.Request.Context(), receiptParam(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Description  Remove every line of a receipt; stock is restored when the restore policy is configured
// @Tags         sales
// @Produce      json
// @Param        receipt path string true "Receipt number"
// @Success      200 {object} dto.Response{data=salesapp.DeleteTransactionResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/receipts/{receipt} [delete]
func (h *SaleHandler) DeleteTransaction(c *gin.Context) {
	result, err := h.ledgerService.DeleteTransaction(c.Request.Context(), receiptParam(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteLine godoc
// @Summary      Delete one ledger line
// @Tags         sales
// @Param        id path string true "Line ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/lines/{id} [delete]
func (h *SaleHandler) DeleteLine(c *gin.Context) {
	if err := h.ledgerService.DeleteLine(c.Request.Context(), lineParam(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Report godoc
// @Summary      Sales report
// @Description  Revenue, receipt count, daily totals and top products for a day range
// @Tags         sales
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=sales.Report}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/report [get]
func (h *SaleHandler) Report(c *gin.Context) {
	var req salesapp.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	report, err := h.ledgerService.Report(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
