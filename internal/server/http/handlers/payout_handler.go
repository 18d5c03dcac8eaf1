package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bazaar/internal/server/http/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayoutHandler serves vendor payout views and admin payout operations.
type PayoutHandler struct {
	facade PayoutFacade
	now    func() time.Time
}

// NewPayoutHandler constructs PayoutHandler.
func NewPayoutHandler(facade PayoutFacade) *PayoutHandler {
	return &PayoutHandler{facade: facade, now: time.Now}
}

// VendorPayouts handles GET /api/vendor/payouts.
func (h *PayoutHandler) VendorPayouts(c *gin.Context) {
	payouts, err := h.facade.VendorPayouts(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		resp = append(resp, dto.NewPayoutResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// VendorTransfers handles GET /api/vendor/transfers.
func (h *PayoutHandler) VendorTransfers(c *gin.Context) {
	transfers, err := h.facade.VendorTransfers(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		resp = append(resp, dto.NewTransferResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// Revenue handles GET /api/vendor/revenue.
func (h *PayoutHandler) Revenue(c *gin.Context) {
	cmp, err := h.facade.Revenue(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRevenueResponse(*cmp))
}

// Onboard handles POST /api/vendor/payout-account.
func (h *PayoutHandler) Onboard(c *gin.Context) {
	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	url, err := h.facade.OnboardVendor(c.Request.Context(), CurrentUserID(c), req.RefreshURL, req.ReturnURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OnboardResponse{URL: url})
}

// List handles GET /api/admin/payouts.
func (h *PayoutHandler) List(c *gin.Context) {
	var q dto.PayoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	payouts, err := h.facade.Payouts(c.Request.Context(), q.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		resp = append(resp, dto.NewPayoutResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Export handles GET /api/admin/payouts/export.
func (h *PayoutHandler) Export(c *gin.Context) {
	var q dto.PayoutQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.facade.ExportPayouts(c.Request.Context(), q.Filter(), &buf); err != nil {
		respondError(c, err)
		return
	}

	name := "payouts.xlsx"
	if q.Month != "" {
		name = fmt.Sprintf("payouts-%s.xlsx", q.Month)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Generate handles POST /api/admin/payouts/generate.
// Partial failures still return the run report alongside the error.
func (h *PayoutHandler) Generate(c *gin.Context) {
	report, err := h.facade.GeneratePayouts(c.Request.Context(), h.now())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"report": report, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Disburse handles POST /api/admin/payouts/disburse.
func (h *PayoutHandler) Disburse(c *gin.Context) {
	report, err := h.facade.DisbursePayouts(c.Request.Context(), h.now())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"report": report, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
