package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) myOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.Mine(c.Request.Context(), credential(c))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch orders"), []orderView{})
		return
	}
	respond(c, http.StatusOK, nil, toOrderViews(orders))
}

func (h *handlers) orderDetail(c *gin.Context) {
	order, err := h.deps.OrderSvc.Get(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch order"), nil)
		return
	}
	respond(c, http.StatusOK, nil, toOrderView(*order))
}
