package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	ordersvc "storefront/internal/service/order"
)

type addItemRequest struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

// credential is only called behind the gate, where the store is authenticated.
func credential(c *gin.Context) string {
	cred, _ := sessionStore(c).Credential()
	return cred
}

func (h *handlers) cartModel(c *gin.Context) *cartsvc.Model {
	return h.deps.Carts.Get(browserID(c))
}

func (h *handlers) cartView(c *gin.Context) {
	m := h.cartModel(c)
	if err := h.deps.CartSvc.Fetch(c.Request.Context(), credential(c), m); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch cart"), toCartView(m.Snapshot()))
		return
	}
	respond(c, http.StatusOK, nil, toCartView(m.Snapshot()))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: "Invalid cart request"}, nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx := c.Request.Context()
	product, err := h.deps.ProductSvc.Get(ctx, req.ProductID)
	if err != nil {
		respond(c, statusFor(err), failure(err, "Failed to add to cart"), nil)
		return
	}
	m := h.cartModel(c)
	if err := h.deps.CartSvc.Add(ctx, credential(c), m, product.Snapshot(), req.Quantity); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to add to cart"), toCartView(m.Snapshot()))
		return
	}
	redirect(c, "/cart", success("Added to cart!"))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: "Invalid cart request"}, nil)
		return
	}
	m := h.cartModel(c)
	if err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), credential(c), m, c.Param("id"), req.Quantity); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to update cart"), toCartView(m.Snapshot()))
		return
	}
	respond(c, http.StatusOK, success("Cart updated"), toCartView(m.Snapshot()))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	m := h.cartModel(c)
	if err := h.deps.CartSvc.Remove(c.Request.Context(), credential(c), m, c.Param("id")); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to remove item"), toCartView(m.Snapshot()))
		return
	}
	respond(c, http.StatusOK, success("Item removed"), toCartView(m.Snapshot()))
}

func (h *handlers) checkoutView(c *gin.Context) {
	m := h.cartModel(c)
	if err := h.deps.CartSvc.Fetch(c.Request.Context(), credential(c), m); err != nil {
		redirect(c, "/cart", failure(err, "Failed to fetch cart"))
		return
	}
	if m.Len() == 0 {
		redirect(c, "/products", &notice{Level: noticeError, Message: "Your cart is empty"})
		return
	}
	respond(c, http.StatusOK, nil, gin.H{
		"cart":           toCartView(m.Snapshot()),
		"paymentMethods": []string{domain.PaymentCashOnDelivery, domain.PaymentCard},
	})
}

func (h *handlers) checkout(c *gin.Context) {
	var in domain.CheckoutInput
	if err := c.ShouldBind(&in); err != nil {
		respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: "Invalid checkout request"}, nil)
		return
	}
	ctx := c.Request.Context()
	cred := credential(c)
	m := h.cartModel(c)
	if err := h.deps.CartSvc.Fetch(ctx, cred, m); err != nil {
		respond(c, statusFor(err), failure(err, "Failed to fetch cart"), nil)
		return
	}
	order, err := h.deps.OrderSvc.Checkout(ctx, cred, m, in)
	if err != nil {
		if errors.Is(err, ordersvc.ErrEmptyCart) {
			redirect(c, "/products", failure(err, "Your cart is empty"))
			return
		}
		respond(c, statusFor(err), failure(err, "Failed to place order"), toCartView(m.Snapshot()))
		return
	}
	redirect(c, "/orders/"+order.ID, success("Order placed successfully!"))
}
