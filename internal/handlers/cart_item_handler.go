package handlers

import (
	"fmt"
	"log"
	"strings"

	"cartapi/internal/models"
	"cartapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartItemHandler handles HTTP requests for cart items.
type CartItemHandler struct {
	service *services.CartItemService
}

// NewCartItemHandler creates a new CartItemHandler.
func NewCartItemHandler(service *services.CartItemService) *CartItemHandler {
	return &CartItemHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart item routes with the Fiber app.
func (h *CartItemHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cartitems")
	cartRoutes.Get("/", h.HandleGetCartItems)
	cartRoutes.Get("/:id", h.HandleGetCartItemByID)
	cartRoutes.Get("/:productId/:userId", h.HandleGetCartItemByProductAndUser)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Put("/:id", h.HandleUpdateCartItem)
	cartRoutes.Delete("/:id", h.HandleDeleteCartItem)
	cartRoutes.Delete("/:productId/:userId", h.HandleDeleteCartItemByProductAndUser)
}

func cartItemFilter(c *fiber.Ctx) (models.CartItemFilter, error) {
	var (
		f   models.CartItemFilter
		err error
	)
	f.PhoneNumber = strings.TrimSpace(c.Query("phoneNumber"))
	if f.ProductID, err = queryInt64(c, "productId"); err != nil {
		return f, err
	}
	if f.MinQuantity, err = queryInt(c, "minQuantity", 0); err != nil {
		return f, err
	}
	if f.MaxQuantity, err = queryInt(c, "maxQuantity", 0); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	f.Page, f.PageSize, err = pageQuery(c)
	return f, err
}

// HandleGetCartItems returns one page of cart items matching the query filters.
func (h *CartItemHandler) HandleGetCartItems(c *fiber.Ctx) error {
	filter, err := cartItemFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.service.ListCartItems(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cart items retrieved", items)
}

// HandleGetCartItemByID retrieves a single cart item by its ID.
func (h *CartItemHandler) HandleGetCartItemByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.service.GetCartItemByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cart item retrieved", item)
}

// HandleGetCartItemByProductAndUser retrieves the cart line of a user for a product.
func (h *CartItemHandler) HandleGetCartItemByProductAndUser(c *fiber.Ctx) error {
	productID, userID, err := productAndUser(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.service.GetCartItemByUserAndProduct(c.UserContext(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Cart item retrieved", item)
}

// HandleAddToCart puts a product in a user's cart, replacing the quantity of an
// existing line for the same product.
func (h *CartItemHandler) HandleAddToCart(c *fiber.Ctx) error {
	var in models.CartItemInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("POST /api/cartitems: error parsing request body: %v", err)
		return invalidBody(c)
	}

	result, err := h.service.AddToCart(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	switch result.Outcome {
	case services.MergeCreated:
		log.Printf("POST /api/cartitems: new cart item created for user %d", in.UserID)
		c.Location(fmt.Sprintf("/api/cartitems/%d", result.Item.ID))
		return respond(c, fiber.StatusCreated, "Cart item created", result.Item)
	case services.MergeUpdated:
		log.Printf("POST /api/cartitems: cart item %d updated for user %d", result.Item.ID, in.UserID)
		return respond(c, fiber.StatusOK, "Cart item updated", result.Item)
	default:
		log.Printf("POST /api/cartitems: cart item %d could not be updated for user %d", result.Item.ID, in.UserID)
		return respond(c, fiber.StatusInternalServerError, "Something went wrong", nil)
	}
}

// HandleUpdateCartItem replaces the user, product and quantity of a cart item.
func (h *CartItemHandler) HandleUpdateCartItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in models.CartItemInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("PUT /api/cartitems/%d: error parsing request body: %v", id, err)
		return invalidBody(c)
	}

	if err := h.service.UpdateCartItem(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteCartItem deletes a cart item by its ID.
func (h *CartItemHandler) HandleDeleteCartItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCartItem(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	log.Printf("DELETE /api/cartitems/%d: cart item deleted", id)
	return respond(c, fiber.StatusOK, "Cart item deleted", nil)
}

// HandleDeleteCartItemByProductAndUser removes a product from a user's cart.
func (h *CartItemHandler) HandleDeleteCartItemByProductAndUser(c *fiber.Ctx) error {
	productID, userID, err := productAndUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCartItemByUserAndProduct(c.UserContext(), userID, productID); err != nil {
		return respondError(c, err)
	}
	log.Printf("DELETE /api/cartitems/%d/%d: product %d removed from cart of user %d", productID, userID, productID, userID)
	return respond(c, fiber.StatusOK, "Cart item deleted", nil)
}

func productAndUser(c *fiber.Ctx) (productID, userID uint, err error) {
	if productID, err = paramID(c, "productId"); err != nil {
		return 0, 0, err
	}
	if userID, err = paramID(c, "userId"); err != nil {
		return 0, 0, err
	}
	return productID, userID, nil
}
