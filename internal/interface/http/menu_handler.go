package handlers

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/pkg/response"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type MenuHandler struct {
	Svc    *application.MenuService
	Logger *logrus.Logger
}

func NewMenuHandler(svc *application.MenuService, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{Svc: svc, Logger: logger}
}

func (h *MenuHandler) ListPizzas(c *gin.Context) {
	pizzas, err := h.Svc.ListPizzas(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, pizzas, "Pizzas retrieved successfully")
}

// SearchPizzas handles GET /pizzas/search?q=&size=.
func (h *MenuHandler) SearchPizzas(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	pizzas, err := h.Svc.SearchPizzas(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, pizzas, "Pizzas retrieved successfully")
}

func (h *MenuHandler) ListSizes(c *gin.Context) {
	sizes, err := h.Svc.ListSizes(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sizes, "Sizes retrieved successfully")
}

func (h *MenuHandler) ListToppings(c *gin.Context) {
	toppings, err := h.Svc.ListToppings(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toppings, "Toppings retrieved successfully")
}

// UploadImage accepts a multipart "image" field and attaches it to the pizza.
func (h *MenuHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1024)
	fh, err := c.FormFile("image")
	if err != nil {
		invalidPayload(c, map[string]string{"image": "is required"})
		return
	}
	if fh.Size > maxImageBytes {
		invalidPayload(c, map[string]string{"image": "must be at most 5MB"})
		return
	}
	ext := strings.ToLower(path.Ext(fh.Filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		invalidPayload(c, map[string]string{"image": "must be a jpg, png or webp file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadPizzaImage(c.Request.Context(), c.Param("id"), f, fh.Filename, contentType)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Pizza image uploaded successfully")
}
