package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/services"
	"github.com/gin-gonic/gin"
)

// MaxUploadSize limits product image uploads.
const MaxUploadSize = 10 << 20

var (
	errImageTooLarge = fmt.Errorf("%w: image must be 10MB or smaller", common.ErrorValidation)
	errNotAnImage    = fmt.Errorf("%w: only image files are allowed", common.ErrorValidation)
)

var productMessages = messages{NotFound: "Product not found"}

type productRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

func (r productRequest) patch() models.ProductPatch {
	return models.ProductPatch{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		Image:       r.Image,
		Description: r.Description,
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readProduct decodes a JSON or multipart product body. The image file, if
// any, is returned separately.
func readProduct(c *gin.Context) (productRequest, *services.ImageUpload, error) {
	var req productRequest

	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, nil, err
		}
		return req, nil, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+(1<<20))
	if err := c.Request.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, nil, errImageTooLarge
		}
		return req, nil, fmt.Errorf("%w: malformed multipart body", common.ErrorValidation)
	}

	text := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	req.Name = text("name")
	req.Category = text("category")
	req.Image = text("image")
	req.Description = text("description")

	if v := text("price"); v != nil && *v != "" {
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return req, nil, fmt.Errorf("%w: price must be a number", common.ErrorValidation)
		}
		req.Price = &f
	}
	if v := text("stock"); v != nil && *v != "" {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return req, nil, fmt.Errorf("%w: stock must be a whole number", common.ErrorValidation)
		}
		req.Stock = &n
	}

	img, err := readImage(c)
	return req, img, err
}

func readImage(c *gin.Context) (*services.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed image field", common.ErrorValidation)
	}
	if fh.Size > MaxUploadSize {
		return nil, errImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, errNotAnImage
	}

	return &services.ImageUpload{Data: data, ContentType: ct}, nil
}

func (a *API) listProducts(c *gin.Context) {
	items, err := a.products.List(c.Request.Context())
	if err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (a *API) listProductsByCategory(c *gin.Context) {
	items, err := a.products.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (a *API) getProduct(c *gin.Context) {
	p, err := a.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (a *API) createProduct(c *gin.Context) {
	req, img, err := readProduct(c)
	if err != nil {
		a.failBody(c, err)
		return
	}
	if req.Name == nil || req.Price == nil {
		a.fail(c, fmt.Errorf("%w: name and price are required", common.ErrorValidation), productMessages)
		return
	}

	p := &models.Product{}
	patch := req.patch()
	patch.Apply(p)

	created, err := a.products.Create(c.Request.Context(), p, img)
	if err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": created})
}

func (a *API) updateProduct(c *gin.Context) {
	req, img, err := readProduct(c)
	if err != nil {
		a.failBody(c, err)
		return
	}

	updated, err := a.products.Update(c.Request.Context(), c.Param("id"), req.patch(), img)
	if err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": updated})
}

func (a *API) deleteProduct(c *gin.Context) {
	if err := a.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err, productMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// failBody reports an unreadable request body.
func (a *API) failBody(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorValidation) {
		a.fail(c, err, messages{})
		return
	}
	badRequest(c, err)
}
