package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/netx"
)

type productsResponse struct {
	Products []models.Product `json:"products"`
}

type productResponse struct {
	Product models.Product `json:"product"`
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out productResponse
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	return c.sendProduct(ctx, http.MethodPost, "/products", in, img)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	return c.sendProduct(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in, img)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

// sendProduct posts JSON, or multipart/form-data when an image file is attached.
func (c *Client) sendProduct(ctx context.Context, method, path string, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	var out productResponse

	if img == nil {
		if err := c.doJSON(ctx, method, path, in, &out); err != nil {
			return nil, err
		}
		return &out.Product, nil
	}

	body, contentType, err := netx.MultipartBody(productFields(in), &netx.FilePart{
		Field:       "image",
		Name:        img.Name,
		ContentType: img.ContentType,
		Data:        img.Data,
	})
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, method, path, body, contentType, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func productFields(in models.ProductInput) map[string]string {
	f := map[string]string{}
	set := func(k string, v *string) {
		if v != nil {
			f[k] = *v
		}
	}
	set("name", in.Name)
	set("category", in.Category)
	set("description", in.Description)
	set("image", in.Image)
	if in.Price != nil {
		f["price"] = strconv.FormatFloat(*in.Price, 'f', -1, 64)
	}
	if in.Stock != nil {
		f["stock"] = strconv.Itoa(*in.Stock)
	}
	return f
}
