package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListProducts(t *testing.T) {
	c, rec := newTestClient(t, "", http.StatusOK, map[string]any{
		"products": []map[string]any{{"id": "p1", "name": "Loaf", "price": 5.5}, {"id": "p2"}},
	})

	items, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 5.5, items[0].Price)
	assert.Equal(t, "/api/products", rec.path)
}

func TestListByCategory_EscapesPath(t *testing.T) {
	c, rec := newTestClient(t, "", http.StatusOK, map[string]any{"products": []any{}})

	items, err := c.ListByCategory(context.Background(), "sweet bread/rolls")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "/api/products/category/sweet%20bread%2Frolls", rec.path)
}

func TestGetProduct_NotFound(t *testing.T) {
	c, _ := newTestClient(t, "", http.StatusNotFound, map[string]any{"message": "Product not found"})

	_, err := c.GetProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.EqualError(t, err, "Product not found")
}

func TestCreateProduct_JSON(t *testing.T) {
	c, rec := newTestClient(t, "adm", http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": map[string]any{"id": "p1", "name": "Loaf", "price": 5},
	})

	p, err := c.CreateProduct(context.Background(), models.ProductInput{Name: ptr("Loaf"), Price: ptr(5.0)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "application/json", rec.contentType)
	assert.Equal(t, map[string]any{"name": "Loaf", "price": 5.0}, decodeSent(t, rec))
}

func TestUpdateProduct_Multipart(t *testing.T) {
	var (
		form  map[string][]string
		file  []byte
		ctype string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/products/p1", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = r.MultipartForm.Value

		f, fh, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		ctype = fh.Header.Get("Content-Type")
		file, _ = io.ReadAll(f)

		_, _ = w.Write([]byte(`{"product":{"id":"p1","stock":7}}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second, nil)
	p, err := c.UpdateProduct(context.Background(), "p1",
		models.ProductInput{Stock: ptr(7), Price: ptr(4.25), Description: ptr("crusty")},
		&models.ImageFile{Name: "loaf.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.NoError(t, err)

	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, []string{"7"}, form["stock"])
	assert.Equal(t, []string{"4.25"}, form["price"])
	assert.Equal(t, []string{"crusty"}, form["description"])
	assert.NotContains(t, form, "name")
	assert.Equal(t, "image/jpeg", ctype)
	assert.Equal(t, []byte("jpeg"), file)
}

func TestDeleteProduct(t *testing.T) {
	c, rec := newTestClient(t, "adm", http.StatusOK, map[string]any{"message": "Product deleted successfully"})

	require.NoError(t, c.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/products/p1", rec.path)
	assert.Equal(t, "Bearer adm", rec.auth)
}

func TestDeleteProduct_Forbidden(t *testing.T) {
	c, _ := newTestClient(t, "cust", http.StatusForbidden, map[string]any{"message": "Admin access required"})

	err := c.DeleteProduct(context.Background(), "p1")
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
}
