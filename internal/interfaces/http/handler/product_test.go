package handler

import (
	"net/http"
	"testing"

	catalogapp "github.com/lababil/pos/internal/application/catalog"
	"github.com/lababil/pos/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	w := env.do(http.MethodPost, "/api/v1/products", token,
		`{"name":"Laptop ASUS","category":"Laptop","supplier":"PT Sumber","price":"5000000","purchase_price":4500000,"stock":5}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[catalogapp.ProductResponse](t, w)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Laptop ASUS", resp.Data.Name)
	assert.True(t, decimal.NewFromInt(5000000).Equal(resp.Data.Price))
	assert.True(t, decimal.NewFromInt(10).Equal(resp.Data.ProfitMargin))
	assert.Equal(t, 5, resp.Data.Stock)
	assert.True(t, resp.Data.LowStock)
}

func TestProductHandler_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	w := env.do(http.MethodPost, "/api/v1/products", token, `{"category":"Laptop","stock":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errInfo := errorOf(t, w)
	assert.Equal(t, dto.ErrCodeValidation, errInfo.Code)
	fields := make([]string, 0, len(errInfo.Fields))
	for _, f := range errInfo.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "price", "stock"}, fields)
}

func TestProductHandler_GetByID(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	product := env.addProduct(t, "Mouse Logitech", 150000, 20)

	w := env.do(http.MethodGet, "/api/v1/products/"+product.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mouse Logitech", decode[catalogapp.ProductResponse](t, w).Data.Name)

	w = env.do(http.MethodGet, "/api/v1/products/does-not-exist", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeProductNotFound, errorOf(t, w).Code)
}

func TestProductHandler_ListAndSearch(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	env.addProduct(t, "Laptop ASUS", 5000000, 5)
	env.addProduct(t, "Laptop Lenovo", 6000000, 2)
	env.addProduct(t, "Keyboard", 300000, 40)

	w := env.do(http.MethodGet, "/api/v1/products?page=1&page_size=2&order_by=price&order_dir=desc", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]catalogapp.ProductResponse](t, w)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Laptop Lenovo", list.Data[0].Name)
	require.NotNil(t, list.Meta)
	assert.Equal(t, dto.Meta{Total: 3, Page: 1, PageSize: 2, TotalPages: 2}, *list.Meta)

	w = env.do(http.MethodGet, "/api/v1/products/search?q=LAPTOP", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]catalogapp.ProductResponse](t, w).Data, 2)

	w = env.do(http.MethodGet, "/api/v1/products/low-stock", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]catalogapp.ProductResponse](t, w).Data, 2)

	w = env.do(http.MethodGet, "/api/v1/products?order_by=password", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_UpdateAndAdjustStock(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	product := env.addProduct(t, "Printer Epson", 2000000, 3)

	w := env.do(http.MethodPut, "/api/v1/products/"+product.ID, token, `{"price":"2100000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[catalogapp.ProductResponse](t, w).Data
	assert.True(t, decimal.NewFromInt(2100000).Equal(updated.Price))
	assert.Equal(t, "Printer Epson", updated.Name)
	assert.Equal(t, 3, updated.Stock)

	w = env.do(http.MethodPost, "/api/v1/products/"+product.ID+"/stock", token, `{"delta":7,"reason":"restock"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 10, decode[catalogapp.ProductResponse](t, w).Data.Stock)

	w = env.do(http.MethodPost, "/api/v1/products/"+product.ID+"/stock", token, `{"delta":-11}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, errorOf(t, w).Code)
}

func TestProductHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	product := env.addProduct(t, "Monitor", 1500000, 4)

	w := env.do(http.MethodDelete, "/api/v1/products/"+product.ID, token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodDelete, "/api/v1/products/"+product.ID, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
