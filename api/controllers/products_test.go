package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shadeworks/storefront/internal/products"
)

type stubProductsService struct {
	listed    []products.ProductDTO
	created   *products.ProductDTO
	createErr error
	deleted   []int64
}

func (s *stubProductsService) ListProducts(context.Context) ([]products.ProductDTO, error) {
	return s.listed, nil
}

func (s *stubProductsService) GetProduct(context.Context, int64) (*products.ProductDTO, error) {
	return s.created, s.createErr
}

func (s *stubProductsService) CreateProduct(context.Context, products.ProductInput) (*products.ProductDTO, error) {
	return s.created, s.createErr
}

func (s *stubProductsService) UpdateProduct(context.Context, int64, products.ProductInput) (*products.ProductDTO, error) {
	return s.created, s.createErr
}

func (s *stubProductsService) DeleteProduct(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.createErr
}

func (s *stubProductsService) SeedDefaults(context.Context) error {
	return nil
}

func TestListProductsContractShape(t *testing.T) {
	t.Parallel()

	svc := &stubProductsService{listed: []products.ProductDTO{
		{ID: 1, Name: "Classic Aviator Sunglasses", Price: 59.99, ImageURL: "/static/images/aviator.png"},
	}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Products []products.ProductDTO `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].Price != 59.99 {
		t.Fatalf("unexpected contract shape: %s", rec.Body.String())
	}
}

func TestAdminCreateProductRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	handler := AdminCreateProduct(&stubProductsService{}, nil)

	body := `{"name":"X","price":10,"surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	t.Parallel()

	handler := AdminCreateProduct(&stubProductsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/", strings.NewReader(`{"name":"","price":0}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %s", rec.Body.String())
	}
	if _, ok := resp.Error.Details["name"]; !ok {
		t.Fatalf("expected field details, got %s", rec.Body.String())
	}
}

func TestAdminDeleteProductParsesParam(t *testing.T) {
	t.Parallel()

	svc := &stubProductsService{}

	r := chi.NewRouter()
	r.Delete("/api/admin/v1/products/{productId}", AdminDeleteProduct(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != 3 {
		t.Fatalf("expected delete of id 3, got %v", svc.deleted)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/zero", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}
