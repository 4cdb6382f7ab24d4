package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/services"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

func newRoasterRouter(svc RoasterService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(stubFarmerSvc{}, svc, stubPinger{up: true})
	r := gin.New()
	r.POST("/api/roasters", h.CreateRoaster)
	r.GET("/api/roasters", h.ListRoasters)
	r.GET("/api/roasters/:id", h.GetRoaster)
	r.PUT("/api/roasters/:id", h.UpdateRoaster)
	r.DELETE("/api/roasters/:id", h.DeleteRoaster)
	return r
}

func TestCreateRoaster_Created201(t *testing.T) {
	r := newRoasterRouter(stubRoasterSvc{
		create: func(_ context.Context, in services.CreateRoasterInput) (*domain.Roaster, error) {
			if in.BusinessName != "North Roast Co" {
				t.Fatalf("input not passed through: %+v", in)
			}
			return &domain.Roaster{BusinessName: in.BusinessName}, nil
		},
	})

	body := `{"businessName":"North Roast Co","email":"o@n.co","location":"Portland"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/roasters", bytes.NewBufferString(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201. body=%s", w.Code, w.Body.String())
	}
}

func TestListRoasters_TierFilterBypassesPagination(t *testing.T) {
	var gotTier string
	r := newRoasterRouter(stubRoasterSvc{
		listByTier: func(_ context.Context, tier string) ([]*domain.Roaster, error) {
			gotTier = tier
			return []*domain.Roaster{{BusinessName: "a"}, {BusinessName: "b"}}, nil
		},
		list: func(context.Context, utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error) {
			t.Fatalf("List called; expected ListByTier")
			return nil, utils.PageMeta{}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/roasters?tier=premium", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if gotTier != "premium" {
		t.Fatalf("tier = %q; want premium", gotTier)
	}
	var sr SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if sr.Pagination != nil {
		t.Fatalf("tier filter must not carry pagination: %+v", sr.Pagination)
	}
}

func TestListRoasters_InvalidTier400(t *testing.T) {
	r := newRoasterRouter(stubRoasterSvc{
		listByTier: func(_ context.Context, tier string) ([]*domain.Roaster, error) {
			return nil, &services.ValidationError{Field: "tier", Message: "must be one of free, basic, premium, enterprise"}
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/roasters?tier=gold", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeValidation {
		t.Fatalf("code = %q; want %q", er.Code, ErrCodeValidation)
	}
}

func TestListRoasters_PlainListWhenNoTier(t *testing.T) {
	called := false
	r := newRoasterRouter(stubRoasterSvc{
		list: func(_ context.Context, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error) {
			called = true
			return nil, utils.NewPageMeta(page, 0), nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/roasters", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !called {
		t.Fatalf("plain list not served: status=%d called=%v", w.Code, called)
	}
}
