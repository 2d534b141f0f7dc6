package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quoteflow/internal/adapter/http/handlers/mocks"
	"quoteflow/internal/adapter/http/middleware"
	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func quoteJSON() string {
	return `{"client_name":"Acme Co","client_email":"billing@acme.test","job_description":"Kitchen remodel","line_items":[{"description":"Design","quantity":2,"unit_price_cents":15000}]}`
}

func TestQuoteHandler_CreateQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)

		r := gin.New()
		r.POST("/v1/quotes", asUser("user-1"), h.CreateQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("binding rejects empty line items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)

		r := gin.New()
		r.POST("/v1/quotes", asUser("user-1"), h.CreateQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString(`{"client_name":"Acme","job_description":"x","line_items":[]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).
			Return(entities.Quote{}, &usecase.ValidationError{Field: "client_email", Reason: "invalid email address"})

		r := gin.New()
		r.POST("/v1/quotes", asUser("user-1"), h.CreateQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString(quoteJSON()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, in usecase.QuoteInput) (entities.Quote, error) {
				if in.ClientName != "Acme Co" || len(in.LineItems) != 1 || in.LineItems[0].UnitPriceCents != 15000 {
					t.Fatalf("unexpected input: %+v", in)
				}
				return entities.Quote{ID: "q-1", UserID: "user-1", Status: entities.QuoteStatusDraft, TotalCents: 30000}, nil
			},
		)

		r := gin.New()
		r.POST("/v1/quotes", asUser("user-1"), h.CreateQuote)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString(quoteJSON()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body["id"] != "q-1" || body["status"] != "draft" {
			t.Fatalf("unexpected body: %v", body)
		}
		if _, leaked := body["user_id"]; leaked {
			t.Fatalf("response must not expose the owner id")
		}
	})
}

func TestQuoteHandler_SendQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("guard failure maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().MarkSent(gomock.Any(), "user-1", "q-1").Return(entities.Quote{}, usecase.ErrQuoteAlreadyPaid)

		r := gin.New()
		r.POST("/v1/quotes/:id/send", asUser("user-1"), h.SendQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotes/q-1/send", nil))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("empty quote maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().MarkSent(gomock.Any(), "user-1", "q-1").Return(entities.Quote{}, usecase.ErrQuoteNoLineItems)

		r := gin.New()
		r.POST("/v1/quotes/:id/send", asUser("user-1"), h.SendQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotes/q-1/send", nil))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().MarkSent(gomock.Any(), "user-1", "q-1").
			Return(entities.Quote{ID: "q-1", Status: entities.QuoteStatusSent}, nil)

		r := gin.New()
		r.POST("/v1/quotes/:id/send", asUser("user-1"), h.SendQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotes/q-1/send", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_GetQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().GetByID(gomock.Any(), "user-1", "q-404").Return(entities.Quote{}, usecase.ErrQuoteNotFound)

		r := gin.New()
		r.GET("/v1/quotes/:id", asUser("user-1"), h.GetQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotes/q-404", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("storage error maps to 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().GetByID(gomock.Any(), "user-1", "q-1").Return(entities.Quote{}, errors.New("db"))

		r := gin.New()
		r.GET("/v1/quotes/:id", asUser("user-1"), h.GetQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotes/q-1", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_UpdateQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("sent quote maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().Update(gomock.Any(), "user-1", "q-1", gomock.Any()).
			Return(entities.Quote{}, usecase.ErrQuoteNotEditable)

		r := gin.New()
		r.PUT("/v1/quotes/:id", asUser("user-1"), h.UpdateQuote)

		req := httptest.NewRequest(http.MethodPut, "/v1/quotes/q-1", bytes.NewBufferString(quoteJSON()))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_DeleteQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("paid quote maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().Delete(gomock.Any(), "user-1", "q-1").Return(usecase.ErrQuotePaidDelete)

		r := gin.New()
		r.DELETE("/v1/quotes/:id", asUser("user-1"), h.DeleteQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/quotes/q-1", nil))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().Delete(gomock.Any(), "user-1", "q-1").Return(nil)

		r := gin.New()
		r.DELETE("/v1/quotes/:id", asUser("user-1"), h.DeleteQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/quotes/q-1", nil))

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}

func TestQuoteHandler_GetPublicQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("hidden quote maps to 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().GetPublicByID(gomock.Any(), "q-1").Return(entities.Quote{}, usecase.ErrQuoteNotFound)

		r := gin.New()
		r.GET("/v1/public/quotes/:id", h.GetPublicQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/public/quotes/q-1", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		h := NewQuoteHandler(uc)
		uc.EXPECT().GetPublicByID(gomock.Any(), "q-1").
			Return(entities.Quote{ID: "q-1", UserID: "user-1", Status: entities.QuoteStatusSent, TotalCents: 30000}, nil)

		r := gin.New()
		r.GET("/v1/public/quotes/:id", h.GetPublicQuote)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/public/quotes/q-1", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
