package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/frequency"
	kitdomain "github.com/brandkit/brandkit/internal/kit/domain"
	productdomain "github.com/brandkit/brandkit/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerToken = "customer-token"
	sellerToken   = "seller-token"
)

type fakeAuthService struct{}

func (f *fakeAuthService) SignUp(ctx context.Context, req authdomain.SignUpRequest) (authdomain.TokenResponse, error) {
	_ = ctx
	_ = req
	return authdomain.TokenResponse{Token: customerToken}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.TokenResponse, error) {
	_ = ctx
	_ = req
	return authdomain.TokenResponse{Token: customerToken}, nil
}

func (f *fakeAuthService) Verify(ctx context.Context, token string) (authdomain.Claims, error) {
	_ = ctx
	switch token {
	case customerToken:
		return authdomain.Claims{UserID: snowflake.ID(100), Role: authdomain.RoleCustomer}, nil
	case sellerToken:
		return authdomain.Claims{UserID: snowflake.ID(200), Role: authdomain.RoleSeller}, nil
	default:
		return authdomain.Claims{}, authdomain.ErrInvalidToken
	}
}

type fakeKitService struct {
	kit        *kitdomain.SubscriptionKit
	addItemErr error
	confirmErr error
	summaryErr error
}

func (f *fakeKitService) Create(ctx context.Context, ownerID *snowflake.ID) (*kitdomain.SubscriptionKit, error) {
	_ = ctx
	kit := &kitdomain.SubscriptionKit{ID: snowflake.ID(1), UserID: ownerID, Status: kitdomain.KitStatusDraft}
	return kit, nil
}

func (f *fakeKitService) Get(ctx context.Context, kitID string) (*kitdomain.SubscriptionKit, error) {
	_ = ctx
	_ = kitID
	if f.kit == nil {
		return nil, kitdomain.ErrKitNotFound
	}
	return f.kit, nil
}

func (f *fakeKitService) List(ctx context.Context) ([]kitdomain.SubscriptionKit, error) {
	_ = ctx
	return []kitdomain.SubscriptionKit{}, nil
}

func (f *fakeKitService) ListByUser(ctx context.Context, userID snowflake.ID) ([]kitdomain.SubscriptionKit, error) {
	_ = ctx
	_ = userID
	return []kitdomain.SubscriptionKit{}, nil
}

func (f *fakeKitService) AddItem(ctx context.Context, kitID string, req kitdomain.AddItemRequest) (*kitdomain.KitItem, error) {
	_ = ctx
	_ = kitID
	if f.addItemErr != nil {
		return nil, f.addItemErr
	}
	return &kitdomain.KitItem{Quantity: req.Quantity}, nil
}

func (f *fakeKitService) UpdateItemQuantity(ctx context.Context, kitID, productID string, quantity int) (*kitdomain.KitItem, error) {
	_ = ctx
	_ = kitID
	_ = productID
	return &kitdomain.KitItem{Quantity: quantity}, nil
}

func (f *fakeKitService) RemoveItem(ctx context.Context, kitID, productID string) error {
	_ = ctx
	_ = kitID
	_ = productID
	return nil
}

func (f *fakeKitService) SetDeliveryFrequency(ctx context.Context, kitID string, frequencyID int64) (*kitdomain.SubscriptionKit, error) {
	_ = ctx
	_ = kitID
	return &kitdomain.SubscriptionKit{ID: snowflake.ID(1), DeliveryFrequencyID: &frequencyID}, nil
}

func (f *fakeKitService) Confirm(ctx context.Context, kitID string, userID snowflake.ID) (*kitdomain.SubscriptionKit, error) {
	_ = ctx
	_ = kitID
	_ = userID
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &kitdomain.SubscriptionKit{ID: snowflake.ID(1), Status: kitdomain.KitStatusConfirmed}, nil
}

func (f *fakeKitService) Summary(ctx context.Context, kitID string) (*kitdomain.Summary, error) {
	_ = ctx
	_ = kitID
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return &kitdomain.Summary{Items: []kitdomain.SummaryItem{}}, nil
}

type fakeProductService struct{}

func (f *fakeProductService) Create(ctx context.Context, sellerID int64, req productdomain.CreateRequest) (*productdomain.Product, error) {
	_ = ctx
	return &productdomain.Product{ID: snowflake.ID(10), SellerID: snowflake.ID(sellerID), Name: req.Name, PriceCents: req.PriceCents}, nil
}

func (f *fakeProductService) List(ctx context.Context, req productdomain.ListRequest) ([]productdomain.Product, error) {
	_ = ctx
	_ = req
	return []productdomain.Product{}, nil
}

func (f *fakeProductService) Get(ctx context.Context, id string) (*productdomain.Product, error) {
	_ = ctx
	_ = id
	return nil, productdomain.ErrNotFound
}

func newTestServer(t *testing.T, kitSvc kitdomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:           engine,
		Authsvc:       &fakeAuthService{},
		ProductSvc:    &fakeProductService{},
		FrequencyRepo: frequency.Provide(),
		KitSvc:        kitSvc,
	})
	return engine
}

func doRequest(engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeErrorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Type
}

func TestCreateKitAllowsAnonymous(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{})

	rec := doRequest(engine, http.MethodPost, "/kits", "", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestKitMutationsRequireAuth(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{})

	body := map[string]any{"product_id": "1", "quantity": 1}

	rec := doRequest(engine, http.MethodPost, "/kits/1/items", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(engine, http.MethodPost, "/kits/1/items", "bogus", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(engine, http.MethodPost, "/kits/1/items", customerToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSummaryNotFound(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{summaryErr: kitdomain.ErrKitNotFound})

	rec := doRequest(engine, http.MethodGet, "/kits/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorType(t, rec))
}

func TestConfirmEmptyKitIsBadRequest(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{confirmErr: kitdomain.ErrEmptyKit})

	rec := doRequest(engine, http.MethodPost, "/kits/1/confirm", customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_kit", decodeErrorType(t, rec))
}

func TestMutatingConfirmedKitConflicts(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{
		addItemErr: kitdomain.ErrKitConfirmed,
		confirmErr: kitdomain.ErrAlreadyConfirmed,
	})

	body := map[string]any{"product_id": "1", "quantity": 1}
	rec := doRequest(engine, http.MethodPost, "/kits/1/items", customerToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeErrorType(t, rec))

	rec = doRequest(engine, http.MethodPost, "/kits/1/confirm", customerToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateProductRequiresSellerRole(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{})

	body := map[string]any{"name": "Coffee", "price_cents": 1000}

	rec := doRequest(engine, http.MethodPost, "/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(engine, http.MethodPost, "/products", customerToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeErrorType(t, rec))

	rec = doRequest(engine, http.MethodPost, "/products", sellerToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMySubscriptionsRouteIsNotShadowed(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{})

	rec := doRequest(engine, http.MethodGet, "/kits/my-subscriptions", customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(engine, http.MethodGet, "/kits/my-subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidJSONBodyIsBadRequest(t *testing.T) {
	engine := newTestServer(t, &fakeKitService{})

	req := httptest.NewRequest(http.MethodPost, "/kits/1/items", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+customerToken)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeErrorType(t, rec))
}
