package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
	"github.com/cse-motors/motors/internal/render"
)

type mockInventoryStore struct {
	mock.Mock
}

func (m *mockInventoryStore) GetClassifications(ctx context.Context) ([]models.Classification, error) {
	args := m.Called()
	if list, ok := args.Get(0).([]models.Classification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryStore) GetVehiclesByClassification(ctx context.Context, classificationID int64) ([]models.Vehicle, error) {
	args := m.Called(classificationID)
	if list, ok := args.Get(0).([]models.Vehicle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryStore) GetVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	args := m.Called(id)
	if v, ok := args.Get(0).(*models.Vehicle); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInventoryStore) AddClassification(ctx context.Context, name string) (int64, error) {
	args := m.Called(name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInventoryStore) AddVehicle(ctx context.Context, v *models.Vehicle) (int64, error) {
	args := m.Called(v)
	return args.Get(0).(int64), args.Error(1)
}

type fakeRenderer struct {
	status int
	page   string
	data   render.PageData
}

func (f *fakeRenderer) Render(w http.ResponseWriter, r *http.Request, page, title string, data render.PageData) {
	f.RenderStatus(w, r, http.StatusOK, page, title, data)
}

func (f *fakeRenderer) RenderStatus(w http.ResponseWriter, r *http.Request, status int, page, title string, data render.PageData) {
	f.status = status
	f.page = page
	f.data = data
	w.WriteHeader(status)
}

func (f *fakeRenderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	f.status = status
	f.page = "error.html"
	w.WriteHeader(status)
}

func newTestHandler() (*Handler, *mockInventoryStore, *fakeRenderer) {
	store := &mockInventoryStore{}
	renderer := &fakeRenderer{}
	return NewHandler(store, nil, flash.New("session-secret"), renderer), store, renderer
}

func testRouter(h *Handler, claims *auth.Claims) http.Handler {
	mw := auth.NewMiddleware(auth.NewTokenManager("test-secret"), flash.New("session-secret"))

	r := chi.NewRouter()
	if claims != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithClaims(req.Context(), claims)))
			})
		})
	}
	r.Mount("/inv", h.Routes(mw))
	return r
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestClassificationPageIsPublic(t *testing.T) {
	h, store, renderer := newTestHandler()
	store.On("GetVehiclesByClassification", int64(1)).Return([]models.Vehicle{
		{ID: 3, Make: "Honda", Model: "Civic", ClassificationName: "Sedan"},
	}, nil)
	router := testRouter(h, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/inv/type/1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inventory/classification.html", renderer.page)
}

func TestDetailUnknownVehicle(t *testing.T) {
	h, store, renderer := newTestHandler()
	store.On("GetVehicleByID", int64(99)).Return(nil, ErrNotFound)
	router := testRouter(h, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/inv/detail/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error.html", renderer.page)
}

func TestManagementRequiresEmployee(t *testing.T) {
	h, _, _ := newTestHandler()

	cases := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{"anonymous", nil, http.StatusSeeOther},
		{"client", &auth.Claims{AccountID: 1, AccountType: models.AccountTypeClient}, http.StatusSeeOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(h, tc.claims)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", "/inv/", nil))

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "/account/login", rec.Header().Get("Location"))
		})
	}
}

func TestManagementAllowsEmployee(t *testing.T) {
	h, store, renderer := newTestHandler()
	store.On("GetClassifications").Return([]models.Classification{{ID: 1, Name: "Sedan"}}, nil)
	router := testRouter(h, &auth.Claims{AccountID: 2, AccountType: models.AccountTypeEmployee})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/inv/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inventory/management.html", renderer.page)
}

func TestAddClassificationRejectsSpaces(t *testing.T) {
	h, store, renderer := newTestHandler()
	router := testRouter(h, &auth.Claims{AccountID: 2, AccountType: models.AccountTypeAdmin})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/inv/add-classification", url.Values{
		"classification_name": {"Sport Utility"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "inventory/add-classification.html", renderer.page)
	assert.NotEmpty(t, renderer.data["Errors"])
	store.AssertNotCalled(t, "AddClassification", mock.Anything)
}

func TestAddClassificationSuccess(t *testing.T) {
	h, store, _ := newTestHandler()
	store.On("AddClassification", "SUV").Return(int64(3), nil)
	router := testRouter(h, &auth.Claims{AccountID: 2, AccountType: models.AccountTypeAdmin})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/inv/add-classification", url.Values{
		"classification_name": {"SUV"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/inv/", rec.Header().Get("Location"))
	store.AssertExpectations(t)
}

func TestAddVehicleValidation(t *testing.T) {
	h, store, renderer := newTestHandler()
	store.On("GetClassifications").Return([]models.Classification{{ID: 1, Name: "Sedan"}}, nil)
	router := testRouter(h, &auth.Claims{AccountID: 2, AccountType: models.AccountTypeEmployee})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/inv/add-inventory", url.Values{
		"classification_id": {"1"},
		"inv_make":          {"GM"}, // too short
		"inv_model":         {"Hummer"},
		"inv_year":          {"2022"},
		"inv_description":   {"A very big vehicle."},
		"inv_price":         {"58000"},
		"inv_miles":         {"12000"},
		"inv_color":         {"Yellow"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "inventory/add-inventory.html", renderer.page)
	store.AssertNotCalled(t, "AddVehicle", mock.Anything)
}

// Without object storage the stock image paths are assigned.
func TestAddVehicleUsesDefaultImages(t *testing.T) {
	h, store, _ := newTestHandler()
	store.On("AddVehicle", mock.MatchedBy(func(v *models.Vehicle) bool {
		return v.Make == "Honda" && v.Image == DefaultImage && v.Thumbnail == DefaultThumbnail
	})).Return(int64(3), nil)
	router := testRouter(h, &auth.Claims{AccountID: 2, AccountType: models.AccountTypeEmployee})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/inv/add-inventory", url.Values{
		"classification_id": {"1"},
		"inv_make":          {"Honda"},
		"inv_model":         {"Civic"},
		"inv_year":          {"2022"},
		"inv_description":   {"A dependable commuter sedan."},
		"inv_price":         {"24000"},
		"inv_miles":         {"15000"},
		"inv_color":         {"Blue"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/inv/", rec.Header().Get("Location"))
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "GetClassifications")
}
