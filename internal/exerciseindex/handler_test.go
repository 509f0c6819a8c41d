package exerciseindex_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/exerciseindex"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testUser = auth.Identity{Username: "ana", Role: auth.RoleUser}

func newTestRouter(t *testing.T) (*mux.Router, *MockcatalogService) {
	ctrl := gomock.NewController(t)
	service := NewMockcatalogService(ctrl)
	r := mux.NewRouter()
	exerciseindex.NewHandler(service).SetupRoutes(r.PathPrefix("/exercise-index").Subrouter())
	return r, service
}

func serve(r *mux.Router, req *http.Request, identity *auth.Identity) *httptest.ResponseRecorder {
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *identity))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_List(t *testing.T) {
	r, service := newTestRouter(t)
	service.EXPECT().
		Fetch(gomock.Any(), exerciseindex.Filters{Category: "warmup", Search: "lunge"}).
		Return([]exerciseindex.Item{{ID: 1, Name: "Walking Lunges", Category: "warmup"}}, nil)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/exercise-index?category=warmup&search=lunge", nil), &testUser)
	require.Equal(t, http.StatusOK, rr.Code)

	var items []exerciseindex.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Walking Lunges", items[0].Name)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/exercise-index?category=cardio", nil), &testUser)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Grouped(t *testing.T) {
	r, service := newTestRouter(t)
	service.EXPECT().Grouped(gomock.Any()).Return(map[string]map[string][]exerciseindex.Item{
		"core": {"Other": {{ID: 5, Name: "Plank"}}},
	}, nil)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/exercise-index/grouped", nil), &testUser)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Other":[{"id":5,"name":"Plank"`)
}

func TestHandler_Add(t *testing.T) {
	r, service := newTestRouter(t)

	body := `{"name": "Pallof Press", "category": "core", "subcategory": "Anti-Rotation", "tags": ["cable"]}`
	service.EXPECT().Add(gomock.Any(), testUser, exerciseindex.Item{
		Name:        "Pallof Press",
		Category:    "core",
		Subcategory: "Anti-Rotation",
		Tags:        []string{"cable"},
	}).Return(&exerciseindex.Item{ID: 12, Name: "Pallof Press", Category: "core"})

	rr := serve(r, httptest.NewRequest(http.MethodPost, "/exercise-index", strings.NewReader(body)), &testUser)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":12`)

	// loose failure
	service.EXPECT().Add(gomock.Any(), testUser, gomock.Any()).Return(nil)
	rr = serve(r, httptest.NewRequest(http.MethodPost, "/exercise-index", strings.NewReader(body)), &testUser)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_Add_BadRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodPost, "/exercise-index", strings.NewReader(`{`)), &testUser)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodPost, "/exercise-index", strings.NewReader(`{"name": "X", "category": "cardio"}`)), &testUser)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodPost, "/exercise-index", strings.NewReader(`{"name": "X", "category": "core"}`)), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Update(t *testing.T) {
	r, service := newTestRouter(t)
	tier := "A Tier"

	service.EXPECT().Update(gomock.Any(), testUser, 3, exerciseindex.ItemPatch{Tier: &tier}).
		Return(&exerciseindex.Item{ID: 3, Tier: tier}, nil)
	rr := serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/3", strings.NewReader(`{"tier": "A Tier"}`)), &testUser)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tier":"A Tier"`)

	service.EXPECT().Update(gomock.Any(), testUser, 4, gomock.Any()).Return(nil, exerciseindex.ErrForbidden)
	rr = serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/4", strings.NewReader(`{"tier": "A Tier"}`)), &testUser)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	service.EXPECT().Update(gomock.Any(), testUser, 5, gomock.Any()).Return(nil, exerciseindex.ErrItemNotFound)
	rr = serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/5", strings.NewReader(`{"tier": "A Tier"}`)), &testUser)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	service.EXPECT().Update(gomock.Any(), testUser, 6, gomock.Any()).Return(nil, nil)
	rr = serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/6", strings.NewReader(`{"tier": "A Tier"}`)), &testUser)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/abc", strings.NewReader(`{"tier": "A Tier"}`)), &testUser)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodPut, "/exercise-index/3", strings.NewReader(`{}`)), &testUser)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Delete(t *testing.T) {
	r, service := newTestRouter(t)

	service.EXPECT().Delete(gomock.Any(), testUser, 3).Return(true, nil)
	rr := serve(r, httptest.NewRequest(http.MethodDelete, "/exercise-index/3", nil), &testUser)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted", rr.Body.String())

	service.EXPECT().Delete(gomock.Any(), testUser, 4).Return(false, nil)
	rr = serve(r, httptest.NewRequest(http.MethodDelete, "/exercise-index/4", nil), &testUser)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	service.EXPECT().Delete(gomock.Any(), testUser, 5).Return(false, exerciseindex.ErrForbidden)
	rr = serve(r, httptest.NewRequest(http.MethodDelete, "/exercise-index/5", nil), &testUser)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
