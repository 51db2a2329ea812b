package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/backend"
	"github.com/Totarae/BatchConsole/internal/console"
	"github.com/Totarae/BatchConsole/internal/console/mocks"
	"github.com/Totarae/BatchConsole/internal/handlers"
	"github.com/Totarae/BatchConsole/internal/model"
	"github.com/Totarae/BatchConsole/internal/router"
	"github.com/Totarae/BatchConsole/internal/session"
	"github.com/Totarae/BatchConsole/internal/templates"
)

type fixture struct {
	handler *handlers.Handler
	router  http.Handler
	api     *mocks.MockBatchAPI
	cookie  *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	api := mocks.NewMockBatchAPI(gomock.NewController(t))
	renderer, err := templates.New()
	require.NoError(t, err)

	sessions := session.New("test-secret")
	h := handlers.NewHandler(console.NewController(api, zap.NewNop()), renderer, zap.NewNop())

	return &fixture{
		handler: h,
		router:  router.NewRouter(h, sessions, nil, zap.NewNop()),
		api:     api,
		cookie:  &http.Cookie{Name: "console_session", Value: sessions.SignCookieValue("tab-1")},
	}
}

func (f *fixture) do(method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(f.cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func onePage(numbers ...int) *model.Page {
	p := &model.Page{TotalPages: 1, CurrentPage: 1}
	for _, n := range numbers {
		p.Batches = append(p.Batches, model.Batch{
			BatchNumber: n,
			HoleID:      "DDH-" + string(rune('A'+n)),
			From:        model.NewNumber(0),
			To:          model.NewNumber(10),
			Machine:     "M1",
			Status:      model.StatusCorrect,
		})
	}
	return p
}

func TestRoot_Redirect(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/index/", rec.Header().Get("Location"))
}

func TestIndex(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().ListBatches(gomock.Any(), 1).Return(onePage(1, 2), nil)
	f.api.EXPECT().Metros(gomock.Any()).Return(20.0, nil)

	rec := f.do(http.MethodGet, "/index/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, 2, strings.Count(body, `/preview"`))
	assert.Contains(t, body, "20,00")
	assert.Contains(t, body, `class="btn btn-primary" href="/index/?page=1"`)
}

func TestIndex_BackendDown(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().ListBatches(gomock.Any(), 1).Return(nil, backend.ErrTransport)
	f.api.EXPECT().Metros(gomock.Any()).Return(0.0, backend.ErrTransport)

	rec := f.do(http.MethodGet, "/index/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No se pudo contactar con el servidor.")
}

func TestBatchesFragment(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().ListBatches(gomock.Any(), 2).Return(&model.Page{Batches: onePage(21).Batches, TotalPages: 2, CurrentPage: 2}, nil)
	f.api.EXPECT().Metros(gomock.Any()).Return(10.0, nil)

	rec := f.do(http.MethodGet, "/fragments/batches?page=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `id="batchesTable"`)
	assert.Contains(t, body, `class="btn btn-primary" href="/index/?page=2"`)
	assert.Contains(t, body, `<strong id="metrosEscaneados">10,00</strong>`)
}

func TestStatusChecker(t *testing.T) {
	f := newFixture(t)
	p := onePage(1)
	p.Batches[0].MachineValues = &model.MachineValues{HoleID: "DDH-B", Machine: model.DefaultMachine}
	f.api.EXPECT().StatusCheckerData(gomock.Any(), 1).Return(p, nil)

	rec := f.do(http.MethodGet, "/status_checker", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.DefaultMachine)
	assert.Contains(t, rec.Body.String(), `href="/status_checker/1/edit"`)
}

func TestCreateBatch(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().CreateBatch(gomock.Any(), model.CreateBatchRequest{
		Machine: "M1", HoleID: "H1", From: 0, To: 10, Comentarios: "",
	}).Return(nil)

	form := url.Values{"machine": {"M1"}, "hole_id": {"H1"}, "from": {"0"}, "to": {"10"}, "comentarios": {""}}
	rec := f.do(http.MethodPost, "/batches", strings.NewReader(form.Encode()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/index/?page=1", rec.Header().Get("Location"))
}

func TestCreateBatch_InvalidKeepsModal(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"machine": {"M1"}, "hole_id": {"H1"}, "from": {"abc"}, "to": {"10"}}
	rec := f.do(http.MethodPost, "/batches", strings.NewReader(form.Encode()))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	f.api.EXPECT().ListBatches(gomock.Any(), 1).Return(onePage(), nil)
	f.api.EXPECT().Metros(gomock.Any()).Return(0.0, nil)

	rec = f.do(http.MethodGet, rec.Header().Get("Location"), nil)
	body := rec.Body.String()
	assert.Contains(t, body, `id="modal-add"`)
	assert.Contains(t, body, `value="abc"`)
	assert.Contains(t, body, "Revise los campos")
}

func TestDeleteBatch_ErrorDoesNotReload(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().DeleteBatch(gomock.Any(), 42).Return(&backend.APIError{Status: http.StatusOK, Message: "x"})

	rec := f.do(http.MethodPost, "/batches/42/delete", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error al eliminar: x")
}

func TestDeleteBatch_Success(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().DeleteBatch(gomock.Any(), 3).Return(nil)

	rec := f.do(http.MethodPost, "/batches/3/delete", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/index/?page=1", rec.Header().Get("Location"))
}

func TestConfirmDelete_ShowsModal(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/batches/5/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	f.api.EXPECT().ListBatches(gomock.Any(), 1).Return(onePage(5), nil)
	f.api.EXPECT().Metros(gomock.Any()).Return(0.0, nil)

	body := f.do(http.MethodGet, "/index/", nil).Body.String()
	assert.Contains(t, body, `action="/batches/5/delete"`)
	assert.Contains(t, body, "translate(-50%, -50%)")
}

func TestPreview_NoImage(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Preview(gomock.Any(), 7).Return("", nil)

	rec := f.do(http.MethodGet, "/batches/7/preview", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	f.api.EXPECT().ListBatches(gomock.Any(), 1).Return(onePage(7), nil)
	f.api.EXPECT().Metros(gomock.Any()).Return(0.0, nil)

	body := f.do(http.MethodGet, "/index/", nil).Body.String()
	assert.Contains(t, body, "No hay imagen disponible para este batch.")
	assert.NotContains(t, body, `id="previewImage"`)
}

func TestPreview_InvalidNumber(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/batches/abc/preview", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("batchNumber", "abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	f.handler.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditBatch(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().GetBatch(gomock.Any(), 3).Return(&onePage(3).Batches[0], nil)

	rec := f.do(http.MethodGet, "/status_checker/3/edit", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/status_checker?page=1", rec.Header().Get("Location"))

	f.api.EXPECT().StatusCheckerData(gomock.Any(), 1).Return(onePage(3), nil)

	body := f.do(http.MethodGet, "/status_checker", nil).Body.String()
	assert.Contains(t, body, `action="/status_checker/3/edit"`)
	assert.Contains(t, body, `value="DDH-D"`)
}

func TestSaveBatch(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().UpdateBatch(gomock.Any(), 3, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, req model.UpdateBatchRequest) error {
			require.NotNil(t, req.HoleID)
			assert.Equal(t, "H9", *req.HoleID)
			return nil
		})

	form := url.Values{"machine": {"M1"}, "hole_id": {"H9"}, "from": {"1"}, "to": {"2"}}
	rec := f.do(http.MethodPost, "/status_checker/3/edit", strings.NewReader(form.Encode()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/status_checker?page=1", rec.Header().Get("Location"))
}

func TestCloseModal(t *testing.T) {
	f := newFixture(t)

	f.do(http.MethodGet, "/batches/new", nil)
	rec := f.do(http.MethodPost, "/modal/close", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/index/?page=1", rec.Header().Get("Location"))
}

func TestStatic(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/static/console.js", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data-fragment")
}
