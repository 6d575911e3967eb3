package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergrid/internal/grid"
	"ordergrid/internal/model"
	"ordergrid/internal/mw"
	"ordergrid/internal/service"
)

const testSecret = "test-secret"

type fakeReceipts struct {
	outcomes []string
}

func (f *fakeReceipts) RecordSaveReceipt(_ context.Context, _, _ string, _ int, outcome string) error {
	f.outcomes = append(f.outcomes, outcome)
	return nil
}

type testEnv struct {
	router   chi.Router
	store    *service.SessionStore
	receipts *fakeReceipts
	token    string
}

func newTestEnv(t *testing.T, saveURL string) *testEnv {
	t.Helper()

	store := service.NewSessionStore(grid.DefaultDepth)
	receipts := &fakeReceipts{}
	saver := service.NewSaveClient(saveURL)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(testSecret))

		r.Post("/api/grid", CreateSessionHandler(store))
		r.Get("/api/grid/{sessionID}", GetSessionHandler(store))
		r.Post("/api/grid/{sessionID}/rows", AddRowHandler(store))
		r.Delete("/api/grid/{sessionID}/rows/{rowID}", DeleteRowHandler(store))
		r.Post("/api/grid/{sessionID}/cell", SetCellHandler(store))
		r.Post("/api/grid/{sessionID}/bulk", BulkUpdateHandler(store))
		r.Post("/api/grid/{sessionID}/selection", SelectHandler(store))
		r.Post("/api/grid/{sessionID}/copy", CopyHandler(store))
		r.Post("/api/grid/{sessionID}/paste", PasteHandler(store))
		r.Post("/api/grid/{sessionID}/undo", UndoHandler(store))
		r.Post("/api/grid/{sessionID}/redo", RedoHandler(store))
		r.Get("/api/grid/{sessionID}/export", ExportCSVHandler(store))
		r.Post("/api/grid/{sessionID}/import", ImportCSVHandler(store))
		r.Post("/api/grid/{sessionID}/save", SaveHandler(store, saver, receipts))
		r.Get("/api/directory/payment-types", PaymentTypesHandler())
		r.Get("/api/directory/carrying-bases", CarryingBasesHandler())
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "clerk-1",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &testEnv{router: r, store: store, receipts: receipts, token: signed}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createSession(t *testing.T) grid.State {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/grid", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var st grid.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Len(t, st.Rows, 1)
	return st
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) grid.State {
	t.Helper()
	var st grid.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	req := httptest.NewRequest(http.MethodPost, "/api/grid", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionIsolation(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "intruder",
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := other.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/grid/"+st.SessionID, nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCellEditFlow(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	rowID := st.Rows[0].ID
	base := "/api/grid/" + st.SessionID

	rec := env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: model.FieldQuantity, Value: "5"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: model.FieldUnitPrice, Value: "20"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeState(t, rec)
	assert.Equal(t, 100.0, got.Rows[0].TotalPrice)
	assert.True(t, got.CanUndo)

	rec = env.do(t, http.MethodPost, base+"/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeState(t, rec)
	assert.Equal(t, 0.0, got.Rows[0].UnitPrice)
	assert.Equal(t, 5, got.Rows[0].Quantity)
	assert.True(t, got.CanRedo)

	rec = env.do(t, http.MethodPost, base+"/redo", nil)
	got = decodeState(t, rec)
	assert.Equal(t, 100.0, got.Rows[0].TotalPrice)
}

func TestCellEditRejections(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	base := "/api/grid/" + st.SessionID
	rowID := st.Rows[0].ID

	rec := env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: model.FieldTotalPrice, Value: "9"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: model.FieldPaymentType, Value: "IOU"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: "missing", Field: model.FieldNotes, Value: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRowLifecycle(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	base := "/api/grid/" + st.SessionID
	first := st.Rows[0].ID

	rec := env.do(t, http.MethodPost, base+"/rows", addRowRequest{AfterID: first})
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeState(t, rec)
	require.Len(t, got.Rows, 2)
	second := got.Rows[1].ID

	rec = env.do(t, http.MethodDelete, base+"/rows/"+second, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeState(t, rec)
	require.Len(t, got.Rows, 1)

	rec = env.do(t, http.MethodDelete, base+"/rows/"+first, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "the last row must survive")
}

func TestClipboardFlow(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	base := "/api/grid/" + st.SessionID
	first := st.Rows[0].ID

	rec := env.do(t, http.MethodPost, base+"/rows", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeState(t, rec).Rows[1].ID

	rec = env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: first, Field: model.FieldQuantity, Value: "7"})
	require.Equal(t, http.StatusOK, rec.Code)

	// copy with nothing selected is a quiet no-op
	rec = env.do(t, http.MethodPost, base+"/copy", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/selection", selectRequest{Cells: grid.Selection{{RowID: first, Field: model.FieldQuantity}}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, base+"/copy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).ClipboardSize)

	rec = env.do(t, http.MethodPost, base+"/selection", selectRequest{Cells: grid.Selection{{RowID: second, Field: model.FieldQuantity}}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, base+"/paste", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pasted struct {
		grid.State
		Applied int `json:"applied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pasted))
	assert.Equal(t, 1, pasted.Applied)
	assert.Equal(t, 7, pasted.Rows[1].Quantity)
}

func TestBulkUpdateEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	base := "/api/grid/" + st.SessionID
	first := st.Rows[0].ID

	rec := env.do(t, http.MethodPost, base+"/rows", nil)
	second := decodeState(t, rec).Rows[1].ID

	rec = env.do(t, http.MethodPost, base+"/bulk", bulkUpdateRequest{
		Cells: grid.Selection{
			{RowID: first, Field: model.FieldCarryingBasis},
			{RowID: second, Field: model.FieldCarryingBasis},
		},
		Field: model.FieldCarryingBasis,
		Value: "AIR",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeState(t, rec)
	assert.Equal(t, "AIR", got.Rows[0].CarryingBasis)
	assert.Equal(t, "AIR", got.Rows[1].CarryingBasis)
}

func TestCSVEndpoints(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	st := env.createSession(t)
	base := "/api/grid/" + st.SessionID
	rowID := st.Rows[0].ID

	rec := env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: model.FieldItemCode, Value: "X-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), grid.ExportFilename)
	assert.Contains(t, rec.Body.String(), "X-1")

	csv := "Item Code,Description,Quantity\nA-1,alpha,2\nB-2,beta,3\n"
	rec = env.do(t, http.MethodPost, base+"/import", csv)
	require.Equal(t, http.StatusOK, rec.Code)

	var imported struct {
		grid.State
		Imported int `json:"imported"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Equal(t, 2, imported.Imported)
	require.Len(t, imported.Rows, 2)
	assert.Equal(t, "A-1", imported.Rows[0].ItemCode)

	// garbage import keeps the grid and reports zero rows
	rec = env.do(t, http.MethodPost, base+"/import", "nonsense")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Zero(t, imported.Imported)
	assert.Len(t, imported.Rows, 2)
}

func TestSaveEndpoint(t *testing.T) {
	t.Run("validation blocks the save", func(t *testing.T) {
		env := newTestEnv(t, "http://localhost:0")
		st := env.createSession(t)

		rec := env.do(t, http.MethodPost, "/api/grid/"+st.SessionID+"/save", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "item code is required")
		assert.Empty(t, env.receipts.outcomes)
	})

	t.Run("valid rows are handed to the save endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		env := newTestEnv(t, srv.URL)
		st := env.createSession(t)
		base := "/api/grid/" + st.SessionID
		rowID := st.Rows[0].ID

		for field, value := range map[string]string{
			model.FieldItemCode:    "X-1",
			model.FieldDescription: "widget",
		} {
			rec := env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: field, Value: value})
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := env.do(t, http.MethodPost, base+"/save", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"savedRows":1`)
		assert.Equal(t, []string{"saved"}, env.receipts.outcomes)
	})

	t.Run("save failure reports and records without mutating", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		env := newTestEnv(t, srv.URL)
		st := env.createSession(t)
		base := "/api/grid/" + st.SessionID
		rowID := st.Rows[0].ID

		for field, value := range map[string]string{
			model.FieldItemCode:    "X-1",
			model.FieldDescription: "widget",
		} {
			rec := env.do(t, http.MethodPost, base+"/cell", setCellRequest{RowID: rowID, Field: field, Value: value})
			require.Equal(t, http.StatusOK, rec.Code)
		}

		before := env.do(t, http.MethodGet, base, nil).Body.String()
		rec := env.do(t, http.MethodPost, base+"/save", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, []string{"failed"}, env.receipts.outcomes)
		assert.Equal(t, before, env.do(t, http.MethodGet, base, nil).Body.String())
	})
}

func TestDirectoryEnums(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")

	rec := env.do(t, http.MethodGet, "/api/directory/payment-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payments []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	assert.Equal(t, model.PaymentTypes, payments)

	rec = env.do(t, http.MethodGet, "/api/directory/carrying-bases", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bases []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bases))
	assert.Equal(t, model.CarryingBases, bases)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t, "http://localhost:0")
	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/grid/%s", "missing"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
