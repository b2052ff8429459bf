package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sisnompeg_admin/internal/app"
	"sisnompeg_admin/internal/domain/notify"
	"sisnompeg_admin/internal/infra/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	wib   = time.FixedZone("WIB", 7*3600)
	today = time.Date(2025, time.June, 10, 9, 0, 0, 0, wib)
)

type countingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *countingNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	router   *gin.Engine
	store    *memstore.Store
	notifier *countingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	log := logrus.NewEntry(l)

	store := memstore.New()
	store.SetClock(func() time.Time { return today })
	notifier := &countingNotifier{}
	names := app.NewNameResolver(store.Employees(), log)
	activities := app.NewActivityService(store.Activities(), names, log)
	kgb := app.NewKGBService(store.Employees(), notifier, activities, wib, log)
	kgb.SetClock(func() time.Time { return today })

	svc := Services{
		Employees:   app.NewEmployeeService(store.Employees(), activities, log),
		Educations:  app.NewEducationService(store.Educations(), names, activities, log),
		Levelings:   app.NewLevelingService(store.Levelings(), names, activities, log),
		Structures:  app.NewStructureService(store.Structures(), names, activities, log),
		CareerNotes: app.NewCareerNoteService(store.CareerNotes(), names, activities, log),
		Activities:  activities,
		KGB:         kgb,
		Dashboard:   app.NewDashboardService(store.Employees()),
		DB:          fakePinger{},
	}
	router := NewRouter(svc, RouterConfig{
		CORSOrigins: []string{"http://localhost:3000"},
		Now:         func() time.Time { return today },
	}, log)
	return &fixture{router: router, store: store, notifier: notifier}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func nip(n int) string { return fmt.Sprintf("199001012015031%03d", n) }

func (f *fixture) addEmployee(t *testing.T, n int, nama, due string) {
	t.Helper()
	body := map[string]any{"NIP": nip(n), "Nama": nama, "Jenis_Kelamin": "Laki-laki", "Pangkat_Golongan": "III.a", "TMT": "2020-01-01"}
	if due != "" {
		body["KGB_Berikutnya"] = due
	}
	w := f.do(t, http.MethodPost, "/pegawai", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBannerAndHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "2025-06-10T02:00:00Z", body["timestamp"])

	w = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	h := health(fakePinger{err: errors.New("connection refused")})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEmployeeCRUD(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, 1, "Andi", "2026-01-01")

	w := f.do(t, http.MethodPost, "/pegawai", map[string]any{"NIP": nip(1), "Nama": "Andi"})
	assert.Equal(t, http.StatusConflict, w.Code)
	errBody := decode[errorBody](t, w)
	assert.Equal(t, errorBody{StatusCode: 409, Error: "Conflict", Message: "NIP sudah terdaftar"}, errBody)

	w = f.do(t, http.MethodGet, "/pegawai/count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/pegawai/"+nip(1), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	emp := decode[map[string]any](t, w)
	assert.Equal(t, "Andi", emp["Nama"])
	assert.Equal(t, "2026-01-01", emp["KGB_Berikutnya"])

	w = f.do(t, http.MethodPut, "/pegawai/"+nip(1), map[string]any{"Nama": "Andi Saputra"})
	assert.Equal(t, http.StatusOK, w.Code)
	mut := decode[map[string]any](t, w)
	assert.Equal(t, "Pegawai berhasil diperbarui", mut["message"])

	w = f.do(t, http.MethodGet, "/pegawai", nil)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Andi Saputra", list[0]["Nama"])

	w = f.do(t, http.MethodDelete, "/pegawai/"+nip(1), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/pegawai/"+nip(1), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pegawai tidak ditemukan", decode[errorBody](t, w).Message)
}

func TestValidationErrors(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/pegawai", map[string]any{"NIP": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Contains(t, body.Message, "NIP harus terdiri dari 18 karakter")
	assert.Contains(t, body.Message, "Nama tidak boleh kosong")

	w = f.do(t, http.MethodPost, "/pegawai", `{"NIP":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Format JSON tidak valid", decode[errorBody](t, w).Message)

	w = f.do(t, http.MethodGet, "/pendidikan/bukan-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBodyLimit(t *testing.T) {
	f := newFixture(t)
	big := `{"NIP":"` + strings.Repeat("1", MaxBodyBytes+1) + `"}`
	w := f.do(t, http.MethodPost, "/pegawai", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("employee.ListAll", errors.New("connection reset"))
	w := f.do(t, http.MethodGet, "/pegawai", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Message, "connection reset")
}

func TestKGBRoutes(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, 1, "Andi", "2025-06-01")
	f.addEmployee(t, 2, "Budi", "2025-06-20")
	f.addEmployee(t, 3, "Citra", "2027-01-01")

	w := f.do(t, http.MethodGet, "/pegawai/dashboard/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := decode[app.DashboardStats](t, w)
	assert.Equal(t, 3, stats.GenderCount.LakiLaki)
	require.Len(t, stats.UpcomingKGB, 2)
	assert.Zero(t, f.notifier.count(), "dashboard stats never advances")

	w = f.do(t, http.MethodGet, "/pegawai/kgb/notifikasi", nil)
	due := decode[app.DueNotifications](t, w)
	assert.Equal(t, 2, due.TotalNotif)

	w = f.do(t, http.MethodGet, "/pegawai/kgb/proses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jumlah_diproses":1,"gagal":[]}`, w.Body.String())
	assert.Equal(t, 1, f.notifier.count())

	w = f.do(t, http.MethodGet, "/pegawai/kgb/proses", nil)
	assert.JSONEq(t, `{"jumlah_diproses":0,"gagal":[]}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/catatan-karir/cek/"+nip(1), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	el := decode[map[string]any](t, w)
	assert.Equal(t, "2024-01-01", el["Tanggal_Layak"])
	assert.Equal(t, "Layak", el["Status"])
	assert.Equal(t, "III.b", el["Potensi_Pangkat_Baru"])
}

func TestRecordRoutes(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, 1, "Andi", "")

	w := f.do(t, http.MethodPost, "/pendidikan", map[string]any{"Pegawai": nip(1), "Jenjang": "S1", "Tahun_Lulus": 2012})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}](t, w)
	assert.Equal(t, "Data pendidikan berhasil ditambahkan", created.Message)
	id, _ := created.Data["ID_Pendidikan"].(string)
	require.NotEmpty(t, id)

	w = f.do(t, http.MethodGet, "/pendidikan/"+id, nil)
	assert.Equal(t, "Andi", decode[map[string]any](t, w)["Nama_Pegawai"])
	w = f.do(t, http.MethodGet, "/pendidikan/count/all", nil)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/struktur", map[string]any{"Pegawai": nip(1), "Jabatan": "Prakirawan", "TMT": "2023-01-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodGet, "/struktur/count", nil)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/penjenjangan", map[string]any{"Pegawai": nip(1), "Nama_Penjenjangan": "PIM IV"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodGet, "/penjenjangan", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = f.do(t, http.MethodPost, "/catatan-karir", map[string]any{"NIP": nip(1), "Pangkat_Sekarang": "III.a"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodGet, "/catatan-karir", nil)
	notes := decode[[]map[string]any](t, w)
	require.Len(t, notes, 1)
	assert.Equal(t, "III.b", notes[0]["Potensi_Pangkat_Baru"])

	w = f.do(t, http.MethodGet, "/aktivitas/terbaru", nil)
	recent := decode[[]map[string]any](t, w)
	assert.Len(t, recent, 3)
	assert.Len(t, f.store.ActivityLog(), 3, "older entries are pruned")
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/pegawai", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET,HEAD,PUT,PATCH,POST,DELETE", w.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// No Origin header: not a CORS request.
	w = f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOpenAPIDocumentCoversRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}](t, w)
	assert.Equal(t, "3.0.3", doc.OpenAPI)

	param := regexp.MustCompile(`:(\w+)`)
	for _, r := range f.router.Routes() {
		if strings.HasPrefix(r.Path, "/api") {
			continue
		}
		path := param.ReplaceAllString(r.Path, "{$1}")
		require.Contains(t, doc.Paths, path, "route %s %s is not documented", r.Method, r.Path)
		assert.Contains(t, doc.Paths[path], strings.ToLower(r.Method), "route %s %s is not documented", r.Method, r.Path)
	}

	w = f.do(t, http.MethodGet, "/api/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = f.do(t, http.MethodGet, "/api", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `url: "/api/openapi.json"`)
}

func TestMetricsAndNoRoute(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/pegawai/count", nil)

	w := f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sisnompeg_http_requests_total{method="GET",route="/pegawai/count",status="200"}`)

	w = f.do(t, http.MethodGet, "/tidak-ada", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, decode[errorBody](t, w).StatusCode)
}

func TestListenFallsBackToNextPort(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()
	port := taken.Addr().(*net.TCPAddr).Port

	l := logrus.New()
	l.SetOutput(io.Discard)
	ln, got, err := Listen(port, logrus.NewEntry(l))
	if err != nil {
		t.Skipf("port %d+1 unavailable: %v", port, err)
	}
	defer ln.Close()
	assert.Equal(t, port+1, got)
}
