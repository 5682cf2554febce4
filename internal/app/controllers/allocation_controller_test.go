package controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tanmayk/meritalloc/internal/app/controllers"
	"github.com/tanmayk/meritalloc/internal/app/repositories"
	"github.com/tanmayk/meritalloc/internal/app/routes"
	"github.com/tanmayk/meritalloc/internal/app/services"
)

const testDataset = `Roll,Name,Email,CGPA,Prof. Rao,Prof. Iyer
2021CS01,Asha,asha@college.edu,8.50,1,2
2021CS02,Bir,bir@college.edu,9.00,2,1
2021CS03,Chand,chand@college.edu,7.10,1,2
`

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	runs := repositories.NewRunRepository(8)
	allocSvc := services.NewAllocationService(runs, zerolog.Nop())
	groupSvc := services.NewGroupingService(runs, zerolog.Nop())

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewAllocationController(allocSvc, 1<<20),
		controllers.NewGroupingController(groupSvc, 1<<20),
	)
	return router
}

func uploadRequest(t *testing.T, url, dataset string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "students.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(dataset))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeData(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestAllocationEndpoints(t *testing.T) {
	t.Run("upload runs an allocation and returns run metadata", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/allocations", testDataset, nil))

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeData(t, w.Body.Bytes())
		require.Equal(t, float64(3), data["students"])
		require.NotEmpty(t, data["id"])
	})

	t.Run("assignments download is the allocation CSV in merit order", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/allocations", testDataset, nil))
		require.Equal(t, http.StatusCreated, w.Code)
		id := decodeData(t, w.Body.Bytes())["id"].(string)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/allocations/"+id+"/assignments.csv", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/csv")

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Equal(t, "Roll,Name,Email,CGPA,AssignedFaculty", lines[0])
		require.Equal(t, "2021CS02,Bir,bir@college.edu,9.00,Prof. Rao", lines[1])
		require.Equal(t, "2021CS01,Asha,asha@college.edu,8.50,Prof. Iyer", lines[2])
		require.Equal(t, "2021CS03,Chand,chand@college.edu,7.10,Prof. Rao", lines[3])
	})

	t.Run("missing CGPA column is a 422 with the column named", func(t *testing.T) {
		router := newTestRouter()
		noCGPA := "Roll,Name,Email,Prof. Rao\n2021CS01,Asha,asha@college.edu,1\n"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/allocations", noCGPA, nil))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "CGPA")
	})

	t.Run("non-numeric CGPA cell is a 422 identifying the row", func(t *testing.T) {
		router := newTestRouter()
		bad := strings.Replace(testDataset, "9.00", "N/A", 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/allocations", bad, nil))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "2021CS02")
		require.Contains(t, w.Body.String(), "N/A")
	})

	t.Run("missing file is a 400", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown run ID is a 404", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/allocations/nope", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGroupingEndpoints(t *testing.T) {
	t.Run("upload distributes students into groups", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/groupings", testDataset, map[string]string{"groups": "2"}))

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeData(t, w.Body.Bytes())
		require.Equal(t, float64(2), data["groupCount"])
	})

	t.Run("group CSV downloads work with and without the csv suffix", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/groupings", testDataset, map[string]string{"groups": "2"}))
		require.Equal(t, http.StatusCreated, w.Code)
		id := decodeData(t, w.Body.Bytes())["id"].(string)

		for _, path := range []string{"/groups/1", "/groups/1.csv", "/mixed/2.csv", "/summary.csv"} {
			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/groupings/"+id+path, nil))
			require.Equal(t, http.StatusOK, w.Code, "path %s", path)
		}
	})

	t.Run("non-positive group count is a 400", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/groupings", testDataset, map[string]string{"groups": "0"}))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("out-of-range group number is a 404", func(t *testing.T) {
		router := newTestRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, "/api/v1/groupings", testDataset, map[string]string{"groups": "2"}))
		id := decodeData(t, w.Body.Bytes())["id"].(string)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/groupings/"+id+"/groups/9", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
