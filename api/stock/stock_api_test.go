package stock

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"repairshop.GO/api/apitest"
	"repairshop.GO/model/repository/repotest"
	"repairshop.GO/service/inventory"
)

const csvData = "sku,name,realCost,sellingPrice,stock,lowStockThreshold,color\n" +
	"NEW-1,New Screen,100,180,5,2,black\n" +
	"OLD-1,,,,12,,\n" +
	",Missing SKU,1,2,3,1,\n" +
	"BAD-1,Bad Price,abc,2,3,1,\n"

func TestImport_RawCSV(t *testing.T) {
	env := apitest.New(t, RegisterStockRoutes)
	old := repotest.Part(t, env.DB, "OLD-1", 4)

	req := apitest.NewRequest(t, http.MethodPost, "/api/stock/import", strings.NewReader(csvData))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	req.SetBasicAuth(apitest.User, apitest.Pass)
	rec := env.Serve(req)
	apitest.Expect(t, rec, http.StatusOK)

	body := apitest.Decode(t, rec)
	if body["totalRows"] != float64(4) || body["created"] != float64(1) || body["updated"] != float64(1) || body["skipped"] != float64(2) {
		t.Errorf("report = %v", body)
	}
	warnings := body["warnings"].([]interface{})
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want unknown column plus two bad rows", warnings)
	}
	if got := repotest.Stock(t, env.DB, old.ID); got != 12 {
		t.Errorf("OLD-1 stock = %d, want 12", got)
	}

	report, err := inventory.Verify(context.Background(), env.DB, "")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.OK() {
		t.Errorf("ledger mismatches after import: %+v", report.Mismatches)
	}
}

func TestImport_Multipart(t *testing.T) {
	env := apitest.New(t, RegisterStockRoutes)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", "parts.csv")
	fw.Write([]byte("sku,name,realCost,sellingPrice,stock\nMP-1,Battery,10,25,8\n"))
	w.Close()

	req := apitest.NewRequest(t, http.MethodPost, "/api/stock/import", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.SetBasicAuth(apitest.User, apitest.Pass)
	rec := env.Serve(req)
	apitest.Expect(t, rec, http.StatusOK)
	if body := apitest.Decode(t, rec); body["created"] != float64(1) {
		t.Errorf("report = %v", body)
	}
}

func TestImport_Rejections(t *testing.T) {
	env := apitest.New(t, RegisterStockRoutes)

	req := apitest.NewRequest(t, http.MethodPost, "/api/stock/import", strings.NewReader("name,stock\nX,1\n"))
	req.SetBasicAuth(apitest.User, apitest.Pass)
	apitest.Expect(t, env.Serve(req), http.StatusBadRequest)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("other", "x")
	w.Close()
	req = apitest.NewRequest(t, http.MethodPost, "/api/stock/import", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.SetBasicAuth(apitest.User, apitest.Pass)
	apitest.Expect(t, env.Serve(req), http.StatusBadRequest)
}
