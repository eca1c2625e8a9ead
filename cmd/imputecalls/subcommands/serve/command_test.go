package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nycbus/imputecalls/pkg/calendar"
	kdb "github.com/nycbus/imputecalls/pkg/db"
	"github.com/nycbus/imputecalls/pkg/db/mocks"
	"github.com/nycbus/imputecalls/pkg/utils/try"
)

func get(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("GET", target, nil)
	resp := httptest.NewRecorder()
	return e.NewContext(req, resp), resp
}

func TestHealthHandler(t *testing.T) {
	loc := try.To(time.LoadLocation("America/New_York")).OrFatal(t)

	t.Run("it responds ok when the ledger is readable", func(t *testing.T) {
		ledger := mocks.NewLedgerInterface()
		ledger.Impl.Find = func(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error) {
			return nil, nil
		}
		db := mocks.NewDatabase()
		db.Impl.Ledger = ledger

		e := echo.New()
		c, resp := get(e, "/api/health")

		if err := healthHandler(db, loc)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		if ledger.Calls.Find.Times() != 1 {
			t.Errorf("ledger is read %d times (expected: once)", ledger.Calls.Find.Times())
		}
		if want := calendar.Today(loc).Period(); ledger.Calls.Find[0] != want {
			t.Errorf("ledger is read for %s (expected: %s)", ledger.Calls.Find[0], want)
		}
	})

	t.Run("it responds service unavailable when the database errors", func(t *testing.T) {
		ledger := mocks.NewLedgerInterface()
		ledger.Impl.Find = func(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error) {
			return nil, errors.New("fake error")
		}
		db := mocks.NewDatabase()
		db.Impl.Ledger = ledger

		e := echo.New()
		c, resp := get(e, "/api/health")

		if err := healthHandler(db, loc)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusServiceUnavailable {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
	})
}

func TestLedgerHandler(t *testing.T) {
	t.Run("it renders ledger records of the month as JSON", func(t *testing.T) {
		updated := try.To(time.Parse(time.RFC3339, "2017-05-11T04:12:00-04:00")).OrFatal(t)
		records := []kdb.ImputeRecord{
			{
				Date:      try.To(calendar.NewDate(2017, 5, 10)).OrFatal(t),
				Status:    "done", Calls: 12345, UpdatedAt: updated,
			},
			{
				Date:      try.To(calendar.NewDate(2017, 5, 11)).OrFatal(t),
				Status:    "failed", Cause: "fake cause", UpdatedAt: updated,
			},
		}
		ledger := mocks.NewLedgerInterface()
		ledger.Impl.Find = func(ctx context.Context, period calendar.Period) ([]kdb.ImputeRecord, error) {
			return records, nil
		}
		db := mocks.NewDatabase()
		db.Impl.Ledger = ledger

		e := echo.New()
		c, resp := get(e, "/api/ledger/2017-05")
		c.SetParamNames("month")
		c.SetParamValues("2017-05")

		if err := ledgerHandler(db)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Fatalf("unexpected status code: %d", resp.Code)
		}

		want := calendar.Period{Year: 2017, Month: 5}
		if ledger.Calls.Find.Times() != 1 || ledger.Calls.Find[0] != want {
			t.Errorf("ledger is not read for %s: %+v", want, ledger.Calls.Find)
		}

		actual := []ledgerEntry{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		expected := []ledgerEntry{
			{Date: "2017-05-10", Status: "done", Calls: 12345, UpdatedAt: updated.Format(time.RFC3339)},
			{Date: "2017-05-11", Status: "failed", Cause: "fake cause", UpdatedAt: updated.Format(time.RFC3339)},
		}
		if len(actual) != len(expected) {
			t.Fatalf("unexpected entries: %+v", actual)
		}
		for nth := range expected {
			if actual[nth] != expected[nth] {
				t.Errorf("entry %d: got %+v, expected %+v", nth, actual[nth], expected[nth])
			}
		}
	})

	t.Run("it rejects a malformed month", func(t *testing.T) {
		db := mocks.NewDatabase()
		db.Impl.Ledger = mocks.NewLedgerInterface()

		e := echo.New()
		c, _ := get(e, "/api/ledger/may-2017")
		c.SetParamNames("month")
		c.SetParamValues("may-2017")

		err := ledgerHandler(db)(c)
		if err == nil {
			t.Fatal("malformed month is not rejected")
		}
		httpErr := new(echo.HTTPError)
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}
