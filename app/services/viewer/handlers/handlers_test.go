package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/notechain/app/services/viewer/handlers"
	"github.com/ardanlabs/notechain/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_UIMux(t *testing.T) {
	t.Log("Given the need to serve the viewer.")
	{
		app, err := handlers.UIMux("test", "http://node:8080/", make(chan os.Signal, 1), logger.NewTest())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mux: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the mux.", success)

		t.Logf("\tTest 0:\tWhen requesting the index page.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200 status: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 200 status.", success)

			body := w.Body.String()
			if !strings.Contains(body, "ws://node:8080/v1/events") {
				t.Fatalf("\t%s\tTest 0:\tShould point at the node's event socket.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould point at the node's event socket.", success)
		}

		t.Logf("\tTest 1:\tWhen requesting an asset.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/js/viewer.js", nil))

			if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/v1/notes/list") {
				t.Fatalf("\t%s\tTest 1:\tShould serve the script: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould serve the script.", success)
		}
	}
}
