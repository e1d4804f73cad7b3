package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"sheetc/common"
	"sheetc/layout"
	"sheetc/render"
	"sheetc/session"
	"sheetc/sheet"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)
	sess, err := session.New(context.Background(), session.Options{
		Template: layout.Template{ColumnWidth: 340, ColumnHeight: 900, FirstPageColumnHeight: 800},
		Log:      log,
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	doc := &sheet.Document{
		Meta: sheet.Meta{Title: "미리보기"},
		Blocks: []*sheet.Block{
			{ID: "b1", Type: common.BlockTypeExample, Label: "예제", Content: "[빈칸:가]"},
			{ID: "b2", Type: common.BlockTypeBreak},
			{ID: "b3", Type: common.BlockTypeAnswer, Content: "정답은 $x$"},
		},
	}
	if err := sess.Load(context.Background(), doc, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(sess, render.New(render.Options{Log: log}), log)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d, body %s", path, w.Code, w.Body.String())
	}
	return w
}

func TestRoutes(t *testing.T) {
	router := newServer(t).Router()

	t.Run("pages", func(t *testing.T) {
		w := get(t, router, "/")
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xhtml+xml") {
			t.Fatalf("content type %q", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, `<div class="title">미리보기</div>`) || !strings.Contains(body, `data-id="b3"`) {
			t.Fatalf("unexpected pages:\n%s", body)
		}
	})

	t.Run("document", func(t *testing.T) {
		var f sheet.File
		if err := json.Unmarshal(get(t, router, "/document.json").Body.Bytes(), &f); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if f.Meta.Title != "미리보기" || len(f.Blocks) != 3 {
			t.Fatalf("unexpected document %+v", f)
		}
	})

	t.Run("markup", func(t *testing.T) {
		body := get(t, router, "/markup").Body.String()
		if !strings.Contains(body, "[[기본_예제]] : [빈칸:가]") {
			t.Fatalf("unexpected markup %q", body)
		}
	})

	t.Run("layout", func(t *testing.T) {
		var res LayoutResponse
		if err := json.Unmarshal(get(t, router, "/layout").Body.Bytes(), &res); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if res.Pages != 1 || len(res.Positions) != 2 {
			t.Fatalf("unexpected layout %+v", res)
		}
		if p := res.Positions[1]; p.BlockID != "b3" || p.Side != common.ColumnSideRight {
			t.Fatalf("unexpected position %+v", p)
		}
	})

	t.Run("block position", func(t *testing.T) {
		var p layout.Position
		if err := json.Unmarshal(get(t, router, "/layout/b3").Body.Bytes(), &p); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if p.BlockID != "b3" || p.Page != 1 || p.Side != common.ColumnSideRight || p.Index != 0 {
			t.Fatalf("unexpected position %+v", p)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/layout/b2", nil))
		if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
			t.Fatalf("status %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("status %d", w.Code)
		}
	})
}
