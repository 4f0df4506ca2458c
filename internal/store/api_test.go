package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a810439322/moneyup/internal/models"

	"github.com/sirupsen/logrus"
)

func newTestAPIStore(t *testing.T, handler http.Handler) (*APIStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewAPIStore(srv.URL, 2*time.Second, log), srv
}

func TestAPIStore_Init(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "timestamp": time.Now()})
	})
	s, _ := newTestAPIStore(t, mux)

	if err := s.Init(context.Background()); err != nil {
		t.Errorf("Init error = %v, want nil", err)
	}
}

func TestAPIStore_Init_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewAPIStore(srv.URL, time.Second, log)

	if err := s.Init(context.Background()); err == nil {
		t.Error("服务不可用时 Init 应报错")
	}
}

func TestAPIStore_GetAssets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Asset{
			{ID: 1, Name: "现金", Amount: 100},
			{ID: 2, Name: "存款", Amount: 200},
		})
	})
	s, _ := newTestAPIStore(t, mux)

	assets := s.GetAssets(context.Background())
	if len(assets) != 2 {
		t.Fatalf("len = %d, want 2", len(assets))
	}
	if assets[0].Name != "现金" || assets[1].Amount != 200 {
		t.Errorf("资产内容不匹配: %+v", assets)
	}
}

func TestAPIStore_GetAssets_DegradesToEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "获取资产失败"})
	})
	s, _ := newTestAPIStore(t, mux)

	assets := s.GetAssets(context.Background())
	if assets == nil || len(assets) != 0 {
		t.Errorf("失败时应返回空集合, got %v", assets)
	}
}

func TestAPIStore_AddAsset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /assets", func(w http.ResponseWriter, r *http.Request) {
		var asset models.Asset
		if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		asset.ID = 7
		json.NewEncoder(w).Encode(asset)
	})
	s, _ := newTestAPIStore(t, mux)

	asset := models.Asset{Name: "理财", Amount: 5000}
	if !s.AddAsset(context.Background(), &asset) {
		t.Fatal("AddAsset = false, want true")
	}
	// 服务端分配的 id 应回填
	if asset.ID != 7 {
		t.Errorf("asset.ID = %d, want 7", asset.ID)
	}
}

func TestAPIStore_DeleteAsset_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /assets/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "资产不存在"})
	})
	s, _ := newTestAPIStore(t, mux)

	if s.DeleteAsset(context.Background(), 99) {
		t.Error("远程 404 应降级为 false")
	}
}

func TestAPIStore_GetTotalAssets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"totalAssets": 1234.5})
	})
	s, _ := newTestAPIStore(t, mux)

	if total := s.GetTotalAssets(context.Background()); total != 1234.5 {
		t.Errorf("total = %f, want 1234.5", total)
	}
}

func TestAPIStore_GetTotalAssets_DegradesToZero(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewAPIStore(srv.URL, time.Second, log)

	if total := s.GetTotalAssets(context.Background()); total != 0 {
		t.Errorf("失败时 total = %f, want 0", total)
	}
}

func TestAPIStore_GetAssetsByTag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assets/by-tag/3", func(w http.ResponseWriter, r *http.Request) {
		tagID := uint(3)
		json.NewEncoder(w).Encode([]models.Asset{{ID: 1, Name: "基金", Amount: 100, TagID: &tagID}})
	})
	s, _ := newTestAPIStore(t, mux)

	assets := s.GetAssetsByTag(context.Background(), 3)
	if len(assets) != 1 || assets[0].Name != "基金" {
		t.Errorf("按标签筛选结果错误: %+v", assets)
	}
}

func TestAPIStore_ClearAllData(t *testing.T) {
	cleared := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /clear", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		json.NewEncoder(w).Encode(map[string]string{"message": "清空成功"})
	})
	s, _ := newTestAPIStore(t, mux)

	if !s.ClearAllData(context.Background()) {
		t.Fatal("ClearAllData = false, want true")
	}
	if !cleared {
		t.Error("应调用 DELETE /clear")
	}
}

func TestAPIStore_ImportExportNotSupported(t *testing.T) {
	s, _ := newTestAPIStore(t, http.NewServeMux())

	if _, err := s.ExportData(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ExportData error = %v, want ErrNotSupported", err)
	}
	if err := s.ImportData(context.Background(), &models.ExportDocument{}); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ImportData error = %v, want ErrNotSupported", err)
	}
}
