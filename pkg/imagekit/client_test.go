package imagekit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tokopintar/catalog-backend/pkg/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.ImageKitConfig{
		PublicKey:  "public",
		PrivateKey: "private",
		UploadURL:  server.URL + "/upload",
		APIBaseURL: server.URL,
		Folder:     "products",
		Timeout:    5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestUploadSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth, gotFileName, gotFolder, gotUnique string
	var gotData []byte

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, _, _ := r.BasicAuth()
		gotAuth = user
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotFileName = r.FormValue("fileName")
		gotFolder = r.FormValue("folder")
		gotUnique = r.FormValue("useUniqueFileName")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		gotData = buf[:n]

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"fileId":   "file-123",
			"name":     "widget_1_0.jpg",
			"url":      "https://ik.example.com/products/widget_1_0.jpg",
			"filePath": "/products/widget_1_0.jpg",
		})
	})

	client, _ := testClient(t, handler)

	result, err := client.Upload(context.Background(), "widget_1_0.jpg", []byte("imagebytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotAuth != "private" {
		t.Fatalf("expected basic auth with private key, got %q", gotAuth)
	}
	if gotFileName != "widget_1_0.jpg" {
		t.Fatalf("unexpected fileName %q", gotFileName)
	}
	if gotFolder != "products" {
		t.Fatalf("unexpected folder %q", gotFolder)
	}
	if gotUnique != "true" {
		t.Fatalf("expected useUniqueFileName=true, got %q", gotUnique)
	}
	if string(gotData) != "imagebytes" {
		t.Fatalf("unexpected upload payload %q", gotData)
	}
	if result.FileID != "file-123" {
		t.Fatalf("unexpected file id %q", result.FileID)
	}
	if result.URL != "https://ik.example.com/products/widget_1_0.jpg" {
		t.Fatalf("unexpected url %q", result.URL)
	}
}

func TestUploadServerError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Your account cannot be authenticated."})
	})

	client, _ := testClient(t, handler)

	_, err := client.Upload(context.Background(), "widget.jpg", []byte("data"))
	if err == nil {
		t.Fatal("expected upload error")
	}
}

func TestUploadValidatesInput(t *testing.T) {
	t.Parallel()

	client, _ := testClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	if _, err := client.Upload(context.Background(), "", []byte("data")); err == nil {
		t.Fatal("expected error for missing file name")
	}
	if _, err := client.Upload(context.Background(), "widget.jpg", nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	var gotPath, gotMethod string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := testClient(t, handler)

	if err := client.Delete(context.Background(), "file-123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/files/file-123" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestDeleteMissingFileIsIdempotent(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := testClient(t, handler)

	if err := client.Delete(context.Background(), "already-gone"); err != nil {
		t.Fatalf("expected 404 delete to succeed, got %v", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	})

	client, _ := testClient(t, handler)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPingAuthFailure(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client, _ := testClient(t, handler)

	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure")
	}
}
