package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func seedBlob(t *testing.T, store BlobStore, orderID, category, fileName, contentType, content string) *BlobMetadata {
	t.Helper()
	meta := BlobMetadata{
		FileName:    fileName,
		ContentType: contentType,
		OrderID:     orderID,
		Category:    category,
		CreatedBy:   "test-user",
		Tags:        map[string]string{"source": "unit-test"},
	}
	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("seedBlob: %v", err)
	}
	return result
}

// ---------------------------------------------------------------------------
// Store tests
// ---------------------------------------------------------------------------

func TestInMemoryBlobStore_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "hello world"

	meta := BlobMetadata{
		FileName:    "test.txt",
		ContentType: "text/plain",
		OrderID:     "order-1",
		Category:    "other",
		CreatedBy:   "user-1",
		Tags:        map[string]string{"env": "test"},
	}

	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if result.FileName != "test.txt" {
		t.Errorf("expected FileName=test.txt, got %s", result.FileName)
	}
	if result.ContentType != "text/plain" {
		t.Errorf("expected ContentType=text/plain, got %s", result.ContentType)
	}
	if result.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), result.Size)
	}
	if result.Hash == "" {
		t.Fatal("expected non-empty Hash")
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
	if result.OrderID != "order-1" {
		t.Errorf("expected OrderID=order-1, got %s", result.OrderID)
	}
}

func TestInMemoryBlobStore_Download(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "binary-content-here"

	uploaded := seedBlob(t, store, "o1", "lab-report", "report.pdf", "application/pdf", content)

	rc, meta, err := store.Download(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("error reading content: %v", err)
	}

	if string(data) != content {
		t.Errorf("expected content=%q, got %q", content, string(data))
	}
	if meta.FileName != "report.pdf" {
		t.Errorf("expected FileName=report.pdf, got %s", meta.FileName)
	}
}

func TestInMemoryBlobStore_DownloadNotFound(t *testing.T) {
	store := NewInMemoryBlobStore()

	_, _, err := store.Download(context.Background(), "nonexistent-id")
	if err != ErrBlobNotFound {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestInMemoryBlobStore_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedBlob(t, store, "o1", "other", "f.txt", "text/plain", "x")

	if err := store.Delete(context.Background(), uploaded.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := store.GetMetadata(context.Background(), uploaded.ID)
	if err != ErrBlobNotFound {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
}

func TestInMemoryBlobStore_DeleteNotFound(t *testing.T) {
	store := NewInMemoryBlobStore()

	err := store.Delete(context.Background(), "nonexistent-id")
	if err != ErrBlobNotFound {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestInMemoryBlobStore_GetMetadata(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedBlob(t, store, "o1", "lab-report", "cbc.pdf", "application/pdf", "pdf-bytes")

	meta, err := store.GetMetadata(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.FileName != "cbc.pdf" {
		t.Errorf("expected FileName=cbc.pdf, got %s", meta.FileName)
	}
	if meta.Category != "lab-report" {
		t.Errorf("expected Category=lab-report, got %s", meta.Category)
	}
}

func TestInMemoryBlobStore_ListByOrder(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "o1", "lab-report", "a.pdf", "application/pdf", "a")
	seedBlob(t, store, "o1", "invoice", "b.pdf", "application/pdf", "b")
	seedBlob(t, store, "o2", "lab-report", "c.pdf", "application/pdf", "c")

	items, total, err := store.ListByOrder(context.Background(), "o1", "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total=2, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestInMemoryBlobStore_ListByOrderAndCategory(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "o1", "lab-report", "a.pdf", "application/pdf", "a")
	seedBlob(t, store, "o1", "invoice", "b.pdf", "application/pdf", "b")

	items, total, err := store.ListByOrder(context.Background(), "o1", "invoice", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total=1, got %d", total)
	}
	if len(items) != 1 || items[0].Category != "invoice" {
		t.Errorf("expected single invoice item, got %+v", items)
	}
}

func TestInMemoryBlobStore_Search_ByContentType(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "o1", "lab-report", "a.pdf", "application/pdf", "a")
	seedBlob(t, store, "o1", "lab-report", "b.png", "image/png", "b")

	items, total, err := store.Search(context.Background(), SearchParams{ContentType: "image/png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total=1, got %d", total)
	}
	if len(items) != 1 || items[0].FileName != "b.png" {
		t.Errorf("expected b.png, got %+v", items)
	}
}

func TestInMemoryBlobStore_Search_ByFileName(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "o1", "other", "Lipid-Panel-Report.pdf", "application/pdf", "a")
	seedBlob(t, store, "o1", "other", "notes.txt", "text/plain", "b")

	items, total, err := store.Search(context.Background(), SearchParams{FileName: "lipid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total=1 for case-insensitive partial match, got %d", total)
	}
	if len(items) != 1 || items[0].FileName != "Lipid-Panel-Report.pdf" {
		t.Errorf("unexpected match: %+v", items)
	}
}

func TestInMemoryBlobStore_Search_ByTags(t *testing.T) {
	store := NewInMemoryBlobStore()

	meta := BlobMetadata{
		FileName:    "tagged.pdf",
		ContentType: "application/pdf",
		OrderID:     "o1",
		Category:    "lab-report",
		Tags:        map[string]string{"priority": "stat"},
	}
	if _, err := store.Upload(context.Background(), meta, strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	seedBlob(t, store, "o1", "lab-report", "untagged.pdf", "application/pdf", "y")

	items, total, err := store.Search(context.Background(), SearchParams{Tags: map[string]string{"priority": "stat"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total=1, got %d", total)
	}
	if len(items) != 1 || items[0].FileName != "tagged.pdf" {
		t.Errorf("expected tagged.pdf, got %+v", items)
	}
}

func TestInMemoryBlobStore_Upload_MissingFileName(t *testing.T) {
	store := NewInMemoryBlobStore()

	meta := BlobMetadata{
		ContentType: "text/plain",
		Category:    "other",
	}

	_, err := store.Upload(context.Background(), meta, strings.NewReader("content"))
	if err != ErrMissingFileName {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
}

func TestInMemoryBlobStore_SHA256Hash(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "deterministic content"

	uploaded := seedBlob(t, store, "o1", "other", "f.txt", "text/plain", content)

	expected := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
	if uploaded.Hash != expected {
		t.Errorf("expected hash %s, got %s", expected, uploaded.Hash)
	}
}

func TestInMemoryBlobStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryBlobStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			meta := BlobMetadata{
				FileName:    fmt.Sprintf("file-%d.txt", n),
				ContentType: "text/plain",
				OrderID:     "o1",
				Category:    "other",
			}
			if _, err := store.Upload(context.Background(), meta, strings.NewReader("x")); err != nil {
				t.Errorf("concurrent upload %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	_, total, err := store.ListByOrder(context.Background(), "o1", "", 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 20 {
		t.Errorf("expected 20 blobs, got %d", total)
	}
}

// ---------------------------------------------------------------------------
// Handler tests
// ---------------------------------------------------------------------------

func multipartUpload(t *testing.T, fields map[string]string, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(fileContent)); err != nil {
		t.Fatalf("write file content: %v", err)
	}
	w.Close()
	return body, w.FormDataContentType()
}

func TestBlobHandler_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)
	e := echo.New()

	body, contentType := multipartUpload(t, map[string]string{
		"order_id": "o1",
		"category": "lab-report",
	}, "report.pdf", "pdf-data")

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.handleUpload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result BlobMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if result.ID == "" {
		t.Error("expected non-empty ID")
	}
	if result.OrderID != "o1" {
		t.Errorf("expected OrderID=o1, got %s", result.OrderID)
	}
}

func TestBlobHandler_Upload_MissingFile(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.handleUpload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBlobHandler_Download(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)
	uploaded := seedBlob(t, store, "o1", "lab-report", "r.pdf", "application/pdf", "pdf-bytes")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uploaded.ID)

	if err := handler.handleDownload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "pdf-bytes" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "r.pdf") {
		t.Errorf("expected filename in Content-Disposition, got %q", cd)
	}
}

func TestBlobHandler_GetMetadata_NotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.handleGetMetadata(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestBlobHandler_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)
	uploaded := seedBlob(t, store, "o1", "other", "x.txt", "text/plain", "x")

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uploaded.ID)

	if err := handler.handleDelete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestBlobHandler_ListByOrder(t *testing.T) {
	store := NewInMemoryBlobStore()
	handler := NewBlobHandler(store)
	seedBlob(t, store, "o1", "lab-report", "a.pdf", "application/pdf", "a")
	seedBlob(t, store, "o1", "lab-report", "b.pdf", "application/pdf", "b")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues("o1")

	if err := handler.handleListByOrder(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total=2, got %d", resp.Total)
	}
}
