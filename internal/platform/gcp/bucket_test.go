package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

func TestContentTypeForName(t *testing.T) {
	cases := map[string]string{
		"resume.PDF":   "application/pdf",
		"scan.jpeg":    "image/jpeg",
		"notes.txt":    "text/plain",
		"cv.docx":      "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"no-extension": "application/octet-stream",
	}
	for name, want := range cases {
		if got := ContentTypeForName(name); got != want {
			t.Fatalf("ContentTypeForName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestClientOptions(t *testing.T) {
	if ClientOptions("  ") != nil {
		t.Fatalf("expected nil options for empty credentials")
	}
	if len(ClientOptions(`{"type":"service_account"}`)) != 1 || len(ClientOptions("/tmp/key.json")) != 1 {
		t.Fatalf("expected one credentials option")
	}
}

func TestBucketEmulatorLifecycle(t *testing.T) {
	host := strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/")
	if host == "" {
		t.Skip("STORAGE_EMULATOR_HOST not set")
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host
	}
	name := fmt.Sprintf("applytrack-it-%d", time.Now().UnixNano())
	createBucket(t, host, name)

	ctx := context.Background()
	b, err := NewBucket(ctx, logger.Nop(), BucketConfig{Name: name, EmulatorHost: host})
	if err != nil {
		t.Fatalf("NewBucket: %v", err)
	}
	defer b.Close()

	key := "uploads/1/abc/resume.txt"
	if err := b.Upload(ctx, key, "", strings.NewReader("hello resume")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	rc, err := b.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "hello resume" {
		t.Fatalf("downloaded %q", body)
	}
	if err := b.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Download(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound after delete, got %v", err)
	}
	if err := b.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing object should be a no-op: %v", err)
	}
}

func createBucket(t *testing.T, host, name string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"name": name})
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(host+"/storage/v1/b?project=local-dev", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Skipf("storage emulator not reachable at %s: %v", host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("create bucket %q: status=%d body=%s", name, resp.StatusCode, b)
	}
}
