package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func requestJSON(t *testing.T, tenderID string, qty float64) string {
	t.Helper()
	req := validRequest()
	req.TenderID = tenderID
	req.QuantityItems[0].Quantity = qty
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestValidateFile_JSON_Auto_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.json")
	if err := os.WriteFile(path, []byte(requestJSON(t, "T-1", 5)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(context.Background(), NewPricingValidator(), path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("expected non-empty output")
	}
}

func TestValidateFile_JSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(requestJSON(t, "", 5)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(context.Background(), NewPricingValidator(), path, FormatJSON, &out)
	if err == nil || summary != "0 valid / 1 invalid" {
		t.Fatalf("want invalid summary and error, got %q %v", summary, err)
	}
	if out.Len() != 0 {
		t.Fatalf("invalid request must not be written")
	}
}

func TestValidateFile_JSONL_Auto_Mixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.jsonl")
	content := requestJSON(t, "T-1", 1) + "\n\n" +
		requestJSON(t, "T-2", -3) + "\n" + // отрицательный объём
		requestJSON(t, "T-3", 2) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(context.Background(), NewPricingValidator(), path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "2 valid / 1 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
}

func TestValidateFile_MissingFile(t *testing.T) {
	_, err := ValidateFile(context.Background(), NewPricingValidator(), filepath.Join(t.TempDir(), "nope.json"), FormatAuto, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected open error")
	}
}

func TestValidateFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	_ = os.WriteFile(path, []byte("{}"), 0o600)
	if _, err := ValidateFile(context.Background(), NewPricingValidator(), path, InputFormat("xml"), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
