package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/samir-abis/facefusion/internal/integrity"
)

func TestPartitionExistenceOnly(t *testing.T) {
	dir := t.TempDir()

	present1 := filepath.Join(dir, "a.hash")
	present2 := filepath.Join(dir, "c.hash")
	absent1 := filepath.Join(dir, "b.hash")
	absent2 := filepath.Join(dir, "d.hash")
	for _, path := range []string{present1, present2} {
		if err := os.WriteFile(path, []byte("record"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	v := NewValidator()
	input := []string{present1, absent1, present2, absent2}
	report := v.Partition(input, ExistenceOnly)

	if !reflect.DeepEqual(report.Valid, []string{present1, present2}) {
		t.Errorf("Valid = %v, want [%s %s]", report.Valid, present1, present2)
	}
	if !reflect.DeepEqual(report.Invalid, []string{absent1, absent2}) {
		t.Errorf("Invalid = %v, want [%s %s]", report.Invalid, absent1, absent2)
	}
	if len(report.Valid)+len(report.Invalid) != len(input) {
		t.Errorf("partition lost paths: %d + %d != %d",
			len(report.Valid), len(report.Invalid), len(input))
	}
	if report.AllValid() {
		t.Error("AllValid = true with absent paths")
	}
}

func TestPartitionContentHash(t *testing.T) {
	dir := t.TempDir()

	sealed := filepath.Join(dir, "sealed.onnx")
	writeAssetWithRecord(t, sealed, "good content")

	tampered := filepath.Join(dir, "tampered.onnx")
	writeAssetWithRecord(t, tampered, "original content")
	if err := os.WriteFile(tampered, []byte("evil content"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	unrecorded := filepath.Join(dir, "unrecorded.onnx")
	if err := os.WriteFile(unrecorded, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	missing := filepath.Join(dir, "missing.onnx")

	v := NewValidator()
	input := []string{sealed, tampered, unrecorded, missing}
	report := v.Partition(input, ContentHash)

	if !reflect.DeepEqual(report.Valid, []string{sealed}) {
		t.Errorf("Valid = %v, want [%s]", report.Valid, sealed)
	}
	if !reflect.DeepEqual(report.Invalid, []string{tampered, unrecorded, missing}) {
		t.Errorf("Invalid = %v, want tampered, unrecorded and missing in input order", report.Invalid)
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	v := NewValidator()
	report := v.Partition(nil, ExistenceOnly)
	if !report.AllValid() {
		t.Error("AllValid = false for an empty input")
	}
	if len(report.Valid) != 0 || len(report.Invalid) != 0 {
		t.Errorf("partition of nil input = %+v, want empty halves", report)
	}
}

func TestStrategyString(t *testing.T) {
	if got := ExistenceOnly.String(); got != "existence" {
		t.Errorf("ExistenceOnly.String() = %s", got)
	}
	if got := ContentHash.String(); got != "content-hash" {
		t.Errorf("ContentHash.String() = %s", got)
	}
	if got := Strategy(99).String(); got != "unknown" {
		t.Errorf("Strategy(99).String() = %s", got)
	}
}

// writeAssetWithRecord writes content to path along with a matching
// companion hash record.
func writeAssetWithRecord(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	writeRecordFor(t, path, content)
}

// writeRecordFor writes the companion hash record a file at path would need
// to hold content, without touching the file itself.
func writeRecordFor(t *testing.T, path, content string) {
	t.Helper()

	digest, err := integrity.ComputeHash(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	record := fmt.Sprintf("%s  %s\n", digest, filepath.Base(path))
	if err := os.WriteFile(integrity.HashPath(path), []byte(record), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
