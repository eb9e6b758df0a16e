package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModelFixture(t *testing.T, root, set, name string) string {
	t.Helper()
	modelPath := filepath.Join(root, set, name)
	if err := os.MkdirAll(filepath.Join(modelPath, "1"), 0o755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}
	cfg := "name: " + name + "\n" + `platform: tensorrt_plan
max_batch_size: 4
input:
  - name: in0
    data_type: TYPE_FP32
    dims: [3, 224, 224]
output:
  - name: out0
    data_type: TYPE_FP32
    dims: [1000]
`
	if err := os.WriteFile(filepath.Join(modelPath, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write fixture config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(modelPath, "1", "model.plan"), []byte("plan"), 0o644); err != nil {
		t.Fatalf("write fixture artifact: %v", err)
	}
	return modelPath
}

func TestValidateCommandPrintsRender(t *testing.T) {
	root := t.TempDir()
	modelPath := writeModelFixture(t, root, "single", "modelA")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate", modelPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected command error: %v", err)
	}
	if !strings.Contains(out.String(), `platform: "tensorrt_plan"`) {
		t.Fatalf("render missing from output:\n%s", out.String())
	}
}

func TestRunCommandPassesCleanFixtures(t *testing.T) {
	root := t.TempDir()
	writeModelFixture(t, root, "model_config_sanity", "modelA")
	if err := os.MkdirAll(filepath.Join(root, "autofill_sanity"), 0o755); err != nil {
		t.Fatalf("mkdir autofill set: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"run", "--platform", "tensorrt_plan", "--test-root", root})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected command error: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "total=1 passed=1 failed=0") {
		t.Fatalf("summary missing from output:\n%s", out.String())
	}
}

func TestRunCommandFailsOnGoldenMismatch(t *testing.T) {
	root := t.TempDir()
	modelPath := writeModelFixture(t, root, "model_config_sanity", "modelA")
	if err := os.WriteFile(filepath.Join(modelPath, "expected"), []byte("will not match"), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "autofill_sanity"), 0o755); err != nil {
		t.Fatalf("mkdir autofill set: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"run", "--platform", "tensorrt_plan", "--test-root", root})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected failing exit for golden mismatch:\n%s", out.String())
	}
}

func TestRunCommandRejectsUnknownPlatform(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run", "--platform", "onnx_runtime", "--test-root", t.TempDir()})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected unknown platform error")
	}
}
