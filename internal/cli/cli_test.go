package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const suspendScenario = `
threads:
  - id: pid_1_id_1
    name: MainThread
    frames:
      - {func: do_wait_suspend, file: /dbg/pydevd.py, line: 100}
      - {func: compute, file: /srv/app/calc.py, line: 12}
      - {func: hook, file: /srv/app/hooks.py, line: 5}
      - {func: main, file: /srv/app/main.py, line: 3}
events:
  - {type: thread_suspend, thread: pid_1_id_1, frame: 1, stop_reason: "111", suspend_type: trace}
  - {type: thread_stack, seq: 2, thread: pid_1_id_1, must_be_suspended: true}
  - {type: io, text: "aaaaaaaaaa", channel: 2}
  - {type: version, seq: 3}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestRenderScenario(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEBUGWIRE_ROOT_DIR", dir)
	writeFile(t, dir, "debugwire.yaml", `protocol:
  max_io_msg_size: 4
  version_string: "3.0"
paths:
  mappings:
    - {server: /srv/app, client: /home/dev/app}
skip_list:
  files: [hooks.py]
`)
	scenarioPath := writeFile(t, dir, "suspend.yaml", suspendScenario)

	out, err := run(t, "render", "--scenario", scenarioPath)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	fragment := `<frame id="2" name="compute" file="/home/dev/app/calc.py" line="12"></frame>` +
		`<frame id="4" name="main" file="/home/dev/app/main.py" line="3"></frame>`
	want := []string{
		"105\t0\t" + `<xml><thread id="pid_1_id_1" stop_reason="111" suspend_type="trace">` + fragment + "</thread></xml>",
		"152\t2\t" + `<xml><thread id="pid_1_id_1">` + fragment + "</thread></xml>",
		"116\t0\t" + `<xml><io s="aaaa..." ctx="2"/></xml>`,
		"501\t3\t3.0",
	}
	got := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("render output=%q, want %d lines", out, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d=%q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEBUGWIRE_ROOT_DIR", dir)
	scenarioPath := writeFile(t, dir, "s.yaml", "events:\n  - {type: version, seq: 9}\n  - {type: exit}\n")

	out, err := run(t, "render", "-s", scenarioPath, "--json")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("output=%q, want 2 JSON lines", out)
	}
	var first jsonCommand
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if first.Kind != 501 || first.Name != "CMD_VERSION" || first.Seq != 9 || first.Payload != "1.1" {
		t.Fatalf("first=%+v", first)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEBUGWIRE_ROOT_DIR", dir)

	if _, err := run(t, "render"); err == nil || !strings.Contains(err.Error(), `"scenario" not set`) {
		t.Fatalf("render without scenario error=%v", err)
	}
	if _, err := run(t, "render", "-s", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("render succeeded for a missing scenario")
	}
	bad := writeFile(t, dir, "bad.yaml", "events:\n  - {type: warp}\n")
	if _, err := run(t, "render", "-s", bad); err == nil || !strings.Contains(err.Error(), "unknown event type") {
		t.Fatalf("render bad scenario error=%v", err)
	}
	if _, err := run(t, "--config", filepath.Join(dir, "nope.yaml"), "kinds"); err == nil {
		t.Fatal("missing --config file was accepted")
	}
}

func TestKinds(t *testing.T) {
	t.Setenv("DEBUGWIRE_ROOT_DIR", t.TempDir())
	out, err := run(t, "kinds")
	if err != nil {
		t.Fatalf("kinds error: %v", err)
	}
	if !strings.HasPrefix(out, "103\tCMD_THREAD_CREATE\n") {
		t.Fatalf("kinds output starts %q", out[:min(len(out), 40)])
	}
	for _, want := range []string{"105\tCMD_THREAD_SUSPEND\n", "901\tCMD_ERROR\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("kinds output missing %q", want)
		}
	}
}

func TestVersion(t *testing.T) {
	t.Setenv("DEBUGWIRE_ROOT_DIR", t.TempDir())
	SetVersionInfo("1.2.3", "today", "abc123")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "none") })

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if out != "debugwire 1.2.3 (commit abc123, built today)\nprotocol 1.1\n" {
		t.Fatalf("version output=%q", out)
	}
}
