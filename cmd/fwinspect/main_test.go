package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moffa90/go-fwimage/firmware"
	"github.com/moffa90/go-fwimage/ihex"
	"github.com/moffa90/go-fwimage/internal/config"
)

const hexLinear = ":020000040800F2\n" +
	":02000000AABB99\n" +
	":00000001FF\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"fw.json", FormatSoloKey},
		{"FW.HEX", FormatIHex},
		{"fw.ihx", FormatIHex},
		{"fw.cyacd", FormatCyacd},
		{"fw.bin", FormatRaw},
		{"firmware", FormatRaw},
	}

	for _, tt := range tests {
		if got := formatForPath(tt.path); got != tt.want {
			t.Errorf("formatForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	registry, err := newRegistry(config.Default(), "vl103", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{FormatCyacd, FormatIHex, FormatRaw, FormatSoloKey, FormatVLIPD, FormatVLIUSBHub}
	got := registry.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if _, err := registry.New("elf"); !errors.Is(err, firmware.ErrUnknownFormat) {
		t.Errorf("New(elf) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := newRegistry(config.Default(), "vl999", nil); err == nil {
		t.Error("expected error for unknown device kind")
	}
}

func TestRunSoloKey(t *testing.T) {
	dir := t.TempDir()
	container := `{"firmware":"` + base64.StdEncoding.EncodeToString([]byte(hexLinear)) +
		`","signature":"AQIDBA"}`
	input := writeFile(t, dir, "fw.json", container)
	payload := filepath.Join(dir, "payload.bin")
	sig := filepath.Join(dir, "sig.bin")
	hexOut := filepath.Join(dir, "out.hex")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-out", payload, "-signature-out", sig, "-ihex-out", hexOut, input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	for _, part := range []string{"address: 0x08000000", "size:    2 bytes", "signature:", "size:    4 bytes"} {
		if !strings.Contains(out, part) {
			t.Errorf("stdout missing %q:\n%s", part, out)
		}
	}

	if got, _ := os.ReadFile(payload); !bytes.Equal(got, []byte{0xAA, 0xBB}) {
		t.Errorf("payload = %X", got)
	}
	if got, _ := os.ReadFile(sig); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("signature = %X", got)
	}
	hexData, err := os.ReadFile(hexOut)
	if err != nil {
		t.Fatalf("read intel hex output: %v", err)
	}
	img, err := ihex.New().Parse(hexData, 0, 0, firmware.FlagNone)
	if err != nil {
		t.Fatalf("re-parse intel hex output: %v", err)
	}
	if addr, _ := img.Address(); addr != 0x08000000 || !bytes.Equal(img.Bytes(), []byte{0xAA, 0xBB}) {
		t.Errorf("re-parsed image = 0x%X %X", addr, img.Bytes())
	}
}

func TestRunFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		args    []string
		want    string
		errMsg  string
	}{
		{
			name:    "intel hex",
			file:    "fw.hex",
			content: hexLinear,
			want:    "address: 0x08000000",
		},
		{
			name:    "cyacd",
			file:    "fw.cyacd",
			content: "1E9602AA0000\n000100040005060708E1\n",
			want:    "row-00-0001:",
		},
		{
			name:    "raw with start address",
			file:    "fw.bin",
			content: "abcd",
			args:    []string{"-addr-start", "0x1000"},
			want:    "address: 0x00001000",
		},
		{
			name:    "vli pd",
			file:    "fw.bin",
			content: "abcd",
			args:    []string{"-format", "vli-pd", "-kind", "vl103"},
			want:    "size:    4 bytes",
		},
		{
			name:    "vli kind mismatch",
			file:    "fw.bin",
			content: "abcd",
			args:    []string{"-format", "vli-pd", "-kind", "vl817"},
			errMsg:  "not a PD controller",
		},
		{
			name:    "vli kind mismatch forced",
			file:    "fw.bin",
			content: "abcd",
			args:    []string{"-format", "vli-pd", "-kind", "vl817", "-force"},
			want:    "size:    4 bytes",
		},
		{
			name:    "cyacd bad checksum ignored",
			file:    "fw.cyacd",
			content: "1E9602AA0000\n000000040001020304FF\n",
			args:    []string{"-ignore-checksum"},
			want:    "row-00-0000:",
		},
		{
			name:    "unknown format",
			file:    "fw.bin",
			content: "abcd",
			args:    []string{"-format", "elf"},
			errMsg:  "unknown firmware format",
		},
		{
			name:    "missing signature member",
			file:    "fw.json",
			content: `{"firmware":"AAAA"}`,
			errMsg:  "signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeFile(t, t.TempDir(), tt.file, tt.content)
			args := append(append([]string{}, tt.args...), input)

			var stdout, stderr bytes.Buffer
			err := run(args, &stdout, &stderr)

			if tt.errMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("run failed: %v\nstderr: %s", err, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout missing %q:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRunInputLimit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "limits:\n  max_input_size: 4\n")

	small := writeFile(t, dir, "small.bin", "abcd")
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", cfgPath, small}, &stdout, &stderr); err != nil {
		t.Fatalf("input at the limit rejected: %v", err)
	}

	large := writeFile(t, dir, "large.bin", "abcde")
	err := run([]string{"-config", cfgPath, large}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "limits.max_input_size") {
		t.Fatalf("error = %v, want input limit error", err)
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); err == nil {
		t.Error("expected error without input file")
	}
	if err := run([]string{"-signature-out", filepath.Join(t.TempDir(), "s"), writeFile(t, t.TempDir(), "fw.bin", "x")}, &stdout, &stderr); err == nil {
		t.Error("expected error for raw image without signature")
	}
}

func TestRunParseErrorNotLogged(t *testing.T) {
	input := writeFile(t, t.TempDir(), "fw.json", `{"firmware":"AAAA"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{input}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.HasPrefix(err.Error(), "parse "+input) {
		t.Errorf("error = %v, want parse %s prefix", err, input)
	}
	if strings.Contains(stderr.String(), "signature") {
		t.Errorf("parse error also logged:\n%s", stderr.String())
	}
}
