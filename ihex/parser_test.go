package ihex

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-fwimage/firmware"
)

const (
	// two data bytes AA BB at 0x08000000
	hexLinear = ":020000040800F2\n" +
		":02000000AABB99\n" +
		":00000001FF\n"

	// 01 02 03 04 at 0x0000, 05 06 at 0x0010
	hexGap = ":0400000001020304F2\n" +
		":020010000506E3\n" +
		":00000001FF\n"

	// AA BB at segment 0x1000, i.e. 0x00010000
	hexSegment = ":020000021000EC\n" +
		":02000000AABB99\n" +
		":00000001FF\n"
)

func TestParse(t *testing.T) {
	gap := bytes.Repeat([]byte{0x00}, 12)

	tests := []struct {
		name      string
		input     string
		addrStart uint64
		addrEnd   uint64
		flags     firmware.Flags
		opts      []Option
		wantAddr  uint64
		wantBytes []byte
		wantErr   bool
		errMsg    string
		errIs     error
	}{
		{
			name:      "extended linear address",
			input:     hexLinear,
			wantAddr:  0x08000000,
			wantBytes: []byte{0xAA, 0xBB},
		},
		{
			name:      "extended segment address",
			input:     hexSegment,
			wantAddr:  0x00010000,
			wantBytes: []byte{0xAA, 0xBB},
		},
		{
			name:      "crlf line endings",
			input:     strings.ReplaceAll(hexLinear, "\n", "\r\n"),
			wantAddr:  0x08000000,
			wantBytes: []byte{0xAA, 0xBB},
		},
		{
			name:      "gap filled with zero",
			input:     hexGap,
			wantAddr:  0,
			wantBytes: append(append([]byte{1, 2, 3, 4}, gap...), 5, 6),
		},
		{
			name:      "gap filled with 0xFF",
			input:     hexGap,
			opts:      []Option{WithGapFill(0xFF)},
			wantAddr:  0,
			wantBytes: append(append([]byte{1, 2, 3, 4}, bytes.Repeat([]byte{0xFF}, 12)...), 5, 6),
		},
		{
			name:      "window start skips first segment",
			input:     hexGap,
			addrStart: 0x10,
			wantAddr:  0x10,
			wantBytes: []byte{5, 6},
		},
		{
			name:      "window clips both ends",
			input:     hexGap,
			addrStart: 0x02,
			addrEnd:   0x10,
			wantAddr:  0x02,
			wantBytes: append(append([]byte{3, 4}, gap...), 5),
		},
		{
			name:      "window inside linear segment",
			input:     hexLinear,
			addrStart: 0x08000001,
			addrEnd:   0x08000001,
			wantAddr:  0x08000001,
			wantBytes: []byte{0xBB},
		},
		{
			name:      "no data in window",
			input:     hexGap,
			addrStart: 0x100,
			wantErr:   true,
			errIs:     ErrNoData,
		},
		{
			name:    "gap too large",
			input:   hexGap,
			opts:    []Option{WithMaxGap(4)},
			wantErr: true,
			errIs:   ErrGapTooLarge,
		},
		{
			name:    "input too large",
			input:   hexLinear,
			opts:    []Option{WithMaxSize(10)},
			wantErr: true,
			errIs:   ErrTooLarge,
		},
		{
			name:    "bad checksum",
			input:   ":02000000AABB00\n:00000001FF\n",
			wantErr: true,
			errMsg:  "invalid intel hex",
		},
		{
			name:      "bad checksum ignored",
			input:     ":02000000AABB00\n:00000001FF\n",
			flags:     firmware.FlagIgnoreChecksum,
			wantAddr:  0,
			wantBytes: []byte{0xAA, 0xBB},
		},
		{
			name:      "bad checksum forced",
			input:     ":02000000AABB00\n:00000001FF\n",
			flags:     firmware.FlagForce,
			wantAddr:  0,
			wantBytes: []byte{0xAA, 0xBB},
		},
		{
			name:    "missing end of file",
			input:   ":02000000AABB99\n",
			wantErr: true,
			errMsg:  "invalid intel hex",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
			errMsg:  "invalid intel hex",
		},
		{
			name:    "not intel hex",
			input:   "hello world\n",
			wantErr: true,
			errMsg:  "invalid intel hex",
		},
		{
			name:    "only end of file",
			input:   ":00000001FF\n",
			wantErr: true,
			errIs:   ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(tt.opts...).Parse([]byte(tt.input), tt.addrStart, tt.addrEnd, tt.flags)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got image %v", img)
				}
				if tt.errIs != nil && !errors.Is(err, tt.errIs) {
					t.Errorf("error = %v, want %v", err, tt.errIs)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				if img != nil {
					t.Error("image should be nil on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			addr, ok := img.Address()
			if !ok {
				t.Fatal("address not set")
			}
			if addr != tt.wantAddr {
				t.Errorf("Address() = 0x%08X, want 0x%08X", addr, tt.wantAddr)
			}
			if !bytes.Equal(img.Bytes(), tt.wantBytes) {
				t.Errorf("Bytes() = % X, want % X", img.Bytes(), tt.wantBytes)
			}
			if len(img.Images()) != 0 {
				t.Errorf("unexpected child images: %d", len(img.Images()))
			}
		})
	}
}

func TestParseWindowErrors(t *testing.T) {
	tests := []struct {
		name      string
		addrStart uint64
		addrEnd   uint64
	}{
		{name: "start above 32 bits", addrStart: 1 << 32},
		{name: "end above 32 bits", addrEnd: 1 << 33},
		{name: "inverted", addrStart: 0x2000, addrEnd: 0x1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse([]byte(hexLinear), tt.addrStart, tt.addrEnd, firmware.FlagNone)
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("error = %v, want *RangeError", err)
			}
			if rangeErr.Start != tt.addrStart || rangeErr.End != tt.addrEnd {
				t.Errorf("RangeError = %+v, want start 0x%X end 0x%X", rangeErr, tt.addrStart, tt.addrEnd)
			}
		})
	}
}

type recordingLogger struct {
	debug []string
}

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Info(string, ...interface{})        {}
func (l *recordingLogger) Error(string, ...interface{})       {}

func TestParseLogs(t *testing.T) {
	logger := &recordingLogger{}
	if _, err := New(WithLogger(logger)).Parse([]byte(hexLinear), 0, 0, firmware.FlagNone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logger.debug) != 1 || logger.debug[0] != "parsed intel hex" {
		t.Errorf("debug messages = %v", logger.debug)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	src := firmware.New()
	src.SetAddress(0x08000000)
	src.SetBytes(bytes.Repeat([]byte{0x11, 0x22, 0x33}, 20))

	var buf bytes.Buffer
	if err := Dump(&buf, src); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	img, err := New().Parse(buf.Bytes(), 0, 0, firmware.FlagNone)
	if err != nil {
		t.Fatalf("Parse of dumped records failed: %v\n%s", err, buf.String())
	}
	if addr, _ := img.Address(); addr != 0x08000000 {
		t.Errorf("Address() = 0x%08X, want 0x08000000", addr)
	}
	if !bytes.Equal(img.Bytes(), src.Bytes()) {
		t.Errorf("Bytes() = % X, want % X", img.Bytes(), src.Bytes())
	}
}

func TestDumpOutOfRange(t *testing.T) {
	img := firmware.New()
	img.SetAddress(0xFFFFFFFF)
	img.SetBytes([]byte{1, 2})

	var rangeErr *RangeError
	if err := Dump(&bytes.Buffer{}, img); !errors.As(err, &rangeErr) {
		t.Errorf("error = %v, want *RangeError", err)
	}
}

func TestRepairChecksums(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "wrong checksum",
			input: ":02000000AABB00\n",
			want:  ":02000000AABB99\n",
		},
		{
			name:  "correct checksum untouched",
			input: hexLinear,
			want:  hexLinear,
		},
		{
			name:  "crlf preserved",
			input: ":02000000AABB00\r\n:00000001FF",
			want:  ":02000000AABB99\r\n:00000001FF",
		},
		{
			name:  "garbage untouched",
			input: "hello\n:0200ZZ00AABB00\n",
			want:  "hello\n:0200ZZ00AABB00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(repairChecksums([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("repairChecksums(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordChecksum(t *testing.T) {
	tests := []struct {
		name     string
		record   []byte
		expected byte
	}{
		{
			name:     "extended linear address",
			record:   []byte{0x02, 0x00, 0x00, 0x04, 0x08, 0x00},
			expected: 0xF2,
		},
		{
			name:     "end of file",
			record:   []byte{0x00, 0x00, 0x00, 0x01},
			expected: 0xFF,
		},
		{
			name:     "zeros",
			record:   []byte{0x00, 0x00, 0x00},
			expected: 0x00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordChecksum(tt.record); got != tt.expected {
				t.Errorf("recordChecksum() = 0x%02X, want 0x%02X", got, tt.expected)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	src := firmware.New()
	src.SetAddress(0x08000000)
	src.SetBytes(bytes.Repeat([]byte{0xA5}, 16*1024))

	var buf bytes.Buffer
	if err := Dump(&buf, src); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	p := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Parse(data, 0, 0, firmware.FlagNone)
	}
}
