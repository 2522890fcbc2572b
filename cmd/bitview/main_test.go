package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/codec"
	"github.com/wippyai/bitmem/config"
	"github.com/wippyai/bitmem/errors"
	"github.com/wippyai/bitmem/kind"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	var opts options
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse(args))
	opts.hasIndex = fs.Changed("index")
	opts.hasBits = fs.Changed("bits")

	var out bytes.Buffer
	err := run(opts, &out)
	return out.String(), err
}

func TestRunView(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "float view",
			args: []string{"--hex", "3f800000", "--kind", "float"},
			want: []string{"Buffer: 32 bits, float32 view (1 elements)", "0: 1\n"},
		},
		{
			name: "bit cast",
			args: []string{"--hex", "3f800000", "--kind", "int8", "--cast-to", "float32"},
			want: []string{"Cast to float32 (bits):", "0: 1\n"},
		},
		{
			name: "value cast",
			args: []string{"--hex", "3f800000", "--kind", "int8", "--cast-to", "int16", "--value-cast"},
			want: []string{"Cast to int16 (value):", "-128"},
		},
		{
			name: "single element",
			args: []string{"--hex", "3f80", "--kind", "int8", "--index", "1", "--cast-to", "int16"},
			want: []string{"[1] -128", "as int16: 128"},
		},
		{
			name: "bits flag",
			args: []string{"--hex", "ff", "--bits", "3", "--kind", "bool"},
			want: []string{"3 bits, bool view (3 elements)", "0: true true true"},
		},
		{
			name: "partial elements",
			args: []string{"--hex", "0x41 42 43", "--kind", "char"},
			want: []string{"(1 elements)", "U+4142 '䅂'"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runArgs(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad hex", []string{"--hex", "zz"}},
		{"bits too large", []string{"--hex", "ff", "--bits", "9"}},
		{"bad kind", []string{"--hex", "ff", "--kind", "complex"}},
		{"index out of range", []string{"--hex", "ff", "--index", "1"}},
		{"bad cast", []string{"--hex", "ff", "--cast-to", "nope"}},
		{"bad compression", []string{"--hex", "ff", "--compress", "brotli"}},
		{"missing file", []string{"--in", "/nonexistent/input.bin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runArgs(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func digestLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Digest: ") {
			return line
		}
	}
	return ""
}

func TestRunWriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	src := []string{"--hex", "3f800000c0000000", "--bits", "60", "--kind", "float"}

	first, err := runArgs(t, src...)
	require.NoError(t, err)
	want := digestLine(first)
	require.NotEmpty(t, want)

	for _, tc := range []struct {
		file   string
		format string
		extra  []string
	}{
		{"out.bin", "raw", nil},
		{"out.bitm", "frame", []string{"--compress", "zstd"}},
		{"out.lz4.bitm", "frame", []string{"--compress", "lz4"}},
		{"out.cbor", "cbor", nil},
	} {
		t.Run(tc.format+"/"+tc.file, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			args := append(append([]string{}, src...), "--out", path, "--format", tc.format)
			args = append(args, tc.extra...)
			out, err := runArgs(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Wrote "+path)

			back, err := runArgs(t, "--in", path)
			require.NoError(t, err)
			assert.Equal(t, want, digestLine(back))
			assert.Contains(t, back, "60 bits")
		})
	}

	t.Run("cbor keeps kind", func(t *testing.T) {
		back, err := runArgs(t, "--in", filepath.Join(dir, "out.cbor"))
		require.NoError(t, err)
		assert.Contains(t, back, "float32 view (1 elements)")
	})

	t.Run("unknown format", func(t *testing.T) {
		args := append(append([]string{}, src...), "--out", filepath.Join(dir, "x"), "--format", "xml")
		_, err := runArgs(t, args...)
		assert.Error(t, err)
	})
}

func TestRunRejectsOversizedHeaders(t *testing.T) {
	dir := t.TempDir()

	raw := make([]byte, buffer.HeaderSize)
	binary.BigEndian.PutUint64(raw, buffer.MaxBits)
	rawPath := filepath.Join(dir, "huge.bin")
	require.NoError(t, os.WriteFile(rawPath, raw, 0o600))

	frame := make([]byte, 22)
	copy(frame, codec.Magic)
	frame[4] = codec.Version
	binary.BigEndian.PutUint64(frame[6:], buffer.MaxBits)
	binary.BigEndian.PutUint64(frame[14:], buffer.MaxBits/8)
	framePath := filepath.Join(dir, "huge.bitm")
	require.NoError(t, os.WriteFile(framePath, frame, 0o600))

	_, err := runArgs(t, "--in", rawPath)
	assert.ErrorIs(t, err, errors.ErrIOFailure)

	_, err = runArgs(t, "--in", framePath)
	assert.ErrorIs(t, err, errors.ErrAllocationTooLarge)
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bitview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("view:\n  kind: short\n  columns: 1\n"), 0o600))

	out, err := runArgs(t, "--hex", "00010002", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "int16 view (2 elements)")
	assert.Contains(t, out, "0: 1\n1: 2\n")
}

func TestFormatArray(t *testing.T) {
	assert.Equal(t, "0:  1 -2  3\n", formatArray([]int8{1, -2, 3}, 8))
	assert.Equal(t, " 0: 1 2\n 2: 3 4\n 4: 5 6\n 6: 7 8\n 8: 9 0\n10: 1\n",
		formatArray([]int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, 2))
	assert.Equal(t, "(empty)\n", formatArray([]bool{}, 8))
	assert.Equal(t, "0:  NaN +Inf\n", formatArray([]float64{math.NaN(), math.Inf(1)}, 8))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		k    kind.Kind
		in   string
		want any
	}{
		{kind.Int8, "-128", int8(-128)},
		{kind.Int16, "0x7fff", int16(32767)},
		{kind.Int32, "42", int32(42)},
		{kind.Int64, "-9223372036854775808", int64(-9223372036854775808)},
		{kind.Float32, "1.5", float32(1.5)},
		{kind.Float64, " -0.25 ", -0.25},
		{kind.Char16, "A", uint16('A')},
		{kind.Char16, "U+00e9", uint16(0xe9)},
		{kind.Bool1, "true", true},
		{kind.Bool1, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.k.String()+"/"+tt.in, func(t *testing.T) {
			got, err := parseValue(tt.k, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []struct {
		k  kind.Kind
		in string
	}{
		{kind.Int8, "128"},
		{kind.Int16, "x"},
		{kind.Char16, "U+10000"},
		{kind.Bool1, "maybe"},
	} {
		_, err := parseValue(bad.k, bad.in)
		assert.Error(t, err, "%s %q", bad.k, bad.in)
	}
}

func testModel(t *testing.T, data []byte, k kind.Kind) *interactiveModel {
	t.Helper()
	b, err := buffer.FromBytes(data, uint64(len(data))*8)
	require.NoError(t, err)
	t.Cleanup(b.Free)
	return newInteractiveModel(&session{cfg: config.Default(), log: zap.NewNop(), buf: b, kind: k})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *interactiveModel, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestInteractiveNavigation(t *testing.T) {
	m := testModel(t, make([]byte, 32), kind.Int8)

	send(m, "right", "right", "right")
	assert.Equal(t, uint64(3), m.cursor)

	send(m, "down")
	assert.Equal(t, uint64(11), m.cursor)

	// int8 index 11 is bit 88, which is int16 index 5
	send(m, "tab")
	assert.Equal(t, kind.Int16, m.kind)
	assert.Equal(t, uint64(5), m.cursor)

	send(m, "g")
	send(m, "1", "5", "enter")
	assert.Equal(t, uint64(15), m.cursor)
	assert.NoError(t, m.err)

	send(m, "g", "9", "9", "enter")
	assert.Error(t, m.err)
	assert.Equal(t, uint64(15), m.cursor)
}

func TestInteractiveEdit(t *testing.T) {
	m := testModel(t, make([]byte, 4), kind.Int8)

	send(m, "right", "e", "-", "5", "enter")
	require.NoError(t, m.err)
	v, err := m.buf.Int8(1)
	require.NoError(t, err)
	assert.Equal(t, int8(-5), v)
	assert.Contains(t, m.status, "int8[1] = -5")

	send(m, "e", "3", "0", "0", "enter")
	assert.Error(t, m.err)

	send(m, "z")
	v, _ = m.buf.Int8(1)
	assert.Equal(t, int8(0), v)

	send(m, "e", "7", "esc")
	v, _ = m.buf.Int8(1)
	assert.Equal(t, int8(0), v)
	assert.Equal(t, stateBrowse, m.state)
}

func TestInteractiveCastColumn(t *testing.T) {
	m := testModel(t, []byte{0x3F, 0x80, 0x00, 0x00}, kind.Int32)
	assert.NotContains(t, m.View(), " as ")

	// cycle to float32
	send(m, "c", "c", "c", "c", "c")
	assert.Equal(t, kind.Float32, m.castTo)
	assert.Contains(t, m.View(), "as float32 (bits): 1")

	send(m, "v")
	assert.Contains(t, m.View(), "as float32 (value): 1.06")

	assert.Contains(t, m.View(), codec.Sum(m.buf).String()[:16])
}
