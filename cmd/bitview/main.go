// Command bitview inspects and converts bit buffers.
//
// Usage:
//
//	bitview --hex 3f800000 --kind float
//	bitview --in data.bitm --kind int --cast-to float
//	bitview --hex ff --bits 8 --out data.bitm --format frame --compress zstd
//	bitview --in data.bin -i
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/cast"
	"github.com/wippyai/bitmem/codec"
	"github.com/wippyai/bitmem/config"
	"github.com/wippyai/bitmem/kind"
)

type options struct {
	in          string
	hexData     string
	bits        uint64
	kind        string
	index       uint64
	castTo      string
	valueCast   bool
	out         string
	format      string
	compress    string
	configPath  string
	logLevel    string
	interactive bool

	hasIndex bool
	hasBits  bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bitview", pflag.ContinueOnError)
	fs.StringVar(&opts.in, "in", "", "input file (raw, frame or cbor snapshot)")
	fs.StringVar(&opts.hexData, "hex", "", "input as hex bytes")
	fs.Uint64Var(&opts.bits, "bits", 0, "bit length for --hex input (default: all bytes)")
	fs.StringVarP(&opts.kind, "kind", "k", "", "element kind to view")
	fs.Uint64Var(&opts.index, "index", 0, "print a single element")
	fs.StringVar(&opts.castTo, "cast-to", "", "reinterpret the view as another kind")
	fs.BoolVar(&opts.valueCast, "value-cast", false, "convert values instead of reinterpreting bits")
	fs.StringVarP(&opts.out, "out", "o", "", "write the buffer to a file")
	fs.StringVar(&opts.format, "format", "frame", "output format: raw, frame or cbor")
	fs.StringVar(&opts.compress, "compress", "", "frame compression: none, lz4 or zstd")
	fs.StringVar(&opts.configPath, "config", "", "config file (default: $"+config.EnvVar+")")
	fs.StringVar(&opts.logLevel, "log-level", "", "override log level")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive mode with TUI")
	return fs
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	opts.hasIndex = fs.Changed("index")
	opts.hasBits = fs.Changed("bits")

	if opts.in == "" && opts.hexData == "" {
		fmt.Fprintln(os.Stderr, "Usage: bitview --in <file> [--kind K] [--index I] [--cast-to K]")
		fmt.Fprintln(os.Stderr, "       bitview --hex <bytes> [--bits N] [--out file --format raw|frame|cbor]")
		fmt.Fprintln(os.Stderr, "       bitview --in <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session holds everything resolved from flags and config.
type session struct {
	cfg  *config.Config
	log  *zap.Logger
	buf  *buffer.Buffer
	kind kind.Kind
}

func setup(opts options) (*session, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.compress != "" {
		cfg.Codec.Compression = opts.compress
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	buffer.SetLogger(log.Named("buffer"))
	codec.SetLogger(log.Named("codec"))

	buf, stored, err := loadInput(opts, cfg)
	if err != nil {
		return nil, err
	}

	k := cfg.ViewKind()
	switch {
	case opts.kind != "":
		if k, err = kind.Parse(opts.kind); err != nil {
			buf.Free()
			return nil, err
		}
	case stored.Valid():
		k = stored
	}

	log.Debug("input loaded", zap.Uint64("bits", buf.Bits()), zap.Stringer("kind", k))
	return &session{cfg: cfg, log: log, buf: buf, kind: k}, nil
}

func run(opts options, stdout io.Writer) error {
	s, err := setup(opts)
	if err != nil {
		return err
	}
	defer s.buf.Free()
	defer func() { _ = s.log.Sync() }()

	if opts.interactive {
		return runInteractive(s)
	}

	if err := show(stdout, s, opts); err != nil {
		return err
	}

	if opts.out != "" {
		if err := writeOutput(opts.out, opts.format, s); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s (%s)\n", opts.out, opts.format)
	}
	return nil
}

// loadInput returns the buffer and, for cbor snapshots, the recorded kind.
// The stored kind is kind.Count when the input carries none.
func loadInput(opts options, cfg *config.Config) (*buffer.Buffer, kind.Kind, error) {
	alloc := buffer.WithAllocator(cfg.Allocator())

	if opts.hexData != "" {
		data, err := hex.DecodeString(strings.TrimPrefix(strings.ReplaceAll(opts.hexData, " ", ""), "0x"))
		if err != nil {
			return nil, kind.Count, fmt.Errorf("hex: %w", err)
		}
		bits := uint64(len(data)) * 8
		if opts.hasBits {
			if opts.bits > bits {
				return nil, kind.Count, fmt.Errorf("--bits %d exceeds %d bits of hex input", opts.bits, bits)
			}
			bits = opts.bits
			data = data[:(bits+7)/8]
		}
		b, err := buffer.FromBytes(data, bits, alloc)
		return b, kind.Count, err
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return nil, kind.Count, fmt.Errorf("read file: %w", err)
	}

	if codec.IsFrame(data) {
		b, err := codec.Unmarshal(data, codec.DecodeOptions{MaxBits: cfg.Codec.MaxBits, Allocator: cfg.Allocator()})
		return b, kind.Count, err
	}
	if strings.EqualFold(filepath.Ext(opts.in), ".cbor") {
		return codec.UnmarshalSnapshot(data, alloc)
	}
	b, err := buffer.Decode(bytes.NewReader(data), alloc)
	return b, kind.Count, err
}

func show(w io.Writer, s *session, opts options) error {
	fmt.Fprintf(w, "Buffer: %d bits, %s view (%d elements)\n", s.buf.Bits(), s.kind, s.buf.Len(s.kind))
	fmt.Fprintf(w, "Digest: %s\n", codec.Sum(s.buf))

	if opts.hasIndex {
		v, err := s.buf.Get(s.kind, opts.index)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[%d] %s\n", opts.index, formatValue(v))
		if opts.castTo != "" {
			to, err := kind.Parse(opts.castTo)
			if err != nil {
				return err
			}
			var out any
			if opts.valueCast {
				out, err = cast.Value(v, to)
			} else {
				out, err = cast.ValueBits(v, to)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "as %s: %s\n", to, formatValue(out))
		}
		return nil
	}

	arr, err := s.buf.View(s.kind)
	if err != nil {
		return err
	}
	if opts.castTo != "" {
		to, err := kind.Parse(opts.castTo)
		if err != nil {
			return err
		}
		if opts.valueCast {
			arr, err = cast.Array(arr, to)
		} else {
			arr, err = cast.ArrayBits(arr, to)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Cast to %s (%s):\n", to, castMode(opts.valueCast))
	}
	fmt.Fprint(w, formatArray(arr, s.cfg.View.Columns))
	return nil
}

func castMode(value bool) string {
	if value {
		return "value"
	}
	return "bits"
}

func writeOutput(path, format string, s *session) error {
	var data []byte
	var err error
	switch format {
	case "raw":
		data, err = s.buf.MarshalBinary()
	case "frame":
		data, err = codec.Marshal(s.buf, codec.Options{Compression: s.cfg.Compression()})
	case "cbor":
		data, err = codec.MarshalSnapshot(s.buf, s.kind)
	default:
		return fmt.Errorf("unknown format %q (want raw, frame or cbor)", format)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	s.log.Info("output written", zap.String("path", path), zap.String("format", format), zap.Int("bytes", len(data)))
	return nil
}
