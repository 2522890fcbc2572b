package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/wippyai/bitmem/kind"
)

func formatValue(v any) string {
	switch x := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case uint16:
		r := rune(x)
		if unicode.IsPrint(r) && (r < 0xD800 || r > 0xDFFF) {
			return fmt.Sprintf("U+%04X %q", x, r)
		}
		return fmt.Sprintf("U+%04X", x)
	default:
		return fmt.Sprint(v)
	}
}

// formatArray renders a view slice with index labels, columns per line.
func formatArray(arr any, columns int) string {
	n, ok := kind.SliceLen(arr)
	if !ok {
		return fmt.Sprintf("%v\n", arr)
	}
	if n == 0 {
		return "(empty)\n"
	}
	if columns <= 0 {
		columns = 8
	}
	cells := make([]string, n)
	for i := range cells {
		cells[i] = formatValue(elementAt(arr, i))
	}
	return renderCells(cells, 0, columns)
}

func renderCells(cells []string, first, columns int) string {
	width := 0
	for _, c := range cells {
		width = max(width, len(c))
	}
	labelWidth := len(strconv.Itoa(first + len(cells) - 1))

	var b strings.Builder
	for row := 0; row < len(cells); row += columns {
		fmt.Fprintf(&b, "%*d:", labelWidth, first+row)
		for _, c := range cells[row:min(row+columns, len(cells))] {
			fmt.Fprintf(&b, " %*s", width, c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func elementAt(arr any, i int) any {
	switch a := arr.(type) {
	case []int8:
		return a[i]
	case []int16:
		return a[i]
	case []int32:
		return a[i]
	case []int64:
		return a[i]
	case []float32:
		return a[i]
	case []float64:
		return a[i]
	case []uint16:
		return a[i]
	case []bool:
		return a[i]
	}
	return nil
}

// parseValue parses s as an element of kind k.
func parseValue(k kind.Kind, s string) (any, error) {
	s = strings.TrimSpace(s)
	switch k {
	case kind.Int8, kind.Int16, kind.Int32, kind.Int64:
		v, err := strconv.ParseInt(s, 0, int(k.BitWidth()))
		if err != nil {
			return nil, err
		}
		switch k {
		case kind.Int8:
			return int8(v), nil
		case kind.Int16:
			return int16(v), nil
		case kind.Int32:
			return int32(v), nil
		}
		return v, nil
	case kind.Float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil && !isRangeErr(err, v) {
			return nil, err
		}
		return float32(v), nil
	case kind.Float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err, v) {
			return nil, err
		}
		return v, nil
	case kind.Char16:
		if r := []rune(s); len(r) == 1 && r[0] <= math.MaxUint16 {
			return uint16(r[0]), nil
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(s), "U+"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("char16 wants one character or U+XXXX: %w", err)
		}
		return uint16(v), nil
	case kind.Bool1:
		return strconv.ParseBool(s)
	}
	return nil, fmt.Errorf("unknown kind %s", k)
}

// isRangeErr accepts overflow to infinity the way float literals do.
func isRangeErr(err error, v float64) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange && math.IsInf(v, 0)
}
