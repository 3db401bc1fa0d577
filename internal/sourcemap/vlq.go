package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Values = func() [128]int {
	var table [128]int
	for i := range table {
		table[i] = -1
	}
	for i, c := range base64Chars {
		table[c] = i
	}
	return table
}()

const (
	vlqShift    = 5
	vlqBase     = 1 << vlqShift
	vlqMask     = vlqBase - 1
	vlqContinue = vlqBase
)

func writeVLQ(sb *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & vlqMask
		vlq >>= vlqShift
		if vlq > 0 {
			digit |= vlqContinue
		}
		sb.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}

// readVLQ decodes one value from s starting at i and returns it with the
// index of the next unread byte.
func readVLQ(s string, i int) (int, int, error) {
	result, shift := 0, 0
	for {
		if i >= len(s) {
			return 0, i, fmt.Errorf("unterminated VLQ value")
		}
		c := s[i]
		if c >= 128 || base64Values[c] < 0 {
			return 0, i, fmt.Errorf("invalid base64 character %q", c)
		}
		digit := base64Values[c]
		i++
		result += (digit & vlqMask) << shift
		shift += vlqShift
		if digit&vlqContinue == 0 {
			break
		}
	}
	value := result >> 1
	if result&1 == 1 {
		value = -value
	}
	return value, i, nil
}
