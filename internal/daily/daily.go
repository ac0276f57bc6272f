// Package daily derives the deterministic question sequence for a calendar
// day: every player who starts a daily session on the same UTC date sees the
// same colors in the same order.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey validates a YYYY-MM-DD key.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// QuestionSeed returns the RNG seed for question index (0-based) on date,
// as the first 8 bytes of HMAC-SHA256(salt, "YYYY-MM-DD|index").
func QuestionSeed(date, salt string, index int) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(index)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}
