package utils

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewSessionID() string
	ElapsedMillis(start time.Time) float64
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewSessionID() string {
	return uuid.NewString()
}

// ElapsedMillis reports the time since start in milliseconds, rounded to
// two decimals.
func (u *utils) ElapsedMillis(start time.Time) float64 {
	ms := float64(time.Since(start).Microseconds()) / 1000
	return float64(int64(ms*100+0.5)) / 100
}
