package api

import (
	"io"
	"strings"
	"time"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

func strReader(s string) io.Reader {
	return strings.NewReader(s)
}

// validTimestamp reports whether ts parses in the service wire format.
func validTimestamp(ts string) bool {
	_, err := time.Parse(telemetry.TimestampFormat, ts)
	return err == nil
}
