package transfer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRefNo número de referencia legible: TR-AAAAMMDD-xxxxxx.
func NewRefNo(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return "TR-" + now.Format("20060102") + "-" + strings.ToUpper(suffix)
}
