// SPDX-License-Identifier: EPL-2.0

package notecore

import (
	"log/slog"

	"github.com/ik5/notecore/internal/logx"
)

// SetLogger routes the warnings of every notecore package to l. A nil
// logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	logx.SetLogger(l)
}
