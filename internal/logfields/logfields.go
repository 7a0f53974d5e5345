package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRoute      = "route"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRequestID  = "request_id"
	KeyAddr       = "addr"
	KeyCount      = "count"
	KeyCategory   = "category"
	KeyError      = "error"
)

func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
