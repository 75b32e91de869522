package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"backoffice/internal/services"
)

const (
	redacted     = "[REDACTED]"
	maxAuditBody = 64 << 10
	auditTimeout = 5 * time.Second
)

var sensitiveKeys = map[string]struct{}{
	"password":   {},
	"token":      {},
	"secret":     {},
	"apikey":     {},
	"creditcard": {},
}

type AuditRecorder interface {
	Record(ctx context.Context, entry services.AuditEntry) error
}

// ActorFrom describes the caller for service-level audit rows.
func ActorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Platform:  Platform(c),
	}
	if id, ok := CurrentUserID(c); ok {
		actor.UserID = &id
	}
	return actor
}

type readCloser struct {
	io.Reader
	io.Closer
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxAuditBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	if w.body.Len() < maxAuditBody {
		w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

// Redact replaces sensitive keys at any depth.
func Redact(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = Redact(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}

func decodeObject(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func idOf(m map[string]interface{}) string {
	if m == nil {
		return ""
	}
	if id, ok := m["id"].(string); ok && id != "" {
		return id
	}
	if user, ok := m["user"].(map[string]interface{}); ok {
		if id, ok := user["id"].(string); ok {
			return id
		}
	}
	return ""
}

// entityID prefers the :id param, then an id in the request body, then one in
// the response data.
func entityID(c *gin.Context, body, response map[string]interface{}) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if id := idOf(body); id != "" {
		return id
	}
	if data, ok := response["data"].(map[string]interface{}); ok {
		return idOf(data)
	}
	return ""
}

// Audit records a successful request as action on entityType. The write
// happens off the request path.
func Audit(recorder AuditRecorder, action, entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only the first maxAuditBody bytes are kept for the audit row; the
		// handler still reads the whole body.
		var raw []byte
		if body := c.Request.Body; body != nil {
			raw, _ = io.ReadAll(io.LimitReader(body, maxAuditBody))
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(raw), body),
				Closer: body,
			}
		}
		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		body := decodeObject(raw)
		query := map[string]interface{}{}
		for k, v := range c.Request.URL.Query() {
			if len(v) == 1 {
				query[k] = v[0]
			} else {
				query[k] = v
			}
		}
		metadata := map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"query":  Redact(query),
			"body":   map[string]interface{}{},
		}
		if body != nil {
			metadata["body"] = Redact(body)
		}

		actor := ActorFrom(c)
		entry := services.AuditEntry{
			UserID:     actor.UserID,
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID(c, body, decodeObject(writer.body.Bytes())),
			IPAddress:  actor.IPAddress,
			UserAgent:  actor.UserAgent,
			Platform:   actor.Platform,
			Metadata:   metadata,
		}
		traceID := c.GetString("trace_id")
		ctx := context.WithoutCancel(c.Request.Context())

		go func() {
			ctx, cancel := context.WithTimeout(ctx, auditTimeout)
			defer cancel()
			if err := recorder.Record(ctx, entry); err != nil {
				log.Error().Err(err).Str("action", action).Str("trace_id", traceID).Msg("audit log middleware")
			}
		}()
	}
}
