package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// HeaderIdempotencyKey cabecera opcional en los POST del libro de inventario.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	idempotencyLockTTL  = 30 * time.Second
	idempotencyKeepTTL  = 24 * time.Hour
	maxIdempotencyKey   = 200
	idempotencyPending  = "pending"
	idempotencyFinished = "done"
)

// IdempotencyStore almacén clave/valor con expiración (Redis en producción).
type IdempotencyStore interface {
	Key(scope, id string) string
	Get(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type idempotencyRecord struct {
	State       string `json:"state"`
	Hash        string `json:"hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency repite la respuesta guardada cuando llega la misma Idempotency-Key con el mismo cuerpo.
// Sin cabecera la petición pasa directo. Las respuestas 5xx no se guardan para permitir el reintento.
func Idempotency(store IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderIdempotencyKey)
		if id == "" {
			return c.Next()
		}
		if len(id) > maxIdempotencyKey {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga", Field: HeaderIdempotencyKey})
		}

		ctx := c.UserContext()
		key := store.Key(GetUserID(c), id)
		hash := requestFingerprint(c)

		pending, _ := json.Marshal(idempotencyRecord{State: idempotencyPending, Hash: hash})
		acquired, err := store.SetNX(ctx, key, string(pending), idempotencyLockTTL)
		if err != nil {
			log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("idempotency store no disponible")
			return storeUnavailable(c)
		}
		if !acquired {
			return replay(c, store, key, hash, log)
		}

		if err := c.Next(); err != nil {
			_ = store.Del(ctx, key)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			if err := store.Del(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
			return nil
		}
		done, _ := json.Marshal(idempotencyRecord{
			State:       idempotencyFinished,
			Hash:        hash,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		})
		if err := store.Set(ctx, key, string(done), idempotencyKeepTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, store IdempotencyStore, key, hash string, log *logger.Logger) error {
	raw, ok, err := store.Get(c.UserContext(), key)
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("idempotency store no disponible")
		return storeUnavailable(c)
	}
	var rec idempotencyRecord
	if !ok || json.Unmarshal([]byte(raw), &rec) != nil || rec.State == idempotencyPending {
		if ok && rec.Hash != "" && rec.Hash != hash {
			return keyReused(c)
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la petición con esta clave aún se está procesando"})
	}
	if rec.Hash != hash {
		return keyReused(c)
	}
	c.Set("Idempotent-Replayed", "true")
	if rec.ContentType != "" {
		c.Set(fiber.HeaderContentType, rec.ContentType)
	}
	return c.Status(rec.Status).Send(rec.Body)
}

func keyReused(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_KEY_REUSED", Message: "la clave ya se usó con otra petición"})
}

func storeUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se puede garantizar idempotencia, reintente"})
}

// requestFingerprint identifica método, ruta y cuerpo de la petición.
func requestFingerprint(c *fiber.Ctx) string {
	h := sha256.New()
	h.Write([]byte(c.Method()))
	h.Write([]byte{0})
	h.Write([]byte(c.Path()))
	h.Write([]byte{0})
	h.Write(c.Body())
	return hex.EncodeToString(h.Sum(nil))
}
